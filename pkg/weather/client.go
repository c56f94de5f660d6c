package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/inkfeed/inkfeed/internal/config"
	log "github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	clientTimeout  = 10 * time.Second
)

// Provider supplies current conditions and the raw forecast series.
type Provider interface {
	CurrentWeather(ctx context.Context) (Current, error)
	Forecast(ctx context.Context) ([]Sample, error)
}

// Client is the OpenWeatherMap API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	city       string
	units      string
}

func NewClient(cfg config.Weather) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: clientTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     cfg.ApiKey,
		city:       cfg.City,
		units:      cfg.Units,
	}
}

// currentResponse mirrors the fields of the /weather endpoint this feed uses.
type currentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Visibility int `json:"visibility"`
}

// forecastResponse mirrors the /forecast endpoint (3-hourly entries).
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

func (c *Client) CurrentWeather(ctx context.Context) (Current, error) {
	var response currentResponse
	if err := c.get(ctx, "/weather", &response); err != nil {
		return Current{}, err
	}
	if len(response.Weather) == 0 {
		return Current{}, fmt.Errorf("weather response for %s has no conditions block", c.city)
	}

	return Current{
		Temp:        int(response.Main.Temp),
		FeelsLike:   int(response.Main.FeelsLike),
		Humidity:    response.Main.Humidity,
		Wind:        int(response.Wind.Speed),
		Description: response.Weather[0].Description,
		Icon:        response.Weather[0].Icon,
		Condition:   response.Weather[0].Main,
		Pressure:    response.Main.Pressure,
		Visibility:  response.Visibility / 1000,
	}, nil
}

func (c *Client) Forecast(ctx context.Context) ([]Sample, error) {
	var response forecastResponse
	if err := c.get(ctx, "/forecast", &response); err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(response.List))
	for _, item := range response.List {
		sample := Sample{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			sample.Icon = item.Weather[0].Icon
			sample.Description = item.Weather[0].Description
		}
		samples = append(samples, sample)
	}
	log.Debugf("OpenWeatherMap returned %d forecast samples for %s", len(samples), c.city)
	return samples, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	query := url.Values{}
	query.Set("q", c.city)
	query.Set("appid", c.apiKey)
	query.Set("units", c.units)

	requestURL := c.baseURL + path + "?" + query.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("could not build weather request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API returned status %d for %s", response.StatusCode, path)
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode weather response: %w", err)
	}
	return nil
}

package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkfeed/inkfeed/internal/event_bus"
	"github.com/inkfeed/inkfeed/internal/utils"
	"github.com/inkfeed/inkfeed/pkg/iot"
	"github.com/inkfeed/inkfeed/pkg/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-11-14 is a Thursday.
var serviceNow = time.Date(2024, time.November, 14, 12, 0, 0, 0, time.UTC)

func setupServiceTest(provider *StubProvider) (*Service, *iot.StubPublisher, *event_bus.EventBus) {
	publisher := iot.NewStubPublisher()
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: serviceNow}
	service := NewService(
		provider,
		publisher,
		bus,
		locale.Finnish(),
		"Helsinki",
		[]time.Duration{0, 6 * time.Hour, 12 * time.Hour, 18 * time.Hour},
		time.UTC,
		"calendar/test-thing/weather",
		1900,
		clock,
	)
	return service, publisher, bus
}

func TestService_BuildPayload(t *testing.T) {
	provider := NewStubProvider()
	provider.Current = Current{Temp: 3, Description: "light snow", Icon: "13d", Condition: "Snow"}
	provider.Samples = []Sample{
		{Timestamp: serviceNow, Temperature: 3.2, Icon: "13d", Description: "light snow"},
		{Timestamp: serviceNow.Add(6 * time.Hour), Temperature: 1.4, Icon: "13n", Description: "snow"},
		{Timestamp: serviceNow.Add(12 * time.Hour), Temperature: -0.5, Icon: "01n", Description: "clear sky"},
		{Timestamp: serviceNow.Add(18 * time.Hour), Temperature: -1.9, Icon: "01d", Description: "clear sky"},
	}
	service, _, _ := setupServiceTest(provider)

	p, err := service.BuildPayload(context.Background())

	require.NoError(t, err)
	assert.Equal(t, provider.Current, p.Current)
	require.Len(t, p.Forecast, 4)
	assert.Equal(t, "Torstai 14 Marraskuu", p.Date)
	assert.Equal(t, "2024-11-14T12:00:00Z", p.Timestamp)
	assert.Equal(t, "openweathermap", p.Source)
	assert.Equal(t, "Helsinki", p.City)
	assert.False(t, p.Degraded)
	assert.Equal(t, 3, p.Forecast[0].Temperature)
	assert.Equal(t, 0, p.Forecast[2].Temperature)
}

func TestService_BuildPayload_ForecastFailureDegrades(t *testing.T) {
	provider := NewStubProvider()
	provider.Current = Current{Temp: 5}
	provider.ForecastErr = errors.New("upstream down")
	service, _, _ := setupServiceTest(provider)

	p, err := service.BuildPayload(context.Background())

	require.NoError(t, err)
	assert.True(t, p.Degraded)
	assert.Empty(t, p.Forecast)
	assert.Equal(t, 5, p.Current.Temp)
}

func TestService_BuildPayload_CurrentFailureIsFatal(t *testing.T) {
	provider := NewStubProvider()
	provider.CurrentErr = errors.New("unauthorized")
	service, _, _ := setupServiceTest(provider)

	_, err := service.BuildPayload(context.Background())
	assert.Error(t, err)
}

func TestService_PublishFeed(t *testing.T) {
	provider := NewStubProvider()
	provider.Current = Current{Temp: 5}
	provider.ForecastErr = errors.New("upstream down")
	service, publisher, bus := setupServiceTest(provider)

	var published []event_bus.FeedPublished
	unsubscribe := event_bus.SubscribeTyped[event_bus.FeedPublished](bus, event_bus.FeedPublishedType,
		func(e event_bus.EventT[event_bus.FeedPublished]) error {
			published = append(published, e.Data)
			return nil
		})
	defer unsubscribe()

	err := service.PublishFeed(context.Background())
	require.NoError(t, err)

	require.Len(t, publisher.Published, 1)
	assert.Equal(t, "calendar/test-thing/weather", publisher.Published[0].Topic)
	require.Len(t, publisher.Shadows, 1)
	assert.Equal(t, FeedName, publisher.Shadows[0].Key)

	require.Len(t, published, 1)
	assert.Equal(t, FeedName, published[0].Feed)
	assert.True(t, published[0].Degraded)
	assert.Equal(t, 0, published[0].ItemCount)
}

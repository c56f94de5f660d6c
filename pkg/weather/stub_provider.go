package weather

import "context"

// StubProvider returns canned weather data for tests.
type StubProvider struct {
	Current     Current
	CurrentErr  error
	Samples     []Sample
	ForecastErr error
}

func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (s *StubProvider) CurrentWeather(_ context.Context) (Current, error) {
	if s.CurrentErr != nil {
		return Current{}, s.CurrentErr
	}
	return s.Current, nil
}

func (s *StubProvider) Forecast(_ context.Context) ([]Sample, error) {
	if s.ForecastErr != nil {
		return nil, s.ForecastErr
	}
	return s.Samples, nil
}

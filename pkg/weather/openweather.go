package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// OpenWeatherFetcher reads current conditions plus a short precipitation
// outlook from the OpenWeatherMap one-call endpoint. A circuit breaker
// shields the upstream API when it keeps failing.
type OpenWeatherFetcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func NewOpenWeatherFetcher(cfg OpenWeatherConfig) *OpenWeatherFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org/data/2.5/onecall"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &OpenWeatherFetcher{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		circuit: cb,
	}
}

func (f *OpenWeatherFetcher) Name() string { return "openweather" }

func (f *OpenWeatherFetcher) Fetch(ctx context.Context, lat, lon float64) (Snapshot, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("exclude", "daily,alerts")
	values.Set("units", "metric")
	values.Set("appid", f.apiKey)
	endpoint := f.baseURL + "?" + values.Encode()

	result, err := f.circuit.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("openweather status %d", resp.StatusCode)
		}

		var payload struct {
			Current struct {
				Humidity *float64 `json:"humidity"`
				Temp     *float64 `json:"temp"`
				Rain     struct {
					OneHour *float64 `json:"1h"`
				} `json:"rain"`
			} `json:"current"`
			Minutely []struct {
				Precipitation float64 `json:"precipitation"`
			} `json:"minutely"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("openweather decode: %w", err)
		}

		snap := Snapshot{
			Humidity:       payload.Current.Humidity,
			TempC:          payload.Current.Temp,
			RainLastHourMM: payload.Current.Rain.OneHour,
		}
		if len(payload.Minutely) > 0 {
			limit := len(payload.Minutely)
			if limit > 60 {
				limit = 60
			}
			total := 0.0
			for _, p := range payload.Minutely[:limit] {
				total += p.Precipitation
			}
			snap.RainNextHourMM = &total
		}
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	snap, ok := result.(Snapshot)
	if !ok {
		return Snapshot{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return snap, nil
}

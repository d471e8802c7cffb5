// Package weather fetches current conditions and the daily forecast from the
// Open-Meteo API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.open-meteo.com"

	forecastDays = 7
	cacheTTL     = 10 * time.Minute
)

type Current struct {
	Temperature int
	Humidity    int
	Code        int
	Description string
}

type Day struct {
	Date        time.Time
	High        int
	Low         int
	Code        int
	Description string
}

type Client struct {
	baseURL   string
	latitude  float64
	longitude float64

	client  *http.Client
	limiter *rate.Limiter
	clock   Clock

	// mu guards the forecast cache; Forecast runs from concurrent goroutines.
	mu             sync.Mutex
	cachedForecast []Day
	forecastAt     time.Time
}

func NewClient(latitude, longitude float64) *Client {
	return &Client{
		baseURL:   DefaultBaseURL,
		latitude:  latitude,
		longitude: longitude,
		client:    &http.Client{Timeout: 10 * time.Second},
		// Open-Meteo is free; stay well under its courtesy limits.
		limiter: rate.NewLimiter(rate.Every(30*time.Second), 2),
		clock:   SystemClock{},
	}
}

// NewClientWith overrides the endpoint, http client, and clock for tests.
func NewClientWith(baseURL string, httpClient *http.Client, clock Clock, latitude, longitude float64) *Client {
	return &Client{
		baseURL:   baseURL,
		latitude:  latitude,
		longitude: longitude,
		client:    httpClient,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		clock:     clock,
	}
}

type currentResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

type forecastResponse struct {
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Fetch returns the current conditions.
func (c *Client) Fetch(ctx context.Context) (*Current, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%f&longitude=%f&current=temperature_2m,weather_code,relative_humidity_2m&temperature_unit=fahrenheit",
		c.baseURL, c.latitude, c.longitude,
	)

	var resp currentResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}

	return &Current{
		Temperature: int(math.Round(resp.Current.Temperature)),
		Humidity:    int(resp.Current.Humidity),
		Code:        resp.Current.WeatherCode,
		Description: Describe(resp.Current.WeatherCode),
	}, nil
}

// Forecast returns the next seven days, served from cache while the previous
// fetch is still fresh.
func (c *Client) Forecast(ctx context.Context) ([]Day, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.cachedForecast != nil && now.Sub(c.forecastAt) < cacheTTL {
		return c.cachedForecast, nil
	}

	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%f&longitude=%f&daily=weather_code,temperature_2m_max,temperature_2m_min&temperature_unit=fahrenheit&timezone=auto",
		c.baseURL, c.latitude, c.longitude,
	)

	var resp forecastResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}

	n := min(forecastDays, len(resp.Daily.Time))
	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", resp.Daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse forecast date %q: %w", resp.Daily.Time[i], err)
		}
		days = append(days, Day{
			Date:        date,
			High:        int(math.Round(resp.Daily.TempMax[i])),
			Low:         int(math.Round(resp.Daily.TempMin[i])),
			Code:        resp.Daily.WeatherCode[i],
			Description: Describe(resp.Daily.WeatherCode[i]),
		})
	}

	c.cachedForecast = days
	c.forecastAt = now

	return days, nil
}

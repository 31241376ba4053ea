package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/irrigation-predictor/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and endpoint used by a provider.
type HTTPClientConfig struct {
	Client  *http.Client
	BaseURL string
	Now     func() time.Time
}

// Option customises a provider at construction time.
type Option func(*HTTPClientConfig)

// WithBaseURL points the provider at a different endpoint (e.g. a test server).
func WithBaseURL(u string) Option {
	return func(c *HTTPClientConfig) {
		c.BaseURL = u
	}
}

// WithClock overrides the clock used to align hourly forecast windows.
func WithClock(now func() time.Time) Option {
	return func(c *HTTPClientConfig) {
		c.Now = now
	}
}

var (
	ErrCircuitOpen = errors.New("circuit breaker open")

	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errNoHTTPClient  = errors.New("http client not configured")
	errMissingAPIKey = errors.New("api key is not configured")
	errMissingField  = errors.New("missing field in forecast payload")
)

func newHTTPConfig(client *http.Client, baseURL string, opts []Option) HTTPClientConfig {
	cfg := HTTPClientConfig{
		Client:  client,
		BaseURL: baseURL,
		Now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequest executes a single HTTP attempt through the circuit breaker.
// Forecast fetches are never retried: the caller degrades to "no rain" instead.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			default:
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// New builds the provider registered under name.
func New(name string, client *http.Client, openWeatherKey, weatherAPIKey string, opts ...Option) (weather.Provider, error) {
	switch name {
	case "", "openweather":
		return NewOpenWeatherProvider(client, openWeatherKey, opts...), nil
	case "openmeteo":
		return NewOpenMeteoProvider(client, opts...), nil
	case "weatherapi":
		return NewWeatherAPIProvider(client, weatherAPIKey, opts...), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}

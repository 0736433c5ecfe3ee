package eod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"FinSeason/internal/domain/models"
	"FinSeason/internal/domain/repository"
	xhttp "FinSeason/pkg/http"
	"FinSeason/pkg/logger"
	"FinSeason/pkg/util"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5
)

// Client fetches daily/hourly bars and dividends from an EOD-style HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger

	timeout        time.Duration
	breakerFails   uint32
	breakerTimeout time.Duration
}

var (
	_ repository.PriceHistoryProvider = (*Client)(nil)
	_ repository.DividendProvider     = (*Client)(nil)
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *xhttp.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets requests per second and burst.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithBreaker sets consecutive failures before tripping and the open-state timeout.
func WithBreaker(failures uint32, timeout time.Duration) ClientOption {
	return func(c *Client) {
		if failures > 0 {
			c.breakerFails = failures
		}
		if timeout > 0 {
			c.breakerTimeout = timeout
		}
	}
}

// WithLogger sets a logger.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a new API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		apiKey:         apiKey,
		limiter:        rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:            logger.Nop(),
		timeout:        DefaultTimeout,
		breakerFails:   5,
		breakerTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "eod",
		Interval: time.Minute,
		Timeout:  c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerFails
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return c
}

// isBreakerSuccess keeps client-side errors (bad symbol, cancelled request)
// from tripping the breaker.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return !se.Temporary()
	}
	return false
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("eod rate limit wait: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	c.log.Debug("eod request", logger.String("endpoint", path))

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + path,
			QueryParams: params,
		}, result)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrBreakerOpen, path)
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return &APIError{StatusCode: se.StatusCode, Endpoint: path, Message: se.Body}
	}
	return fmt.Errorf("eod %s: %w", path, err)
}

// GetBars returns ascending bars for [from, to].
func (c *Client) GetBars(ctx context.Context, symbol string, from, to time.Time, tf models.Timeframe) ([]models.PriceBar, error) {
	ticker := exchangeSymbol(symbol)
	switch tf {
	case models.TFDaily:
		return c.daily(ctx, ticker, from, to)
	case models.TFHourly:
		return c.hourly(ctx, ticker, from, to)
	default:
		return nil, fmt.Errorf("eod: unsupported timeframe %q", tf)
	}
}

func (c *Client) daily(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("from", util.FormatISODate(from))
	params.Set("to", util.FormatISODate(to))
	params.Set("period", "d")
	params.Set("order", "a")

	var rows []eodRow
	if err := c.get(ctx, "/eod/"+ticker, params, &rows); err != nil {
		return nil, err
	}

	bars := make([]models.PriceBar, 0, len(rows))
	for _, r := range rows {
		d, err := util.ParseISODate(r.Date)
		if err != nil {
			continue
		}
		bar := models.PriceBar{Timestamp: d, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume}
		// Use split/dividend adjusted closes and scale the rest of the bar.
		if r.AdjustedClose > 0 && r.Close > 0 && r.AdjustedClose != r.Close {
			k := r.AdjustedClose / r.Close
			bar.Open *= k
			bar.High *= k
			bar.Low *= k
			bar.Close = r.AdjustedClose
		}
		bars = append(bars, bar)
	}
	sortBars(bars)
	return bars, nil
}

func (c *Client) hourly(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("interval", "1h")
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))

	var rows []intradayRow
	if err := c.get(ctx, "/intraday/"+ticker, params, &rows); err != nil {
		return nil, err
	}

	bars := make([]models.PriceBar, 0, len(rows))
	for _, r := range rows {
		if r.Close == nil {
			continue
		}
		bars = append(bars, models.PriceBar{
			Timestamp: time.Unix(r.Timestamp, 0).UTC(),
			Open:      deref(r.Open, *r.Close),
			High:      deref(r.High, *r.Close),
			Low:       deref(r.Low, *r.Close),
			Close:     *r.Close,
			Volume:    deref(r.Volume, 0),
		})
	}
	sortBars(bars)
	return bars, nil
}

// GetExDividendDates returns ascending ex-dividend dates.
func (c *Client) GetExDividendDates(ctx context.Context, symbol string) ([]time.Time, error) {
	var rows []dividendRow
	if err := c.get(ctx, "/div/"+exchangeSymbol(symbol), nil, &rows); err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		if d, err := util.ParseISODate(r.Date); err == nil {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// exchangeSymbol maps SPY to SPY.US; already-qualified tickers pass through.
func exchangeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".US"
}

func sortBars(bars []models.PriceBar) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
}

func deref(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

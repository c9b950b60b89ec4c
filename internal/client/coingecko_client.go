package client

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"wallet_core/internal/domain/entity"
	"wallet_core/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CoinGeckoClient defines the interface for interacting with the CoinGecko API.
type CoinGeckoClient interface {
	GetSimplePrices(ctx context.Context, lookupKeys []string) (entity.PriceSnapshot, error)
	GetMarketChart(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error)
}

// coinGeckoClientImpl is the implementation of CoinGeckoClient.
type coinGeckoClientImpl struct {
	client     *fasthttp.Client
	baseURL    string
	apiKey     string
	vsCurrency string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// simplePriceEntry mirrors one value of the simple/price response mapping.
type simplePriceEntry struct {
	USD          float64  `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
}

// marketChartResponse mirrors the market_chart response.
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// NewCoinGeckoClient creates a new instance of coinGeckoClientImpl.
// requestsPerSecond throttles outgoing calls to stay under the public API
// rate limit shared by the poller and chart fetches.
func NewCoinGeckoClient(baseURL, apiKey, vsCurrency string, timeout time.Duration, requestsPerSecond float64, logger *zap.Logger) CoinGeckoClient {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 0.5
	}
	return &coinGeckoClientImpl{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		vsCurrency: vsCurrency,
		timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:     logger.Named("CoinGeckoClient"),
		now:        time.Now,
	}
}

// GetSimplePrices implements the CoinGeckoClient interface. All lookup keys
// go out in a single comma-joined batch request.
func (c *coinGeckoClientImpl) GetSimplePrices(ctx context.Context, lookupKeys []string) (entity.PriceSnapshot, error) {
	if len(lookupKeys) == 0 {
		return nil, fmt.Errorf("lookupKeys cannot be empty")
	}

	ids := strings.Join(lookupKeys, ",")
	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s&include_24hr_change=true",
		c.baseURL, url.QueryEscape(ids), c.vsCurrency)

	rawBody, err := c.doGet(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var payload map[string]simplePriceEntry
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		c.logger.Error("Failed to unmarshal simple price response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal simple price response: %w", err)
	}

	fetchedAt := c.now()
	snapshot := make(entity.PriceSnapshot, len(payload))
	for key, entry := range payload {
		quote := entity.PriceQuote{
			PriceUSD:  entry.USD,
			FetchedAt: fetchedAt,
		}
		if entry.USD24hChange != nil {
			quote.Change24hPct = *entry.USD24hChange
		}
		snapshot[key] = quote
	}

	c.logger.Debug("Fetched simple prices",
		zap.Int("requested", len(lookupKeys)),
		zap.Int("returned", len(snapshot)))
	return snapshot, nil
}

// GetMarketChart implements the CoinGeckoClient interface.
func (c *coinGeckoClientImpl) GetMarketChart(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error) {
	if lookupKey == "" {
		return entity.ChartSeries{}, fmt.Errorf("lookupKey cannot be empty")
	}
	days, err := window.Days()
	if err != nil {
		return entity.ChartSeries{}, err
	}

	requestURL := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=%s&days=%s",
		c.baseURL, url.PathEscape(lookupKey), c.vsCurrency, days)

	rawBody, err := c.doGet(ctx, requestURL)
	if err != nil {
		return entity.ChartSeries{}, err
	}

	var payload marketChartResponse
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		c.logger.Error("Failed to unmarshal market chart response",
			zap.String("url", requestURL),
			zap.Error(err))
		return entity.ChartSeries{}, fmt.Errorf("failed to unmarshal market chart response: %w", err)
	}

	series := entity.ChartSeries{
		LookupKey: lookupKey,
		Window:    window,
		Points:    make([]entity.ChartPoint, 0, len(payload.Prices)),
	}
	for _, pair := range payload.Prices {
		series.Points = append(series.Points, entity.ChartPoint{
			Timestamp: time.UnixMilli(int64(pair[0])),
			PriceUSD:  pair[1],
		})
	}
	// The API documents ordered output; sorting keeps the first/last change
	// computation correct even if it is not.
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Timestamp.Before(series.Points[j].Timestamp)
	})

	c.logger.Debug("Fetched market chart",
		zap.String("lookupKey", lookupKey),
		zap.String("window", string(window)),
		zap.Int("points", len(series.Points)))
	return series, nil
}

func (c *coinGeckoClientImpl) doGet(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	if deadline, ok := ctx.Deadline(); ok {
		err := c.client.DoDeadline(req, resp, deadline)
		if err != nil {
			metrics.MarketDataRequestErrors.Inc()
			c.logger.Error("Failed to execute request to CoinGecko", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		err := c.client.DoTimeout(req, resp, c.timeout)
		if err != nil {
			metrics.MarketDataRequestErrors.Inc()
			c.logger.Error("Failed to execute request to CoinGecko (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}
	metrics.MarketDataRequestDuration.Observe(time.Since(start).Seconds())

	body := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.MarketDataRequestErrors.Inc()
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", body))
		return nil, fmt.Errorf("CoinGecko API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	// fasthttp reuses response buffers after release.
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

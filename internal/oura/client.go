package oura

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/daryadaneshmand/Oura-data/internal/metrics"
	"github.com/daryadaneshmand/Oura-data/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// v2 usercollection endpoints
const (
	EndpointResilience = "daily_resilience"
	EndpointReadiness  = "daily_readiness"
	EndpointActivity   = "daily_activity"
	EndpointSleep      = "sleep"
	EndpointWorkout    = "workout"
)

const pageCacheExpireSeconds = 15 * 60

type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	pageCache      *freecache.Cache
	metricsManager *metrics.Manager
}

type NewClientParams struct {
	BaseURL string
	Token   string
	// HTTPClient is injected so tests can stub the API
	HTTPClient *http.Client
	// CacheSizeMegabytes <= 0 disables the page cache
	CacheSizeMegabytes int
	MetricsManager     *metrics.Manager
}

func NewClient(params NewClientParams) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	var pageCache *freecache.Cache
	if params.CacheSizeMegabytes > 0 {
		pageCache = freecache.NewCache(params.CacheSizeMegabytes * 1024 * 1024)
	}

	return &Client{
		baseURL:        params.BaseURL,
		token:          params.Token,
		httpClient:     httpClient,
		pageCache:      pageCache,
		metricsManager: params.MetricsManager,
	}
}

// ValidateToken calls personal_info (no date params) and fails with
// AuthError if the token is missing, invalid or expired.
func (c *Client) ValidateToken(ctx context.Context) (_ *PersonalInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "oura.client.validateToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if c.token == "" {
		return nil, &AuthError{Reason: "access token not set, run the gettoken command first"}
	}

	respBytes, err := c.get(ctx, c.baseURL+"/personal_info", "personal_info")
	if err != nil {
		return nil, err
	}

	info := &PersonalInfo{}
	if err = json.Unmarshal(respBytes, info); err != nil {
		return nil, fmt.Errorf("unmarshal personal info: %w", err)
	}

	log.Debugf("oura token valid, account: %s", info.Email)
	return info, nil
}

// fetchAll walks an endpoint's next_token pagination and returns every
// raw record in response order. Any failed page fails the whole
// collection.
func (c *Client) fetchAll(ctx context.Context, endpoint string, rng DateRange) (_ []json.RawMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "oura.client.fetchAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("endpoint", endpoint))

	if c.token == "" {
		return nil, &AuthError{Reason: "access token not set, run the gettoken command first"}
	}

	var allData []json.RawMessage
	nextToken := ""
	pages := 0
	for {
		params := url.Values{}
		params.Set("start_date", rng.Start)
		params.Set("end_date", rng.End)
		if nextToken != "" {
			params.Set("next_token", nextToken)
		}

		pageBytes, err := c.getPage(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		pages++

		var page struct {
			Data      []json.RawMessage `json:"data"`
			NextToken string            `json:"next_token"`
		}
		if err := json.Unmarshal(pageBytes, &page); err != nil {
			return nil, fmt.Errorf("unmarshal %s page: %w", endpoint, err)
		}

		allData = append(allData, page.Data...)
		if page.NextToken == "" {
			break
		}
		nextToken = page.NextToken
	}

	span.SetAttributes(attribute.Int("pages", pages), attribute.Int("records", len(allData)))
	log.Debugf("fetched %s: %d records over %d page(s)", endpoint, len(allData), pages)
	return allData, nil
}

func (c *Client) getPage(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	cacheKey := []byte(fmt.Sprintf("%s::%s", endpoint, params.Encode()))
	if c.pageCache != nil {
		if cached, err := c.pageCache.Get(cacheKey); err == nil {
			log.Tracef("found %s page in cache", endpoint)
			return cached, nil
		}
	}

	pageBytes, err := c.get(ctx, fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode()), endpoint)
	if err != nil {
		return nil, err
	}

	if c.metricsManager != nil {
		c.metricsManager.CounterOuraPages.With(prometheus.Labels{"endpoint": endpoint}).Inc()
	}

	if c.pageCache != nil {
		if err := c.pageCache.Set(cacheKey, pageBytes, pageCacheExpireSeconds); err != nil {
			log.Errorf("failed to cache %s page: %s", endpoint, err)
		}
	}

	return pageBytes, nil
}

func (c *Client) get(ctx context.Context, fullURL, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{
			Reason: fmt.Sprintf("token rejected (%d): %s", resp.StatusCode, respBytes),
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBytes),
		}
	}

	return respBytes, nil
}

func (c *Client) DailyResilience(ctx context.Context, rng DateRange) ([]ResilienceRecord, error) {
	raw, err := c.fetchAll(ctx, EndpointResilience, rng)
	if err != nil {
		return nil, err
	}
	return decodeRecords[ResilienceRecord](EndpointResilience, raw), nil
}

func (c *Client) DailyReadiness(ctx context.Context, rng DateRange) ([]ReadinessRecord, error) {
	raw, err := c.fetchAll(ctx, EndpointReadiness, rng)
	if err != nil {
		return nil, err
	}
	return decodeRecords[ReadinessRecord](EndpointReadiness, raw), nil
}

func (c *Client) DailyActivity(ctx context.Context, rng DateRange) ([]ActivityRecord, error) {
	raw, err := c.fetchAll(ctx, EndpointActivity, rng)
	if err != nil {
		return nil, err
	}
	return decodeRecords[ActivityRecord](EndpointActivity, raw), nil
}

func (c *Client) Sleep(ctx context.Context, rng DateRange) ([]SleepRecord, error) {
	raw, err := c.fetchAll(ctx, EndpointSleep, rng)
	if err != nil {
		return nil, err
	}
	return decodeRecords[SleepRecord](EndpointSleep, raw), nil
}

func (c *Client) Workouts(ctx context.Context, rng DateRange) ([]WorkoutRecord, error) {
	raw, err := c.fetchAll(ctx, EndpointWorkout, rng)
	if err != nil {
		return nil, err
	}
	return decodeRecords[WorkoutRecord](EndpointWorkout, raw), nil
}

// decodeRecords drops records that do not even parse as the expected
// shape. Partial and irrelevant rows are expected from a third party
// API and are not an error.
func decodeRecords[T any](endpoint string, raw []json.RawMessage) []T {
	records := make([]T, 0, len(raw))
	for _, r := range raw {
		var rec T
		if err := json.Unmarshal(r, &rec); err != nil {
			log.Tracef("skipping malformed %s record: %s", endpoint, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

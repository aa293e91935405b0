// Package rates fetches the EUR based exchange rates used to display amounts
// in the English locale.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"fire-server/src/db"
	"fire-server/src/metrics"
	"fire-server/src/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultURL      = "https://api.exchangerate-api.com/v4/latest/EUR"
	DefaultTTL      = 24 * time.Hour
	DefaultFallback = 1.1
	cacheKey        = "EUR"
	fetchTimeout    = 10 * time.Second
)

// Provider looks rates up once per TTL and never fails: when the API is
// unreachable the fallback rate is returned.
type Provider struct {
	client   *http.Client
	url      string
	ttl      time.Duration
	fallback float64
	cache    *db.Cache
	group    singleflight.Group
	now      func() time.Time
}

func NewProvider(client *http.Client, url string, ttl time.Duration, fallback float64, cache *db.Cache) *Provider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if url == "" {
		url = DefaultURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if fallback <= 0 {
		fallback = DefaultFallback
	}
	return &Provider{client: client, url: url, ttl: ttl, fallback: fallback, cache: cache, now: time.Now}
}

type apiResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (p *Provider) Fetch(ctx context.Context) models.Rates {
	if p.cache != nil {
		if v, ok := p.cache.Get(db.RatesKind, cacheKey); ok {
			if r, ok := v.(models.Rates); ok {
				r.Source = models.RateSourceCache
				metrics.RateFetches.WithLabelValues(string(models.RateSourceCache)).Inc()
				return r
			}
		}
	}

	v, _, _ := p.group.Do(cacheKey, func() (interface{}, error) {
		// Shared by every waiting caller, so the first caller's
		// cancellation must not end it.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		usd, err := p.fetchUSD(fetchCtx)
		if err != nil {
			log.Warn().Err(err).Str("url", p.url).Float64("fallback", p.fallback).Msg("exchange rate fetch failed")
			return models.Rates{EUR: 1, USD: p.fallback, Source: models.RateSourceFallback, FetchedAt: p.now()}, nil
		}
		r := models.Rates{EUR: 1, USD: usd, Source: models.RateSourceAPI, FetchedAt: p.now()}
		if p.cache != nil {
			p.cache.Set(db.RatesKind, cacheKey, r, p.ttl)
		}
		return r, nil
	})
	r := v.(models.Rates)
	metrics.RateFetches.WithLabelValues(string(r.Source)).Inc()
	return r
}

func (p *Provider) fetchUSD(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode rates: %w", err)
	}
	usd, ok := body.Rates["USD"]
	if !ok || usd <= 0 || math.IsInf(usd, 0) || math.IsNaN(usd) {
		return 0, errors.New("response has no usable USD rate")
	}
	return usd, nil
}

// Invalidate drops the cached rates so the next Fetch asks the API.
func (p *Provider) Invalidate() {
	if p.cache != nil {
		p.cache.Clear(db.RatesKind)
	}
}

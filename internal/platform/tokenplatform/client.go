package tokenplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bitforce/ambassador/internal/platform/cache"
	cfgpkg "github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/logctx"
)

var ErrUpstream = fmt.Errorf("%w: token platform", errs.ErrUpstream)

// Client reads purchased BFT balances from the Token Platform.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.SugaredLogger
}

type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	Cache     cache.Cache
	CacheTTL  time.Duration
}

func New(opts Options, log *zap.SugaredLogger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		http:     &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(limit, opts.Burst),
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		log:      log,
	}
}

// NewClient builds the client from config. It returns nil when no base URL
// is configured.
func NewClient(cfg *cfgpkg.Config, c cache.Cache, log *zap.SugaredLogger) *Client {
	tp := cfg.TokenPlatform
	if tp.BaseURL == "" {
		return nil
	}
	return New(Options{
		BaseURL:   tp.BaseURL,
		APIKey:    tp.APIKey,
		Timeout:   tp.Timeout,
		RateLimit: tp.RateLimit,
		Burst:     tp.Burst,
		Cache:     c,
		CacheTTL:  cfg.Redis.CacheTTL,
	}, log)
}

type balanceResponse struct {
	PurchasedBalance json.Number `json:"purchased_balance"`
}

// UnmarshalJSON accepts purchased_balance as a JSON string or number.
func (b *balanceResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		PurchasedBalance json.RawMessage `json:"purchased_balance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := strings.Trim(strings.TrimSpace(string(raw.PurchasedBalance)), `"`)
	if v == "" || v == "null" {
		v = "0"
	}
	b.PurchasedBalance = json.Number(v)
	return nil
}

func cacheKey(email string) string { return "tp:balance:" + email }

// PurchasedBalance returns the balance bought on the Token Platform for email.
func (c *Client) PurchasedBalance(ctx context.Context, email string) (decimal.Decimal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	lg := logctx.FromCtx(ctx, c.log)
	if c.cache != nil {
		if v, ok, err := c.cache.Get(ctx, cacheKey(email)); err != nil {
			lg.Warnw("token_platform_cache_get_failed", "err", err)
		} else if ok {
			if d, err := decimal.NewFromString(v); err == nil {
				return d, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("%w: rate limit: %v", ErrUpstream, err)
	}
	u := c.baseURL + "/v1/balances?" + url.Values{"email": {email}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, nil
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	var out balanceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	d, err := decimal.NewFromString(out.PurchasedBalance.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad purchased_balance %q", ErrUpstream, out.PurchasedBalance)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey(email), d.String(), c.cacheTTL); err != nil {
			lg.Warnw("token_platform_cache_set_failed", "err", err)
		}
	}
	return d, nil
}

var Module = fx.Options(
	fx.Provide(NewClient),
)

package names

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	drepo "FundCorr/internal/domain/repository"
	"FundCorr/pkg/cache"
	xhttp "FundCorr/pkg/http"
	applogger "FundCorr/pkg/logger"
)

const defaultFundBaseURL = "https://www.okanebox.com.br/fundo"

// Resolver looks up fund display names by scraping the fund page. Best
// effort only: every failure path yields a generated fallback label and
// the pipeline never stops for a missing name.
type Resolver struct {
	fundBaseURL string
	userAgent   string
	ttl         time.Duration
	cache       cache.Service
	client      *xhttp.Client
	logger      *applogger.Logger
}

// Option configures Resolver.
type Option func(*Resolver)

// New creates a name resolver with an injected cache. The cache bounds
// the lookup's lifetime explicitly; there is no ambient global state.
func New(c cache.Service, l *applogger.Logger, opts ...Option) drepo.NameResolver {
	r := &Resolver{
		fundBaseURL: defaultFundBaseURL,
		ttl:         time.Hour,
		cache:       c,
		client:      xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		logger:      l,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithFundBaseURL sets the fund page base URL.
func WithFundBaseURL(u string) Option {
	return func(r *Resolver) { r.fundBaseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the scrape identity header.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) { r.userAgent = ua }
}

// WithTTL sets how long resolved names stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.ttl = ttl }
}

// DisplayName resolves the fund's display name for a normalized CNPJ.
func (r *Resolver) DisplayName(ctx context.Context, cnpj string) string {
	key := "fund:name:" + cnpj

	var cached string
	if err := r.cache.Get(ctx, key, &cached); err == nil && cached != "" {
		return cached
	}

	name, err := r.scrape(ctx, cnpj)
	if err != nil || name == "" {
		if r.logger != nil {
			r.logger.Debug("name lookup failed, using fallback",
				applogger.String("cnpj", cnpj),
				applogger.Error(err),
			)
		}
		return FallbackName(cnpj)
	}

	_ = r.cache.Set(ctx, key, name, r.ttl)
	return name
}

func (r *Resolver) scrape(ctx context.Context, cnpj string) (string, error) {
	resp, err := r.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s", r.fundBaseURL, cnpj),
		Headers: map[string]string{
			"User-Agent": r.userAgent,
		},
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		return "", fmt.Errorf("no h1 heading")
	}
	return name, nil
}

// FallbackName generates a stable label from the identifier's tail.
func FallbackName(cnpj string) string {
	suffix := cnpj
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "Fundo_" + suffix
}

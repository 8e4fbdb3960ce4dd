package okanebox

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"FundCorr/internal/domain/models"
	drepo "FundCorr/internal/domain/repository"
	xhttp "FundCorr/pkg/http"
)

const (
	defaultAPIBaseURL = "https://www.okanebox.com.br/api/fundoinvestimento/hist"
	defaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0 Safari/537.36"
	defaultStartDate  = "19000101"
	defaultEndDate    = "21000101"
)

// Client fetches quota histories from the okanebox API. It implements a
// QuotaSource backed by the shared HTTP client.
type Client struct {
	apiBaseURL string
	userAgent  string
	startDate  string
	endDate    string
	client     *xhttp.Client
}

// Option configures Client.
type Option func(*Client)

// New creates a new quota history client.
func New(opts ...Option) drepo.QuotaSource {
	c := &Client{
		apiBaseURL: defaultAPIBaseURL,
		userAgent:  defaultUserAgent,
		startDate:  defaultStartDate,
		endDate:    defaultEndDate,
		client:     xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithAPIBaseURL sets the history endpoint base URL.
func WithAPIBaseURL(u string) Option {
	return func(c *Client) { c.apiBaseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the client identity header. The remote service
// rejects unidentified clients.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithDateRange sets the fixed wide date bounds of the history request.
func WithDateRange(start, end string) Option {
	return func(c *Client) {
		c.startDate = start
		c.endDate = end
	}
}

// WithTimeout bounds the wait for one request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.client = xhttp.NewClient(xhttp.WithTimeout(timeout)) }
}

// FetchHistory retrieves the full quota history for one normalized CNPJ.
// Failures come back as *models.CollectError classified by kind; none of
// them abort a batch, that is the orchestrator's call.
func (c *Client) FetchHistory(ctx context.Context, cnpj string) ([]models.QuotaRecord, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/", c.apiBaseURL, cnpj, c.startDate, c.endDate)

	resp, err := c.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
		Headers: map[string]string{
			// Setting Accept-Encoding ourselves disables the transport's
			// transparent gunzip, so the body may arrive compressed.
			"Accept-Encoding": "gzip, deflate",
			"User-Agent":      c.userAgent,
		},
	})
	if err != nil {
		return nil, models.WrapCollectError(models.ErrKindTransport, cnpj, err, "history request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewCollectError(models.ErrKindStatus, cnpj, "status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.WrapCollectError(models.ErrKindTransport, cnpj, err, "read body")
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, models.WrapCollectError(models.ErrKindDecode, cnpj, err, "payload is neither plain nor gzip JSON")
	}
	return records, nil
}

// decodeRecords tries the payload as plain UTF-8 JSON first, then as a
// gzip stream. First success wins.
func decodeRecords(raw []byte) ([]models.QuotaRecord, error) {
	records, plainErr := parseRecords(raw)
	if plainErr == nil {
		return records, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("plain: %v; gzip: %w", plainErr, err)
	}
	defer zr.Close()

	text, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("plain: %v; gunzip: %w", plainErr, err)
	}

	records, err = parseRecords(text)
	if err != nil {
		return nil, fmt.Errorf("plain: %v; gunzipped: %w", plainErr, err)
	}
	return records, nil
}

func parseRecords(b []byte) ([]models.QuotaRecord, error) {
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("not valid UTF-8")
	}
	var records []models.QuotaRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, err
	}
	return records, nil
}

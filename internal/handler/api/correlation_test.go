package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundCorr/internal/domain/models"
	"FundCorr/internal/middleware"
	"FundCorr/internal/usecase"
	"FundCorr/pkg/logger"
)

const (
	cnpjA = "13823084000105"
	cnpjB = "09636393000107"
)

type fakeSource struct {
	records map[string][]models.QuotaRecord
}

func (f *fakeSource) FetchHistory(ctx context.Context, cnpj string) ([]models.QuotaRecord, error) {
	records, ok := f.records[cnpj]
	if !ok {
		return nil, models.NewCollectError(models.ErrKindStatus, cnpj, "unexpected status 404")
	}
	return records, nil
}

type fakeNames struct{}

func (fakeNames) DisplayName(ctx context.Context, cnpj string) string {
	return "Fundo_" + cnpj[len(cnpj)-6:]
}

type noPace struct{}

func (noPace) Wait(ctx context.Context, key string) error { return nil }

func history(quotas ...float64) []models.QuotaRecord {
	records := make([]models.QuotaRecord, len(quotas))
	for i, q := range quotas {
		date := "2024-01-0" + string(rune('1'+i))
		value := decimal.NewFromFloat(q)
		records[i] = models.QuotaRecord{Date: &date, Quota: &value}
	}
	return records
}

func newTestHandler(t *testing.T, source *fakeSource) (*Handler, *echo.Echo) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	hub := middleware.NewProgressHub()
	collector := usecase.NewFundCollector(source, fakeNames{}, noPace{}, usecase.WithProgress(hub))
	uc := usecase.NewCorrelationUseCase(collector)
	h := NewHandler(uc, hub, log, WithMaxFunds(3))

	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCorrelationEndpoint(t *testing.T) {
	source := &fakeSource{records: map[string][]models.QuotaRecord{
		cnpjA: history(100, 101, 102, 103),
		cnpjB: history(50, 49, 51, 50),
	}}
	_, e := newTestHandler(t, source)

	body := `{"identifiers": "13.823.084/0001-05; 09636393000107"}`
	rec := doJSON(e, http.MethodPost, "/api/correlation", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status int                        `json:"status"`
		Data   models.CorrelationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.Status)
	assert.NotEmpty(t, envelope.Data.RunID)
	assert.Empty(t, envelope.Data.Errors)
	require.NotNil(t, envelope.Data.Matrix)
	assert.Len(t, envelope.Data.Matrix.Rows, 2)
	assert.InDelta(t, 1.0, envelope.Data.Matrix.Rows[0][0], 1e-12)
}

func TestCorrelationListAndTextMerge(t *testing.T) {
	source := &fakeSource{records: map[string][]models.QuotaRecord{
		cnpjA: history(100, 101, 102),
		cnpjB: history(50, 49, 51),
	}}
	_, e := newTestHandler(t, source)

	body := `{"identifiers": "13823084000105", "list": ["09636393000107"]}`
	rec := doJSON(e, http.MethodPost, "/api/correlation", body)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCorrelationInsufficientData(t *testing.T) {
	source := &fakeSource{records: map[string][]models.QuotaRecord{
		cnpjA: history(100, 101, 102),
		// cnpjB missing: remote 404
	}}
	_, e := newTestHandler(t, source)

	body := `{"identifiers": "13823084000105, 09636393000107"}`
	rec := doJSON(e, http.MethodPost, "/api/correlation", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope struct {
		Data models.CorrelationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Errors, 1)
	assert.Equal(t, models.ErrKindStatus, envelope.Data.Errors[0].Kind)
	assert.Nil(t, envelope.Data.Matrix)
}

func TestCorrelationNoIdentifiers(t *testing.T) {
	_, e := newTestHandler(t, &fakeSource{})

	rec := doJSON(e, http.MethodPost, "/api/correlation", `{"identifiers": " ; , "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorrelationTooManyIdentifiers(t *testing.T) {
	_, e := newTestHandler(t, &fakeSource{}) // maxFunds 3

	rec := doJSON(e, http.MethodPost, "/api/correlation", `{"identifiers": "1,2,3,4"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFundReturnsEndpoint(t *testing.T) {
	source := &fakeSource{records: map[string][]models.QuotaRecord{
		cnpjA: history(100, 110, 99),
	}}
	_, e := newTestHandler(t, source)

	rec := doJSON(e, http.MethodGet, "/api/funds/13823084000105/returns", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.FundReturnsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, cnpjA, envelope.Data.Identifier)
	assert.Equal(t, "13.823.084/0001-05", envelope.Data.CNPJ)
	require.Len(t, envelope.Data.Points, 2)
	assert.Equal(t, "2024-01-02", envelope.Data.Points[0].Date)
}

func TestFundReturnsLastQuery(t *testing.T) {
	source := &fakeSource{records: map[string][]models.QuotaRecord{
		cnpjA: history(100, 110, 99, 101),
	}}
	_, e := newTestHandler(t, source)

	rec := doJSON(e, http.MethodGet, "/api/funds/13823084000105/returns?last=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.FundReturnsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Points, 1)
	assert.Equal(t, "2024-01-04", envelope.Data.Points[0].Date)
}

func TestFundReturnsUnknownFund(t *testing.T) {
	_, e := newTestHandler(t, &fakeSource{})

	rec := doJSON(e, http.MethodGet, "/api/funds/13823084000105/returns", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFundReturnsInvalidIdentifier(t *testing.T) {
	_, e := newTestHandler(t, &fakeSource{})

	rec := doJSON(e, http.MethodGet, "/api/funds/abc/returns", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorrelationEchoesProvidedRunID(t *testing.T) {
	source := &fakeSource{records: map[string][]models.QuotaRecord{
		cnpjA: history(100, 101, 102),
		cnpjB: history(50, 49, 51),
	}}
	_, e := newTestHandler(t, source)

	runID := uuid.NewString()
	body := fmt.Sprintf(`{"identifiers": "13823084000105, 09636393000107", "run_id": %q}`, runID)
	rec := doJSON(e, http.MethodPost, "/api/correlation", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.CorrelationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, runID, envelope.Data.RunID)
}

func TestCorrelationRejectsMalformedRunID(t *testing.T) {
	_, e := newTestHandler(t, &fakeSource{})

	body := `{"identifiers": "13823084000105", "run_id": "not-a-uuid"}`
	rec := doJSON(e, http.MethodPost, "/api/correlation", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressStreamsRunSubscribedUpFront(t *testing.T) {
	source := &fakeSource{records: map[string][]models.QuotaRecord{
		cnpjA: history(100, 101, 102),
		cnpjB: history(50, 49, 51),
	}}
	_, e := newTestHandler(t, source)

	srv := httptest.NewServer(e)
	defer srv.Close()

	// subscribe with a self-picked run id, then start the run with it
	runID := uuid.NewString()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress?run=" + runID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	body := fmt.Sprintf(`{"identifiers": "13823084000105, 09636393000107", "run_id": %q}`, runID)
	rec := doJSON(e, http.MethodPost, "/api/correlation", body)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev models.ProgressEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, runID, ev.RunID)
	assert.Equal(t, models.StageResolving, ev.Stage)
}

func TestProgressRejectsBadRunID(t *testing.T) {
	_, e := newTestHandler(t, &fakeSource{})

	rec := doJSON(e, http.MethodGet, "/ws/progress?run=not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	_, e := newTestHandler(t, &fakeSource{})

	rec := doJSON(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

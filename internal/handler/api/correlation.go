package api

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"FundCorr/internal/domain/models"
	"FundCorr/internal/services/analytics"
	"FundCorr/internal/usecase"
	pkghttp "FundCorr/pkg/http"
	"FundCorr/pkg/logger"
	"FundCorr/pkg/util"
)

func (h *Handler) handleHealth(c echo.Context) error {
	return pkghttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// handleCorrelation collects the requested funds and returns their
// pairwise correlation matrix. Identifiers may arrive as free text, as an
// explicit list, or both; entries are merged in order. Clients watching
// progress supply run_id and subscribe to /ws/progress before posting.
func (h *Handler) handleCorrelation(c echo.Context) error {
	req := new(models.CorrelationRequest)
	if errs := pkghttp.ReadAndValidateRequest(c, req); errs != nil {
		return pkghttp.BadRequestResponse(c, errs)
	}

	identifiers := util.SplitIdentifiers(req.Identifiers)
	for _, entry := range req.List {
		if entry = strings.TrimSpace(entry); entry != "" {
			identifiers = append(identifiers, entry)
		}
	}
	if len(identifiers) == 0 {
		return pkghttp.AppErrorResponse(c,
			pkghttp.BadRequestError("at least one identifier is required"))
	}
	if len(identifiers) > h.maxFunds {
		return pkghttp.AppErrorResponse(c,
			pkghttp.BadRequestErrorf("at most %d identifiers per request, got %d", h.maxFunds, len(identifiers)))
	}

	resp, err := h.correlation.Run(c.Request().Context(), req.RunID, identifiers)
	switch {
	case err == nil:
		return pkghttp.SuccessResponse(c, resp)
	case errors.Is(err, analytics.ErrInsufficientData):
		// partial response explains which funds failed and why
		return pkghttp.UnprocessableResponse(c, resp)
	case errors.Is(err, usecase.ErrNoIdentifiers), errors.Is(err, usecase.ErrTooManyIdentifiers):
		return pkghttp.AppErrorResponse(c, pkghttp.BadRequestError(err.Error()))
	default:
		h.log.Error("correlation run failed", logger.Error(err))
		return pkghttp.InternalServerErrorResponse(c)
	}
}

// handleFundReturns serves the dated return series of a single fund.
// The optional ?last=N query trims the series to its N most recent points.
func (h *Handler) handleFundReturns(c echo.Context) error {
	req := new(models.FundReturnsRequest)
	if errs := pkghttp.ReadAndValidateRequest(c, req); errs != nil {
		return pkghttp.BadRequestResponse(c, errs)
	}

	resp, err := h.correlation.FundReturns(c.Request().Context(), req.CNPJ)
	if err != nil {
		return h.fundError(c, err)
	}

	if last := util.ParseIntDefault(c.QueryParam("last"), 0); last > 0 && last < len(resp.Points) {
		resp.Points = resp.Points[len(resp.Points)-last:]
	}
	return pkghttp.SuccessResponse(c, resp)
}

func (h *Handler) fundError(c echo.Context, err error) error {
	record := models.ErrorRecord{
		Kind:   models.KindOf(err),
		Reason: models.ReasonOf(err),
	}
	var ce *models.CollectError
	if errors.As(err, &ce) {
		record.Identifier = ce.Identifier
	}

	switch record.Kind {
	case models.ErrKindInvalidIdentifier:
		return pkghttp.BadRequestResponse(c, record)
	case models.ErrKindStatus:
		return pkghttp.NotFoundResponse(c, record)
	case models.ErrKindEmptySeries, models.ErrKindStructure, models.ErrKindDecode:
		return pkghttp.UnprocessableResponse(c, record)
	default:
		h.log.Error("fund returns failed", logger.Error(err))
		return pkghttp.InternalServerErrorResponse(c)
	}
}

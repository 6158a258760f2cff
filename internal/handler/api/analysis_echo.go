package api

import (
	"errors"
	"time"

	models "github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	"github.com/davidhchng/Stock-Predictive-Model/internal/usecase"
	xhttp "github.com/davidhchng/Stock-Predictive-Model/pkg/http"
	xlogger "github.com/davidhchng/Stock-Predictive-Model/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler exposes the analysis report and its sections over HTTP.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	analysis *usecase.AnalysisUseCase
	stocks   *usecase.StocksUseCase
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, analysis *usecase.AnalysisUseCase, stocks *usecase.StocksUseCase) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{logger: logger, analysis: analysis, stocks: stocks}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis/:ticker", h.Report)
	g.GET("/analysis/:ticker/indicators", h.Indicators)
	g.GET("/analysis/:ticker/seasonality", h.Seasonality)
	g.GET("/analysis/:ticker/seasonality/heatmap", h.Heatmap)
	g.GET("/analysis/:ticker/summary", h.Summary)
	g.GET("/prediction/:ticker", h.Prediction)
}

func (h *AnalysisEchoHandler) Report(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to, aerr := parseRange(req.From, req.To)
	if aerr != nil {
		return xhttp.AppErrorResponse(c, aerr)
	}
	if err := h.requireTicker(c, req.Ticker); err != nil {
		return err
	}

	report, err := h.analysis.BuildReport(c.Request().Context(), req.Ticker, from, to)
	if err != nil {
		h.logger.Error("analysis usecase error", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapAnalysisError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *AnalysisEchoHandler) Indicators(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to, aerr := parseRange(req.From, req.To)
	if aerr != nil {
		return xhttp.AppErrorResponse(c, aerr)
	}
	if err := h.requireTicker(c, req.Ticker); err != nil {
		return err
	}

	section, err := h.analysis.Indicators(c.Request().Context(), req.Ticker, from, to)
	if err != nil {
		h.logger.Error("indicators usecase error", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapAnalysisError(err))
	}
	return xhttp.SuccessResponse(c, section)
}

func (h *AnalysisEchoHandler) Seasonality(c echo.Context) error {
	ticker := c.Param("ticker")
	if err := h.requireTicker(c, ticker); err != nil {
		return err
	}

	section, err := h.analysis.Seasonality(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("seasonality usecase error", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapAnalysisError(err))
	}
	return xhttp.SuccessResponse(c, section)
}

func (h *AnalysisEchoHandler) Heatmap(c echo.Context) error {
	req := &models.HeatmapRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.requireTicker(c, req.Ticker); err != nil {
		return err
	}

	matrix, err := h.analysis.Heatmap(c.Request().Context(), req.Ticker, models.BucketKind(req.Bucket))
	if err != nil {
		h.logger.Error("heatmap usecase error", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapAnalysisError(err))
	}
	return xhttp.SuccessResponse(c, matrix)
}

func (h *AnalysisEchoHandler) Summary(c echo.Context) error {
	ticker := c.Param("ticker")
	if err := h.requireTicker(c, ticker); err != nil {
		return err
	}

	report, err := h.analysis.BuildReport(c.Request().Context(), ticker, time.Time{}, time.Time{})
	if err != nil {
		h.logger.Error("summary usecase error", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapAnalysisError(err))
	}
	return xhttp.SuccessResponse(c, report.Summary)
}

func (h *AnalysisEchoHandler) Prediction(c echo.Context) error {
	ticker := c.Param("ticker")
	if err := h.requireTicker(c, ticker); err != nil {
		return err
	}

	section, err := h.analysis.Prediction(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("prediction usecase error", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapAnalysisError(err))
	}
	return xhttp.SuccessResponse(c, section)
}

// requireTicker writes a 404 when the ticker is not in the universe. A nil
// return means the handler should proceed.
func (h *AnalysisEchoHandler) requireTicker(c echo.Context, ticker string) error {
	ok, err := h.stocks.Exists(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("ticker lookup error", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if !ok {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("ticker %s not found", ticker))
	}
	return nil
}

// mapAnalysisError translates domain error kinds to HTTP app errors.
func mapAnalysisError(err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.UnprocessableErrorf("not enough data: %v", err)
	case errors.Is(err, models.ErrModelTraining):
		return xhttp.UnprocessableErrorf("model training failed: %v", err)
	case errors.Is(err, models.ErrInvalidSeries):
		return xhttp.BadRequestErrorf("invalid series: %v", err)
	default:
		return err
	}
}

// parseRange parses the optional from/to query dates. Both empty means the
// full history.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromStr != "" {
		v, ok := xhttp.ParseDate(fromStr)
		if !ok {
			return time.Time{}, time.Time{}, xhttp.BadRequestErrorf("bad from date: %s", fromStr)
		}
		from = v
	}
	if toStr != "" {
		v, ok := xhttp.ParseDate(toStr)
		if !ok {
			return time.Time{}, time.Time{}, xhttp.BadRequestErrorf("bad to date: %s", toStr)
		}
		to = v
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, xhttp.BadRequestError("to date precedes from date")
	}
	return from, to, nil
}

package api

import (
	models "github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	domrepo "github.com/davidhchng/Stock-Predictive-Model/internal/domain/repository"
	"github.com/davidhchng/Stock-Predictive-Model/internal/usecase"
	xhttp "github.com/davidhchng/Stock-Predictive-Model/pkg/http"
	xlogger "github.com/davidhchng/Stock-Predictive-Model/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StocksEchoHandler exposes the bar and ticker-universe read paths.
type StocksEchoHandler struct {
	logger *xlogger.Logger
	stocks *usecase.StocksUseCase
	store  domrepo.BarStore
}

func NewStocksEchoHandler(logger *xlogger.Logger, stocks *usecase.StocksUseCase, store domrepo.BarStore) *StocksEchoHandler {
	return &StocksEchoHandler{logger: logger, stocks: stocks, store: store}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/tickers", h.Tickers)
	g.GET("/tickers/:ticker/exists", h.Exists)
	g.GET("/stocks/:ticker/bars", h.Bars)
	g.GET("/stocks/:ticker/latest", h.Latest)
	g.GET("/data/status", h.Status)
}

func (h *StocksEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *StocksEchoHandler) Tickers(c echo.Context) error {
	req := &models.TickersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, total, err := h.stocks.Tickers(c.Request().Context(), req.Page, req.PerPage)
	if err != nil {
		h.logger.Error("tickers usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, total)
}

func (h *StocksEchoHandler) Exists(c echo.Context) error {
	ticker := c.Param("ticker")
	ok, err := h.stocks.Exists(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("exists usecase error", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"ticker": ticker, "exists": ok})
}

func (h *StocksEchoHandler) Bars(c echo.Context) error {
	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to, aerr := parseRange(req.From, req.To)
	if aerr != nil {
		return xhttp.AppErrorResponse(c, aerr)
	}

	series, err := h.stocks.Bars(c.Request().Context(), req.Ticker, from, to, req.Limit)
	if err != nil {
		h.logger.Error("bars usecase error", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapAnalysisError(err))
	}
	return xhttp.ListResponse(c, series, int64(len(series)))
}

func (h *StocksEchoHandler) Latest(c echo.Context) error {
	ticker := c.Param("ticker")
	bar, err := h.stocks.Latest(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("latest bar usecase error", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if bar == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("no bars stored for %s", ticker))
	}
	return xhttp.SuccessResponse(c, bar)
}

func (h *StocksEchoHandler) Status(c echo.Context) error {
	statuses, err := h.stocks.Status(c.Request().Context())
	if err != nil {
		h.logger.Error("data status usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, statuses, int64(len(statuses)))
}

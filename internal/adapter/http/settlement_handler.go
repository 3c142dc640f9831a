package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"corebank/internal/usecase/settlement"
)

type SettlementHandler struct{ sched *settlement.Scheduler }

func NewSettlementHandler(sched *settlement.Scheduler) *SettlementHandler {
	return &SettlementHandler{sched: sched}
}

// RunDaily triggers both settlement passes for today. The scheduler's
// cycle lock makes repeated calls for the same day no-ops.
func (h *SettlementHandler) RunDaily(c echo.Context) error {
	asOf := time.Now().UTC()
	if err := h.sched.RunDaily(c.Request().Context(), asOf); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "completed", "as_of": asOf.Format(time.RFC3339)})
}

func (h *SettlementHandler) RunLoanPass(c echo.Context) error {
	asOf := time.Now().UTC()
	if err := h.sched.RunLoanPass(c.Request().Context(), asOf); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "completed", "pass": settlement.PassLoan, "as_of": asOf.Format(time.RFC3339)})
}

func (h *SettlementHandler) RunBillingPass(c echo.Context) error {
	asOf := time.Now().UTC()
	if err := h.sched.RunBillingPass(c.Request().Context(), asOf); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "completed", "pass": settlement.PassBilling, "as_of": asOf.Format(time.RFC3339)})
}

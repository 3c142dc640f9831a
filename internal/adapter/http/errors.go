package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"corebank/internal/domain/account"
	"corebank/internal/domain/billing"
	"corebank/internal/domain/loan"
	"corebank/internal/domain/transaction"
	txengine "corebank/internal/usecase/transaction"
)

// respondError translates the core's closed error taxonomy to transport
// responses. Insufficient funds is flagged retryable: the holder can top
// up and try again; terminal-state rejections are not.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, account.ErrNotFound),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, billing.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, account.ErrInsufficientFunds):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Retryable: txengine.IsRetryable(err)})

	case errors.Is(err, account.ErrCurrencyMismatch),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidInput),
		errors.Is(err, loan.ErrInvalidInput),
		errors.Is(err, billing.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, transaction.ErrInvalidTransition),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrAlreadyApproved),
		errors.Is(err, loan.ErrNotPayable),
		errors.Is(err, billing.ErrInvalidTransition),
		errors.Is(err, billing.ErrAlreadyPaid):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	default:
		// Anything outside the taxonomy is an infrastructure failure, not
		// a client mistake. Log the cause, return an opaque 500.
		slog.Error("unhandled error", "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

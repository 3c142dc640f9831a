package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	txengine "corebank/internal/usecase/transaction"
)

type TransactionHandler struct{ uc *txengine.Usecase }

func NewTransactionHandler(uc *txengine.Usecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

type depositReq struct {
	ToAccountID string  `json:"to_account_id" validate:"required,hex32"`
	Amount      float64 `json:"amount" validate:"required,gt=0,dec2"`
	Channel     string  `json:"channel"`
	Description string  `json:"description"`
}

type withdrawalReq struct {
	FromAccountID string  `json:"from_account_id" validate:"required,hex32"`
	Amount        float64 `json:"amount" validate:"required,gt=0,dec2"`
	Channel       string  `json:"channel"`
	Description   string  `json:"description"`
}

type transferReq struct {
	FromAccountID string  `json:"from_account_id" validate:"required,hex32"`
	ToAccountID   string  `json:"to_account_id" validate:"required,hex32"`
	Amount        float64 `json:"amount" validate:"required,gt=0,dec2"`
	Channel       string  `json:"channel"`
	Description   string  `json:"description"`
}

func (h *TransactionHandler) CreateDeposit(c echo.Context) error {
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.CreateDeposit(c.Request().Context(), txengine.DepositInput{
		ToAccountID: req.ToAccountID,
		Amount:      decimal.NewFromFloat(req.Amount),
		Channel:     req.Channel,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TransactionHandler) CreateWithdrawal(c echo.Context) error {
	var req withdrawalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.CreateWithdrawal(c.Request().Context(), txengine.WithdrawalInput{
		FromAccountID: req.FromAccountID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Channel:       req.Channel,
		Description:   req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TransactionHandler) CreateTransfer(c echo.Context) error {
	var req transferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.CreateTransfer(c.Request().Context(), txengine.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Channel:       req.Channel,
		Description:   req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TransactionHandler) Process(c echo.Context) error {
	dto, err := h.uc.Process(c.Request().Context(), c.Param("transaction_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) Cancel(c echo.Context) error {
	dto, err := h.uc.Cancel(c.Request().Context(), c.Param("transaction_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("transaction_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

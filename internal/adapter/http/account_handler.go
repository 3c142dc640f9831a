package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"corebank/internal/usecase/account"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

type openAccountReq struct {
	HolderID       string  `json:"holder_id" validate:"required,hex32"`
	Currency       string  `json:"currency" validate:"required,ccy"`
	OpeningBalance float64 `json:"opening_balance" validate:"gte=0,dec2"`
}

func (h *AccountHandler) OpenAccount(c echo.Context) error {
	var req openAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Open(c.Request().Context(), account.OpenAccountInput{
		HolderID:       req.HolderID,
		Currency:       req.Currency,
		OpeningBalance: decimal.NewFromFloat(req.OpeningBalance),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) ListHolderAccounts(c echo.Context) error {
	dtos, err := h.uc.ListByHolder(c.Request().Context(), c.Param("holder_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	billdomain "corebank/internal/domain/billing"
	billengine "corebank/internal/usecase/billing"
)

type BillingHandler struct{ uc *billengine.Usecase }

func NewBillingHandler(uc *billengine.Usecase) *BillingHandler { return &BillingHandler{uc: uc} }

type createBillReq struct {
	HolderID          string     `json:"holder_id" validate:"required,hex32"`
	PayerAccountID    string     `json:"payer_account_id" validate:"required,hex32"`
	Type              string     `json:"type" validate:"required"`
	Description       string     `json:"description"`
	Amount            float64    `json:"amount" validate:"required,gt=0,dec2"`
	TaxAmount         float64    `json:"tax_amount" validate:"gte=0,dec2"`
	DiscountAmount    float64    `json:"discount_amount" validate:"gte=0,dec2"`
	Frequency         string     `json:"frequency"`
	DueDate           time.Time  `json:"due_date" validate:"required"`
	SubscriptionStart *time.Time `json:"subscription_start"`
	SubscriptionEnd   *time.Time `json:"subscription_end"`
}

type payBillReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *BillingHandler) CreateBill(c echo.Context) error {
	var req createBillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	in := billengine.CreateBillInput{
		HolderID:          req.HolderID,
		PayerAccountID:    req.PayerAccountID,
		Type:              billdomain.Type(req.Type),
		Description:       req.Description,
		Amount:            decimal.NewFromFloat(req.Amount),
		TaxAmount:         decimal.NewFromFloat(req.TaxAmount),
		DiscountAmount:    decimal.NewFromFloat(req.DiscountAmount),
		DueDate:           req.DueDate,
		SubscriptionStart: req.SubscriptionStart,
		SubscriptionEnd:   req.SubscriptionEnd,
	}
	if req.Frequency != "" {
		freq := billdomain.Frequency(req.Frequency)
		in.Frequency = &freq
	}
	dto, err := h.uc.CreateBill(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BillingHandler) SendBill(c echo.Context) error {
	dto, err := h.uc.SendBill(c.Request().Context(), c.Param("billing_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BillingHandler) PayBill(c echo.Context) error {
	var req payBillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.PayBill(c.Request().Context(), c.Param("billing_id"), decimal.NewFromFloat(req.Amount))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BillingHandler) CancelBill(c echo.Context) error {
	dto, err := h.uc.CancelBill(c.Request().Context(), c.Param("billing_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BillingHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("billing_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BillingHandler) ListHolderBills(c echo.Context) error {
	dtos, err := h.uc.ListByHolder(c.Request().Context(), c.Param("holder_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

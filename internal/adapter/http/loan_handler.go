package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	loandomain "corebank/internal/domain/loan"
	loanengine "corebank/internal/usecase/loan"
)

type LoanHandler struct{ uc *loanengine.Usecase }

func NewLoanHandler(uc *loanengine.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	HolderID              string  `json:"holder_id" validate:"required,hex32"`
	DisbursementAccountID string  `json:"disbursement_account_id" validate:"required,hex32"`
	Type                  string  `json:"type" validate:"required"`
	Principal             float64 `json:"principal" validate:"required,gt=0,dec2"`
	AnnualRate            float64 `json:"annual_rate" validate:"gte=0,lte=1"`
	TermMonths            int     `json:"term_months" validate:"required,gt=0,lte=480"`
	Frequency             string  `json:"frequency"`
}

type rejectLoanReq struct {
	ReviewerID string `json:"reviewer_id" validate:"required,hex32"`
	Reason     string `json:"reason" validate:"required"`
}

type approveLoanReq struct {
	ApproverID string `json:"approver_id" validate:"required,hex32"`
}

type loanPaymentReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Apply(c.Request().Context(), loanengine.ApplyInput{
		HolderID:              req.HolderID,
		DisbursementAccountID: req.DisbursementAccountID,
		Type:                  loandomain.Type(req.Type),
		Principal:             decimal.NewFromFloat(req.Principal),
		AnnualRate:            decimal.NewFromFloat(req.AnnualRate),
		TermMonths:            req.TermMonths,
		Frequency:             loandomain.Frequency(req.Frequency),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Approve(c echo.Context) error {
	var req approveLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Approve(c.Request().Context(), c.Param("loan_id"), req.ApproverID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Reject(c echo.Context) error {
	var req rejectLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Reject(c.Request().Context(), c.Param("loan_id"), req.ReviewerID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Disburse(c echo.Context) error {
	dto, err := h.uc.Disburse(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) MakePayment(c echo.Context) error {
	var req loanPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	res, err := h.uc.MakePayment(c.Request().Context(), c.Param("loan_id"), decimal.NewFromFloat(req.Amount))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListHolderLoans(c echo.Context) error {
	dtos, err := h.uc.ListByHolder(c.Request().Context(), c.Param("holder_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

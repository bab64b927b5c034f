package handler

import (
	"net/http"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/middleware"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/service"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/pagination"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/api/payments", middleware.RequireAuth())
	{
		payments.POST("", h.CreatePayment)
		payments.GET("", h.ListPayments)
		payments.GET("/:id", h.GetPayment)
		payments.DELETE("/:id", h.DeletePayment)
	}
}

// CreatePayment records a payment against an invoice
// @Summary      Record payment
// @Description  Records a payment against one of the user's invoices; overpayment is permitted
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePaymentRequest  true  "Create Payment Payload"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}

// ListPayments returns a paginated list of the user's payments
// @Summary      List payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        invoice_id  query     string  false  "Filter by invoice"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	params := pagination.Parse(c)

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), userID, c.Query("invoice_id"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetPayment returns one payment by ID
// @Summary      Get payment
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=service.PaymentResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	payment, err := h.paymentService.GetPayment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// DeletePayment deletes a payment record
// @Summary      Delete payment
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := h.paymentService.DeletePayment(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "payment deleted"}))
}

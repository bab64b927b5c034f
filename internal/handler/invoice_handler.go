package handler

import (
	"net/http"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/middleware"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/service"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/pagination"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices", middleware.RequireAuth())
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
	}
}

// CreateInvoice creates a new invoice from an accepted quote
// @Summary      Create invoice
// @Description  Creates an invoice from an accepted quote; the new invoice is always unpaid
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list of the user's invoices
// @Summary      List invoices
// @Description  Lists invoices with effective status, totals, and payment ledger attached, newest first
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        quote_id     query     string  false  "Filter by originating quote"
// @Param        status       query     string  false  "Filter by stored status (unpaid, paid)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	params := pagination.Parse(c)

	filter := service.InvoiceFilter{
		CustomerID: c.Query("customer_id"),
		QuoteID:    c.Query("quote_id"),
		Status:     c.Query("status"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetInvoice returns one invoice by ID
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// UpdateInvoice updates an invoice
// @Summary      Update invoice
// @Description  Updates an invoice; item edits are rejected once the invoice is paid
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceRequest  true  "Update Invoice Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice deletes an invoice
// @Summary      Delete invoice
// @Description  Deletes an invoice; its payments are kept as financial records
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "invoice deleted"}))
}

package handler

import (
	"net/http"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/middleware"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/service"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/pagination"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService   service.QuoteService
	invoiceService service.InvoiceService
}

func NewQuoteHandler(quoteService service.QuoteService, invoiceService service.InvoiceService) *QuoteHandler {
	return &QuoteHandler{
		quoteService:   quoteService,
		invoiceService: invoiceService,
	}
}

func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/api/quotes", middleware.RequireAuth())
	{
		quotes.POST("", h.CreateQuote)
		quotes.GET("", h.ListQuotes)
		quotes.GET("/:id", h.GetQuote)
		quotes.PUT("/:id", h.UpdateQuote)
		quotes.DELETE("/:id", h.DeleteQuote)
		quotes.POST("/:id/convert", h.ConvertQuote)
	}
}

// CreateQuote creates a new quote
// @Summary      Create quote
// @Description  Creates a new quote for one of the user's customers
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateQuoteRequest  true  "Create Quote Payload"
// @Success      201      {object}  response.Response{data=service.QuoteResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quote))
}

// ListQuotes returns a paginated list of the user's quotes
// @Summary      List quotes
// @Description  Lists quotes with effective status and totals attached, newest first
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        status       query     string  false  "Filter by stored status (draft, sent, accepted, declined)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /api/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	params := pagination.Parse(c)

	filter := service.QuoteFilter{
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	quotes, total, err := h.quoteService.ListQuotes(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"quotes": quotes,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetQuote returns one quote by ID
// @Summary      Get quote
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response{data=service.QuoteResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	quote, err := h.quoteService.GetQuote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// UpdateQuote updates a quote
// @Summary      Update quote
// @Description  Updates a quote; a converted quote's status and items are frozen
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Quote ID"
// @Param        payload  body      service.UpdateQuoteRequest  true  "Update Quote Payload"
// @Success      200      {object}  response.Response{data=service.QuoteResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/quotes/{id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// DeleteQuote deletes a quote
// @Summary      Delete quote
// @Description  Deletes a quote; a converted quote cannot be deleted
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := h.quoteService.DeleteQuote(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "quote deleted"}))
}

// ConvertQuote creates an invoice from an accepted quote
// @Summary      Convert quote to invoice
// @Description  Creates an invoice from an accepted quote; other statuses are rejected
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true   "Quote ID"
// @Param        payload  body      object  false  "Due date and notes"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/quotes/{id}/convert [post]
func (h *QuoteHandler) ConvertQuote(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var body struct {
		IssueDate string `json:"issue_date"`
		DueDate   string `json:"due_date" binding:"required"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), userID, service.CreateInvoiceRequest{
		QuoteID:   c.Param("id"),
		IssueDate: body.IssueDate,
		DueDate:   body.DueDate,
		Notes:     body.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

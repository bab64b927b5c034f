package handler

import (
	"net/http"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/middleware"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/service"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/pagination"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/api/customers", middleware.RequireAuth())
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}
}

// CreateCustomer creates a new customer
// @Summary      Create customer
// @Description  Creates a new customer owned by the authenticated user
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCustomerRequest  true  "Create Customer Payload"
// @Success      201      {object}  response.Response{data=service.CustomerResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, customer))
}

// ListCustomers returns a paginated list of the user's customers
// @Summary      List customers
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	params := pagination.Parse(c)

	customers, total, err := h.customerService.ListCustomers(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// GetCustomer returns one customer by ID
// @Summary      Get customer
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response{data=service.CustomerResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, billing.ErrNotFound)
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// UpdateCustomer updates a customer
// @Summary      Update customer
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Customer ID"
// @Param        payload  body      service.UpdateCustomerRequest  true  "Update Customer Payload"
// @Success      200      {object}  response.Response{data=service.CustomerResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, billing.ErrNotFound)
		return
	}

	var req service.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// DeleteCustomer deletes a customer
// @Summary      Delete customer
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, billing.ErrNotFound)
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "customer deleted"}))
}

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"calldesk-platform/internal/calls"
	"calldesk-platform/internal/customers"
	"calldesk-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Customers *customers.Service
	Calls     *calls.Service
}

// --- Customers ---

type customerRequest struct {
	Name        string            `json:"name"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	Variables   map[string]string `json:"variables,omitempty"`
}

type customerResponse struct {
	CustomerID  string            `json:"customer_id"`
	Name        string            `json:"name"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	Variables   map[string]string `json:"variables"`
}

func toCustomerResponse(c customers.Customer) customerResponse {
	vars := map[string]string{}
	for _, v := range c.Variables() {
		vars[v.Key] = v.Value
	}
	return customerResponse{
		CustomerID:  c.CustomerID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Variables:   vars,
	}
}

func (h Handlers) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id, err := h.Customers.Create(c.Request.Context(), customers.CreateInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Variables:   req.Variables,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer_id": id})
}

func (h Handlers) ListCustomers(c *gin.Context) {
	all, err := h.Customers.GetAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]customerResponse, 0, len(all))
	for _, cust := range all {
		out = append(out, toCustomerResponse(cust))
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}

func (h Handlers) GetCustomer(c *gin.Context) {
	cust, err := h.Customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(cust))
}

func (h Handlers) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	err := h.Customers.Update(c.Request.Context(), customers.UpdateInput{
		CustomerID:  c.Param("id"),
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Variables:   req.Variables,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h Handlers) DeleteCustomer(c *gin.Context) {
	if err := h.Customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Calls ---

type requestCallRequest struct {
	CustomerID  string     `json:"customer_id"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
}

func (h Handlers) RequestCall(c *gin.Context) {
	var req requestCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	in := calls.RequestInput{CustomerID: req.CustomerID}
	if req.RequestedAt != nil {
		in.RequestedAt = *req.RequestedAt
	}

	id, err := h.Calls.Request(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"call_id": id})
}

func (h Handlers) ListCalls(c *gin.Context) {
	all, err := h.Calls.GetAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": all})
}

func (h Handlers) ListCustomerCalls(c *gin.Context) {
	// Calls for an unknown customer are an empty list, not a 404; the
	// repository contract does not distinguish the two.
	out, err := h.Calls.GetByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": out})
}

func (h Handlers) GetCall(c *gin.Context) {
	call, err := h.Calls.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

func (h Handlers) StartCall(c *gin.Context)    { h.transition(c, h.Calls.Start) }
func (h Handlers) CompleteCall(c *gin.Context) { h.transition(c, h.Calls.Complete) }
func (h Handlers) CancelCall(c *gin.Context)   { h.transition(c, h.Calls.Cancel) }
func (h Handlers) FailCall(c *gin.Context)     { h.transition(c, h.Calls.Fail) }

func (h Handlers) transition(c *gin.Context, op func(ctx context.Context, callID string) error) {
	if err := op(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps service errors to HTTP statuses. Infrastructure failures
// surface as a generic 500; details stay in the logs.
func (h Handlers) writeError(c *gin.Context, err error) {
	var ite *calls.InvalidTransitionError

	switch {
	case errors.Is(err, customers.ErrNotFound),
		errors.Is(err, calls.ErrNotFound),
		errors.Is(err, calls.ErrCustomerNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ite):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ite.Error()})
	case errors.Is(err, customers.ErrInvalidArgument), errors.Is(err, calls.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, calls.ErrTooManyActiveCalls):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		logger.From(c.Request.Context()).Error("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

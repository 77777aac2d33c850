package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/internal/application"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/interface/middleware"
	"github.com/oksasatya/go-realty-backend/pkg/response"
)

type CustomerHandler struct {
	Svc         *application.CustomerService
	Logger      *logrus.Logger
	PageSizeMax int
}

func NewCustomerHandler(svc *application.CustomerService, logger *logrus.Logger, pageSizeMax int) *CustomerHandler {
	return &CustomerHandler{Svc: svc, Logger: logger, PageSizeMax: pageSizeMax}
}

type customerListQuery struct {
	pageQuery
	Search       string `form:"search"`
	CustomerType string `form:"customer_type" binding:"omitempty,customertype"`
	AgentID      string `form:"agent_id"`
}

type createCustomerRequest struct {
	FirstName    string   `json:"first_name" binding:"required,max=100"`
	LastName     string   `json:"last_name" binding:"required,max=100"`
	Email        string   `json:"email" binding:"required,email"`
	Phone        string   `json:"phone" binding:"omitempty,max=30"`
	CustomerType string   `json:"customer_type" binding:"omitempty,customertype"`
	BudgetMin    *float64 `json:"budget_min" binding:"omitempty,gte=0"`
	BudgetMax    *float64 `json:"budget_max" binding:"omitempty,gte=0"`
	Notes        string   `json:"notes"`
	AgentID      string   `json:"agent_id"`
}

// updateCustomerRequest is a merge update: absent and null fields are left unchanged.
type updateCustomerRequest struct {
	FirstName    *string  `json:"first_name" binding:"omitempty,max=100"`
	LastName     *string  `json:"last_name" binding:"omitempty,max=100"`
	Email        *string  `json:"email" binding:"omitempty,email"`
	Phone        *string  `json:"phone" binding:"omitempty,max=30"`
	CustomerType *string  `json:"customer_type" binding:"omitempty,customertype"`
	BudgetMin    *float64 `json:"budget_min" binding:"omitempty,gte=0"`
	BudgetMax    *float64 `json:"budget_max" binding:"omitempty,gte=0"`
	Notes        *string  `json:"notes"`
	AgentID      *string  `json:"agent_id"`
}

func (r updateCustomerRequest) patch() entity.CustomerPatch {
	p := entity.CustomerPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		BudgetMin: r.BudgetMin,
		BudgetMax: r.BudgetMax,
		Notes:     r.Notes,
		AgentID:   r.AgentID,
	}
	if r.CustomerType != nil {
		t := entity.CustomerType(*r.CustomerType)
		p.CustomerType = &t
	}
	return p
}

func (h *CustomerHandler) List(c *gin.Context) {
	var q customerListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page := q.page(h.PageSizeMax)
	rows, total, err := h.Svc.List(c.Request.Context(), middleware.IdentityFrom(c), repo.CustomerFilter{
		Search:       q.Search,
		CustomerType: entity.CustomerType(q.CustomerType),
		AgentID:      q.AgentID,
	}, page)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, rows, "customers", pagination(page, total))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	cust, err := h.Svc.Get(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cust, "customer")
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cust, err := h.Svc.Create(c.Request.Context(), middleware.IdentityFrom(c), application.CustomerInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		CustomerType: entity.CustomerType(req.CustomerType),
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Notes:        req.Notes,
		AgentID:      req.AgentID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, cust, "customer created")
}

// Update PUT /api/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cust, err := h.Svc.Update(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req.patch())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cust, "customer updated")
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id")}, "customer deleted")
}

func (h *CustomerHandler) Reactivate(c *gin.Context) {
	cust, err := h.Svc.Reactivate(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cust, "customer reactivated")
}

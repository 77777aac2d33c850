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

// AdminHandler serves /api/admin; routes are guarded by middleware.RequireAdmin.
type AdminHandler struct {
	Svc         *application.AuthService
	Logger      *logrus.Logger
	PageSizeMax int
}

func NewAdminHandler(svc *application.AuthService, logger *logrus.Logger, pageSizeMax int) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger, PageSizeMax: pageSizeMax}
}

type userListQuery struct {
	pageQuery
	Role   string `form:"role" binding:"omitempty,role"`
	Status string `form:"status" binding:"omitempty,userstatus"`
	Search string `form:"search"`
}

type userStatusRequest struct {
	Status string `json:"status" binding:"required,userstatus"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q userListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page := q.page(h.PageSizeMax)
	users, total, err := h.Svc.ListUsers(c.Request.Context(), middleware.IdentityFrom(c), repo.UserFilter{
		Role:   entity.Role(q.Role),
		Status: entity.UserStatus(q.Status),
		Search: q.Search,
	}, page)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, users, "users", pagination(page, total))
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), middleware.IdentityFrom(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created")
}

// SetUserStatus PATCH /api/admin/users/:id/status
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Svc.SetStatus(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), entity.UserStatus(req.Status))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user status updated")
}

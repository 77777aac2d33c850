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

const maxImageBytes = 10 << 20

type PropertyHandler struct {
	Svc         *application.PropertyService
	Logger      *logrus.Logger
	PageSizeMax int
}

func NewPropertyHandler(svc *application.PropertyService, logger *logrus.Logger, pageSizeMax int) *PropertyHandler {
	return &PropertyHandler{Svc: svc, Logger: logger, PageSizeMax: pageSizeMax}
}

type propertyListQuery struct {
	pageQuery
	Search       string `form:"search"`
	PropertyType string `form:"property_type" binding:"omitempty,propertytype"`
	Status       string `form:"status" binding:"omitempty,propertystatus"`
	City         string `form:"city"`
	AgentID      string `form:"agent_id"`
}

type createPropertyRequest struct {
	Title           string   `json:"title" binding:"required,max=200"`
	Description     string   `json:"description"`
	PropertyType    string   `json:"property_type" binding:"required,propertytype"`
	Status          string   `json:"status" binding:"omitempty,propertystatus"`
	Price           *float64 `json:"price" binding:"required,gte=0"`
	Bedrooms        int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms       int      `json:"bathrooms" binding:"gte=0"`
	Area            float64  `json:"area" binding:"gte=0"`
	Address         string   `json:"address"`
	District        string   `json:"district"`
	City            string   `json:"city"`
	AgentID         string   `json:"agent_id"`
	OwnerCustomerID string   `json:"owner_customer_id"`
	BuyerCustomerID string   `json:"buyer_customer_id"`
}

// updatePropertyRequest is a merge update. An empty owner/buyer id clears the link.
type updatePropertyRequest struct {
	Title           *string  `json:"title" binding:"omitempty,max=200"`
	Description     *string  `json:"description"`
	PropertyType    *string  `json:"property_type" binding:"omitempty,propertytype"`
	Status          *string  `json:"status" binding:"omitempty,propertystatus"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0"`
	Bedrooms        *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms       *int     `json:"bathrooms" binding:"omitempty,gte=0"`
	Area            *float64 `json:"area" binding:"omitempty,gte=0"`
	Address         *string  `json:"address"`
	District        *string  `json:"district"`
	City            *string  `json:"city"`
	AgentID         *string  `json:"agent_id"`
	OwnerCustomerID *string  `json:"owner_customer_id"`
	BuyerCustomerID *string  `json:"buyer_customer_id"`
}

func (r updatePropertyRequest) patch() entity.PropertyPatch {
	p := entity.PropertyPatch{
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		Area:            r.Area,
		Address:         r.Address,
		District:        r.District,
		City:            r.City,
		AgentID:         r.AgentID,
		OwnerCustomerID: r.OwnerCustomerID,
		BuyerCustomerID: r.BuyerCustomerID,
	}
	if r.PropertyType != nil {
		t := entity.PropertyType(*r.PropertyType)
		p.PropertyType = &t
	}
	if r.Status != nil {
		s := entity.PropertyStatus(*r.Status)
		p.Status = &s
	}
	return p
}

func (h *PropertyHandler) List(c *gin.Context) {
	var q propertyListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page := q.page(h.PageSizeMax)
	rows, total, err := h.Svc.List(c.Request.Context(), middleware.IdentityFrom(c), repo.PropertyFilter{
		Search:       q.Search,
		PropertyType: entity.PropertyType(q.PropertyType),
		Status:       entity.PropertyStatus(q.Status),
		City:         q.City,
		AgentID:      q.AgentID,
	}, page)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, rows, "properties", pagination(page, total))
}

func (h *PropertyHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "property")
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), middleware.IdentityFrom(c), application.PropertyInput{
		Title:           req.Title,
		Description:     req.Description,
		PropertyType:    entity.PropertyType(req.PropertyType),
		Status:          entity.PropertyStatus(req.Status),
		Price:           req.Price,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Area:            req.Area,
		Address:         req.Address,
		District:        req.District,
		City:            req.City,
		AgentID:         req.AgentID,
		OwnerCustomerID: req.OwnerCustomerID,
		BuyerCustomerID: req.BuyerCustomerID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "property created")
}

func (h *PropertyHandler) Update(c *gin.Context) {
	var req updatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req.patch())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "property updated")
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id")}, "property deleted")
}

// UploadImage POST /api/properties/:id/images (multipart field "image")
func (h *PropertyHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Invalid(c, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	if fh.Size > maxImageBytes {
		response.Invalid(c, "invalid payload", map[string]string{"image": "must be at most 10MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.AddImage(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "image uploaded")
}

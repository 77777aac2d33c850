package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/pkg/response"
	"github.com/oksasatya/go-realty-backend/pkg/validation"
)

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates a service error into the response envelope.
// Internal errors are logged with the request id and never echoed.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		_ = c.Error(err)
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
	}
	response.Error(c, statusFor(kind), domain.PublicMessage(err), kind.String())
}

func bindError(c *gin.Context, err error) {
	response.Invalid(c, "invalid payload", validation.ToDetails(err))
}

type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (q pageQuery) page(limitMax int) repo.Page { return repo.NewPage(q.Page, q.Limit, limitMax) }

func pagination(p repo.Page, total int) response.Pagination {
	return response.Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: p.TotalPages(total)}
}

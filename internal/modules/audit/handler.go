package audit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"femida-backend/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auditlog", h.List)
	rg.GET("/auditlog/export", h.Export)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load audit log")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": entries,
		"total": total,
	})
}

func (h *Handler) Export(c *gin.Context) {
	f, err := h.service.ExportExcel(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to export audit log")
		return
	}

	filename := fmt.Sprintf("auditlog_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/padelpoint/booking-backend/internal/court"
	"github.com/padelpoint/booking-backend/internal/pkg/response"
)

type Handler struct {
	catalog *court.Catalog
}

func NewHandler(catalog *court.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.List())
}

func (h *Handler) Get(c *gin.Context) {
	courtEntry, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, courtEntry)
}

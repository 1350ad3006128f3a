package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soumsmith/vie-ecole-gateway/internal/service"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
	"github.com/soumsmith/vie-ecole-gateway/pkg/response"
)

// ReferenceHandler serves the cached reference collections pickers are built
// from.
type ReferenceHandler struct {
	refs *service.ReferenceService
}

// NewReferenceHandler constructs ReferenceHandler.
func NewReferenceHandler(refs *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

// Collection serves one named collection: classes, jours, salles,
// typeActivites, personnels or annees.
func (h *ReferenceHandler) Collection(c *gin.Context) {
	data, err := h.refs.Collection(c.Request.Context(), c.Param("collection"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}

// Subjects serves the class-scoped matières list.
func (h *ReferenceHandler) Subjects(c *gin.Context) {
	classID, err := strconv.ParseInt(c.Query("classe"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classe query parameter is required"))
		return
	}
	subjects, err := h.refs.Subjects(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

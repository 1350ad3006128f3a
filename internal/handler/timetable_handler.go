package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	"github.com/soumsmith/vie-ecole-gateway/internal/service"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
	"github.com/soumsmith/vie-ecole-gateway/pkg/response"
)

// TimetableHandler exposes the emploi du temps booking endpoints.
type TimetableHandler struct {
	timetable *service.TimetableService
}

// NewTimetableHandler constructs TimetableHandler.
func NewTimetableHandler(timetable *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable}
}

type editAvailabilityRequest struct {
	models.ScheduleSlotQuery
	CurrentRoomID int64 `json:"currentRoomId"`
}

// CheckAvailability answers the create-mode question: is this slot free, and
// in which rooms. The answer is always 200; a failed check settles into the
// state body rather than an HTTP error.
func (h *TimetableHandler) CheckAvailability(c *gin.Context) {
	var q models.ScheduleSlotQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	state := h.timetable.CheckAvailability(c.Request.Context(), q)
	response.JSON(c, http.StatusOK, state)
}

// CheckAvailabilityForEdit answers the edit-mode room question: the slot is
// taken as held, the body lists the rooms the picker may offer.
func (h *TimetableHandler) CheckAvailabilityForEdit(c *gin.Context) {
	var req editAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	state := h.timetable.CheckAvailabilityForEdit(c.Request.Context(), req.ScheduleSlotQuery, req.CurrentRoomID)
	response.JSON(c, http.StatusOK, state)
}

// ListByClassDay returns the activities of a class on a weekday.
func (h *TimetableHandler) ListByClassDay(c *gin.Context) {
	classID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class id"))
		return
	}
	dayID, err := strconv.ParseInt(c.Query("dayId"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayId query parameter is required"))
		return
	}
	activities, err := h.timetable.ListByClassDay(c.Request.Context(), classID, dayID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities)
}

// Create books a slot.
func (h *TimetableHandler) Create(c *gin.Context) {
	var req service.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	activity, err := h.timetable.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity)
}

// Update edits an existing booking.
func (h *TimetableHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	var req service.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	activity, err := h.timetable.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity)
}

// Delete removes a booking.
func (h *TimetableHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	if err := h.timetable.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	"github.com/soumsmith/vie-ecole-gateway/pkg/config"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// timetableGateway is the slice of the backend client the activity workflow
// uses.
type timetableGateway interface {
	ActivitiesByClassDay(ctx context.Context, classID, dayID int64) ([]models.RawActivity, error)
	SaveActivity(ctx context.Context, payload models.ActivityPayload) (*models.RawActivity, error)
	DeleteActivity(ctx context.Context, id int64) error
}

// CreateActivityRequest is the payload for booking a timetable slot.
type CreateActivityRequest struct {
	ClassID        int64  `json:"classId" validate:"required"`
	DayID          int64  `json:"dayId" validate:"required"`
	StartTime      string `json:"startTime" validate:"required"`
	EndTime        string `json:"endTime" validate:"required"`
	SubjectID      int64  `json:"subjectId" validate:"required"`
	RoomID         int64  `json:"roomId" validate:"required"`
	ActivityTypeID int64  `json:"activityTypeId" validate:"required"`
}

// UpdateActivityRequest updates an existing booking.
type UpdateActivityRequest struct {
	ClassID        int64  `json:"classId" validate:"required"`
	DayID          int64  `json:"dayId" validate:"required"`
	StartTime      string `json:"startTime" validate:"required"`
	EndTime        string `json:"endTime" validate:"required"`
	SubjectID      int64  `json:"subjectId" validate:"required"`
	RoomID         int64  `json:"roomId" validate:"required"`
	ActivityTypeID int64  `json:"activityTypeId" validate:"required"`
}

// TimetableService runs the emploi du temps booking workflow: it replays the
// form rules over each request, confirms slot availability against the
// backend, and only then proxies the save.
type TimetableService struct {
	gateway        timetableGateway
	availability   *AvailabilityService
	refs           *ReferenceService
	academicYearID int64
	avail          config.AvailabilityConfig
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewTimetableService instantiates TimetableService. avail tunes the forms it
// opens: the auto-check debounce and the delayed room fetch on edit hydration.
func NewTimetableService(gateway timetableGateway, availability *AvailabilityService, refs *ReferenceService, academicYearID int64, avail config.AvailabilityConfig, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		gateway:        gateway,
		availability:   availability,
		refs:           refs,
		academicYearID: academicYearID,
		avail:          avail,
		validator:      validate,
		logger:         logger,
	}
}

// CheckAvailability answers the create-mode availability question directly.
func (s *TimetableService) CheckAvailability(ctx context.Context, q models.ScheduleSlotQuery) models.AvailabilityState {
	if q.AcademicYearID == 0 {
		q.AcademicYearID = s.academicYearID
	}
	return s.availability.Check(ctx, q)
}

// CheckAvailabilityForEdit answers the edit-mode room question.
func (s *TimetableService) CheckAvailabilityForEdit(ctx context.Context, q models.ScheduleSlotQuery, currentRoomID int64) models.AvailabilityState {
	if q.AcademicYearID == 0 {
		q.AcademicYearID = s.academicYearID
	}
	var current *models.Room
	if currentRoomID != 0 {
		current = &models.Room{ID: currentRoomID}
	}
	return s.availability.CheckForEdit(ctx, q, current)
}

// ListByClassDay returns the existing activities of a class on a weekday.
func (s *TimetableService) ListByClassDay(ctx context.Context, classID, dayID int64) ([]models.RawActivity, error) {
	activities, err := s.gateway.ActivitiesByClassDay(ctx, classID, dayID)
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// Create books a new slot after re-running the whole client-side rule set.
func (s *TimetableService) Create(ctx context.Context, req CreateActivityRequest) (*models.RawActivity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}
	if err := ValidateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	form := NewTimetableForm(s.availability, s.academicYearID, s.avail.Debounce)
	defer form.Close()
	applyActivityFields(form, req.ClassID, req.DayID, req.StartTime, req.EndTime, req.SubjectID, req.RoomID, req.ActivityTypeID)

	state := form.ConfirmAvailability(ctx)
	if !form.IsFormValid() {
		msg := state.Err
		if msg == "" {
			msg = appErrors.ErrSlotUnavailable.Message
		}
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, msg)
	}
	if !containsRoom(state.CandidateRooms, req.RoomID) {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "the chosen room is not free for this slot")
	}

	refs, err := s.refs.Load(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	payload, err := BuildActivityPayload(form.Draft(), s.academicYearID, refs)
	if err != nil {
		return nil, err
	}

	if err := form.BeginSubmit(); err != nil {
		return nil, err
	}
	defer form.EndSubmit()

	saved, err := s.gateway.SaveActivity(ctx, payload)
	if err != nil {
		s.logger.Warn("activity save failed", zap.Int64("class", req.ClassID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("activity created",
		zap.Int64("id", saved.ID),
		zap.Int64("class", req.ClassID),
		zap.Int64("day", req.DayID),
		zap.String("slot", req.StartTime+"-"+req.EndTime))
	return saved, nil
}

// Update edits an existing booking. The backend is not asked to reconfirm a
// slot the activity already holds: the draft is hydrated from the stored
// activity, the request's changes are applied on top, and the save goes out.
func (s *TimetableService) Update(ctx context.Context, id int64, req UpdateActivityRequest) (*models.RawActivity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}
	if err := ValidateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	existing, err := s.findActivity(ctx, id, req.ClassID, req.DayID)
	if err != nil {
		return nil, err
	}

	form := NewTimetableForm(s.availability, s.academicYearID, s.avail.Debounce)
	defer form.Close()
	form.HydrateForEdit(*existing, s.avail.EditFetchDelay)
	applyActivityFields(form, req.ClassID, req.DayID, req.StartTime, req.EndTime, req.SubjectID, req.RoomID, req.ActivityTypeID)

	// The hydration fetch may still be pending behind the configured delay;
	// confirming here supersedes it and settles the edit-mode state now.
	form.ConfirmAvailability(ctx)
	if !form.IsFormValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "activity form is incomplete")
	}

	refs, err := s.refs.Load(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	payload, err := BuildActivityPayload(form.Draft(), s.academicYearID, refs)
	if err != nil {
		return nil, err
	}
	payload.ID = id

	if err := form.BeginSubmit(); err != nil {
		return nil, err
	}
	defer form.EndSubmit()

	saved, err := s.gateway.SaveActivity(ctx, payload)
	if err != nil {
		s.logger.Warn("activity update failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("activity updated", zap.Int64("id", id))
	return saved, nil
}

// Delete removes a booking.
func (s *TimetableService) Delete(ctx context.Context, id int64) error {
	if err := s.gateway.DeleteActivity(ctx, id); err != nil {
		s.logger.Warn("activity delete failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("activity deleted", zap.Int64("id", id))
	return nil
}

func (s *TimetableService) findActivity(ctx context.Context, id, classID, dayID int64) (*models.RawActivity, error) {
	activities, err := s.gateway.ActivitiesByClassDay(ctx, classID, dayID)
	if err != nil {
		return nil, err
	}
	for i := range activities {
		if activities[i].ID == id {
			return &activities[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found on that class and day")
}

// applyActivityFields replays a request through the form's transition rules.
// Field order matters: slot fields first, then the slot-scoped selections, the
// same order the form enforces by clearing stale picks.
func applyActivityFields(form *TimetableForm, classID, dayID int64, start, end string, subjectID, roomID, typeID int64) {
	form.SetClass(classID)
	form.SetDay(dayID)
	form.SetStartTime(start)
	form.SetEndTime(end)
	form.SetSubject(subjectID)
	form.SetRoom(roomID)
	form.SetActivityType(typeID)
}

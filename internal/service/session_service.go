package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	"github.com/soumsmith/vie-ecole-gateway/pkg/config"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// sessionGateway is the slice of the backend client the séance workflow uses.
type sessionGateway interface {
	SaveSession(ctx context.Context, payload models.SessionPayload) (*models.RawSession, error)
	DeleteSession(ctx context.Context, id int64) error
}

// CreateSessionRequest is the payload for recording a séance saisie. DayID is
// accepted for compatibility with older clients but always recomputed from
// Date; a disagreeing value is silently replaced by the derived weekday.
type CreateSessionRequest struct {
	ClassID        int64  `json:"classId" validate:"required"`
	Date           string `json:"date" validate:"required"` // yyyy-mm-dd
	DayID          int64  `json:"dayId"`
	StartTime      string `json:"startTime" validate:"required"`
	EndTime        string `json:"endTime" validate:"required"`
	SubjectID      int64  `json:"subjectId" validate:"required"`
	RoomID         int64  `json:"roomId" validate:"required"`
	ActivityTypeID int64  `json:"activityTypeId" validate:"required"`
	TeacherID      int64  `json:"teacherId" validate:"required"`
	SupervisorID   int64  `json:"supervisorId"`

	EvaluationGenerated bool   `json:"evaluationGenerated"`
	Period              string `json:"period"`
	ScoreMax            int    `json:"scoreMax"`
	Duration            string `json:"duration"` // HH:MM
}

// SessionService runs the séance booking workflow.
type SessionService struct {
	gateway        sessionGateway
	availability   *AvailabilityService
	refs           *ReferenceService
	academicYearID int64
	avail          config.AvailabilityConfig
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewSessionService instantiates SessionService.
func NewSessionService(gateway sessionGateway, availability *AvailabilityService, refs *ReferenceService, academicYearID int64, avail config.AvailabilityConfig, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		gateway:        gateway,
		availability:   availability,
		refs:           refs,
		academicYearID: academicYearID,
		avail:          avail,
		validator:      validate,
		logger:         logger,
	}
}

// Create records a séance. Availability uses the dated room-list endpoint: the
// returned candidates must include the chosen room.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.RawSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if err := ValidateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session date, expected yyyy-mm-dd")
	}

	form := NewSessionForm(s.availability, s.academicYearID, s.avail.Debounce)
	defer form.Close()

	form.SetClass(req.ClassID)
	form.SetSessionDate(date)
	if req.DayID != 0 {
		// Replayed deliberately: the derived weekday must win over the
		// caller-supplied one.
		form.SetDay(req.DayID)
	}
	form.SetStartTime(req.StartTime)
	form.SetEndTime(req.EndTime)
	form.SetSubject(req.SubjectID)
	form.SetRoom(req.RoomID)
	form.SetActivityType(req.ActivityTypeID)
	form.SetTeacher(req.TeacherID)
	form.SetSupervisor(req.SupervisorID)
	form.SetEvaluation(req.EvaluationGenerated, req.Period, req.ScoreMax)
	form.SetDuration(req.Duration)

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
	payload, err := BuildSessionPayload(form.Draft(), s.academicYearID, refs)
	if err != nil {
		return nil, err
	}

	if err := form.BeginSubmit(); err != nil {
		return nil, err
	}
	defer form.EndSubmit()

	saved, err := s.gateway.SaveSession(ctx, payload)
	if err != nil {
		s.logger.Warn("session save failed", zap.Int64("class", req.ClassID), zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}
	s.logger.Info("session created",
		zap.Int64("id", saved.ID),
		zap.Int64("class", req.ClassID),
		zap.String("date", req.Date),
		zap.Int64("day", form.Draft().DayID))
	return saved, nil
}

// Delete removes a séance.
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	if err := s.gateway.DeleteSession(ctx, id); err != nil {
		s.logger.Warn("session delete failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("session deleted", zap.Int64("id", id))
	return nil
}

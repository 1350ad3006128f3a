package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// availabilityGateway is the slice of the backend client the checker needs.
type availabilityGateway interface {
	IsSlotValid(ctx context.Context, q models.ScheduleSlotQuery) (bool, error)
	AvailableRooms(ctx context.Context, q models.ScheduleSlotQuery) ([]models.Room, error)
	AvailableRoomsForSession(ctx context.Context, q models.ScheduleSlotQuery) ([]models.Room, error)
}

// AvailabilityService answers "is this slot free, and in which rooms". Two
// backend contracts coexist: the activity endpoints answer a boolean probe
// followed by a room fetch, while the session endpoint returns the room list
// directly (non-empty means free). The room-list contract costs one round trip
// instead of two, so it is preferred whenever the query carries a date.
type AvailabilityService struct {
	gateway availabilityGateway
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAvailabilityService wires the checker.
func NewAvailabilityService(gateway availabilityGateway, metrics *MetricsService, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{gateway: gateway, metrics: metrics, logger: logger}
}

// Check runs the create-mode availability round trip. It never returns an
// error: every failure settles into the state so the caller always has
// something presentable.
func (s *AvailabilityService) Check(ctx context.Context, q models.ScheduleSlotQuery) models.AvailabilityState {
	started := time.Now()

	if err := ValidateTimeRange(q.StartTime, q.EndTime); err != nil {
		s.observe("invalid", started)
		return unavailableState(appErrors.FromError(err).Message)
	}

	if q.DateISO != "" {
		rooms, err := s.gateway.AvailableRoomsForSession(ctx, q)
		if err != nil {
			s.logger.Warn("availability check failed", zap.Int64("class", q.ClassID), zap.Int64("day", q.DayID), zap.Error(err))
			s.observe("error", started)
			return unavailableState(appErrors.ErrCheckFailed.Message)
		}
		if len(rooms) == 0 {
			s.observe("unavailable", started)
			return unavailableState(appErrors.ErrSlotUnavailable.Message)
		}
		s.observe("available", started)
		return availableState(rooms, "")
	}

	ok, err := s.gateway.IsSlotValid(ctx, q)
	if err != nil {
		s.logger.Warn("availability check failed", zap.Int64("class", q.ClassID), zap.Int64("day", q.DayID), zap.Error(err))
		s.observe("error", started)
		return unavailableState(appErrors.ErrCheckFailed.Message)
	}
	if !ok {
		s.observe("unavailable", started)
		return unavailableState(appErrors.ErrSlotUnavailable.Message)
	}

	rooms, err := s.gateway.AvailableRooms(ctx, q)
	if err != nil {
		s.logger.Warn("room fetch failed", zap.Int64("class", q.ClassID), zap.Int64("day", q.DayID), zap.Error(err))
		s.observe("error", started)
		return unavailableState(appErrors.ErrCheckFailed.Message)
	}
	s.observe("available", started)
	return availableState(rooms, "")
}

// CheckForEdit fetches candidate rooms for an existing booking. The backend is
// never asked to reconfirm a slot it already holds, so availability is always
// reported true. The booked room is appended when the candidates omit it, so
// the picker never loses its own selection; on fetch failure the state
// degrades to just that room with a descriptive error.
func (s *AvailabilityService) CheckForEdit(ctx context.Context, q models.ScheduleSlotQuery, current *models.Room) models.AvailabilityState {
	var rooms []models.Room
	var err error
	if q.DateISO != "" {
		rooms, err = s.gateway.AvailableRoomsForSession(ctx, q)
	} else {
		rooms, err = s.gateway.AvailableRooms(ctx, q)
	}
	if err != nil {
		s.logger.Warn("edit-mode room fetch failed", zap.Int64("class", q.ClassID), zap.Error(err))
		rooms = nil
		if current != nil {
			rooms = []models.Room{*current}
		}
		return availableState(rooms, "could not refresh candidate rooms, keeping the current selection")
	}

	if current != nil && !containsRoom(rooms, current.ID) {
		rooms = append(rooms, *current)
	}
	return availableState(rooms, "")
}

func (s *AvailabilityService) observe(outcome string, started time.Time) {
	s.metrics.ObserveAvailabilityCheck(outcome, time.Since(started))
}

func containsRoom(rooms []models.Room, id int64) bool {
	for _, r := range rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

func availableState(rooms []models.Room, errMsg string) models.AvailabilityState {
	yes := true
	if rooms == nil {
		rooms = []models.Room{}
	}
	return models.AvailabilityState{Available: &yes, CandidateRooms: rooms, Err: errMsg}
}

func unavailableState(errMsg string) models.AvailabilityState {
	no := false
	return models.AvailabilityState{Available: &no, CandidateRooms: []models.Room{}, Err: errMsg}
}

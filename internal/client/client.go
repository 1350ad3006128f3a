// Package client is the typed gateway to the school REST backend. It owns URL
// construction (base URL plus the ambient school, academic year, and
// periodicity parameters every endpoint expects) and classifies transport and
// HTTP failures into the gateway's error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	"github.com/soumsmith/vie-ecole-gateway/pkg/config"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// Gateway issues HTTP calls against the school backend.
type Gateway struct {
	baseURL  string
	session  config.SessionConfig
	client   *http.Client
	logger   *zap.Logger
	observer func(endpoint string, duration time.Duration)
}

// New constructs a Gateway with a bounded-timeout HTTP client.
func New(cfg config.BackendConfig, session config.SessionConfig, logger *zap.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		baseURL: cfg.BaseURL,
		session: session,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Observe registers a per-call hook receiving the endpoint path and its
// latency. Used to feed backend-call metrics without coupling this package to
// the metrics service.
func (g *Gateway) Observe(fn func(endpoint string, duration time.Duration)) {
	g.observer = fn
}

// IsSlotValid asks the backend whether the slot is free. The endpoint returns
// a bare boolean, but older backend versions answer null or 0 for "no", so any
// falsy body is treated as unavailable.
func (g *Gateway) IsSlotValid(ctx context.Context, q models.ScheduleSlotQuery) (bool, error) {
	params := g.slotParams(q)

	var raw interface{}
	if err := g.get(ctx, "isPlageHoraireValid", params, &raw); err != nil {
		return false, err
	}
	return truthy(raw), nil
}

// AvailableRooms fetches the candidate rooms for a slot (emploi du temps path).
func (g *Gateway) AvailableRooms(ctx context.Context, q models.ScheduleSlotQuery) ([]models.Room, error) {
	params := g.slotParams(q)
	if q.DateISO != "" {
		params.Set("date", q.DateISO)
	}

	var rooms []models.Room
	if err := g.get(ctx, "getSallesDisponibles", params, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// AvailableRoomsForSession fetches candidate rooms for a dated session slot.
// A non-empty list implies availability; this single call replaces the
// boolean-probe-then-rooms sequence the activity path still uses. The two
// endpoints answer the same conceptual question with diverging contracts, a
// backend inconsistency pending product clarification.
func (g *Gateway) AvailableRoomsForSession(ctx context.Context, q models.ScheduleSlotQuery) ([]models.Room, error) {
	params := url.Values{}
	params.Set("annee", formatID(q.AcademicYearID))
	params.Set("classe", formatID(q.ClassID))
	params.Set("jour", formatID(q.DayID))
	params.Set("date", q.DateISO)
	params.Set("heureDeb", q.StartTime)
	params.Set("heureFin", q.EndTime)

	var rooms []models.Room
	if err := g.get(ctx, "getSallesDispoHeures", params, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ActivitiesByClassDay lists the existing activities of a class on a weekday.
func (g *Gateway) ActivitiesByClassDay(ctx context.Context, classID, dayID int64) ([]models.RawActivity, error) {
	params := url.Values{}
	params.Set("classe", formatID(classID))
	params.Set("jour", formatID(dayID))

	var activities []models.RawActivity
	if err := g.get(ctx, "getActivitesByClasseJour", params, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// SaveActivity creates or updates a scheduled activity.
func (g *Gateway) SaveActivity(ctx context.Context, payload models.ActivityPayload) (*models.RawActivity, error) {
	var saved models.RawActivity
	if err := g.post(ctx, "saveActivite", payload, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteActivity removes a scheduled activity.
func (g *Gateway) DeleteActivity(ctx context.Context, id int64) error {
	return g.del(ctx, "deleteActivite/"+formatID(id))
}

// SaveSession creates or updates a séance.
func (g *Gateway) SaveSession(ctx context.Context, payload models.SessionPayload) (*models.RawSession, error) {
	var saved models.RawSession
	if err := g.post(ctx, "seances/saveAndDisplay", payload, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteSession removes a séance.
func (g *Gateway) DeleteSession(ctx context.Context, id int64) error {
	return g.del(ctx, "seances/delete/"+formatID(id))
}

// Classes lists the school's classes.
func (g *Gateway) Classes(ctx context.Context) ([]models.Classe, error) {
	var out []models.Classe
	return out, g.get(ctx, "classes", nil, &out)
}

// Days lists the timetable weekdays.
func (g *Gateway) Days(ctx context.Context) ([]models.SchoolDay, error) {
	var out []models.SchoolDay
	return out, g.get(ctx, "jours", nil, &out)
}

// SubjectsByClass lists the matières taught to a class.
func (g *Gateway) SubjectsByClass(ctx context.Context, classID int64) ([]models.Subject, error) {
	params := url.Values{}
	params.Set("classe", formatID(classID))
	var out []models.Subject
	return out, g.get(ctx, "matieres", params, &out)
}

// Rooms lists every room of the school.
func (g *Gateway) Rooms(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	return out, g.get(ctx, "salles", nil, &out)
}

// ActivityTypes lists the activity types.
func (g *Gateway) ActivityTypes(ctx context.Context) ([]models.ActivityType, error) {
	var out []models.ActivityType
	return out, g.get(ctx, "typeActivites", nil, &out)
}

// PersonnelList lists staff usable as teachers or supervisors.
func (g *Gateway) PersonnelList(ctx context.Context) ([]models.Personnel, error) {
	var out []models.Personnel
	return out, g.get(ctx, "personnels", nil, &out)
}

// SchoolYears lists the academic years.
func (g *Gateway) SchoolYears(ctx context.Context) ([]models.SchoolYear, error) {
	var out []models.SchoolYear
	return out, g.get(ctx, "annees", nil, &out)
}

func (g *Gateway) slotParams(q models.ScheduleSlotQuery) url.Values {
	params := url.Values{}
	params.Set("annee", formatID(q.AcademicYearID))
	params.Set("classe", formatID(q.ClassID))
	params.Set("jour", formatID(q.DayID))
	params.Set("heureDeb", q.StartTime)
	params.Set("heureFin", q.EndTime)
	return params
}

// endpoint resolves a backend path with the ambient session parameters always
// appended.
func (g *Gateway) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if g.session.SchoolID != "" {
		params.Set("ecole", g.session.SchoolID)
	}
	if g.session.PeriodicityID != "" {
		params.Set("periodicite", g.session.PeriodicityID)
	}
	u := g.baseURL + "/api/" + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (g *Gateway) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint(path, params), nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	return g.do(req, dest)
}

func (g *Gateway) post(ctx context.Context, path string, body, dest interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(path, nil), bytes.NewReader(encoded))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, dest)
}

func (g *Gateway) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, g.endpoint(path, nil), nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	return g.do(req, nil)
}

func (g *Gateway) do(req *http.Request, dest interface{}) error {
	start := time.Now()
	if g.observer != nil {
		defer func() {
			g.observer(req.URL.Path, time.Since(start))
		}()
	}
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("backend unreachable",
			zap.String("url", req.URL.Path),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, appErrors.ErrNetwork.Message)
	}
	defer resp.Body.Close()

	g.logger.Debug("backend call",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classifyStatus(resp.StatusCode, body)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrCheckFailed.Code, appErrors.ErrCheckFailed.Status, "decode backend response")
	}
	return nil
}

func classifyStatus(status int, body []byte) error {
	detail := fmt.Errorf("backend status %d: %s", status, bytes.TrimSpace(body))
	switch {
	case status == http.StatusConflict:
		return appErrors.Wrap(detail, appErrors.ErrSlotTaken.Code, appErrors.ErrSlotTaken.Status, appErrors.ErrSlotTaken.Message)
	case status == http.StatusNotFound:
		return appErrors.Wrap(detail, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, appErrors.ErrNotFound.Message)
	case status >= 400 && status < 500:
		return appErrors.Wrap(detail, appErrors.ErrInvalidData.Code, appErrors.ErrInvalidData.Status, appErrors.ErrInvalidData.Message)
	default:
		return appErrors.Wrap(detail, appErrors.ErrSubmitFailed.Code, appErrors.ErrSubmitFailed.Status, appErrors.ErrSubmitFailed.Message)
	}
}

// truthy interprets the loosely-typed isPlageHoraireValid body.
func truthy(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

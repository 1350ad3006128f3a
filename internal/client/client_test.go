package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
	"github.com/soumsmith/vie-ecole-gateway/pkg/config"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(
		config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second},
		config.SessionConfig{SchoolID: "38", AcademicYearID: 2025, PeriodicityID: "2"},
		zap.NewNop(),
	)
}

func TestIsSlotValidAppendsSessionParams(t *testing.T) {
	var gotQuery map[string]string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"ecole":       r.URL.Query().Get("ecole"),
			"periodicite": r.URL.Query().Get("periodicite"),
			"classe":      r.URL.Query().Get("classe"),
			"jour":        r.URL.Query().Get("jour"),
			"heureDeb":    r.URL.Query().Get("heureDeb"),
			"heureFin":    r.URL.Query().Get("heureFin"),
		}
		w.Write([]byte("true"))
	})

	ok, err := g.IsSlotValid(context.Background(), models.ScheduleSlotQuery{
		ClassID: 5, DayID: 2, StartTime: "08:00", EndTime: "09:00", AcademicYearID: 12,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "38", gotQuery["ecole"])
	assert.Equal(t, "2", gotQuery["periodicite"])
	assert.Equal(t, "5", gotQuery["classe"])
	assert.Equal(t, "2", gotQuery["jour"])
	assert.Equal(t, "08:00", gotQuery["heureDeb"])
	assert.Equal(t, "09:00", gotQuery["heureFin"])
}

func TestIsSlotValidToleratesFalsyBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"boolean true", "true", true},
		{"boolean false", "false", false},
		{"null", "null", false},
		{"zero", "0", false},
		{"one", "1", true},
		{"quoted true", `"true"`, true},
		{"empty string", `""`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			ok, err := g.IsSlotValid(context.Background(), models.ScheduleSlotQuery{ClassID: 1, DayID: 1})
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestAvailableRoomsForSessionDecodesList(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "getSallesDispoHeures")
		assert.Equal(t, "2026-02-04", r.URL.Query().Get("date"))
		w.Write([]byte(`[{"id":7,"libelle":"Salle 7"},{"id":9,"libelle":"Salle 9"}]`))
	})

	rooms, err := g.AvailableRoomsForSession(context.Background(), models.ScheduleSlotQuery{
		ClassID: 5, DayID: 3, DateISO: "2026-02-04", StartTime: "08:00", EndTime: "09:00", AcademicYearID: 12,
	})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, int64(7), rooms[0].ID)
	assert.Equal(t, "Salle 9", rooms[1].Libelle)
}

func TestSaveActivityClassifiesConflict(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slot occupied", http.StatusConflict)
	})

	_, err := g.SaveActivity(context.Background(), models.ActivityPayload{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSlotTaken.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestSaveActivityClassifiesBadRequest(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusUnprocessableEntity)
	})

	_, err := g.SaveActivity(context.Background(), models.ActivityPayload{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidData.Code, appErr.Code)
}

func TestNetworkFailureMapsToNetworkError(t *testing.T) {
	g := New(
		config.BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond},
		config.SessionConfig{},
		zap.NewNop(),
	)

	_, err := g.IsSlotValid(context.Background(), models.ScheduleSlotQuery{ClassID: 1, DayID: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNetwork.Code, appErrors.FromError(err).Code)
}

func TestDeleteActivityTargetsIDPath(t *testing.T) {
	var gotPath string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, g.DeleteActivity(context.Background(), 42))
	assert.Equal(t, "/api/deleteActivite/42", gotPath)
}

func TestSaveSessionPostsJSON(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Contains(t, r.URL.Path, "seances/saveAndDisplay")
		w.Write([]byte(`{"id":99,"heureDeb":"08:00","heureFin":"09:00"}`))
	})

	saved, err := g.SaveSession(context.Background(), models.SessionPayload{})
	require.NoError(t, err)
	assert.Equal(t, int64(99), saved.ID)
}

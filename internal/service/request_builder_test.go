package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soumsmith/vie-ecole-gateway/internal/models"
)

func testRefs() models.ReferenceSet {
	return models.ReferenceSet{
		Classes:       []models.Classe{{ID: 5, Libelle: "6e A"}},
		Days:          []models.SchoolDay{{ID: 2, Libelle: "Mardi"}, {ID: 3, Libelle: "Mercredi"}},
		Subjects:      []models.Subject{{ID: 3, Libelle: "Mathématiques"}},
		Rooms:         []models.Room{{ID: 7, Libelle: "Salle 7"}},
		ActivityTypes: []models.ActivityType{{ID: 1, Libelle: "Cours"}},
		Personnel:     []models.Personnel{{ID: 30, Nom: "Koné"}, {ID: 31, Nom: "Traoré"}},
		Years:         []models.SchoolYear{{ID: 12, Libelle: "2025-2026"}},
	}
}

func validDraft() models.ActivityDraft {
	return models.ActivityDraft{
		ClassID: 5, DayID: 2, StartTime: "08:00", EndTime: "09:00",
		SubjectID: 3, RoomID: 7, ActivityTypeID: 1,
	}
}

func TestBuildActivityPayload(t *testing.T) {
	payload, err := BuildActivityPayload(validDraft(), 12, testRefs())
	require.NoError(t, err)

	assert.Equal(t, int64(5), payload.Classe.ID)
	assert.Equal(t, int64(2), payload.Jour.ID)
	assert.Equal(t, int64(3), payload.Matiere.ID)
	assert.Equal(t, int64(7), payload.Salle.ID)
	assert.Equal(t, int64(1), payload.TypeActivite.ID)
	assert.Equal(t, int64(12), payload.Annee.ID)
	assert.Equal(t, "08:00", payload.HeureDeb)
	assert.Equal(t, "09:00", payload.HeureFin)
}

func TestBuildActivityPayloadNullsEveryLibelle(t *testing.T) {
	payload, err := BuildActivityPayload(validDraft(), 12, testRefs())
	require.NoError(t, err)

	for name, ref := range map[string]models.EntityRef{
		"classe":       payload.Classe,
		"jour":         payload.Jour,
		"matiere":      payload.Matiere,
		"salle":        payload.Salle,
		"typeActivite": payload.TypeActivite,
		"annee":        payload.Annee,
	} {
		assert.Nil(t, ref.Libelle, "libelle of %s must be null on write", name)
	}
}

func TestBuildActivityPayloadResolutionMiss(t *testing.T) {
	draft := validDraft()
	draft.RoomID = 999

	_, err := BuildActivityPayload(draft, 12, testRefs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "room")
}

func TestBuildActivityPayloadDoesNotMutateInputs(t *testing.T) {
	draft := validDraft()
	refs := testRefs()
	before := draft

	_, err := BuildActivityPayload(draft, 12, refs)
	require.NoError(t, err)
	assert.Equal(t, before, draft)
	assert.Equal(t, "Salle 7", refs.Rooms[0].Libelle)
}

func sessionDraft() models.SessionDraft {
	return models.SessionDraft{
		ActivityDraft: models.ActivityDraft{
			ClassID: 5, DayID: 3, StartTime: "08:00", EndTime: "09:00",
			SubjectID: 3, RoomID: 7, ActivityTypeID: 1,
		},
		SessionDate:  time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC),
		TeacherID:    30,
		SupervisorID: 31,
		Duration:     "01:30",
	}
}

func TestBuildSessionPayloadConvertsDuration(t *testing.T) {
	payload, err := BuildSessionPayload(sessionDraft(), 12, testRefs())
	require.NoError(t, err)

	assert.Equal(t, 90, payload.Duree)
	assert.Equal(t, "2026-02-04", payload.Date)
	assert.Equal(t, int64(30), payload.Professeur.ID)
	assert.Equal(t, int64(31), payload.Surveillant.ID)
	assert.Nil(t, payload.Professeur.Libelle)
}

func TestBuildSessionPayloadSentinelEvaluation(t *testing.T) {
	draft := sessionDraft()
	draft.EvaluationGenerated = false

	payload, err := BuildSessionPayload(draft, 12, testRefs())
	require.NoError(t, err)

	// The key is present but zeroed when no evaluation is generated.
	assert.Equal(t, models.EvaluationPayload{}, payload.Evaluation)
}

func TestBuildSessionPayloadGeneratedEvaluation(t *testing.T) {
	draft := sessionDraft()
	draft.EvaluationGenerated = true
	draft.Period = "Trimestre 1"
	draft.ScoreMax = 20

	payload, err := BuildSessionPayload(draft, 12, testRefs())
	require.NoError(t, err)

	assert.True(t, payload.Evaluation.Generated)
	assert.Equal(t, "Trimestre 1", payload.Evaluation.Periode)
	assert.Equal(t, 20, payload.Evaluation.NoteSur)
	assert.Equal(t, 90, payload.Evaluation.Duree)
	assert.Equal(t, "2026-02-04", payload.Evaluation.Date)
}

func TestBuildSessionPayloadTeacherMiss(t *testing.T) {
	draft := sessionDraft()
	draft.TeacherID = 404

	_, err := BuildSessionPayload(draft, 12, testRefs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teacher")
}

func TestBuildSessionPayloadOptionalSupervisor(t *testing.T) {
	draft := sessionDraft()
	draft.SupervisorID = 0

	payload, err := BuildSessionPayload(draft, 12, testRefs())
	require.NoError(t, err)
	assert.Zero(t, payload.Surveillant.ID)
}

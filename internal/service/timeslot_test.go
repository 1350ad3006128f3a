package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

func TestValidateTimeRange(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		wantCode string
	}{
		{"missing start", "", "09:00", appErrors.ErrMissingTime.Code},
		{"missing end", "08:00", "", appErrors.ErrMissingTime.Code},
		{"equal times", "08:00", "08:00", appErrors.ErrInvalidOrder.Code},
		{"reversed", "10:00", "08:00", appErrors.ErrInvalidOrder.Code},
		{"ten minutes", "08:00", "08:10", appErrors.ErrTooShort.Code},
		{"fourteen minutes", "08:00", "08:14", appErrors.ErrTooShort.Code},
		{"exactly fifteen", "08:00", "08:15", ""},
		{"one hour", "08:00", "09:00", ""},
		{"across noon", "11:50", "13:05", ""},
		{"garbage start", "8h00", "09:00", appErrors.ErrValidation.Code},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTimeRange(tc.start, tc.end)
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, appErrors.FromError(err).Code)
		})
	}
}

func TestValidateTimeRangeTooShortMessage(t *testing.T) {
	err := ValidateTimeRange("08:00", "08:10")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "15 minutes")
}

func TestDeriveDay(t *testing.T) {
	monday := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(1), DeriveDay(monday))

	wednesday := time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(3), DeriveDay(wednesday))

	saturday := time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(6), DeriveDay(saturday))

	sunday := time.Date(2026, time.February, 8, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(7), DeriveDay(sunday))

	// Idempotent under repeated calls.
	assert.Equal(t, DeriveDay(wednesday), DeriveDay(wednesday))
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, 90, DurationMinutes("01:30"))
	assert.Equal(t, 60, DurationMinutes("01:00"))
	assert.Equal(t, 0, DurationMinutes(""))
	assert.Equal(t, 0, DurationMinutes("not-a-time"))
}

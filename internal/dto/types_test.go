package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_AcceptsCalendarDateAndTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-02-28"`), &d))
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2026-02-28T17:45:00Z"`), &d))
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d.Time)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-28"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"28/02/2026"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20260228`), &d))
}

func TestNullable_DistinguishesNullFromAbsent(t *testing.T) {
	var req struct {
		DueDate    Nullable[Date]    `json:"due_date"`
		AssignedTo Nullable[uint64]  `json:"assigned_to"`
		Score      Nullable[float64] `json:"quality_score"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": null, "assigned_to": 7}`), &req))

	assert.True(t, req.DueDate.Set)
	assert.False(t, req.DueDate.Valid)
	assert.Nil(t, req.DueDate.Ptr())

	assert.True(t, req.AssignedTo.Set)
	require.NotNil(t, req.AssignedTo.Ptr())
	assert.Equal(t, uint64(7), *req.AssignedTo.Ptr())

	assert.False(t, req.Score.Set)
}

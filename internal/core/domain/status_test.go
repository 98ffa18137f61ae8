package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		wantKind StatusKind
		wantText string
	}{
		{"exited", "Exited (0) 2 hours ago", StatusStopped, "Stopped"},
		{"exited with health fragment", "Exited (137) 5 seconds ago (healthy)", StatusStopped, "Stopped"},
		{"exited bare", "Exited", StatusStopped, "Stopped"},
		{"healthy", "Up 3 minutes (healthy)", StatusHealthy, "healthy"},
		{"unhealthy", "Up 10 minutes (unhealthy)", StatusUnhealthy, "unhealthy"},
		{"starting", "Up 2 seconds (health: starting)", StatusStarting, "Up 2 seconds (health: starting)"},
		{"paused", "Up 4 hours (Paused)", StatusUnknown, "Up 4 hours (Paused)"},
		{"empty fragment", "Up 1 second ()", StatusUnknown, "Up 1 second ()"},
		{"no parentheses", "Up 3 minutes", StatusUnknown, "Up 3 minutes"},
		{"created", "Created", StatusUnknown, "Created"},
		{"empty", "", StatusUnknown, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kind, text, err := Classify(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantText, text)
		})
	}
}

func TestClassify_MalformedStatus(t *testing.T) {
	for _, raw := range []string{"Up 3 minutes (healthy", "Up (", "Up ) then (healthy"} {
		t.Run(raw, func(t *testing.T) {
			_, _, err := Classify(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedStatus)
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	inputs := []string{
		"Exited (1) 3 days ago",
		"Up 3 minutes (healthy)",
		"Up 2 seconds (health: starting)",
		"Up About an hour",
	}
	for _, raw := range inputs {
		kind1, text1, err1 := Classify(raw)
		kind2, text2, err2 := Classify(raw)
		assert.Equal(t, kind1, kind2, raw)
		assert.Equal(t, text1, text2, raw)
		assert.Equal(t, err1, err2, raw)
	}
}

func TestStatusKind_JSON(t *testing.T) {
	data, err := json.Marshal(Container{ID: "abc", Name: "web", StatusKind: StatusHealthy})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status_kind":"healthy"`)

	var decoded Container
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, StatusHealthy, decoded.StatusKind)
}

package docker

import (
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

func TestFromSummary(t *testing.T) {
	c, err := fromSummary(types.Container{
		ID:     "abc123def4567890",
		Names:  []string{"/web1"},
		Status: "Up 3 minutes (healthy)",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123def456", c.ID)
	assert.Equal(t, "web1", c.Name)
	assert.Equal(t, domain.StatusHealthy, c.StatusKind)

	c, err = fromSummary(types.Container{ID: "def456", Names: []string{"/db1"}, Status: "Exited (0) 2 hours ago"})
	require.NoError(t, err)
	assert.Equal(t, "def456", c.ID)
	assert.Equal(t, domain.StatusStopped, c.StatusKind)
	assert.Equal(t, "Stopped", c.StatusText)
}

func TestFromSummary_Malformed(t *testing.T) {
	_, err := fromSummary(types.Container{ID: "abc", Status: "Up"})
	assert.ErrorIs(t, err, domain.ErrMalformedListingLine)

	_, err = fromSummary(types.Container{ID: "abc", Names: []string{"/x"}, Status: "Up (healthy"})
	assert.ErrorIs(t, err, domain.ErrMalformedStatus)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListing(t *testing.T) {
	lines := []string{
		"abc123;web1;Up 3 minutes (healthy)",
		"def456;db1;Exited (0) 2 hours ago",
	}

	containers, err := ParseListing(lines)
	require.NoError(t, err)
	require.Len(t, containers, 2)

	assert.Equal(t, "abc123", containers[0].ID)
	assert.Equal(t, "web1", containers[0].Name)
	assert.Equal(t, StatusHealthy, containers[0].StatusKind)
	assert.Equal(t, "Up 3 minutes (healthy)", containers[0].RawStatus)

	assert.Equal(t, "def456", containers[1].ID)
	assert.Equal(t, "db1", containers[1].Name)
	assert.Equal(t, StatusStopped, containers[1].StatusKind)
	assert.Equal(t, "Stopped", containers[1].StatusText)
}

func TestParseListing_Empty(t *testing.T) {
	containers, err := ParseListing(nil)
	require.NoError(t, err)
	assert.NotNil(t, containers)
	assert.Empty(t, containers)

	containers, err = ParseListing([]string{"", "  ", "\r"})
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestParseListing_MalformedLine(t *testing.T) {
	testCases := map[string]string{
		"two fields": "abc123;web1",
		"one field":  "abc123",
		"empty id":   ";web1;Up 3 minutes",
		"empty name": "abc123;;Up 3 minutes",
	}
	for name, line := range testCases {
		t.Run(name, func(t *testing.T) {
			containers, err := ParseListing([]string{"ok1;ok;Up 1 minute", line})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedListingLine)
			assert.Contains(t, err.Error(), "line 2")
			assert.Nil(t, containers)
		})
	}
}

func TestParseListing_StatusWithSeparator(t *testing.T) {
	containers, err := ParseListing([]string{"abc;web;Up 1 minute; extra (healthy)"})
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "Up 1 minute; extra (healthy)", containers[0].RawStatus)
	assert.Equal(t, StatusHealthy, containers[0].StatusKind)
}

func TestParseListing_MalformedStatus(t *testing.T) {
	_, err := ParseListing([]string{"abc;web;Up 1 minute (healthy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedStatus)
}

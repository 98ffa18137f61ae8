package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

func TestLifecycle(t *testing.T) {
	testCases := []struct {
		action domain.Action
		name   string
		want   string
	}{
		{domain.ActionStart, "bc1", "Start-NAVContainer -containername 'bc1'"},
		{domain.ActionStop, "bc1", "Stop-NAVContainer -containername 'bc1'"},
		{domain.ActionRestart, "bc1", "Restart-NAVContainer -containername 'bc1'"},
		{domain.ActionRemove, "o'brien", "Remove-NAVContainer -containername 'o''brien'"},
	}
	for _, tc := range testCases {
		t.Run(string(tc.action), func(t *testing.T) {
			got, err := Lifecycle(tc.action, tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLifecycle_Invalid(t *testing.T) {
	_, err := Lifecycle(domain.Action("pause"), "bc1")
	assert.Error(t, err)

	_, err = Lifecycle(domain.ActionStart, "")
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	script, err := Create(domain.CreateRequest{
		Name:         "bc1",
		Image:        "mcr.microsoft.com/businesscentral/onprem",
		Username:     "admin",
		Password:     "P@ss'word",
		IncludeCSide: true,
		AcceptEula:   true,
	})
	require.NoError(t, err)

	assert.Contains(t, script, "[PSCredential]::new('admin', (ConvertTo-SecureString -String 'P@ss''word' -AsPlainText -Force))")
	assert.Contains(t, script, "New-NavContainer -accept_eula:$TRUE -containername 'bc1' ")
	assert.Contains(t, script, "-includeCSide ")
	assert.Contains(t, script, "-imageName 'mcr.microsoft.com/businesscentral/onprem'")
}

func TestCreate_Defaults(t *testing.T) {
	script, err := Create(domain.CreateRequest{Name: "bc2", Image: "img", Username: "admin"})
	require.NoError(t, err)
	assert.Contains(t, script, "-accept_eula:$FALSE")
	assert.NotContains(t, script, "-includeCSide")
}

func TestCreate_Validation(t *testing.T) {
	for name, req := range map[string]domain.CreateRequest{
		"missing name":     {Image: "img", Username: "u"},
		"missing image":    {Name: "n", Username: "u"},
		"missing username": {Name: "n", Image: "img"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Create(req)
			assert.Error(t, err)
		})
	}
}

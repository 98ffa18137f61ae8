// Package commands formats the scripts submitted to the execution lanes.
// Scripts target the navcontainerhelper module; values supplied by callers
// are quoted so they cannot break out of their argument.
package commands

import (
	"fmt"
	"strings"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// ListContainers is the listing query run on the synchronous lane. Its
// output format matches domain.ParseListing.
const ListContainers = `docker ps -a --format "{{.ID}};{{.Names}};{{.Status}}"`

var actionVerbs = map[domain.Action]string{
	domain.ActionStart:   "Start-NAVContainer",
	domain.ActionStop:    "Stop-NAVContainer",
	domain.ActionRestart: "Restart-NAVContainer",
	domain.ActionRemove:  "Remove-NAVContainer",
}

// Lifecycle returns the script applying action to the named container.
func Lifecycle(action domain.Action, name string) (string, error) {
	verb, ok := actionVerbs[action]
	if !ok {
		return "", fmt.Errorf("unknown container action: %q", action)
	}
	if name == "" {
		return "", fmt.Errorf("container name is required")
	}
	return fmt.Sprintf("%s -containername %s", verb, Quote(name)), nil
}

// Create returns the script provisioning a new container.
func Create(req domain.CreateRequest) (string, error) {
	switch {
	case req.Name == "":
		return "", fmt.Errorf("container name is required")
	case req.Image == "":
		return "", fmt.Errorf("image name is required")
	case req.Username == "":
		return "", fmt.Errorf("username is required")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "$credential = ([PSCredential]::new(%s, (ConvertTo-SecureString -String %s -AsPlainText -Force)))\n",
		Quote(req.Username), Quote(req.Password))
	fmt.Fprintf(&sb, "New-NavContainer -accept_eula:%s ", psBool(req.AcceptEula))
	fmt.Fprintf(&sb, "-containername %s ", Quote(req.Name))
	sb.WriteString("-credential $credential ")
	sb.WriteString("-auth NavUserPassword ")
	if req.IncludeCSide {
		sb.WriteString("-includeCSide ")
	}
	sb.WriteString("-doNotExportObjectsToText ")
	sb.WriteString("-usessl:$false ")
	sb.WriteString("-updateHosts ")
	sb.WriteString("-assignPremiumPlan ")
	sb.WriteString("-shortcuts Startmenu ")
	fmt.Fprintf(&sb, "-imageName %s", Quote(req.Image))
	return sb.String(), nil
}

// Quote wraps s in single quotes, doubling any embedded single quote.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psBool(b bool) string {
	if b {
		return "$TRUE"
	}
	return "$FALSE"
}

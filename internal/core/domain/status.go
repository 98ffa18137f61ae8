package domain

import (
	"fmt"
	"strings"
)

// StatusKind is the health state a container is classified into.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusStopped
	StatusHealthy
	StatusUnhealthy
	StatusStarting
)

func (k StatusKind) String() string {
	switch k {
	case StatusStopped:
		return "stopped"
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusStarting:
		return "starting"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name so JSON output stays readable.
func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name. Unrecognised names map to StatusUnknown.
func (k *StatusKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stopped":
		*k = StatusStopped
	case "healthy":
		*k = StatusHealthy
	case "unhealthy":
		*k = StatusUnhealthy
	case "starting":
		*k = StatusStarting
	default:
		*k = StatusUnknown
	}
	return nil
}

const stoppedText = "Stopped"

// Classify maps a raw runtime status such as "Up 3 minutes (healthy)" or
// "Exited (0) 2 hours ago" to a status kind and the text to display for it.
//
// An "Exited" prefix always wins. Otherwise the parenthesised health
// fragment decides; anything without one is unknown.
func Classify(raw string) (StatusKind, string, error) {
	if strings.HasPrefix(raw, "Exited") {
		return StatusStopped, stoppedText, nil
	}

	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return StatusUnknown, raw, nil
	}
	closing := strings.LastIndexByte(raw, ')')
	if closing < open {
		return StatusUnknown, "", fmt.Errorf("%w: no closing parenthesis in %q", ErrMalformedStatus, raw)
	}

	health := raw[open+1 : closing]
	if strings.Contains(health, "starting") {
		health = "starting"
	}
	switch health {
	case "healthy":
		return StatusHealthy, health, nil
	case "unhealthy":
		return StatusUnhealthy, health, nil
	case "starting":
		return StatusStarting, raw, nil
	default:
		return StatusUnknown, raw, nil
	}
}

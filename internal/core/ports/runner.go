package ports

import (
	"context"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// ScriptHost runs a script to completion, appending everything it writes
// to out. Implementations must stop writing before Invoke returns and must
// terminate the script when ctx is cancelled. The returned error reports a
// failure of the script as a whole (non-zero exit, failure to start).
type ScriptHost interface {
	Invoke(ctx context.Context, script string, out domain.StreamWriter) error
}

// QueryRunner runs a short, non-mutating command and returns its output
// lines. It blocks the caller and is independent of any running script.
type QueryRunner interface {
	Query(ctx context.Context, command string) ([]string, error)
}

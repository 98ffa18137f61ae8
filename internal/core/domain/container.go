package domain

// Container represents a container as reported by the runtime.
// Values are snapshots built fresh on every listing call.
type Container struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	RawStatus  string     `json:"raw_status"`
	StatusKind StatusKind `json:"status_kind"`
	StatusText string     `json:"status_text"`
}

// NewContainer builds a container record, deriving its status kind and
// display text from the raw runtime status.
func NewContainer(id, name, rawStatus string) (Container, error) {
	kind, text, err := Classify(rawStatus)
	if err != nil {
		return Container{}, err
	}
	return Container{
		ID:         id,
		Name:       name,
		RawStatus:  rawStatus,
		StatusKind: kind,
		StatusText: text,
	}, nil
}

// Action is a lifecycle operation that can be applied to an existing container.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionRemove  Action = "remove"
)

// Valid reports whether a is one of the known lifecycle actions.
func (a Action) Valid() bool {
	switch a {
	case ActionStart, ActionStop, ActionRestart, ActionRemove:
		return true
	}
	return false
}

// CreateRequest describes a new container to provision.
type CreateRequest struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	IncludeCSide bool   `json:"include_cside"`
	AcceptEula   bool   `json:"accept_eula"`
}

// Package task runs one extraction per file on a goroutine it owns.
package task

// State is the lifecycle position of a Runner.
type State int32

const (
	// StateIdle means the runner has been created but not started.
	StateIdle State = iota
	// StateRunning means the scan goroutine is alive.
	StateRunning
	// StateCompleted means the file was scanned to the end.
	StateCompleted
	// StateFailed means the file could not be opened or read.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// MarshalText renders the state name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

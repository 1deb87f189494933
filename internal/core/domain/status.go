package domain

// StatusCode is the outcome of a compile, using the Build Server Protocol wire values.
type StatusCode int

const (
	// StatusOK indicates the compile succeeded.
	StatusOK StatusCode = 1
	// StatusError indicates the compile failed.
	StatusError StatusCode = 2
)

// String returns the string representation of the StatusCode.
func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// OK reports whether the status is StatusOK.
func (s StatusCode) OK() bool {
	return s == StatusOK
}

// WorstStatus aggregates statuses with the worst-of rule: any non-OK status yields StatusError.
// The result does not depend on the order of the arguments. An empty input is StatusOK.
func WorstStatus(statuses ...StatusCode) StatusCode {
	for _, s := range statuses {
		if s != StatusOK {
			return StatusError
		}
	}
	return StatusOK
}

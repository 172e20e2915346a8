package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	SearchStarted Type = iota + 1
	DirFailed
	CandidateDropped
	CandidateFailed
	MatchFound
	VerifyStarted
	VerifyFailed
	SearchComplete
)

var typeNames = [...]string{
	SearchStarted:    "SearchStarted",
	DirFailed:        "DirFailed",
	CandidateDropped: "CandidateDropped",
	CandidateFailed:  "CandidateFailed",
	MatchFound:       "MatchFound",
	VerifyStarted:    "VerifyStarted",
	VerifyFailed:     "VerifyFailed",
	SearchComplete:   "SearchComplete",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress notification from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string
	Relation  string // MatchFound: HARDLINK or REFLINK
	Kind      string // CandidateDropped: the failure kind
	Error     error
}

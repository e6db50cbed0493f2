package core

import "time"

// FactKey identifies one entry in the closed set of user facts.
type FactKey string

const (
	FactName             FactKey = "name"
	FactPreferredAddress FactKey = "preferred_address"
	FactWorkStart        FactKey = "work_start"
	FactWorkEnd          FactKey = "work_end"
	FactLastInteraction  FactKey = "last_interaction"
)

var factKeys = map[FactKey]struct{}{
	FactName:             {},
	FactPreferredAddress: {},
	FactWorkStart:        {},
	FactWorkEnd:          {},
	FactLastInteraction:  {},
}

// Valid reports whether k belongs to the enumerated fact-key set.
func (k FactKey) Valid() bool {
	_, ok := factKeys[k]
	return ok
}

// UserProfile maps fact keys to their current string values.
type UserProfile map[FactKey]string

// DefaultProfile returns the profile used before any facts are stored.
func DefaultProfile() UserProfile {
	return UserProfile{
		FactWorkStart: "09:00",
		FactWorkEnd:   "18:00",
	}
}

type Interest struct {
	Topic    string
	Level    int
	LastSeen time.Time
}

// ProgrammingKnowledge is keyed by the (Language, Framework) pair; either
// side may be empty, so a framework-only observation never collides with a
// language row.
type ProgrammingKnowledge struct {
	Language  string
	Framework string
	Level     int
	LastSeen  time.Time
}

type Appointment struct {
	ID          int64
	Title       string
	Description string
	Moment      time.Time
	Recurring   bool
	Weekdays    []time.Weekday
	Notify      bool
}

// Snapshot is the materialized profile view handed to the context builder.
// It is rebuilt fresh on every request.
type Snapshot struct {
	Info        UserProfile
	Interests   []Interest
	Programming []ProgrammingKnowledge
}

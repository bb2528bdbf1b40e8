// Package audit keeps a per-project trail of what happened to a site:
// generations, multiplications, imports and exports, with their outcome.
package audit

import "time"

// ActorType identifies who performed an action.
type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorSystem ActorType = "system"
	ActorAgent  ActorType = "agent"
)

// Action describes what was done.
type Action string

const (
	ActionProjectCreated  Action = "project_created"
	ActionFilesImported   Action = "files_imported"
	ActionSiteGenerated   Action = "site_generated"
	ActionPagesMultiplied Action = "pages_multiplied"
	ActionSiteExported    Action = "site_exported"
	ActionNotified        Action = "notified"
)

// Outcome is how the action ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "error"
	OutcomeInfo    Outcome = "info"
)

// Entry is a single audit trail record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	ProjectID     string    `json:"project_id"`
	ActorType     ActorType `json:"actor_type"`
	ActorID       string    `json:"actor_id"`
	Action        Action    `json:"action"`
	Outcome       Outcome   `json:"outcome"`
	Summary       string    `json:"summary"`
	Detail        string    `json:"detail,omitempty"`
	AffectedPaths []string  `json:"affected_paths"`
}

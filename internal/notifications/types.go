package notifications

import (
	"context"
	"time"
)

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a toast-style message shown to the user. It never
// carries stack traces.
type Notification struct {
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the port through which core operations report outcomes,
// passed in explicitly instead of reaching for a global toast queue.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success builds a success notification.
func Success(projectID, title, message string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Message: message, ProjectID: projectID}
}

// Failure builds an error notification.
func Failure(projectID, title, message string) Notification {
	return Notification{Level: LevelError, Title: title, Message: message, ProjectID: projectID}
}

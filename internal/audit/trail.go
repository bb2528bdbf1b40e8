package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/notifications"
)

// Trail records entries without failing the operation that produced them;
// write errors are only logged.
type Trail struct {
	store *Store
	log   *zerolog.Logger
}

// NewTrail creates a Trail writing to store. A nil log discards output.
func NewTrail(store *Store, log *zerolog.Logger) *Trail {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Trail{store: store, log: log}
}

// Record stores e, logging instead of returning any error.
func (t *Trail) Record(ctx context.Context, e Entry) {
	if e.ProjectID == "" {
		return
	}
	if err := t.store.Log(ctx, e); err != nil {
		t.log.Warn().Err(err).Str("project", e.ProjectID).Str("action", string(e.Action)).Msg("audit entry not recorded")
	}
}

// Notify records a toast as an entry so the trail also shows what the user
// was told. Notifications without a project are ignored.
func (t *Trail) Notify(ctx context.Context, n notifications.Notification) {
	t.Record(ctx, Entry{
		ProjectID: n.ProjectID,
		ActorType: ActorSystem,
		Action:    ActionNotified,
		Outcome:   outcomeOf(n.Level),
		Summary:   n.Title,
		Detail:    n.Message,
	})
}

func outcomeOf(l notifications.Level) Outcome {
	switch l {
	case notifications.LevelSuccess:
		return OutcomeSuccess
	case notifications.LevelError:
		return OutcomeFailure
	default:
		return OutcomeInfo
	}
}

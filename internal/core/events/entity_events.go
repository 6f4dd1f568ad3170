package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/project-tracker/internal"
)

const (
	EntityProject  = "project"
	EntityUser     = "user"
	EntityCategory = "category"
	EntityRole     = "role"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Type returns the event type for an entity action, e.g. "project.created".
func Type(entity, action string) string {
	return entity + "." + action
}

// TypesFor lists every action's event type for the given entities.
func TypesFor(entities ...string) []string {
	out := make([]string, 0, len(entities)*3)
	for _, e := range entities {
		out = append(out, Type(e, ActionCreated), Type(e, ActionUpdated), Type(e, ActionDeleted))
	}
	return out
}

// AllEntityTypes is every entity change event the services publish.
func AllEntityTypes() []string {
	return TypesFor(EntityProject, EntityUser, EntityCategory, EntityRole)
}

type EntityChangedEvent struct {
	BaseEvent
	Entity   string `json:"entity"`
	Action   string `json:"action"`
	EntityID int64  `json:"entity_id"`
	Label    string `json:"label"`
	ActorUID string `json:"actor_uid"`
}

func NewEntityChangedEvent(entity, action string, entityID int64, label, actorUID string) *EntityChangedEvent {
	return &EntityChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      Type(entity, action),
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entity":    entity,
				"action":    action,
				"entity_id": entityID,
				"label":     label,
				"actor_uid": actorUID,
			},
		},
		Entity:   entity,
		Action:   action,
		EntityID: entityID,
		Label:    label,
		ActorUID: actorUID,
	}
}

// Title is the short human-readable form used for activity logs, e.g. "Created project".
func (e *EntityChangedEvent) Title() string {
	verb := map[string]string{
		ActionCreated: "Created",
		ActionUpdated: "Updated",
		ActionDeleted: "Deleted",
	}[e.Action]
	if verb == "" {
		verb = e.Action
	}
	return fmt.Sprintf("%s %s", verb, e.Entity)
}

func (e *EntityChangedEvent) Description() string {
	if e.Label == "" {
		return fmt.Sprintf("%s #%d", e.Entity, e.EntityID)
	}
	return fmt.Sprintf("%s #%d (%s)", e.Entity, e.EntityID, e.Label)
}

// Emit publishes an entity change attributed to the request identity. A nil
// publisher is a no-op; publish failures are logged, never returned.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, entity, action string, entityID int64, label string) {
	if p == nil {
		return
	}
	evt := NewEntityChangedEvent(entity, action, entityID, label, internal.UserIDFromContext(ctx))
	if err := p.Publish(ctx, evt); err != nil && logger != nil {
		logger.ErrorContext(ctx, "failed to publish entity event", "event_type", evt.Type, "error", err)
	}
}

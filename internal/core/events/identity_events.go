package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered    = "user.registered"
	EventTypeUserUpdated       = "user.updated"
	EventTypeUserRoleChanged   = "user.role_changed"
	EventTypeUserStatusChanged = "user.status_changed"
	EventTypeRoleCreated       = "role.created"
	EventTypeRoleUpdated       = "role.updated"
	EventTypeRoleDeleted       = "role.deleted"
)

// IdentityEventTypes lists every event the identity services emit.
var IdentityEventTypes = []string{
	EventTypeUserRegistered,
	EventTypeUserUpdated,
	EventTypeUserRoleChanged,
	EventTypeUserStatusChanged,
	EventTypeRoleCreated,
	EventTypeRoleUpdated,
	EventTypeRoleDeleted,
}

type UserEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	RoleID  string `json:"role_id"`
	Status  string `json:"status"`
	ActorID string `json:"actor_id,omitempty"`
}

func NewUserEvent(eventType, userID, email, roleID, status, actorID string) *UserEvent {
	return &UserEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"email":    email,
				"role_id":  roleID,
				"status":   status,
				"actor_id": actorID,
			},
		},
		UserID:  userID,
		Email:   email,
		RoleID:  roleID,
		Status:  status,
		ActorID: actorID,
	}
}

type RoleEvent struct {
	BaseEvent
	RoleID  string `json:"role_id"`
	Name    string `json:"name"`
	ActorID string `json:"actor_id,omitempty"`
}

func NewRoleEvent(eventType, roleID, name, actorID string) *RoleEvent {
	return &RoleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"role_id":  roleID,
				"name":     name,
				"actor_id": actorID,
			},
		},
		RoleID:  roleID,
		Name:    name,
		ActorID: actorID,
	}
}

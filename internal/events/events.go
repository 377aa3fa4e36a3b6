package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoubhik18/lms-admin-service/internal/models"
)

const (
	EventUserCreated        = "user.created"
	EventUserDeleted        = "user.deleted"
	EventEnrollmentReplaced = "batch.enrollment_replaced"
)

// Event is the envelope every published message carries.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and provenance filled in.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "lms-admin-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// UserCreatedEvent is published after a user and its profile are
// committed. DefaultPassword tells the mail consumer whether the account
// was provisioned with the category default credentials.
type UserCreatedEvent struct {
	UserID          uint                `json:"user_id"`
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Category        models.UserCategory `json:"category"`
	DefaultPassword bool                `json:"default_password"`
}

// UserDeletedEvent is published after a user, its profile, and its
// enrollment rows are removed.
type UserDeletedEvent struct {
	UserID   uint                `json:"user_id"`
	Email    string              `json:"email"`
	Category models.UserCategory `json:"category"`
}

// EnrollmentReplacedEvent is published after a batch's student set has
// been replaced wholesale.
type EnrollmentReplacedEvent struct {
	BatchID    uint   `json:"batch_id"`
	StudentIDs []uint `json:"student_ids"`
}

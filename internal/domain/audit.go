package domain

import "time"

type AuditAction string

const (
	AuditCreate       AuditAction = "create"
	AuditUpdate       AuditAction = "update"
	AuditDelete       AuditAction = "delete"
	AuditRestore      AuditAction = "restore"
	AuditPurge        AuditAction = "purge"
	AuditStatusChange AuditAction = "status_change"
	AuditMessage      AuditAction = "message"
)

// AuditEntry is append-only. Entries outlive the entities they describe:
// deleting a booking or a room never cascades into the trail.
type AuditEntry struct {
	ID         int64       `json:"id"`
	EventID    string      `json:"event_id"`
	UserID     *int64      `json:"user_id,omitempty"`
	Action     AuditAction `json:"action"`
	ObjectType string      `json:"object_type"`
	ObjectID   int64       `json:"object_id"`
	Details    string      `json:"details"`
	Timestamp  time.Time   `json:"timestamp"`
}

package documents

import "time"

// Status values for the document workflow. Transitions are owned by the
// workflow collaborator; this package only reads them for edit locks.
const (
	StatusDraft     = "draft"
	StatusInReview  = "in_review"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Document represents a stored document record.
type Document struct {
	ID             int64
	OwnerID        int64
	Title          string
	StorageKey     string
	IsPublic       bool
	AccessGroupIDs []int64
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// editLocked reports whether the workflow status freezes mutation. Status
// locks are not part of the visibility bypass.
func (d Document) editLocked() bool {
	return d.Status == StatusInReview || d.Status == StatusArchived
}

package contact

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
)

// Status represents the lifecycle state of a contact
type Status string

const (
	// StatusActive indicates the contact is live and syncable
	StatusActive Status = "active"
	// StatusInactive indicates the contact is paused from syncing
	StatusInactive Status = "inactive"
	// StatusArchived indicates the contact has been soft-retired
	StatusArchived Status = "archived"
)

// IsValid checks if the contact status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	default:
		return false
	}
}

// Source identifies the origin system a contact was derived from.
type Source string

// SourceAcmeCRM is the Acme CRM origin system.
const SourceAcmeCRM Source = "acmecrm"

// Contact is the service-native contact record. Field names are camelCase
// and backend-agnostic; each storage backend maps its own native row shape
// to and from this struct.
//
// CreatedAt and UpdatedAt are RFC 3339 strings rather than time.Time so the
// record shape is identical regardless of which backend produced it.
type Contact struct {
	ID           string         `json:"id"`
	FirstName    *string        `json:"firstName,omitempty"`
	LastName     *string        `json:"lastName,omitempty"`
	Email        *string        `json:"email,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	Company      *string        `json:"company,omitempty"`
	Title        *string        `json:"title,omitempty"`
	Address      *string        `json:"address,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	Status       Status         `json:"status"`
	Tags         []string       `json:"tags,omitempty"`
	CustomFields map[string]any `json:"customFields,omitempty"`
	Source       Source         `json:"source,omitempty"`
	SourceID     string         `json:"sourceId,omitempty"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
	Version      int64          `json:"version"`
}

// AcmeContact is a contact record in Acme CRM's native shape: an "id" field
// plus acme_-prefixed snake_case attributes. It is stored and returned
// verbatim; only the identifier is ever interpreted.
type AcmeContact map[string]any

// ID returns the record identifier, or "" when absent or not a string.
func (c AcmeContact) ID() string {
	id, _ := c["id"].(string)
	return id
}

// NewID generates a new unique contact identifier.
func NewID() (string, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating contact id: %w", err)
	}
	return id.String(), nil
}

// MustNewID generates a new unique contact identifier, panicking on failure.
func MustNewID() string {
	id, err := NewID()
	if err != nil {
		panic(err)
	}
	return id
}

// NowISO returns the current UTC time in the textual timestamp format all
// backends serialize to.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FormatISO renders a backend-native timestamp in the canonical textual form.
func FormatISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseISO parses a canonical textual timestamp back into a time.Time.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

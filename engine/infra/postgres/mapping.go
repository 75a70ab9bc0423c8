package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/contact"
)

// contactColumns is the canonical column order for reads and RETURNING
// clauses.
var contactColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone",
	"company",
	"title",
	"address",
	"notes",
	"status",
	"tags",
	"custom_fields",
	"source",
	"source_id",
	"created_at",
	"updated_at",
	"version",
}

// contactRow is the backend-native row shape of the contacts table. The
// translation between it and contact.Contact is total for every modeled
// field and invertible; timestamps leave the driver only as RFC 3339 text.
type contactRow struct {
	ID           string    `db:"id"`
	FirstName    *string   `db:"first_name"`
	LastName     *string   `db:"last_name"`
	Email        *string   `db:"email"`
	Phone        *string   `db:"phone"`
	Company      *string   `db:"company"`
	Title        *string   `db:"title"`
	Address      *string   `db:"address"`
	Notes        *string   `db:"notes"`
	Status       string    `db:"status"`
	Tags         []string  `db:"tags"`
	CustomFields []byte    `db:"custom_fields"`
	Source       *string   `db:"source"`
	SourceID     *string   `db:"source_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Version      int64     `db:"version"`
}

// toModel translates a database row into the service-native contact shape.
func (r *contactRow) toModel() (*contact.Contact, error) {
	c := &contact.Contact{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Company:   r.Company,
		Title:     r.Title,
		Address:   r.Address,
		Notes:     r.Notes,
		Status:    contact.Status(r.Status),
		Tags:      r.Tags,
		CreatedAt: contact.FormatISO(r.CreatedAt),
		UpdatedAt: contact.FormatISO(r.UpdatedAt),
		Version:   r.Version,
	}
	if r.Source != nil {
		c.Source = contact.Source(*r.Source)
	}
	if r.SourceID != nil {
		c.SourceID = *r.SourceID
	}
	if len(r.CustomFields) > 0 {
		if err := json.Unmarshal(r.CustomFields, &c.CustomFields); err != nil {
			return nil, fmt.Errorf("decoding custom_fields for contact %s: %w", r.ID, err)
		}
	}
	return c, nil
}

// rowFromModel translates a service-native contact into the backend-native
// row shape. Timestamps are parsed back from their textual form when set;
// zero values are left for the database to assign.
func rowFromModel(c *contact.Contact) (*contactRow, error) {
	row := &contactRow{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Title:     c.Title,
		Address:   c.Address,
		Notes:     c.Notes,
		Status:    string(c.Status),
		Tags:      c.Tags,
		Version:   c.Version,
	}
	if row.Status == "" {
		row.Status = string(contact.StatusActive)
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}
	if c.Source != "" {
		source := string(c.Source)
		row.Source = &source
	}
	if c.SourceID != "" {
		sourceID := c.SourceID
		row.SourceID = &sourceID
	}
	customFields := c.CustomFields
	if customFields == nil {
		customFields = map[string]any{}
	}
	encoded, err := json.Marshal(customFields)
	if err != nil {
		return nil, fmt.Errorf("encoding custom fields for contact %s: %w", c.ID, err)
	}
	row.CustomFields = encoded
	if c.CreatedAt != "" {
		t, err := contact.ParseISO(c.CreatedAt)
		if err != nil {
			return nil, err
		}
		row.CreatedAt = t
	}
	if c.UpdatedAt != "" {
		t, err := contact.ParseISO(c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		row.UpdatedAt = t
	}
	return row, nil
}

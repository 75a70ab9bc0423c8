package redis

import "github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/contact"

// contactRecord is the backend-native record shape stored at contact keys:
// snake_case field names in a JSON document. The translation between it and
// contact.Contact is total for every modeled field and invertible.
type contactRecord struct {
	ID           string         `json:"id"`
	FirstName    *string        `json:"first_name,omitempty"`
	LastName     *string        `json:"last_name,omitempty"`
	Email        *string        `json:"email,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	Company      *string        `json:"company,omitempty"`
	Title        *string        `json:"title,omitempty"`
	Address      *string        `json:"address,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	Status       string         `json:"status"`
	Tags         []string       `json:"tags,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
	Source       string         `json:"source,omitempty"`
	SourceID     string         `json:"source_id,omitempty"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	Version      int64          `json:"version"`
}

// toModel translates a stored record into the service-native contact shape.
func (r *contactRecord) toModel() *contact.Contact {
	return &contact.Contact{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		Company:      r.Company,
		Title:        r.Title,
		Address:      r.Address,
		Notes:        r.Notes,
		Status:       contact.Status(r.Status),
		Tags:         r.Tags,
		CustomFields: r.CustomFields,
		Source:       contact.Source(r.Source),
		SourceID:     r.SourceID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// recordFromModel translates a service-native contact into the
// backend-native record shape. Backend-assigned fields (timestamps,
// version) are filled in by the store on the write path.
func recordFromModel(c *contact.Contact) *contactRecord {
	record := &contactRecord{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		Company:      c.Company,
		Title:        c.Title,
		Address:      c.Address,
		Notes:        c.Notes,
		Status:       string(c.Status),
		Tags:         c.Tags,
		CustomFields: c.CustomFields,
		Source:       string(c.Source),
		SourceID:     c.SourceID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
	if record.Status == "" {
		record.Status = string(contact.StatusActive)
	}
	return record
}

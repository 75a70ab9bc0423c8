package redis

import (
	"encoding/json"
	"testing"

	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/contact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRecord_Mapping(t *testing.T) {
	t.Run("Should serialize with snake_case field names", func(t *testing.T) {
		record := recordFromModel(sampleContact())
		record.ID = "contact-1"
		record.CreatedAt = "2026-08-30T10:00:00Z"
		record.UpdatedAt = "2026-08-30T10:00:00Z"
		record.Version = 1

		data, err := json.Marshal(record)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Contains(t, doc, "first_name")
		assert.Contains(t, doc, "source_id")
		assert.Contains(t, doc, "custom_fields")
		assert.Contains(t, doc, "created_at")
		assert.NotContains(t, doc, "firstName")
		assert.NotContains(t, doc, "sourceId")
	})

	t.Run("Should invert back to the original contact", func(t *testing.T) {
		original := sampleContact()
		original.ID = "contact-1"
		original.CreatedAt = "2026-08-30T10:00:00Z"
		original.UpdatedAt = "2026-08-30T11:00:00Z"
		original.Version = 3

		assert.Equal(t, original, recordFromModel(original).toModel())
	})

	t.Run("Should default an empty status to active", func(t *testing.T) {
		record := recordFromModel(&contact.Contact{})
		assert.Equal(t, string(contact.StatusActive), record.Status)
	})
}

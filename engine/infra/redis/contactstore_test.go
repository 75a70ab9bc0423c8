package redis

import (
	"bytes"
	"context"
	"testing"

	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/contact"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func setupTestStore(t *testing.T) (*ContactStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewContactStoreWithClient(client), mr
}

func sampleContact() *contact.Contact {
	return &contact.Contact{
		FirstName:    strPtr("John"),
		LastName:     strPtr("Doe"),
		Email:        strPtr("john.doe@example.com"),
		Status:       contact.StatusActive,
		Tags:         []string{"vip", "newsletter"},
		CustomFields: map[string]any{"plan": "gold"},
		Source:       contact.SourceAcmeCRM,
		SourceID:     "123456",
	}
}

func TestContactStore_StoreAndGetContact(t *testing.T) {
	t.Run("Should round-trip every field through the backend shape", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		stored, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)
		assert.Equal(t, "contact-1", stored.ID)
		assert.Equal(t, int64(1), stored.Version)
		assert.NotEmpty(t, stored.CreatedAt)
		assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

		got, found, err := store.GetContact(ctx, "contact-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, stored, got)
	})

	t.Run("Should report a miss for never-stored ids", func(t *testing.T) {
		store, _ := setupTestStore(t)
		c, found, err := store.GetContact(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, c)
	})

	t.Run("Should bump version and preserve createdAt on update", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		first, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		updated := sampleContact()
		updated.FirstName = strPtr("Johnny")
		second, err := store.StoreContact(ctx, "contact-1", updated)
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.Version)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
		assert.Equal(t, "Johnny", *second.FirstName)
	})

	t.Run("Should default status to active", func(t *testing.T) {
		store, _ := setupTestStore(t)
		stored, err := store.StoreContact(context.Background(), "contact-1", &contact.Contact{})
		require.NoError(t, err)
		assert.Equal(t, contact.StatusActive, stored.Status)
	})
}

func TestContactStore_GetContactBySourceID(t *testing.T) {
	t.Run("Should find a contact through its source index", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		stored, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		got, found, err := store.GetContactBySourceID(ctx, contact.SourceAcmeCRM, "123456")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, stored, got)
	})

	t.Run("Should report absence for any other pair", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		_, found, err := store.GetContactBySourceID(ctx, contact.SourceAcmeCRM, "999999")
		require.NoError(t, err)
		assert.False(t, found)
		_, found, err = store.GetContactBySourceID(ctx, contact.Source("othercrm"), "123456")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Should reject a pair already owned by another contact", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		_, err = store.StoreContact(ctx, "contact-2", sampleContact())
		require.Error(t, err)
		serr, ok := contact.AsStoreError(err)
		require.True(t, ok)
		assert.Equal(t, contact.CategoryDatabase, serr.Category)
		assert.Contains(t, serr.Detail, "contact-1")

		got, found, err := store.GetContactBySourceID(ctx, contact.SourceAcmeCRM, "123456")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "contact-1", got.ID)
	})

	t.Run("Should keep accepting updates from the pair's owner", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		updated, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)
	})

	t.Run("Should free the pair once its owner is deleted", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)
		_, err = store.DeleteContact(ctx, "contact-1")
		require.NoError(t, err)

		stored, err := store.StoreContact(ctx, "contact-2", sampleContact())
		require.NoError(t, err)
		got, found, err := store.GetContactBySourceID(ctx, contact.SourceAcmeCRM, "123456")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, stored, got)
	})

	t.Run("Should retire the old index entry when the source key changes", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		moved := sampleContact()
		moved.SourceID = "654321"
		_, err = store.StoreContact(ctx, "contact-1", moved)
		require.NoError(t, err)

		_, found, err := store.GetContactBySourceID(ctx, contact.SourceAcmeCRM, "123456")
		require.NoError(t, err)
		assert.False(t, found)
		got, found, err := store.GetContactBySourceID(ctx, contact.SourceAcmeCRM, "654321")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "contact-1", got.ID)
	})
}

func TestContactStore_DeleteContact(t *testing.T) {
	t.Run("Should report true exactly once per stored record", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		existed, err := store.DeleteContact(ctx, "contact-1")
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = store.DeleteContact(ctx, "contact-1")
		require.NoError(t, err)
		assert.False(t, existed)
	})

	t.Run("Should leave an index entry owned by another contact in place", func(t *testing.T) {
		store, mr := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)
		// Repoint the index at another id to simulate a stale record.
		require.NoError(t, mr.Set("contact:source:acmecrm:123456", "contact-2"))

		existed, err := store.DeleteContact(ctx, "contact-1")
		require.NoError(t, err)
		assert.True(t, existed)

		owner, err := mr.Get("contact:source:acmecrm:123456")
		require.NoError(t, err)
		assert.Equal(t, "contact-2", owner)
	})

	t.Run("Should drop the source index with the record", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.NoError(t, err)

		_, err = store.DeleteContact(ctx, "contact-1")
		require.NoError(t, err)

		_, found, err := store.GetContactBySourceID(ctx, contact.SourceAcmeCRM, "123456")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestContactStore_AcmeContacts(t *testing.T) {
	t.Run("Should store and return the vendor shape unchanged", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		doc := contact.AcmeContact{
			"id":              "123456",
			"acme_first_name": "John",
			"acme_last_name":  "Doe",
			"acme_email":      "john.doe@example.com",
		}
		stored, err := store.StoreAcmeContact(ctx, "123456", doc)
		require.NoError(t, err)
		assert.Equal(t, doc, stored)

		got, found, err := store.GetAcmeContact(ctx, "123456")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, doc, got)
		assert.NotContains(t, got, "firstName")
	})

	t.Run("Should report a miss for never-stored records", func(t *testing.T) {
		store, _ := setupTestStore(t)
		_, found, err := store.GetAcmeContact(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Should delete with an existed flag", func(t *testing.T) {
		store, _ := setupTestStore(t)
		ctx := context.Background()
		_, err := store.StoreAcmeContact(ctx, "123456", contact.AcmeContact{"id": "123456"})
		require.NoError(t, err)

		existed, err := store.DeleteAcmeContact(ctx, "123456")
		require.NoError(t, err)
		assert.True(t, existed)
		existed, err = store.DeleteAcmeContact(ctx, "123456")
		require.NoError(t, err)
		assert.False(t, existed)
	})
}

func TestContactStore_BackendFailure(t *testing.T) {
	t.Run("Should surface a stopped backend as a database error with detail", func(t *testing.T) {
		store, mr := setupTestStore(t)
		ctx := context.Background()
		mr.Close()

		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.Error(t, err)
		serr, ok := contact.AsStoreError(err)
		require.True(t, ok)
		assert.Equal(t, contact.CategoryDatabase, serr.Category)
		assert.Equal(t, contact.CodeDatabaseError, serr.Code)
		assert.NotEmpty(t, serr.Detail)
	})

	t.Run("Should log the failure before propagating it", func(t *testing.T) {
		store, mr := setupTestStore(t)
		var buf bytes.Buffer
		log := logger.NewLogger(&logger.Config{Level: logger.DebugLevel, Output: &buf})
		ctx := logger.ContextWithLogger(context.Background(), log)
		mr.Close()

		_, err := store.StoreContact(ctx, "contact-1", sampleContact())
		require.Error(t, err)

		out := buf.String()
		assert.Contains(t, out, "operation failed")
		assert.Contains(t, out, "StoreContact")
		assert.Contains(t, out, "contact-1")
	})
}

func TestContactStore_Close(t *testing.T) {
	t.Run("Should be safe to call twice on an owned client", func(t *testing.T) {
		mr := miniredis.RunT(t)
		ctx := context.Background()
		store, err := NewContactStore(ctx, &Config{Host: mr.Host(), Port: mr.Port()})
		require.NoError(t, err)
		assert.NotPanics(t, func() {
			store.Close(ctx)
			store.Close(ctx)
		})
	})

	t.Run("Should be a no-op on a borrowed client", func(t *testing.T) {
		store, _ := setupTestStore(t)
		assert.NotPanics(t, func() {
			store.Close(context.Background())
			store.Close(context.Background())
		})
	})
}

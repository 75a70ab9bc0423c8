package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/contact"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Key layout. The source index key maps a (source, sourceId) pair to the
// contact id that owns it, giving the secondary unique key a O(1) lookup.
const (
	contactKeyPrefix     = "contact:"
	contactSourcePrefix  = "contact:source:"
	acmeContactKeyPrefix = "acme:contact:"
)

func contactKey(id string) string { return contactKeyPrefix + id }

func sourceKey(source, sourceID string) string {
	return contactSourcePrefix + source + ":" + sourceID
}

func acmeContactKey(id string) string { return acmeContactKeyPrefix + id }

// ContactStore implements the contact storage contract against Redis.
// Contacts live as snake_case JSON documents; the camelCase service model
// is mapped on every read and write. Acme CRM records pass through
// untouched.
type ContactStore struct {
	client Interface
	owner  *Client
}

var _ contact.Store = (*ContactStore)(nil)

// NewContactStore connects to Redis and returns a contact store that owns
// the underlying client.
func NewContactStore(ctx context.Context, cfg *Config) (*ContactStore, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &ContactStore{client: client, owner: client}, nil
}

// NewContactStoreWithClient wraps an existing Redis client. The caller keeps
// ownership of the client's lifecycle.
func NewContactStoreWithClient(client Interface) *ContactStore {
	return &ContactStore{client: client}
}

// errSourceIndexConflict marks a write whose (source, sourceId) pair is
// already owned by a different contact id.
var errSourceIndexConflict = errors.New("source pair already mapped to another contact")

// storeRetries bounds how often a write is replayed after a watched key
// changed underneath the transaction.
const storeRetries = 3

// StoreContact upserts a contact under the internal schema and returns the
// stored representation. The store assigns created_at on first write and
// bumps updated_at and version on every write. The whole write runs as an
// optimistic transaction watching the contact key and the (source, sourceId)
// index key, so concurrent writers cannot lose a version bump and a pair
// owned by a different contact id is rejected instead of overwritten.
func (s *ContactStore) StoreContact(ctx context.Context, id string, c *contact.Contact) (*contact.Contact, error) {
	if id == "" {
		return nil, fmt.Errorf("redis: contact id is required")
	}
	if c == nil {
		return nil, fmt.Errorf("redis: contact is required")
	}
	var stored *contactRecord
	txf := func(tx *redis.Tx) error {
		previous, found, err := loadRecordFrom(ctx, tx, id)
		if err != nil {
			return err
		}
		record := recordFromModel(c)
		record.ID = id
		record.UpdatedAt = contact.NowISO()
		if found {
			record.CreatedAt = previous.CreatedAt
			record.Version = previous.Version + 1
		} else {
			record.CreatedAt = record.UpdatedAt
			record.Version = 1
		}
		if record.Source != "" && record.SourceID != "" {
			owner, err := tx.Get(ctx, sourceKey(record.Source, record.SourceID)).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			if err == nil && owner != id {
				return fmt.Errorf("%w: %s/%s belongs to contact %s",
					errSourceIndexConflict, record.Source, record.SourceID, owner)
			}
		}
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encoding contact %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, contactKey(id), data, 0)
			if found && previous.Source != "" && previous.SourceID != "" &&
				(previous.Source != record.Source || previous.SourceID != record.SourceID) {
				pipe.Del(ctx, sourceKey(previous.Source, previous.SourceID))
			}
			if record.Source != "" && record.SourceID != "" {
				pipe.Set(ctx, sourceKey(record.Source, record.SourceID), id, 0)
			}
			return nil
		})
		if err != nil {
			return err
		}
		stored = record
		return nil
	}
	watched := []string{contactKey(id)}
	if incoming := recordFromModel(c); incoming.Source != "" && incoming.SourceID != "" {
		watched = append(watched, sourceKey(incoming.Source, incoming.SourceID))
	}
	var err error
	for attempt := 0; attempt < storeRetries; attempt++ {
		err = s.client.Watch(ctx, txf, watched...)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		message := "failed to store contact"
		if errors.Is(err, errSourceIndexConflict) {
			message = "source identifier already mapped to another contact"
		}
		return nil, s.storeFailure(ctx, "StoreContact", id, message, err)
	}
	return stored.toModel(), nil
}

// GetContact retrieves a contact by id; a miss is reported through the bool.
func (s *ContactStore) GetContact(ctx context.Context, id string) (*contact.Contact, bool, error) {
	record, found, err := s.loadRecord(ctx, "GetContact", id)
	if err != nil || !found {
		return nil, false, err
	}
	return record.toModel(), true, nil
}

// GetContactBySourceID retrieves a contact by its (source, sourceId)
// secondary key via the index entry.
func (s *ContactStore) GetContactBySourceID(
	ctx context.Context,
	source contact.Source,
	sourceID string,
) (*contact.Contact, bool, error) {
	id, err := s.client.Get(ctx, sourceKey(string(source), sourceID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, s.storeFailure(
			ctx, "GetContactBySourceID", string(source)+"/"+sourceID, "failed to get contact by source id", err,
		)
	}
	return s.GetContact(ctx, id)
}

// DeleteContact removes a contact and its source index entry, reporting
// whether a record existed.
func (s *ContactStore) DeleteContact(ctx context.Context, id string) (bool, error) {
	record, found, err := s.loadRecord(ctx, "DeleteContact", id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, contactKey(id))
	if record.Source != "" && record.SourceID != "" {
		// The index entry goes only when this record still owns it.
		owner, err := s.client.Get(ctx, sourceKey(record.Source, record.SourceID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, s.storeFailure(ctx, "DeleteContact", id, "failed to delete contact", err)
		}
		if err == nil && owner == id {
			pipe.Del(ctx, sourceKey(record.Source, record.SourceID))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, s.storeFailure(ctx, "DeleteContact", id, "failed to delete contact", err)
	}
	return true, nil
}

// StoreAcmeContact persists an Acme CRM record verbatim under the external
// schema and returns the stored document unchanged.
func (s *ContactStore) StoreAcmeContact(
	ctx context.Context,
	id string,
	c contact.AcmeContact,
) (contact.AcmeContact, error) {
	if id == "" {
		return nil, fmt.Errorf("redis: acme contact id is required")
	}
	if c == nil {
		return nil, fmt.Errorf("redis: acme contact is required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding acme contact %s: %w", id, err)
	}
	if err := s.client.Set(ctx, acmeContactKey(id), data, 0).Err(); err != nil {
		return nil, s.storeFailure(ctx, "StoreAcmeContact", id, "failed to store acme contact", err)
	}
	var stored contact.AcmeContact
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decoding acme contact %s: %w", id, err)
	}
	return stored, nil
}

// GetAcmeContact retrieves an Acme CRM record by id, shape unchanged.
func (s *ContactStore) GetAcmeContact(ctx context.Context, id string) (contact.AcmeContact, bool, error) {
	data, err := s.client.Get(ctx, acmeContactKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, s.storeFailure(ctx, "GetAcmeContact", id, "failed to get acme contact", err)
	}
	var c contact.AcmeContact
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false, fmt.Errorf("decoding acme contact %s: %w", id, err)
	}
	return c, true, nil
}

// DeleteAcmeContact removes an Acme CRM record, reporting whether it existed.
func (s *ContactStore) DeleteAcmeContact(ctx context.Context, id string) (bool, error) {
	removed, err := s.client.Del(ctx, acmeContactKey(id)).Result()
	if err != nil {
		return false, s.storeFailure(ctx, "DeleteAcmeContact", id, "failed to delete acme contact", err)
	}
	return removed > 0, nil
}

// Close releases the underlying client when this store owns one. Safe to
// call repeatedly; failures never propagate out of a shutdown path.
func (s *ContactStore) Close(ctx context.Context) {
	if s.owner != nil {
		s.owner.Close(ctx)
	}
}

// recordGetter is the read surface shared by the client and an open
// transaction.
type recordGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// loadRecordFrom fetches the backend-native record for id. A missing key is
// a miss, not an error.
func loadRecordFrom(ctx context.Context, client recordGetter, id string) (*contactRecord, bool, error) {
	data, err := client.Get(ctx, contactKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var record contactRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("decoding contact %s: %w", id, err)
	}
	return &record, true, nil
}

// loadRecord reads through the store's client, re-signaling failures in the
// uniform error shape.
func (s *ContactStore) loadRecord(
	ctx context.Context,
	operation string,
	id string,
) (*contactRecord, bool, error) {
	record, found, err := loadRecordFrom(ctx, s.client, id)
	if err != nil {
		return nil, false, s.storeFailure(ctx, operation, id, "failed to get contact", err)
	}
	return record, found, nil
}

// storeFailure logs a backend failure with operation context and re-signals
// it as the uniform database-error shape.
func (s *ContactStore) storeFailure(
	ctx context.Context,
	operation string,
	id string,
	message string,
	err error,
) error {
	logger.FromContext(ctx).Error("Redis contact store operation failed",
		"operation", operation,
		"contact_id", id,
		"error", err,
	)
	return contact.NewDatabaseError(message, err)
}

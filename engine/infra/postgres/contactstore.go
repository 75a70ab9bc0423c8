package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/contact"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/pkg/logger"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBInterface defines the minimal interface needed by the contact store.
// Both the real pgxpool.Pool and mock implementations satisfy it.
type DBInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactStore implements the contact storage contract against PostgreSQL.
// It translates between the contacts table's snake_case row shape and the
// service-native camelCase contact model on every read and write; Acme CRM
// records pass through untouched as jsonb documents.
type ContactStore struct {
	db    DBInterface
	store *Store
}

var _ contact.Store = (*ContactStore)(nil)

// NewContactStore connects to PostgreSQL and returns a contact store that
// owns the underlying pool.
func NewContactStore(ctx context.Context, cfg *Config) (*ContactStore, error) {
	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &ContactStore{db: store.Pool(), store: store}, nil
}

// NewContactStoreWithDB wraps an existing database handle. The caller keeps
// ownership of the handle's lifecycle.
func NewContactStoreWithDB(db DBInterface) *ContactStore {
	return &ContactStore{db: db}
}

// StoreContact upserts a contact under the internal schema and returns the
// stored representation. The database assigns created_at on first write and
// bumps updated_at and version on every write.
func (s *ContactStore) StoreContact(ctx context.Context, id string, c *contact.Contact) (*contact.Contact, error) {
	if id == "" {
		return nil, fmt.Errorf("postgres: contact id is required")
	}
	if c == nil {
		return nil, fmt.Errorf("postgres: contact is required")
	}
	row, err := rowFromModel(c)
	if err != nil {
		return nil, err
	}
	query, args, err := squirrel.Insert("contacts").
		Columns(
			"id", "first_name", "last_name", "email", "phone", "company",
			"title", "address", "notes", "status", "tags", "custom_fields",
			"source", "source_id",
		).
		Values(
			id, row.FirstName, row.LastName, row.Email, row.Phone, row.Company,
			row.Title, row.Address, row.Notes, row.Status, row.Tags, row.CustomFields,
			row.Source, row.SourceID,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			company = EXCLUDED.company,
			title = EXCLUDED.title,
			address = EXCLUDED.address,
			notes = EXCLUDED.notes,
			status = EXCLUDED.status,
			tags = EXCLUDED.tags,
			custom_fields = EXCLUDED.custom_fields,
			source = EXCLUDED.source,
			source_id = EXCLUDED.source_id,
			updated_at = now(),
			version = contacts.version + 1`).
		Suffix("RETURNING " + strings.Join(contactColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building contact upsert query: %w", err)
	}
	var stored contactRow
	if err := pgxscan.Get(ctx, s.db, &stored, query, args...); err != nil {
		return nil, s.storeFailure(ctx, "StoreContact", id, "failed to store contact", err)
	}
	return stored.toModel()
}

// GetContact retrieves a contact by id; a miss is reported through the bool.
func (s *ContactStore) GetContact(ctx context.Context, id string) (*contact.Contact, bool, error) {
	return s.getContact(ctx, "GetContact", id, squirrel.Eq{"id": id})
}

// GetContactBySourceID retrieves a contact by its (source, sourceId)
// secondary key.
func (s *ContactStore) GetContactBySourceID(
	ctx context.Context,
	source contact.Source,
	sourceID string,
) (*contact.Contact, bool, error) {
	return s.getContact(ctx, "GetContactBySourceID", string(source)+"/"+sourceID, squirrel.Eq{
		"source":    string(source),
		"source_id": sourceID,
	})
}

func (s *ContactStore) getContact(
	ctx context.Context,
	operation string,
	id string,
	pred squirrel.Eq,
) (*contact.Contact, bool, error) {
	query, args, err := squirrel.Select(contactColumns...).
		From("contacts").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building contact select query: %w", err)
	}
	var row contactRow
	if err := pgxscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, false, nil
		}
		return nil, false, s.storeFailure(ctx, operation, id, "failed to get contact", err)
	}
	c, err := row.toModel()
	if err != nil {
		return nil, false, s.storeFailure(ctx, operation, row.ID, "failed to decode contact", err)
	}
	return c, true, nil
}

// DeleteContact removes a contact, reporting whether a row existed.
func (s *ContactStore) DeleteContact(ctx context.Context, id string) (bool, error) {
	query, args, err := squirrel.Delete("contacts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building contact delete query: %w", err)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return false, s.storeFailure(ctx, "DeleteContact", id, "failed to delete contact", err)
	}
	return tag.RowsAffected() > 0, nil
}

// StoreAcmeContact upserts an Acme CRM record verbatim under the external
// schema and returns the stored document unchanged.
func (s *ContactStore) StoreAcmeContact(
	ctx context.Context,
	id string,
	c contact.AcmeContact,
) (contact.AcmeContact, error) {
	if id == "" {
		return nil, fmt.Errorf("postgres: acme contact id is required")
	}
	if c == nil {
		return nil, fmt.Errorf("postgres: acme contact is required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding acme contact %s: %w", id, err)
	}
	query, args, err := squirrel.Insert("acme_contacts").
		Columns("id", "data").
		Values(id, data).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = now()`).
		Suffix("RETURNING data").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building acme contact upsert query: %w", err)
	}
	var stored []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&stored); err != nil {
		return nil, s.storeFailure(ctx, "StoreAcmeContact", id, "failed to store acme contact", err)
	}
	return decodeAcmeContact(id, stored)
}

// GetAcmeContact retrieves an Acme CRM record by id, shape unchanged.
func (s *ContactStore) GetAcmeContact(ctx context.Context, id string) (contact.AcmeContact, bool, error) {
	query, args, err := squirrel.Select("data").
		From("acme_contacts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building acme contact select query: %w", err)
	}
	var data []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, s.storeFailure(ctx, "GetAcmeContact", id, "failed to get acme contact", err)
	}
	c, err := decodeAcmeContact(id, data)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// DeleteAcmeContact removes an Acme CRM record, reporting whether it existed.
func (s *ContactStore) DeleteAcmeContact(ctx context.Context, id string) (bool, error) {
	query, args, err := squirrel.Delete("acme_contacts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building acme contact delete query: %w", err)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return false, s.storeFailure(ctx, "DeleteAcmeContact", id, "failed to delete acme contact", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Close releases the underlying pool when this store owns one. Safe to call
// repeatedly; failures never propagate out of a shutdown path.
func (s *ContactStore) Close(ctx context.Context) {
	if s.store != nil {
		s.store.Close(ctx)
	}
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
	logger.FromContext(ctx).Error("Postgres contact store operation failed",
		"operation", operation,
		"contact_id", id,
		"error", err,
	)
	return contact.NewDatabaseError(message, err)
}

func decodeAcmeContact(id string, data []byte) (contact.AcmeContact, error) {
	var c contact.AcmeContact
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding acme contact %s: %w", id, err)
	}
	return c, nil
}

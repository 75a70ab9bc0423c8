package contact

import "context"

// Store is the uniform operation set every storage backend implements. No
// signature carries a backend-specific parameter, so swapping backends never
// touches code that depends only on this interface.
//
// Get operations return (record, found, error): a lookup miss is reported
// through the bool, never through the error. Store operations return the
// stored representation, including backend-assigned fields such as Version
// and timestamps. Delete operations report whether a record actually
// existed; deleting a missing id is not an error.
type Store interface {
	// StoreAcmeContact persists an Acme CRM record verbatim under the
	// external schema and returns the stored shape unchanged.
	StoreAcmeContact(ctx context.Context, id string, c AcmeContact) (AcmeContact, error)
	// GetAcmeContact retrieves an Acme CRM record by id.
	GetAcmeContact(ctx context.Context, id string) (AcmeContact, bool, error)
	// DeleteAcmeContact removes an Acme CRM record, reporting whether it existed.
	DeleteAcmeContact(ctx context.Context, id string) (bool, error)

	// StoreContact persists a service-native contact under the internal
	// schema and returns the post-write representation.
	StoreContact(ctx context.Context, id string, c *Contact) (*Contact, error)
	// GetContact retrieves a service-native contact by id.
	GetContact(ctx context.Context, id string) (*Contact, bool, error)
	// GetContactBySourceID retrieves a contact by its (source, sourceId)
	// secondary key.
	GetContactBySourceID(ctx context.Context, source Source, sourceID string) (*Contact, bool, error)
	// DeleteContact removes a service-native contact, reporting whether it existed.
	DeleteContact(ctx context.Context, id string) (bool, error)

	// Close releases backend resources. It is safe to call repeatedly and on
	// a store that never finished initializing; failures are logged, never
	// propagated, since Close runs on shutdown paths.
	Close(ctx context.Context)
}

// UnimplementedStore fails every operation immediately with a
// NOT_IMPLEMENTED store error. Backends under construction embed it so a
// missing operation surfaces as an explicit programming error instead of a
// silent no-op.
type UnimplementedStore struct{}

var _ Store = (*UnimplementedStore)(nil)

func (UnimplementedStore) StoreAcmeContact(context.Context, string, AcmeContact) (AcmeContact, error) {
	return nil, NewNotImplementedError("StoreAcmeContact")
}

func (UnimplementedStore) GetAcmeContact(context.Context, string) (AcmeContact, bool, error) {
	return nil, false, NewNotImplementedError("GetAcmeContact")
}

func (UnimplementedStore) DeleteAcmeContact(context.Context, string) (bool, error) {
	return false, NewNotImplementedError("DeleteAcmeContact")
}

func (UnimplementedStore) StoreContact(context.Context, string, *Contact) (*Contact, error) {
	return nil, NewNotImplementedError("StoreContact")
}

func (UnimplementedStore) GetContact(context.Context, string) (*Contact, bool, error) {
	return nil, false, NewNotImplementedError("GetContact")
}

func (UnimplementedStore) GetContactBySourceID(context.Context, Source, string) (*Contact, bool, error) {
	return nil, false, NewNotImplementedError("GetContactBySourceID")
}

func (UnimplementedStore) DeleteContact(context.Context, string) (bool, error) {
	return false, NewNotImplementedError("DeleteContact")
}

func (UnimplementedStore) Close(context.Context) {}

package catalog

import "context"

// NullStore is a catalog that never stores anything.
// Useful for testing or when persistence is disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always reports that the key has no record.
func (s *NullStore) Get(ctx context.Context, key Key) (*Record, error) {
	return nil, NotInCatalog(key)
}

// Put validates rec and discards it.
func (s *NullStore) Put(ctx context.Context, rec Record) (bool, error) {
	if _, err := prepare(rec); err != nil {
		return false, err
	}
	return false, nil
}

// List always returns no records.
func (s *NullStore) List(ctx context.Context, length int) ([]Record, error) {
	return nil, nil
}

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, key Key) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)

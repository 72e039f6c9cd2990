package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db            *sql.DB
	configuration *ConfigurationStore
	operation     *OperationStore
}

func NewStore(db *sql.DB) *Store {
	qi := NewQueryInterceptor(db)
	return &Store{
		db:            db,
		configuration: NewConfigurationStore(qi),
		operation:     NewOperationStore(qi),
	}
}

func (s *Store) Configuration() *ConfigurationStore {
	return s.configuration
}

func (s *Store) Operation() *OperationStore {
	return s.operation
}

func (s *Store) Close() error {
	return s.db.Close()
}

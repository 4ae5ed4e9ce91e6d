package store

// Store provides access to all storage repositories over one query surface,
// typically a connection leased for a single queued task.
type Store struct {
	configuration *ConfigurationStore
	failures      *FailureStore
	metadata      *MetadataStore
	statements    *StatementStore
}

func NewStore(db QueryInterceptor) *Store {
	return &Store{
		configuration: NewConfigurationStore(db),
		failures:      NewFailureStore(db),
		metadata:      NewMetadataStore(db),
		statements:    NewStatementStore(db),
	}
}

func (s *Store) Configuration() *ConfigurationStore {
	return s.configuration
}

func (s *Store) Failures() *FailureStore {
	return s.failures
}

func (s *Store) Metadata() *MetadataStore {
	return s.metadata
}

func (s *Store) Statements() *StatementStore {
	return s.statements
}

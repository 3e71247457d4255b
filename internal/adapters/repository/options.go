package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithOrigin records where the dataset was loaded from.
func WithOrigin(origin string) Option {
	return func(s *MemoryStore) {
		if origin != "" {
			s.origin = origin
		}
	}
}

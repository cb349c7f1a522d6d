package executor

// Option customises the executor service.
type Option[T any] func(*Service[T])

// WithConfig replaces the executor configuration.
func WithConfig[T any](config *Config) Option[T] {
	return func(s *Service[T]) {
		if config != nil {
			s.config = config
		}
	}
}

// WithDefaultMaxIterations sets the ceiling applied to workflows that do not
// declare their own.
func WithDefaultMaxIterations[T any](limit int) Option[T] {
	return func(s *Service[T]) {
		s.config.DefaultMaxIterations = limit
	}
}

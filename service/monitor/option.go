package monitor

// Option customises the monitor service.
type Option func(*Service)

// WithConfig replaces the monitoring configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithAlerter replaces the default log-based alert sink.
func WithAlerter(alerter func(Alert)) Option {
	return func(s *Service) {
		s.alerter = alerter
	}
}

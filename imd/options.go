package imd

type config struct {
	workers int
}

// Option configures an Enumerator.
type Option func(*config)

// WithWorkers splits the enumeration across n goroutines, one depth-1
// subtree per job. Values below 2 keep the enumeration sequential.
// The result order is identical to the sequential order.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

func applyOptions(opts []Option) config {
	cfg := config{workers: 1}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.workers < 1 {
		cfg.workers = 1
	}

	return cfg
}

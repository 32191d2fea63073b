package health

import "context"

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker reports whether a manifest snapshot is available.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}

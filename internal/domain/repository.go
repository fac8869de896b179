package domain

import (
	"context"
	"time"
)

// AnalysisRecord is one stored analyze-profile round trip, keyed by the
// request id so the record can be fetched back via the X-Request-ID header.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Profile   *Profile  `json:"profile"`
	Analysis  *Analysis `json:"analysis"`
}

// RecommendationRecord is one stored get-recommendations round trip.
type RecommendationRecord struct {
	ID              string                `json:"id"`
	CreatedAt       time.Time             `json:"createdAt"`
	Profile         *Profile              `json:"profile"`
	Recommendations *RecommendationBundle `json:"recommendations"`
	Explanation     *Explanation          `json:"explanation"`
}

// Repository is the optional consultation audit trail. The service runs
// fine with a nil repository; handlers skip persistence in that case.
type Repository interface {
	SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error
	GetAnalysis(ctx context.Context, id string) (*AnalysisRecord, error)

	SaveRecommendation(ctx context.Context, rec *RecommendationRecord) error
	GetRecommendation(ctx context.Context, id string) (*RecommendationRecord, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
// An empty Driver disables persistence entirely.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite", "postgres", or "" (disabled)
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Package repository provides the optional consultation audit trail.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arthsathi/arthsathi/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveAnalysis stores an analyze-profile round trip keyed by request id.
func (r *SQLRepository) SaveAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}

	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	analysis, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `
		INSERT INTO analyses (id, created_at, profile, analysis)
		VALUES (?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.rebind(query),
		rec.ID, rec.CreatedAt, string(profile), string(analysis),
	)
	return err
}

// GetAnalysis retrieves a stored analysis by request id.
func (r *SQLRepository) GetAnalysis(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}

	query := `
		SELECT id, created_at, profile, analysis
		FROM analyses
		WHERE id = ?
	`

	var rec domain.AnalysisRecord
	var profile, analysis string

	err := r.db.QueryRowContext(ctx, r.rebind(query), id).Scan(
		&rec.ID, &rec.CreatedAt, &profile, &analysis,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(profile), &rec.Profile); err != nil {
		return nil, fmt.Errorf("failed to parse stored profile: %w", err)
	}
	if err := json.Unmarshal([]byte(analysis), &rec.Analysis); err != nil {
		return nil, fmt.Errorf("failed to parse stored analysis: %w", err)
	}

	return &rec, nil
}

// SaveRecommendation stores a get-recommendations round trip keyed by
// request id.
func (r *SQLRepository) SaveRecommendation(ctx context.Context, rec *domain.RecommendationRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}

	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	recommendations, err := json.Marshal(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	var explanation string
	if rec.Explanation != nil {
		data, err := json.Marshal(rec.Explanation)
		if err != nil {
			return fmt.Errorf("failed to marshal explanation: %w", err)
		}
		explanation = string(data)
	}

	query := `
		INSERT INTO recommendations (id, created_at, profile, recommendations, explanation)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.rebind(query),
		rec.ID, rec.CreatedAt, string(profile), string(recommendations), explanation,
	)
	return err
}

// GetRecommendation retrieves a stored recommendation by request id.
func (r *SQLRepository) GetRecommendation(ctx context.Context, id string) (*domain.RecommendationRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}

	query := `
		SELECT id, created_at, profile, recommendations, explanation
		FROM recommendations
		WHERE id = ?
	`

	var rec domain.RecommendationRecord
	var profile, recommendations, explanation string

	err := r.db.QueryRowContext(ctx, r.rebind(query), id).Scan(
		&rec.ID, &rec.CreatedAt, &profile, &recommendations, &explanation,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(profile), &rec.Profile); err != nil {
		return nil, fmt.Errorf("failed to parse stored profile: %w", err)
	}
	if err := json.Unmarshal([]byte(recommendations), &rec.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to parse stored recommendations: %w", err)
	}
	if explanation != "" {
		if err := json.Unmarshal([]byte(explanation), &rec.Explanation); err != nil {
			return nil, fmt.Errorf("failed to parse stored explanation: %w", err)
		}
	}

	return &rec, nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}

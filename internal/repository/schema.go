package repository

// Schema definitions for the consultation audit trail.
// Compatible with both SQLite and PostgreSQL.

const schemaAnalyses = `
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    profile TEXT NOT NULL,
    analysis TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

const schemaRecommendations = `
CREATE TABLE IF NOT EXISTS recommendations (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    profile TEXT NOT NULL,
    recommendations TEXT NOT NULL,
    explanation TEXT
);

CREATE INDEX IF NOT EXISTS idx_recommendations_created ON recommendations(created_at);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaAnalyses,
		schemaRecommendations,
	}
}

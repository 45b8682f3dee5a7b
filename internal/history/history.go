// Package history keeps an audit trail of completed analyses in SQLite.
// It is an optional collaborator of the orchestrator: session state never
// survives a reset, but a finished report is worth keeping around.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	file_name   TEXT NOT NULL,
	media_kind  TEXT NOT NULL,
	mode        TEXT NOT NULL,
	final_score REAL,
	risk_level  TEXT,
	confidence  REAL,
	result_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// Entry is one completed analysis.
type Entry struct {
	ID         string           `json:"id"`
	SessionID  string           `json:"session_id"`
	CreatedAt  time.Time        `json:"created_at"`
	FileName   string           `json:"file_name"`
	MediaKind  string           `json:"media_kind"`
	Mode       string           `json:"mode"`
	FinalScore *float64         `json:"final_score,omitempty"`
	RiskLevel  string           `json:"risk_level,omitempty"`
	Confidence *float64         `json:"confidence,omitempty"`
	Result     *analysis.Result `json:"result,omitempty"`
}

// Store persists completed analyses to a SQLite file.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (and if necessary creates) the history database at path,
// creating parent directories as needed.
func Open(path string, logger logging.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}

	l := logging.OrNop(logger).With(logging.Field{Key: "component", Value: "history"})
	l.Info("history store open", logging.Field{Key: "path", Value: path})
	return &Store{db: db, logger: l}, nil
}

// Save inserts one completed analysis. A zero ID or CreatedAt is filled in.
func (s *Store) Save(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO analyses (id, session_id, created_at, file_name, media_kind, mode, final_score, risk_level, confidence, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.CreatedAt.Format(time.RFC3339Nano), e.FileName, e.MediaKind,
		e.Mode, e.FinalScore, nullIfEmpty(e.RiskLevel), e.Confidence, string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}

	s.logger.Debug("saved history entry",
		logging.Field{Key: "id", Value: e.ID},
		logging.Field{Key: "file", Value: e.FileName})
	return nil
}

// List returns the most recent entries, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, session_id, created_at, file_name, media_kind, mode, final_score, risk_level, confidence, result_json
		FROM analyses ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			createdAt  string
			riskLevel  sql.NullString
			finalScore sql.NullFloat64
			confidence sql.NullFloat64
			resultJSON string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &createdAt, &e.FileName, &e.MediaKind,
			&e.Mode, &finalScore, &riskLevel, &confidence, &resultJSON); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		if riskLevel.Valid {
			e.RiskLevel = riskLevel.String
		}
		if finalScore.Valid {
			v := finalScore.Float64
			e.FinalScore = &v
		}
		if confidence.Valid {
			v := confidence.Float64
			e.Confidence = &v
		}
		if resultJSON != "" && resultJSON != "null" {
			var r analysis.Result
			if err := json.Unmarshal([]byte(resultJSON), &r); err == nil {
				e.Result = &r
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

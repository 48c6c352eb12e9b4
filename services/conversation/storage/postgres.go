package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	analysis "github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/conversation/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         UUID PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	audio_path TEXT NOT NULL,
	status     TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	transcript JSONB,
	analysis   JSONB,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS conversations_owner_idx ON conversations (owner_id, created_at);
`

type postgres struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, dsn string) (Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &postgres{db: db}, nil
}

func (s *postgres) Create(ctx context.Context, c *entity.Conversation) error {
	transcript, analysisBlob, err := marshalBlobs(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, owner_id, audio_path, status, error, transcript, analysis, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.OwnerID, c.AudioPath, c.Status, c.Error, transcript, analysisBlob, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (s *postgres) Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, audio_path, status, error, transcript, analysis, created_at
		 FROM conversations WHERE id = $1`, id)
	return scanConversation(row)
}

func (s *postgres) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Conversation, error) {
	return s.Search(ctx, ownerID, entity.Filters{})
}

// Search pushes every filter into SQL: ILIKE over the transcript blob,
// an inclusive created_at range and JSONB path probes into the summary.
func (s *postgres) Search(ctx context.Context, ownerID string, f entity.Filters) ([]*entity.Conversation, error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		where = append(where, fmt.Sprintf(
			"(transcript->>'text' ILIKE %s OR (transcript->'segments')::text ILIKE %s)", p, p))
	}
	if f.StartDate != nil {
		where = append(where, fmt.Sprintf("created_at >= %s", arg(*f.StartDate)))
	}
	if f.EndDate != nil {
		where = append(where, fmt.Sprintf("created_at <= %s", arg(*f.EndDate)))
	}
	if f.Phase != "" {
		where = append(where, fmt.Sprintf(
			"COALESCE((analysis->'summary'->'phase_distribution'->>%s)::numeric, 0) > 0", arg(string(f.Phase))))
	}
	if f.Sentiment != "" {
		where = append(where, fmt.Sprintf(
			"COALESCE((analysis->'summary'->'sentiment_summary'->>%s)::numeric, 0) > 0", arg(string(f.Sentiment))))
	}

	query := fmt.Sprintf(
		`SELECT id, owner_id, audio_path, status, error, transcript, analysis, created_at
		 FROM conversations WHERE %s ORDER BY created_at, id`,
		strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search conversations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *postgres) SetTranscript(ctx context.Context, id uuid.UUID, t *analysis.Transcript) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	return s.exec(ctx, `UPDATE conversations SET transcript = $2 WHERE id = $1`, id, data)
}

func (s *postgres) SetAnalysis(ctx context.Context, id uuid.UUID, a *analysis.Analysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return s.exec(ctx, `UPDATE conversations SET analysis = $2 WHERE id = $1`, id, data)
}

func (s *postgres) SetStatus(ctx context.Context, id uuid.UUID, status entity.Status, errMsg string) error {
	return s.exec(ctx, `UPDATE conversations SET status = $2, error = $3 WHERE id = $1`, id, status, errMsg)
}

func (s *postgres) Close() error {
	return s.db.Close()
}

func (s *postgres) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*entity.Conversation, error) {
	var (
		c          entity.Conversation
		transcript []byte
		analysisB  []byte
	)
	err := row.Scan(&c.ID, &c.OwnerID, &c.AudioPath, &c.Status, &c.Error, &transcript, &analysisB, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversation: %w", err)
	}

	if len(transcript) > 0 {
		c.Transcript = &analysis.Transcript{}
		if err := json.Unmarshal(transcript, c.Transcript); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
	}
	if len(analysisB) > 0 {
		c.Analysis = &analysis.Analysis{}
		if err := json.Unmarshal(analysisB, c.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
	}
	return &c, nil
}

func marshalBlobs(c *entity.Conversation) ([]byte, []byte, error) {
	var transcript, analysisBlob []byte
	var err error
	if c.Transcript != nil {
		if transcript, err = json.Marshal(c.Transcript); err != nil {
			return nil, nil, fmt.Errorf("encode transcript: %w", err)
		}
	}
	if c.Analysis != nil {
		if analysisBlob, err = json.Marshal(c.Analysis); err != nil {
			return nil, nil, fmt.Errorf("encode analysis: %w", err)
		}
	}
	return transcript, analysisBlob, nil
}

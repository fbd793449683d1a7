// README: Document store backed by a PostgreSQL JSONB table (see migrations/0001_init.sql).
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridehail/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, collection string, doc any) (types.ID, error) {
	id := types.NewID()
	m, err := toDocument(doc, id)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, body)
		VALUES ($1, $2, $3::jsonb)`,
		collection, string(id), string(body),
	)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *PostgresStore) FindOne(ctx context.Context, collection string, id types.ID, out any) error {
	var body []byte
	err := s.db.QueryRow(ctx, `
		SELECT body FROM documents
		WHERE collection = $1 AND id = $2`,
		collection, string(id),
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	if out == nil {
		return ErrBadOutput
	}
	return json.Unmarshal(body, out)
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filter Filter, limit int, out any) error {
	cond, err := filterJSON(filter)
	if err != nil {
		return err
	}
	query := `
		SELECT body FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY seq`
	args := []any{collection, cond}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	var buf bytes.Buffer
	buf.WriteByte('[')
	first := true
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		buf.Write(body)
		first = false
	}
	if err := rows.Err(); err != nil {
		return err
	}
	buf.WriteByte(']')
	if out == nil {
		return ErrBadOutput
	}
	return json.Unmarshal(buf.Bytes(), out)
}

func (s *PostgresStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	cond, err := filterJSON(filter)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE collection = $1 AND body @> $2::jsonb`,
		collection, cond,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *PostgresStore) UpdateFields(ctx context.Context, collection string, id types.ID, fields Fields) error {
	_, err := s.UpdateIf(ctx, collection, id, nil, fields)
	return err
}

func (s *PostgresStore) UpdateIf(ctx context.Context, collection string, id types.ID, cond Filter, fields Fields) (bool, error) {
	set, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("marshal fields: %w", err)
	}
	where, err := filterJSON(cond)
	if err != nil {
		return false, err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE documents
		SET body = body || $3::jsonb,
		    updated_at = NOW()
		WHERE collection = $1 AND id = $2 AND body @> $4::jsonb`,
		collection, string(id), string(set), where,
	)
	if err != nil {
		return false, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	exists, err := s.exists(ctx, collection, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

func (s *PostgresStore) Increment(ctx context.Context, collection string, id types.ID, field string, delta int64) (int64, error) {
	var next int64
	err := s.db.QueryRow(ctx, `
		UPDATE documents
		SET body = jsonb_set(body, ARRAY[$3::text], to_jsonb(COALESCE((body->>($3::text))::bigint, 0) + $4::bigint)),
		    updated_at = NOW()
		WHERE collection = $1 AND id = $2
		RETURNING (body->>($3::text))::bigint`,
		collection, string(id), field, delta,
	).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment %s/%s.%s: %w", collection, id, field, err)
	}
	return next, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

func (s *PostgresStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}
	return names, nil
}

func (s *PostgresStore) exists(ctx context.Context, collection string, id types.ID) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND id = $2)`,
		collection, string(id),
	).Scan(&ok)
	return ok, err
}

func filterJSON(f Filter) (string, error) {
	if len(f) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("marshal filter: %w", err)
	}
	return string(b), nil
}

// README: Generic document store contract; every module persists its records through it.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ridehail/internal/types"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrBadOutput  = errors.New("output must be a non-nil pointer")
	ErrBadCounter = errors.New("counter field is not an integer")
)

// Filter matches documents whose top-level fields equal the given values.
type Filter map[string]any

// Fields is a partial document merged into an existing one.
type Fields map[string]any

// Store is a collection-scoped document store. Documents carry their id in the "id" field.
// Find returns documents in insertion order.
type Store interface {
	Create(ctx context.Context, collection string, doc any) (types.ID, error)
	FindOne(ctx context.Context, collection string, id types.ID, out any) error
	Find(ctx context.Context, collection string, filter Filter, limit int, out any) error
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	UpdateFields(ctx context.Context, collection string, id types.ID, fields Fields) error
	// UpdateIf applies fields only when the document currently matches cond.
	// It reports false when the document exists but does not match.
	UpdateIf(ctx context.Context, collection string, id types.ID, cond Filter, fields Fields) (bool, error)
	// Increment adds delta to an integer field (missing counts as 0) and returns the new value.
	Increment(ctx context.Context, collection string, id types.ID, field string, delta int64) (int64, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Collections lists the names of collections holding at least one document, sorted.
	Collections(ctx context.Context) ([]string, error)
}

// toDocument converts a record into its JSON object form and stamps the id.
func toDocument(doc any, id types.ID) (map[string]any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("document must be a json object: %w", err)
	}
	m["id"] = string(id)
	return m, nil
}

// normalize round-trips v through JSON so comparisons see the same shapes stored documents do.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeInto(v any, out any) error {
	if out == nil {
		return ErrBadOutput
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

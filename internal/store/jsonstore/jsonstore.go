package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/idilsaglam/cardtodo/internal/kv"
	"github.com/idilsaglam/cardtodo/internal/model"
)

// JSON-backed storage. The whole list is one JSON array stored as a single
// string value under one key, overwritten on every save.

// DefaultKey is the storage key older installs already wrote to.
const DefaultKey = "@todos"

// ReadError means the persisted list could not be read or decoded.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("load %s: %v", e.Key, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError means the list could not be written.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("save %s: %v", e.Key, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Adapter translates a record sequence to and from one key of a kv.Store.
type Adapter struct {
	backend kv.Store
	key     string
	log     *zap.Logger
}

// New returns an Adapter. An empty key falls back to DefaultKey and a nil
// logger discards diagnostics.
func New(backend kv.Store, key string, log *zap.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{backend: backend, key: key, log: log}
}

// Key returns the storage key in use.
func (a *Adapter) Key() string { return a.key }

// Read returns the persisted records. A missing key, an empty value or a JSON
// null all mean "no data" and are not errors.
func (a *Adapter) Read(ctx context.Context) ([]model.Record, error) {
	raw, ok, err := a.backend.Get(ctx, a.key)
	if err != nil {
		return nil, &ReadError{Key: a.key, Err: err}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.Record{}, nil
	}
	records, err := decode([]byte(raw))
	if err != nil {
		return nil, &ReadError{Key: a.key, Err: err}
	}
	return records, nil
}

// Load is Read with failures logged and replaced by an empty list.
func (a *Adapter) Load(ctx context.Context) []model.Record {
	records, err := a.Read(ctx)
	if err != nil {
		a.log.Warn("loading todos failed, starting empty", zap.String("key", a.key), zap.Error(err))
		return []model.Record{}
	}
	a.log.Debug("loaded todos", zap.String("key", a.key), zap.Int("count", len(records)))
	return records
}

// Save overwrites the stored list with records. Failures are logged and
// returned as *WriteError.
func (a *Adapter) Save(ctx context.Context, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		werr := &WriteError{Key: a.key, Err: fmt.Errorf("json marshal: %w", err)}
		a.log.Error("saving todos failed", zap.Error(werr))
		return werr
	}
	if err := a.backend.Set(ctx, a.key, string(b)); err != nil {
		werr := &WriteError{Key: a.key, Err: err}
		a.log.Error("saving todos failed", zap.String("key", a.key), zap.Error(werr))
		return werr
	}
	a.log.Debug("saved todos", zap.String("key", a.key), zap.Int("count", len(records)))
	return nil
}

// stored mirrors Record with pointers so absent fields can be told apart
// from zero values.
type stored struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	Age       *string `json:"age"`
	Completed *bool   `json:"completed"`
}

func decode(b []byte) ([]model.Record, error) {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return []model.Record{}, nil
	}
	var raw []stored
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	out := make([]model.Record, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, s := range raw {
		switch {
		case s.ID == nil || *s.ID == "":
			return nil, fmt.Errorf("record %d: missing id", i)
		case s.Name == nil || *s.Name == "":
			return nil, fmt.Errorf("record %d (%s): missing name", i, *s.ID)
		case s.Age == nil || *s.Age == "":
			return nil, fmt.Errorf("record %d (%s): missing age", i, *s.ID)
		}
		if _, dup := seen[*s.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %s", i, *s.ID)
		}
		seen[*s.ID] = struct{}{}

		r := model.Record{ID: *s.ID, Name: *s.Name, Age: *s.Age}
		if s.Completed != nil {
			r.Completed = *s.Completed
		}
		out = append(out, r)
	}
	return out, nil
}

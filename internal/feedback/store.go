// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package feedback stores client feedback on served predictions in BadgerDB.
//
// Records are keyed by submission time so that the newest ones can be
// listed with a reverse prefix scan:
//
//	feedback:<unix-nano, 20 digits>:<uuid>  -> JSON record
//	feedback_id:<uuid>                      -> primary key
package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	recordPrefix = "feedback:"
	indexPrefix  = "feedback_id:"

	// DefaultListLimit and MaxListLimit bound List.
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("feedback not found")

// Record is one piece of feedback about a prediction.
type Record struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id,omitempty"`
	PredictedRent float64   `json:"predicted_rent"`
	ActualRent    *float64  `json:"actual_rent,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	Comment       string    `json:"comment,omitempty"`
	ModelVersion  string    `json:"model_version,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Config configures the store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// Store persists feedback records.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens or creates the store.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else if cfg.Path == "" {
		return nil, errors.New("feedback store path is required")
	}
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20
	opts.SyncWrites = !cfg.InMemory

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for feedback: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Submit stores a record. ID and CreatedAt are assigned by the store.
//
//nolint:gocritic // rec is copied on purpose; the caller's value is not modified
func (s *Store) Submit(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = s.now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("marshal feedback: %w", err)
	}

	key := recordKey(rec.CreatedAt, rec.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(indexPrefix+rec.ID), key)
	})
	if err != nil {
		return Record{}, fmt.Errorf("store feedback: %w", err)
	}
	return rec, nil
}

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrNotFound
	}

	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		idx, err := txn.Get([]byte(indexPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get feedback index: %w", err)
		}
		key, err := idx.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get feedback: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns up to limit records, newest first. A limit outside
// 1..MaxListLimit is clamped; 0 means DefaultListLimit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	out := make([]Record, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(recordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(recordPrefix)
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(out) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				// Corrupted entry - skip it
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}

// RunGC reclaims value log space until a pass finds nothing to rewrite.
// It returns the number of rewritten log files.
func (s *Store) RunGC(ctx context.Context) (int, error) {
	rewritten := 0
	for {
		if err := ctx.Err(); err != nil {
			return rewritten, err
		}
		err := s.db.RunValueLogGC(0.5)
		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return rewritten, nil
		default:
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
	}
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func recordKey(t time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", recordPrefix, t.UnixNano(), id))
}

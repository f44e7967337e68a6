// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package artifacts persists and loads the trained artifacts the service
// runs on: the model pipeline, the prior tables, the feature schema and the
// model metadata.
//
// # Storage Format
//
// Binary artifacts are gob-encoded, gzip-compressed and stored with their
// metadata and a SHA-256 checksum as {name}_v{version}.gob.gz. Every load
// verifies the checksum, so a truncated or altered file never reaches the
// prediction path. The schema and metadata are plain JSON files written by
// the training job.
//
// # Thread Safety
//
// Store operations are safe for concurrent use.
package artifacts

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const fileSuffix = ".gob.gz"

var (
	// ErrNotFound is returned when no artifact exists for a name or version.
	ErrNotFound = errors.New("artifact not found")

	// ErrChecksumMismatch is returned when stored data does not match its checksum.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// Metadata describes one stored artifact version.
type Metadata struct {
	// Name is the artifact name (e.g., "rent_pipeline", "priors").
	Name string `json:"name" yaml:"name"`

	// Version increases with every bundle.
	Version int `json:"version" yaml:"version"`

	// CreatedAt is when the training export was produced.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// SavedAt is when the artifact was written to the store.
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed gob data.
	Checksum string `json:"checksum" yaml:"checksum"`

	// SizeBytes is the compressed size.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`

	// Source names the export the artifact was built from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// storedFile is the on-disk format.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store manages versioned artifacts in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// NewStore opens a store at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return OpenStore(dir)
}

// OpenStore opens an existing store directory. A missing directory is an error.
func OpenStore(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open artifact directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open artifact directory: %s is not a directory", dir)
	}

	s := &Store{
		baseDir:  dir,
		versions: make(map[string]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan artifacts: %w", err)
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.baseDir
}

func (s *Store) scan() error {
	versions, err := s.versionsOnDisk("")
	if err != nil {
		return err
	}
	for name, vs := range versions {
		s.versions[name] = vs[0]
	}
	return nil
}

// versionsOnDisk returns the stored versions per name, highest first.
// An empty filter returns every name.
func (s *Store) versionsOnDisk(filter string) (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := splitArtifactName(entry.Name())
		if !ok || (filter != "" && name != filter) {
			continue
		}
		out[name] = append(out[name], version)
	}
	for _, vs := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(vs)))
	}
	return out, nil
}

// splitArtifactName parses "priors_v3.gob.gz" into ("priors", 3).
func splitArtifactName(filename string) (string, int, bool) {
	base, ok := strings.CutSuffix(filename, fileSuffix)
	if !ok {
		return "", 0, false
	}
	i := strings.LastIndex(base, "_v")
	if i <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[i+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:i], version, true
}

// Save stores data as the given artifact version. A version of 0 saves
// as the next version after the latest one. The stored metadata is returned.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data any, meta Metadata) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return Metadata{}, fmt.Errorf("invalid artifact name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == 0 {
		version = s.versions[name] + 1
	}
	if version < 0 {
		return Metadata{}, fmt.Errorf("invalid artifact version %d", version)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return Metadata{}, fmt.Errorf("encode artifact: %w", err)
	}
	raw := buf.Bytes()

	hash := sha256.Sum256(raw)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return Metadata{}, fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return Metadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = meta.SavedAt
	}

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return Metadata{}, fmt.Errorf("encode artifact file: %w", err)
	}

	// Write to a temp file and rename so a reader never sees a partial file.
	path := s.path(name, version)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out.Bytes(), 0o600); err != nil {
		return Metadata{}, fmt.Errorf("write artifact file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return Metadata{}, fmt.Errorf("commit artifact file: %w", err)
	}

	if version > s.versions[name] {
		s.versions[name] = version
	}
	return meta, nil
}

// Load decodes an artifact into target. A version of 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target any) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		v, ok := s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = v
	}

	sf, err := s.readFile(name, version)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: %s v%d: expected %s, got %s", ErrChecksumMismatch, name, version, sf.Metadata.Checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &sf.Metadata, nil
}

func (s *Store) readFile(name string, version int) (*storedFile, error) {
	f, err := os.Open(s.path(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return &sf, nil
}

// LatestVersion returns the latest stored version of an artifact.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[name]
	return v, ok
}

// List returns the metadata of every stored version, sorted by name and
// then by version, newest first. Unreadable files are skipped.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.versionsOnDisk("")
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Metadata
	for _, name := range names {
		for _, v := range all[name] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sf, err := s.readFile(name, v)
			if err != nil {
				continue
			}
			out = append(out, sf.Metadata)
		}
	}
	return out, nil
}

// Delete removes one artifact version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name, version)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		return fmt.Errorf("delete artifact: %w", err)
	}

	if s.versions[name] != version {
		return nil
	}
	remaining, err := s.versionsOnDisk(name)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if vs := remaining[name]; len(vs) > 0 {
		s.versions[name] = vs[0]
	} else {
		delete(s.versions, name)
	}
	return nil
}

// Prune removes old versions of an artifact, keeping the newest keep.
// It returns the number of versions removed.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}

	all, err := s.versionsOnDisk(name)
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	removed := 0
	vs := all[name]
	for i := keep; i < len(vs); i++ {
		if err := os.Remove(s.path(name, vs[i])); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s v%d: %w", name, vs[i], err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}

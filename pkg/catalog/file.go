package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/observability"
)

const fileBackend = "file"

// FileStore implements a file-based catalog for CLI usage.
// Records of one code length share a JSON document "<length>.json" laid out
// as weight → objective → entry.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// fileEntry is one record inside a length document.
type fileEntry struct {
	Code      []int     `json:"code"`
	Score     float64   `json:"score"`
	RunID     string    `json:"run_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// lengthDoc maps weight (as a string, JSON object keys) to objective to entry.
type lengthDoc map[string]map[string]fileEntry

// NewFileStore creates a file-based catalog in dir, or in [DefaultDir] when
// dir is empty. The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidPath, err, "create catalog directory")
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the user-level catalog directory
// (~/.cache/jeweler/catalog, honouring XDG_CACHE_HOME).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", jerrors.Wrap(jerrors.ErrCodeInvalidPath, err, "locate cache directory")
	}
	return filepath.Join(base, "jeweler", "catalog"), nil
}

// Dir returns the directory holding the catalog files.
func (s *FileStore) Dir() string { return s.dir }

// Get retrieves the record stored under key.
func (s *FileStore) Get(ctx context.Context, key Key) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(key.Length)
	if err != nil {
		return nil, err
	}
	entry, ok := doc[strconv.Itoa(key.Weight)][key.Objective]
	if !ok {
		observability.Catalog().OnCatalogMiss(ctx, fileBackend)
		return nil, NotInCatalog(key)
	}
	observability.Catalog().OnCatalogHit(ctx, fileBackend)
	rec := entry.record(key)
	return &rec, nil
}

// Put stores rec if it beats the stored score.
func (s *FileStore) Put(ctx context.Context, rec Record) (bool, error) {
	rec, err := prepare(rec)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(rec.Length)
	if err != nil {
		return false, err
	}
	weight := strconv.Itoa(rec.Weight)
	var current *Record
	if entry, ok := doc[weight][rec.Objective]; ok {
		r := entry.record(rec.Key())
		current = &r
	}
	improved := improves(current, rec)
	observability.Catalog().OnCatalogPut(ctx, fileBackend, improved)
	if !improved {
		return false, nil
	}
	if doc[weight] == nil {
		doc[weight] = make(map[string]fileEntry)
	}
	doc[weight][rec.Objective] = newFileEntry(rec)
	return true, s.save(rec.Length, doc)
}

// List returns the stored records of one length, or of all lengths when
// length is 0.
func (s *FileStore) List(ctx context.Context, length int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lengths := []int{length}
	if length <= 0 {
		var err error
		if lengths, err = s.lengths(); err != nil {
			return nil, err
		}
	}

	var recs []Record
	for _, l := range lengths {
		doc, err := s.load(l)
		if err != nil {
			return nil, err
		}
		for weight, byObjective := range doc {
			w, err := strconv.Atoi(weight)
			if err != nil {
				return nil, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "catalog file %d.json", l)
			}
			for objective, entry := range byObjective {
				recs = append(recs, entry.record(Key{Length: l, Weight: w, Objective: objective}))
			}
		}
	}
	sortRecords(recs)
	return recs, nil
}

// Delete removes the record stored under key.
func (s *FileStore) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(key.Length)
	if err != nil {
		return err
	}
	weight := strconv.Itoa(key.Weight)
	if _, ok := doc[weight][key.Objective]; !ok {
		return nil
	}
	delete(doc[weight], key.Objective)
	if len(doc[weight]) == 0 {
		delete(doc, weight)
	}
	if len(doc) == 0 {
		err := os.Remove(s.path(key.Length))
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return s.save(key.Length, doc)
}

// Clear removes every catalog file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lengths, err := s.lengths()
	if err != nil {
		return err
	}
	for _, l := range lengths {
		if err := os.Remove(s.path(l)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// load reads the document for one length. A missing file is an empty
// document.
func (s *FileStore) load(length int) (lengthDoc, error) {
	data, err := os.ReadFile(s.path(length))
	if os.IsNotExist(err) {
		return lengthDoc{}, nil
	}
	if err != nil {
		return nil, err
	}
	var doc lengthDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "catalog file %s is improperly formatted", s.path(length))
	}
	if doc == nil {
		doc = lengthDoc{}
	}
	return doc, nil
}

// save writes the document through a temporary file and rename, so readers
// never observe a partial write.
func (s *FileStore) save(length int, doc lengthDoc) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".catalog-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(length))
}

// lengths lists the code lengths that have a catalog file.
func (s *FileStore) lengths() ([]int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var lengths []int
	for _, m := range matches {
		name := filepath.Base(m)
		if l, err := strconv.Atoi(name[:len(name)-len(".json")]); err == nil && l > 0 {
			lengths = append(lengths, l)
		}
	}
	return lengths, nil
}

func (s *FileStore) path(length int) string {
	return filepath.Join(s.dir, strconv.Itoa(length)+".json")
}

func newFileEntry(rec Record) fileEntry {
	return fileEntry{
		Code:      rec.Code,
		Score:     rec.Score,
		RunID:     rec.RunID,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (e fileEntry) record(key Key) Record {
	return Record{
		Length:    key.Length,
		Weight:    key.Weight,
		Objective: key.Objective,
		Code:      e.Code,
		Score:     e.Score,
		RunID:     e.RunID,
		UpdatedAt: e.UpdatedAt,
	}
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

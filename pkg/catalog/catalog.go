// Package catalog stores the best code found for each search configuration.
//
// A configuration is identified by a [Key]: code length, weight (number of
// ones) and objective name. Stores keep only the highest-scoring record per
// key, so concurrent or repeated searches can write freely:
//
//	store, err := catalog.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	improved, err := store.Put(ctx, catalog.Record{
//	    Length: 13, Weight: 6, Objective: "minimal_variance",
//	    Code: code, Score: score,
//	})
//
// Backends:
//   - [FileStore]: one JSON document per code length (CLI default)
//   - [RedisStore]: one Redis string per key, for shared deployments
//   - [MongoStore]: one document per key
//   - [NullStore]: discards everything
package catalog

import (
	"context"
	"slices"
	"time"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// Record is the best code known for one configuration.
type Record struct {
	Length    int       `json:"length" bson:"length"`
	Weight    int       `json:"weight" bson:"weight"`
	Objective string    `json:"objective" bson:"objective"`
	Code      []int     `json:"code" bson:"code"`
	Score     float64   `json:"score" bson:"score"`
	RunID     string    `json:"run_id,omitempty" bson:"run_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Key returns the configuration the record belongs to.
func (r Record) Key() Key {
	return Key{Length: r.Length, Weight: r.Weight, Objective: r.Objective}
}

// Validate checks that the record is internally consistent.
func (r Record) Validate() error {
	if err := r.Key().Validate(); err != nil {
		return err
	}
	if len(r.Code) != r.Length {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "code has length %d, want %d", len(r.Code), r.Length)
	}
	ones := 0
	for _, bit := range r.Code {
		switch bit {
		case 0:
		case 1:
			ones++
		default:
			return jerrors.New(jerrors.ErrCodeInvalidInput, "code must be binary, found %d", bit)
		}
	}
	if ones != r.Weight {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "code has weight %d, want %d", ones, r.Weight)
	}
	return nil
}

// Store persists best-code records.
type Store interface {
	// Get returns the record stored under key, or an error matching
	// NOT_FOUND when there is none.
	Get(ctx context.Context, key Key) (*Record, error)

	// Put stores rec unless a record with the same key and a score at least
	// as high exists. It reports whether rec was stored.
	Put(ctx context.Context, rec Record) (bool, error)

	// List returns stored records ordered by length, weight and objective.
	// A length of 0 lists every length.
	List(ctx context.Context, length int) ([]Record, error)

	// Delete removes the record stored under key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key Key) error

	// Close releases backend resources.
	Close() error
}

// NotInCatalog returns the error reported when key has no record.
func NotInCatalog(key Key) error {
	return jerrors.New(jerrors.ErrCodeNotFound,
		"%d/%d codes have not been evaluated with %q", key.Weight, key.Length, key.Objective)
}

// IsNotFound reports whether err means the catalog holds no record.
func IsNotFound(err error) bool {
	return jerrors.Is(err, jerrors.ErrCodeNotFound)
}

// improves reports whether candidate should replace current.
func improves(current *Record, candidate Record) bool {
	return current == nil || candidate.Score > current.Score
}

// prepare validates rec and stamps it for storage.
func prepare(rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	rec.Code = slices.Clone(rec.Code)
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	return rec, nil
}

// sortRecords orders records by length, weight and objective.
func sortRecords(recs []Record) {
	slices.SortFunc(recs, func(a, b Record) int {
		return a.Key().compare(b.Key())
	})
}

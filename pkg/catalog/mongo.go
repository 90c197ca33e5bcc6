package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/observability"
)

const (
	mongoBackend = "mongo"

	// DefaultMongoCollection holds catalog documents unless configured
	// otherwise.
	DefaultMongoCollection = "catalog"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one document per key, with the key string as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored document layout.
type mongoDoc struct {
	ID     string `bson:"_id"`
	Record `bson:",inline"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "jeweler"
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeNetwork, err, "connect to mongodb")
	}
	err = ping(ctx, pingAttempts, pingDelay, func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, jerrors.Wrap(jerrors.ErrCodeNetwork, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves the record stored under key.
func (s *MongoStore) Get(ctx context.Context, key Key) (*Record, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Catalog().OnCatalogMiss(ctx, mongoBackend)
		return nil, NotInCatalog(key)
	}
	if err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeNetwork, err, "find %s", key)
	}
	observability.Catalog().OnCatalogHit(ctx, mongoBackend)
	return &doc.Record, nil
}

// Put stores rec if it beats the stored score. The score condition is part
// of the update filter; when a better record exists the upsert collides
// with its _id and nothing is written.
func (s *MongoStore) Put(ctx context.Context, rec Record) (bool, error) {
	rec, err := prepare(rec)
	if err != nil {
		return false, err
	}
	filter, update := putQuery(rec)
	res, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		observability.Catalog().OnCatalogPut(ctx, mongoBackend, false)
		return false, nil
	}
	if err != nil {
		return false, jerrors.Wrap(jerrors.ErrCodeNetwork, err, "upsert %s", rec.Key())
	}
	improved := res.UpsertedCount > 0 || res.MatchedCount > 0
	observability.Catalog().OnCatalogPut(ctx, mongoBackend, improved)
	return improved, nil
}

// List returns the records of one length, or of all lengths when length
// is 0.
func (s *MongoStore) List(ctx context.Context, length int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "length", Value: 1}, {Key: "weight", Value: 1}, {Key: "objective", Value: 1}})
	cur, err := s.coll.Find(ctx, listFilter(length), opts)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeNetwork, err, "list catalog")
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeNetwork, err, "read catalog")
	}
	recs := make([]Record, 0, len(docs))
	for _, d := range docs {
		recs = append(recs, d.Record)
	}
	return recs, nil
}

// Delete removes the record stored under key.
func (s *MongoStore) Delete(ctx context.Context, key Key) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key.String()}); err != nil {
		return jerrors.Wrap(jerrors.ErrCodeNetwork, err, "delete %s", key)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// putQuery builds the keep-if-better upsert for rec.
func putQuery(rec Record) (filter, update bson.M) {
	filter = bson.M{
		"_id":   rec.Key().String(),
		"score": bson.M{"$lt": rec.Score},
	}
	update = bson.M{"$set": rec}
	return filter, update
}

func listFilter(length int) bson.M {
	if length <= 0 {
		return bson.M{}
	}
	return bson.M{"length": length}
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)

package annotation

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/a9s/pkg/errors"
)

// MongoStore keeps one document per annotation, keyed by its ID. Times are
// stored with millisecond precision.
type MongoStore struct {
	coll   *mongo.Collection
	client *mongo.Client // owned client, disconnected by Close; may be nil
}

// NewMongoStore returns a store on an existing collection. Close does not
// disconnect the client.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// ConnectMongo connects to uri, pings the server and ensures the source
// index on database.collection.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "target.source", Value: 1}, {Key: "created", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create mongo index")
	}
	return &MongoStore{coll: coll, client: client}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Annotation, error) {
	var a Annotation
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return Annotation{}, notFound(id)
	}
	if err != nil {
		return Annotation{}, errors.Wrap(errors.ErrCodeStore, err, "mongo get %s", id)
	}
	return a, nil
}

func (s *MongoStore) List(ctx context.Context, source string) ([]Annotation, error) {
	filter := bson.M{}
	if source != "" {
		filter["target.source"] = source
	}
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "mongo find")
	}
	var list []Annotation
	if err := cur.All(ctx, &list); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "mongo decode")
	}
	return list, nil
}

func (s *MongoStore) Put(ctx context.Context, a Annotation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "mongo put %s", a.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "mongo delete %s", id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)

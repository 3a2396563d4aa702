package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/snapshot"
)

// Mongo is a tree store backed by a MongoDB collection, for multi-user
// API deployments. One document per tree, keyed by name.
type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

// treeDoc is the stored document shape.
type treeDoc struct {
	Name      string            `bson:"_id"`
	Snapshot  snapshot.Snapshot `bson:"snapshot"`
	Members   int               `bson:"members"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// NewMongo connects to the MongoDB instance at uri and uses the given
// database's "trees" collection. The connection is verified with a ping.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping %s", uri)
	}
	return &Mongo{
		client: client,
		col:    client.Database(database).Collection("trees"),
	}, nil
}

// Save upserts a snapshot under name.
func (m *Mongo) Save(ctx context.Context, name string, snap snapshot.Snapshot) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tree name must not be empty")
	}
	doc := treeDoc{
		Name:      name,
		Snapshot:  snap,
		Members:   len(snap.Members),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := m.col.ReplaceOne(ctx,
		bson.M{"_id": name},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save tree %q", name)
	}
	return nil
}

// Load retrieves a snapshot by name.
func (m *Mongo) Load(ctx context.Context, name string) (snapshot.Snapshot, error) {
	var doc treeDoc
	err := m.col.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return snapshot.Snapshot{}, errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", name)
	}
	if err != nil {
		return snapshot.Snapshot{}, errors.Wrap(errors.ErrCodeStorage, err, "load tree %q", name)
	}
	return doc.Snapshot, nil
}

// List returns metadata for all stored trees, sorted by name.
func (m *Mongo) List(ctx context.Context) ([]Info, error) {
	cur, err := m.col.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"_id": 1, "members": 1, "updated_at": 1}).
			SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list trees")
	}
	defer cur.Close(ctx)

	var infos []Info
	if err := cur.All(ctx, &infos); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode tree list")
	}
	return infos, nil
}

// Delete removes a stored tree.
func (m *Mongo) Delete(ctx context.Context, name string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete tree %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", name)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)

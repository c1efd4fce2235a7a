// Package snapshotdb persists graph snapshots in MongoDB.
//
// Each snapshot is stored under a caller-chosen name together with a few
// summary fields, so listings do not need to decode the document itself.
// The document is kept as its node-link JSON encoding, byte for byte, which
// keeps the stored hash stable across a save/load round trip.
package snapshotdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/graphcore/pkg/cache"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	gio "github.com/matzehuels/graphcore/pkg/io"
)

// ErrNotFound is returned by Load for an unknown snapshot name.
var ErrNotFound = errors.New("snapshot not found")

// Record is one stored snapshot.
type Record struct {
	Name     string    `bson:"_id" json:"name"`
	GraphID  string    `bson:"graph_id" json:"graph_id"`
	Kind     string    `bson:"kind" json:"kind"`
	Nodes    int       `bson:"nodes" json:"nodes"`
	Edges    int       `bson:"edges" json:"edges"`
	Hash     string    `bson:"hash" json:"hash"`
	SavedAt  time.Time `bson:"saved_at" json:"saved_at"`
	Document []byte    `bson:"document,omitempty" json:"-"`
}

// Options locate the snapshot collection.
type Options struct {
	URI        string
	Database   string
	Collection string
}

// Store reads and writes snapshots in one collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// Connect dials MongoDB and returns a Store that closes the client on Close.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	if opts.URI == "" {
		return nil, gcerrors.New(gcerrors.ErrCodeInvalidInput, "mongo uri is not configured")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.URI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping %s: %w", opts.URI, err)
	}
	s := New(client.Database(opts.Database).Collection(opts.Collection))
	s.client, s.owned = client, true
	return s, nil
}

// New wraps an existing collection. Close does not disconnect its client.
func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// NewRecord encodes doc for storage under name.
func NewRecord(name string, doc gio.Document) (Record, error) {
	if err := gcerrors.ValidateNodeID(name); err != nil {
		return Record{}, gcerrors.Wrap(gcerrors.ErrCodeInvalidInput, err, "snapshot name")
	}
	data, err := gio.Marshal(doc)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Name:     name,
		GraphID:  doc.ID,
		Kind:     doc.Kind,
		Nodes:    len(doc.Nodes),
		Edges:    len(doc.Edges),
		Hash:     cache.Hash(data),
		SavedAt:  time.Now().UTC().Truncate(time.Millisecond),
		Document: data,
	}, nil
}

// Save stores doc under name, replacing any earlier snapshot of that name.
func (s *Store) Save(ctx context.Context, name string, doc gio.Document) (Record, error) {
	rec, err := NewRecord(name, doc)
	if err != nil {
		return Record{}, err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return Record{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	rec.Document = nil
	return rec, nil
}

// Load returns the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (gio.Document, Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return gio.Document{}, Record{}, gcerrors.Wrap(gcerrors.ErrCodeNotFound, ErrNotFound, "%q", name)
	}
	if err != nil {
		return gio.Document{}, Record{}, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	doc, err := gio.Unmarshal(rec.Document)
	if err != nil {
		return gio.Document{}, Record{}, fmt.Errorf("decode snapshot %q: %w", name, err)
	}
	rec.Document = nil
	return doc, rec, nil
}

// List returns every stored snapshot, newest first, without documents.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "saved_at", Value: -1}}).
		SetProjection(bson.M{"document": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot stored under name and reports whether it
// existed.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return false, fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return res.DeletedCount > 0, nil
}

// Close disconnects the client if Connect created it.
func (s *Store) Close(ctx context.Context) error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(ctx)
}

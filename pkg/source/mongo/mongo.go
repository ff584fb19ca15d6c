// Package mongo loads aggregated flow records from a MongoDB collection.
//
// Each document holds one distinct path:
//
//	{
//	  "stage1": "Netflix", "stage2": "Netflix", "stage3": "Netflix",
//	  "stage4": "Netflix", "stage5": "Netflix",
//	  "assignment_phase": "none", "value": 1234,
//	  "start_month": "2025-09", "title_id": "tt0903747"
//	}
//
// Documents are returned sorted by value, largest first.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/source"
)

// Config selects the collection and the documents to load.
type Config struct {
	URI        string
	Database   string
	Collection string
	// Month matches start_month when set.
	Month string
	// TitleID matches title_id when set.
	TitleID string
	// Timeout bounds connecting and querying. Zero means 30 seconds.
	Timeout time.Duration
}

// Document is the stored shape of one aggregated path.
type Document struct {
	Stage1  string  `bson:"stage1"`
	Stage2  string  `bson:"stage2"`
	Stage3  string  `bson:"stage3"`
	Stage4  string  `bson:"stage4"`
	Stage5  string  `bson:"stage5"`
	Phase   string  `bson:"assignment_phase"`
	Value   float64 `bson:"value"`
	Month   string  `bson:"start_month,omitempty"`
	TitleID string  `bson:"title_id,omitempty"`
}

// Record converts the document. Missing stage fields become the NULL
// sentinel, as the aggregation emits for unresolved stages.
func (d Document) Record() (flow.Record, error) {
	phase, err := flow.ParsePhase(d.Phase)
	if err != nil {
		return flow.Record{}, err
	}
	stages := []string{d.Stage1, d.Stage2, d.Stage3, d.Stage4, d.Stage5}
	for i, s := range stages {
		if s == "" {
			stages[i] = flow.Null
		}
	}
	return flow.NewRecord(stages, phase, d.Value)
}

// Source reads records from MongoDB. It owns its client; call Close when done.
type Source struct {
	cfg    Config
	client *mongo.Client
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo source needs uri, database and collection")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	return &Source{cfg: cfg, client: client}, nil
}

// Name returns "mongo:" followed by database and collection.
func (s *Source) Name() string {
	return fmt.Sprintf("mongo:%s.%s", s.cfg.Database, s.cfg.Collection)
}

// Filter returns the query document for the configured month and title.
func (c Config) Filter() bson.D {
	filter := bson.D{}
	if c.Month != "" {
		filter = append(filter, bson.E{Key: "start_month", Value: c.Month})
	}
	if c.TitleID != "" {
		filter = append(filter, bson.E{Key: "title_id", Value: c.TitleID})
	}
	return filter
}

// Records loads every matching document, largest value first.
func (s *Source) Records(ctx context.Context) ([]flow.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	coll := s.client.Database(s.cfg.Database).Collection(s.cfg.Collection)
	opts := options.Find().SetSort(bson.D{{Key: "value", Value: -1}})

	cur, err := coll.Find(ctx, s.cfg.Filter(), opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", s.Name())
	}
	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", s.Name())
	}

	out := make([]flow.Record, 0, len(docs))
	for i, d := range docs {
		rec, err := d.Record()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "document %d", i)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close disconnects the client.
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ source.Source = (*Source)(nil)

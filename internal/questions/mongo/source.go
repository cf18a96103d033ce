package mongo

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/questions"
)

// Source serves interview questions from a MongoDB collection, for
// deployments that manage their bank outside the binary.
type Source struct {
	col *mongo.Collection
}

// NewSource connects using MONGO_URI and resolves the database and
// collection from the environment.
func NewSource(ctx context.Context) (*Source, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}

	c, err := mongo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.Connect(connectCtx); err != nil {
		return nil, err
	}

	dbName := os.Getenv("QUESTIONS_DB_NAME")
	if dbName == "" {
		dbName = "interviewguide"
	}
	colName := os.Getenv("QUESTIONS_COLLECTION")
	if colName == "" {
		colName = "questions"
	}

	return &Source{col: c.Database(dbName).Collection(colName)}, nil
}

type questionDoc struct {
	Prompt     string   `bson:"prompt"`
	Topics     []string `bson:"topics,omitempty"`
	Difficulty string   `bson:"difficulty,omitempty"`
}

func (s *Source) Questions(ctx context.Context, count int, opts questions.Options) ([]models.Question, error) {
	filter := map[string]interface{}{}
	if opts.Difficulty != "" {
		filter["difficulty"] = opts.Difficulty
	}
	if len(opts.Topics) > 0 {
		filter["topics"] = map[string]interface{}{"$in": opts.Topics}
	}

	// Stable insertion order keeps the sequence reproducible per bank state.
	findOpts := options.Find().
		SetLimit(int64(count)).
		SetSort(map[string]interface{}{"_id": 1})

	cur, err := s.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := []questionDoc{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]models.Question, len(docs))
	for i, d := range docs {
		result[i] = models.Question{
			Index:      i,
			Prompt:     d.Prompt,
			Topics:     d.Topics,
			Difficulty: d.Difficulty,
		}
	}
	return result, nil
}

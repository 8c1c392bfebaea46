package migrations

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

type step struct {
	name string
	run  func(ctx context.Context, database *mongo.Database) error
}

var steps = []step{
	{"ensure indexes", EnsureIndexes},
	{"backfill revision", BackfillRevision},
	{"backfill active admission", BackfillActiveAdmission},
}

// Run applies every step in order and stops at the first failure. Each step is idempotent.
func Run(ctx context.Context, database *mongo.Database) error {
	for _, s := range steps {
		log.Println("Running migration: ", s.name)
		if err := s.run(ctx, database); err != nil {
			return err
		}
	}
	return nil
}

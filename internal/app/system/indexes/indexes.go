// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.

The unique indexes are load-bearing, not advisory:
  - users.email makes email a real identity key;
  - participations (contest_id, participant_email) makes one ledger record
    per participant per contest an enforced invariant;
  - participations.transaction_id is the idempotency anchor that makes a
    replayed payment completion converge instead of double-applying.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db, log); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureContests(ctx, db, log); err != nil {
		problems = append(problems, "contests: "+err.Error())
	}
	if err := ensureParticipations(ctx, db, log); err != nil {
		problems = append(problems, "participations: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return createSet(ctx, db.Collection("users"), log, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	})
}

func ensureContests(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return createSet(ctx, db.Collection("contests"), log, []mongo.IndexModel{
		{
			// Public listing: approved contests filtered by type, sorted by
			// popularity.
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "contest_type", Value: 1},
				{Key: "participants_count", Value: -1},
			},
			Options: options.Index().SetName("listing"),
		},
		{
			Keys:    bson.D{{Key: "creator_email", Value: 1}},
			Options: options.Index().SetName("by_creator"),
		},
	})
}

func ensureParticipations(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return createSet(ctx, db.Collection("participations"), log, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "contest_id", Value: 1},
				{Key: "participant_email", Value: 1},
			},
			Options: options.Index().SetName("uniq_contest_participant").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetName("uniq_transaction").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "winner", Value: 1}},
			Options: options.Index().SetName("by_winner"),
		},
	})
}

func createSet(ctx context.Context, coll *mongo.Collection, log *zap.Logger, models []mongo.IndexModel) error {
	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	if log != nil {
		log.Info("indexes ensured",
			zap.String("collection", coll.Name()),
			zap.Strings("indexes", names))
	}
	return nil
}

// Package leaderboard provides the read-only winner aggregation.
package leaderboard

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Entry is one participant's aggregated win count.
type Entry struct {
	ParticipantEmail string `bson:"_id" json:"participant_email"`
	Wins             int64  `bson:"wins" json:"wins"`
}

// Wins aggregates all winner-flagged participations grouped by participant,
// sorted by win count descending. Ties keep the store's iteration order.
func Wins(ctx context.Context, db *mongo.Database) ([]Entry, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"winner": true}},
		{"$group": bson.M{"_id": "$participant_email", "wins": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"wins": -1}},
	}

	cur, err := db.Collection("participations").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

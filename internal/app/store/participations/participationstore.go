// internal/app/store/participations/participationstore.go
package participationstore

import (
	"context"
	"errors"
	"time"

	"github.com/contesthub/contesthub/internal/app/system/normalize"
	"github.com/contesthub/contesthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("participations")}
}

// ErrDuplicate is returned when an insert collides with an existing record:
// either the (contest, participant) pair or the transaction id is already
// recorded. Both unique indexes guard the same business event — a
// completed payment — so callers treat a collision as "this completion was
// already applied", not as a failure.
var ErrDuplicate = errors.New("participation already recorded")

// Insert stores a new ledger record. The unique transaction_id index makes
// this the idempotency unit for payment completion: a replayed notification
// collides here and the whole completion short-circuits.
func (s *Store) Insert(ctx context.Context, p models.Participation) (models.Participation, error) {
	p.ID = primitive.NewObjectID()
	p.ParticipantEmail = normalize.Email(p.ParticipantEmail)
	p.CreatorEmail = normalize.Email(p.CreatorEmail)
	p.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Participation{}, ErrDuplicate
		}
		return models.Participation{}, err
	}
	return p, nil
}

// Get loads the unique record for (contestID, participantEmail).
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) Get(ctx context.Context, contestID primitive.ObjectID, email string) (*models.Participation, error) {
	var p models.Participation
	err := s.c.FindOne(ctx, bson.M{
		"contest_id":        contestID,
		"participant_email": normalize.Email(email),
	}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// HasPaid reports whether a paid record exists for (contestID, email).
// Advisory: the client uses it to gate the submission UI.
func (s *Store) HasPaid(ctx context.Context, contestID primitive.ObjectID, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"contest_id":        contestID,
		"participant_email": normalize.Email(email),
		"payment_status":    models.PaymentPaid,
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// SetSubmission records the participant's task content. Returns the number
// of documents matched: zero means no ledger record exists, which is how
// submission-before-payment is impossible by construction.
func (s *Store) SetSubmission(ctx context.Context, contestID primitive.ObjectID, email string, sub models.Submission) (int64, error) {
	sub.SubmittedAt = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"contest_id": contestID, "participant_email": normalize.Email(email)},
		bson.M{"$set": bson.M{"submission": sub}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// MarkWinner flags the record as the contest winner and stamps the time.
// Returns the number of documents matched.
func (s *Store) MarkWinner(ctx context.Context, contestID primitive.ObjectID, email string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"contest_id": contestID, "participant_email": normalize.Email(email)},
		bson.M{"$set": bson.M{"winner": true, "winner_set_at": now}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// ListByParticipant returns a participant's ledger records, newest first.
func (s *Store) ListByParticipant(ctx context.Context, email string) ([]models.Participation, error) {
	cur, err := s.c.Find(ctx, bson.M{"participant_email": normalize.Email(email)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Participation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

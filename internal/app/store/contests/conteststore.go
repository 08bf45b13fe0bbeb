// internal/app/store/contests/conteststore.go
package conteststore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/contesthub/contesthub/internal/app/system/normalize"
	"github.com/contesthub/contesthub/internal/app/system/paging"
	"github.com/contesthub/contesthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contests")}
}

var (
	// ErrApprovedImmutable is returned when a write targets a contest whose
	// status is approved. Approved is terminal: neither content edits nor
	// status transitions touch it.
	ErrApprovedImmutable = errors.New("cannot edit an approved contest")
	// ErrWinnerAlreadyDeclared is returned when SetWinner finds a winner
	// already recorded. First declaration wins.
	ErrWinnerAlreadyDeclared = errors.New("winner already declared")
	// ErrNotApproved is returned when a winner is declared for a contest
	// that is not approved.
	ErrNotApproved = errors.New("contest is not approved")
	errBadStatus   = errors.New(`status must be "approved"|"rejected"`)
)

// Create inserts a contest draft, forcing the lifecycle fields regardless
// of anything the caller supplied: status=pending, zero participants, no
// winner. The server owns these fields.
func (s *Store) Create(ctx context.Context, c models.Contest) (models.Contest, error) {
	c.ID = primitive.NewObjectID()
	c.CreatorEmail = normalize.Email(c.CreatorEmail)
	c.Status = models.StatusPending
	c.ParticipantsCount = 0
	c.Participants = []models.Participant{}
	c.Winner = nil

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Contest{}, err
	}
	return c, nil
}

// GetByID fetches one contest. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Contest, error) {
	var c models.Contest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Contest{}, err
	}
	return c, nil
}

// ListByCreator returns all contests owned by creatorEmail, newest first.
func (s *Store) ListByCreator(ctx context.Context, creatorEmail string) ([]models.Contest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"creator_email": normalize.Email(creatorEmail)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Contest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns contests for the admin moderation view, optionally
// filtered by status, newest first.
func (s *Store) ListAll(ctx context.Context, status string) ([]models.Contest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Contest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApprovedPage holds one page of the public listing with its totals.
type ApprovedPage struct {
	Items []models.Contest
	Total int64
}

// ListApproved returns one page of approved contests for the public
// listing, optionally filtered by exact contest type. When sortPopular is
// set the page is ordered by participants_count descending; otherwise
// newest first.
func (s *Store) ListApproved(ctx context.Context, contestType string, page int, sortPopular bool) (ApprovedPage, error) {
	filter := bson.M{"status": models.StatusApproved}
	if contestType != "" {
		filter["contest_type"] = contestType
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return ApprovedPage{}, err
	}

	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	if sortPopular {
		sort = bson.D{{Key: "participants_count", Value: -1}, {Key: "_id", Value: -1}}
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(paging.Skip(page)).
		SetLimit(int64(paging.PageSize))

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return ApprovedPage{}, err
	}
	defer cur.Close(ctx)

	var items []models.Contest
	if err := cur.All(ctx, &items); err != nil {
		return ApprovedPage{}, err
	}
	return ApprovedPage{Items: items, Total: total}, nil
}

// SearchByType returns approved contests whose type contains the substring,
// case-insensitive.
func (s *Store) SearchByType(ctx context.Context, typeSubstring string) ([]models.Contest, error) {
	filter := bson.M{
		"status": models.StatusApproved,
		"contest_type": bson.M{
			"$regex":   regexp.QuoteMeta(typeSubstring),
			"$options": "i",
		},
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Contest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContentUpdate holds the creator-editable fields. Nil pointers mean "leave
// unchanged"; lifecycle fields are not represented here at all.
type ContentUpdate struct {
	Name         *string
	Description  *string
	Instructions *string
	ImageURL     *string
	ContestType  *string
	EntryPrice   *int64
	PrizeMoney   *int64
	Deadline     *time.Time
}

// UpdateContent merges the supplied fields into the contest, last write
// wins per field. The update is conditional on status != approved; an
// approved contest reports ErrApprovedImmutable and stays untouched, a
// missing contest reports mongo.ErrNoDocuments.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, upd ContentUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Instructions != nil {
		set["instructions"] = *upd.Instructions
	}
	if upd.ImageURL != nil {
		set["image_url"] = *upd.ImageURL
	}
	if upd.ContestType != nil {
		set["contest_type"] = *upd.ContestType
	}
	if upd.EntryPrice != nil {
		set["entry_price"] = *upd.EntryPrice
	}
	if upd.PrizeMoney != nil {
		set["prize_money"] = *upd.PrizeMoney
	}
	if upd.Deadline != nil {
		set["deadline"] = *upd.Deadline
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": models.StatusApproved}},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.explainNoMatch(ctx, id, ErrApprovedImmutable)
	}
	return nil
}

// SetStatus transitions the contest to approved or rejected. The filter
// excludes approved contests, so the terminal-state rule holds even under
// concurrent admin actions: the losing writer matches nothing.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.StatusApproved && status != models.StatusRejected {
		return errBadStatus
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": models.StatusApproved}},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.explainNoMatch(ctx, id, ErrApprovedImmutable)
	}
	return nil
}

// EnrollParticipant adds a participant and bumps the count as one document
// operation. The filter requires the email to be absent from the set, so
// the count and the set move together and a replayed enrollment matches
// nothing. Returns true when the participant was added, false when the
// email was already enrolled; mongo.ErrNoDocuments when the contest does
// not exist.
func (s *Store) EnrollParticipant(ctx context.Context, id primitive.ObjectID, email, paymentStatus string) (bool, error) {
	email = normalize.Email(email)

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "participants.email": bson.M{"$ne": email}},
		bson.M{
			"$inc":  bson.M{"participants_count": 1},
			"$push": bson.M{"participants": models.Participant{Email: email, PaymentStatus: paymentStatus}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	// No match: either already enrolled or no such contest.
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return false, err
	}
	return false, nil
}

// UpdateParticipantStatus changes the payment status of an already-enrolled
// participant in place. Returns the number of documents matched.
func (s *Store) UpdateParticipantStatus(ctx context.Context, id primitive.ObjectID, email, paymentStatus string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "participants.email": normalize.Email(email)},
		bson.M{"$set": bson.M{
			"participants.$.payment_status": paymentStatus,
			"updated_at":                    time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetWinner records the winner exactly once. The filter demands an approved
// contest with no winner yet, so concurrent declarations race safely: one
// matches, the rest report ErrWinnerAlreadyDeclared (or ErrNotApproved when
// the contest never reached approved).
func (s *Store) SetWinner(ctx context.Context, id primitive.ObjectID, winner models.Participant) error {
	winner.Email = normalize.Email(winner.Email)

	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": models.StatusApproved,
			"winner": nil,
		},
		bson.M{"$set": bson.M{"winner": winner, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	var c models.Contest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return err
	}
	if c.Winner != nil {
		return ErrWinnerAlreadyDeclared
	}
	return ErrNotApproved
}

// Delete removes a contest. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteOwned removes a contest only when creatorEmail owns it. Returns the
// number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id primitive.ObjectID, creatorEmail string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "creator_email": normalize.Email(creatorEmail)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// explainNoMatch distinguishes "document missing" from "condition failed"
// after a conditional update matched nothing.
func (s *Store) explainNoMatch(ctx context.Context, id primitive.ObjectID, conditionErr error) error {
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return err
	}
	return conditionErr
}

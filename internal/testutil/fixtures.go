package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/contesthub/contesthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		FullName:  "Test User",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, models.RoleAdmin)
}

// CreateCreator creates a test creator user.
func (f *Fixtures) CreateCreator(ctx context.Context, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, models.RoleCreator)
}

// CreateContest creates a test contest owned by creatorEmail with the given
// lifecycle status.
func (f *Fixtures) CreateContest(ctx context.Context, name, creatorEmail, status string) models.Contest {
	f.t.Helper()

	now := time.Now().UTC()
	contest := models.Contest{
		ID:                primitive.NewObjectID(),
		Name:              name,
		Description:       "Test contest description",
		ContestType:       "design",
		CreatorEmail:      creatorEmail,
		EntryPrice:        1000,
		Deadline:          now.Add(30 * 24 * time.Hour),
		Status:            status,
		ParticipantsCount: 0,
		Participants:      []models.Participant{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := f.db.Collection("contests").InsertOne(ctx, contest); err != nil {
		f.t.Fatalf("failed to create test contest: %v", err)
	}
	return contest
}

// CreateApprovedContest creates an approved contest with the given type and
// participant count, for listing and search tests.
func (f *Fixtures) CreateApprovedContest(ctx context.Context, name, creatorEmail, contestType string, participants int64) models.Contest {
	f.t.Helper()

	now := time.Now().UTC()
	contest := models.Contest{
		ID:                primitive.NewObjectID(),
		Name:              name,
		ContestType:       contestType,
		CreatorEmail:      creatorEmail,
		EntryPrice:        1000,
		Deadline:          now.Add(30 * 24 * time.Hour),
		Status:            models.StatusApproved,
		ParticipantsCount: participants,
		Participants:      []models.Participant{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := f.db.Collection("contests").InsertOne(ctx, contest); err != nil {
		f.t.Fatalf("failed to create test contest: %v", err)
	}
	return contest
}

// CreateParticipation creates a paid ledger record tying a participant to a
// contest.
func (f *Fixtures) CreateParticipation(ctx context.Context, contestID primitive.ObjectID, email, transactionID string) models.Participation {
	f.t.Helper()

	rec := models.Participation{
		ID:               primitive.NewObjectID(),
		ContestID:        contestID,
		ParticipantEmail: email,
		TransactionID:    transactionID,
		Amount:           1000,
		PaymentStatus:    models.PaymentPaid,
		CreatedAt:        time.Now().UTC(),
	}

	if _, err := f.db.Collection("participations").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create test participation: %v", err)
	}
	return rec
}

// CreateWinnerParticipation creates a ledger record already flagged as a
// winner, for leaderboard tests.
func (f *Fixtures) CreateWinnerParticipation(ctx context.Context, contestID primitive.ObjectID, email, transactionID string) models.Participation {
	f.t.Helper()

	now := time.Now().UTC()
	rec := models.Participation{
		ID:               primitive.NewObjectID(),
		ContestID:        contestID,
		ParticipantEmail: email,
		TransactionID:    transactionID,
		Amount:           1000,
		PaymentStatus:    models.PaymentPaid,
		Winner:           true,
		WinnerSetAt:      &now,
		CreatedAt:        now,
	}

	if _, err := f.db.Collection("participations").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create test winner participation: %v", err)
	}
	return rec
}

package participationstore_test

import (
	"testing"

	participationstore "github.com/contesthub/contesthub/internal/app/store/participations"
	"github.com/contesthub/contesthub/internal/app/system/indexes"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/contesthub/contesthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*participationstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return participationstore.New(db), testutil.NewFixtures(t, db)
}

func TestStore_Insert(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contestID := primitive.NewObjectID()
	rec, err := store.Insert(ctx, models.Participation{
		ContestID:        contestID,
		ParticipantEmail: "Bob@Example.com",
		TransactionID:    "tx_001",
		Amount:           1000,
		PaymentStatus:    models.PaymentPaid,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if rec.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if rec.ParticipantEmail != "bob@example.com" {
		t.Errorf("email not normalized: %q", rec.ParticipantEmail)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Insert_DuplicateTransaction(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := models.Participation{
		ContestID:        primitive.NewObjectID(),
		ParticipantEmail: "bob@example.com",
		TransactionID:    "tx_replay",
		Amount:           1000,
		PaymentStatus:    models.PaymentPaid,
	}
	if _, err := store.Insert(ctx, first); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	// Same transaction id, different contest: still a replay.
	second := first
	second.ContestID = primitive.NewObjectID()
	if _, err := store.Insert(ctx, second); err != participationstore.ErrDuplicate {
		t.Errorf("expected ErrDuplicate for replayed transaction, got %v", err)
	}
}

func TestStore_Insert_DuplicatePair(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contestID := primitive.NewObjectID()
	if _, err := store.Insert(ctx, models.Participation{
		ContestID:        contestID,
		ParticipantEmail: "bob@example.com",
		TransactionID:    "tx_a",
		PaymentStatus:    models.PaymentPaid,
	}); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	_, err := store.Insert(ctx, models.Participation{
		ContestID:        contestID,
		ParticipantEmail: "bob@example.com",
		TransactionID:    "tx_b",
		PaymentStatus:    models.PaymentPaid,
	})
	if err != participationstore.ErrDuplicate {
		t.Errorf("expected ErrDuplicate for second record per (contest, participant), got %v", err)
	}
}

func TestStore_HasPaid(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contestID := primitive.NewObjectID()
	fixtures.CreateParticipation(ctx, contestID, "bob@example.com", "tx_paid")

	paid, err := store.HasPaid(ctx, contestID, "Bob@example.com")
	if err != nil {
		t.Fatalf("HasPaid failed: %v", err)
	}
	if !paid {
		t.Error("expected paid = true")
	}

	paid, err = store.HasPaid(ctx, contestID, "carol@example.com")
	if err != nil {
		t.Fatalf("HasPaid failed: %v", err)
	}
	if paid {
		t.Error("expected paid = false for participant with no record")
	}
}

func TestStore_SetSubmission(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contestID := primitive.NewObjectID()
	fixtures.CreateParticipation(ctx, contestID, "bob@example.com", "tx_sub")

	matched, err := store.SetSubmission(ctx, contestID, "bob@example.com", models.Submission{
		Info: "My entry",
		Link: "https://example.com/entry",
	})
	if err != nil {
		t.Fatalf("SetSubmission failed: %v", err)
	}
	if matched != 1 {
		t.Errorf("matched = %d, want 1", matched)
	}

	rec, err := store.Get(ctx, contestID, "bob@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Submission == nil || rec.Submission.Info != "My entry" {
		t.Errorf("submission = %v", rec.Submission)
	}
	if rec.Submission.SubmittedAt.IsZero() {
		t.Error("expected SubmittedAt to be stamped")
	}
}

func TestStore_SetSubmission_NoRecord(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	matched, err := store.SetSubmission(ctx, primitive.NewObjectID(), "bob@example.com", models.Submission{Info: "x"})
	if err != nil {
		t.Fatalf("SetSubmission failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("matched = %d, want 0 when payment never completed", matched)
	}
}

func TestStore_MarkWinner(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contestID := primitive.NewObjectID()
	fixtures.CreateParticipation(ctx, contestID, "bob@example.com", "tx_win")

	matched, err := store.MarkWinner(ctx, contestID, "bob@example.com")
	if err != nil {
		t.Fatalf("MarkWinner failed: %v", err)
	}
	if matched != 1 {
		t.Errorf("matched = %d, want 1", matched)
	}

	rec, _ := store.Get(ctx, contestID, "bob@example.com")
	if !rec.Winner {
		t.Error("expected winner = true")
	}
	if rec.WinnerSetAt == nil || rec.WinnerSetAt.IsZero() {
		t.Error("expected winner_set_at to be stamped")
	}
}

func TestStore_Get_Missing(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Get(ctx, primitive.NewObjectID(), "ghost@example.com")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

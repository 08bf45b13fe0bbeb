// internal/domain/models/participation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses recorded on a participation. Only "paid" unlocks
// submission in the client; other processor statuses are stored verbatim.
const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

// Submission is the task content a participant turns in for a contest.
type Submission struct {
	Info        string    `bson:"info" json:"info"`
	Link        string    `bson:"link,omitempty" json:"link,omitempty"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// Participation ties one user to one contest: the payment record created
// when the processor confirms a completed session, plus the participant's
// submission and winner flag.
//
// (ContestID, ParticipantEmail) is unique, and TransactionID is unique on
// its own — the transaction id is the idempotency anchor for replayed
// payment completions.
type Participation struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContestID        primitive.ObjectID `bson:"contest_id" json:"contest_id"`
	ContestName      string             `bson:"contest_name,omitempty" json:"contest_name,omitempty"`
	CreatorEmail     string             `bson:"creator_email,omitempty" json:"creator_email,omitempty"`
	ParticipantEmail string             `bson:"participant_email" json:"participant_email"`
	TransactionID    string             `bson:"transaction_id" json:"transaction_id"`
	Amount           int64              `bson:"amount" json:"amount"` // processor-authoritative, smallest unit
	Currency         string             `bson:"currency,omitempty" json:"currency,omitempty"`
	PaymentStatus    string             `bson:"payment_status" json:"payment_status"`

	Submission *Submission `bson:"submission,omitempty" json:"submission,omitempty"`

	Winner      bool       `bson:"winner" json:"winner"`
	WinnerSetAt *time.Time `bson:"winner_set_at,omitempty" json:"winner_set_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

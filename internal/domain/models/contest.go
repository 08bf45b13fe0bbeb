// internal/domain/models/contest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contest lifecycle statuses. A contest starts pending; an admin moves it to
// approved or rejected. Approved is terminal: no transition leaves it.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether status is a known lifecycle status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Participant is one enrolled entrant embedded on the contest document.
// Membership is keyed by email: enrollment never appends a second entry for
// an email already present, and payment-status changes update in place.
type Participant struct {
	Email         string `bson:"email" json:"email"`
	PaymentStatus string `bson:"payment_status" json:"payment_status"`
}

// Contest is a unit of competition with a lifecycle, entry fee, deadline,
// and embedded participant set.
//
// Invariants maintained by the stores:
//   - participants_count == len(participants) after every enrollment
//     (both change in a single document operation)
//   - winner != nil implies status == approved
//   - once status == approved, status never changes again
type Contest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ContestType  string             `bson:"contest_type" json:"contest_type"`
	CreatorEmail string             `bson:"creator_email" json:"creator_email"`
	CreatorName  string             `bson:"creator_name,omitempty" json:"creator_name,omitempty"`
	EntryPrice   int64              `bson:"entry_price" json:"entry_price"` // smallest currency unit
	PrizeMoney   int64              `bson:"prize_money,omitempty" json:"prize_money,omitempty"`
	Deadline     time.Time          `bson:"deadline" json:"deadline"`

	Status            string        `bson:"status" json:"status"`
	ParticipantsCount int64         `bson:"participants_count" json:"participants_count"`
	Participants      []Participant `bson:"participants" json:"participants"`
	Winner            *Participant  `bson:"winner,omitempty" json:"winner,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

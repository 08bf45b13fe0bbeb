// Package payments defines the checkout provider contract the enrollment
// flow depends on. Enrollment never trusts client-reported amounts or
// statuses; it re-reads the session from the provider and uses those
// values as authoritative.
package payments

import (
	"context"
	"time"
)

// Session statuses as the provider reports them.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Metadata is attached to a checkout session at creation and echoed
// back on retrieval. It carries everything enrollment needs to record
// the participation without trusting the client.
type Metadata struct {
	ContestID        string    `json:"contest_id"`
	CreatorEmail     string    `json:"creator_email"`
	ParticipantEmail string    `json:"participant_email"`
	CreatedAt        time.Time `json:"created_at"`
}

// CheckoutParams describes the session to create.
type CheckoutParams struct {
	Amount      int64 // smallest currency unit
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    Metadata
}

// Session is a checkout session as the provider reports it.
type Session struct {
	ID            string
	URL           string // hosted payment page to redirect the client to
	TransactionID string
	Amount        int64
	Currency      string
	PaymentStatus string
	Metadata      Metadata
}

// Provider is a checkout backend.
type Provider interface {
	Name() string

	// CreateSession opens a checkout session and returns it with the
	// redirect URL populated.
	CreateSession(ctx context.Context, p CheckoutParams) (*Session, error)

	// RetrieveSession fetches the session by id. The returned Amount,
	// PaymentStatus, and Metadata are authoritative.
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}

package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/google/uuid"
)

// Stub is an in-memory provider for development and tests. Sessions
// start unpaid; Complete(id) flips one to paid and assigns a
// transaction id, standing in for the hosted payment page.
type Stub struct {
	secret string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStub builds a stub provider. The secret signs the redirect URL so
// stub checkout pages are not trivially forgeable in shared dev
// environments.
func NewStub(secret string) *Stub {
	return &Stub{secret: secret, sessions: make(map[string]*Session)}
}

func (s *Stub) Name() string { return "stub" }

func (s *Stub) CreateSession(_ context.Context, p CheckoutParams) (*Session, error) {
	id := uuid.NewString()
	sess := &Session{
		ID:            id,
		URL:           fmt.Sprintf("/pay/stub?session=%s&sig=%s", id, s.sign(id)),
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentStatus: StatusUnpaid,
		Metadata:      p.Metadata,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	out := *sess
	return &out, nil
}

func (s *Stub) RetrieveSession(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperr.Newf(apperr.Upstream, "unknown checkout session %q", id)
	}
	out := *sess
	return &out, nil
}

// Complete marks a session paid and assigns its transaction id. It is
// what the stub payment page would do after the user "pays".
func (s *Stub) Complete(id string) (transactionID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", fmt.Errorf("unknown checkout session %q", id)
	}
	if sess.PaymentStatus != StatusPaid {
		sess.PaymentStatus = StatusPaid
		sess.TransactionID = "txn_" + uuid.NewString()
	}
	return sess.TransactionID, nil
}

func (s *Stub) sign(id string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

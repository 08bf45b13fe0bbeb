package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
)

// Hosted talks to an external checkout service over its HTTP API with a
// bearer secret key.
type Hosted struct {
	apiURL    string
	secretKey string
	client    *http.Client
}

func NewHosted(apiURL, secretKey string) *Hosted {
	return &Hosted{
		apiURL:    strings.TrimRight(apiURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (h *Hosted) Name() string { return "hosted" }

// wireSession is the provider's JSON shape for a session.
type wireSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
	Metadata      struct {
		ContestID        string `json:"contest_id"`
		CreatorEmail     string `json:"creator_email"`
		ParticipantEmail string `json:"participant_email"`
		CreatedAt        string `json:"created_at"`
	} `json:"metadata"`
}

func (h *Hosted) CreateSession(ctx context.Context, p CheckoutParams) (*Session, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("currency", p.Currency)
	form.Set("product_name", p.ProductName)
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	form.Set("metadata[contest_id]", p.Metadata.ContestID)
	form.Set("metadata[creator_email]", p.Metadata.CreatorEmail)
	form.Set("metadata[participant_email]", p.Metadata.ParticipantEmail)
	form.Set("metadata[created_at]", p.Metadata.CreatedAt.UTC().Format(time.RFC3339))

	return h.do(ctx, http.MethodPost, "/v1/checkout/sessions", strings.NewReader(form.Encode()))
}

func (h *Hosted) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	return h.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil)
}

func (h *Hosted) do(ctx context.Context, method, path string, body *strings.Reader) (*Session, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, h.apiURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, h.apiURL+path, nil)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "build checkout request", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "checkout provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Newf(apperr.Upstream, "checkout provider returned %d", resp.StatusCode)
	}

	var ws wireSession
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "decode checkout response", err)
	}

	sess := &Session{
		ID:            ws.ID,
		URL:           ws.URL,
		TransactionID: ws.TransactionID,
		Amount:        ws.Amount,
		Currency:      ws.Currency,
		PaymentStatus: ws.PaymentStatus,
		Metadata: Metadata{
			ContestID:        ws.Metadata.ContestID,
			CreatorEmail:     ws.Metadata.CreatorEmail,
			ParticipantEmail: ws.Metadata.ParticipantEmail,
		},
	}
	if ws.Metadata.CreatedAt != "" {
		if t, perr := time.Parse(time.RFC3339, ws.Metadata.CreatedAt); perr == nil {
			sess.Metadata.CreatedAt = t
		}
	}
	return sess, nil
}

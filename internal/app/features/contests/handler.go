// Package contests exposes the contest lifecycle surface: creation,
// public and moderation listings, edits, status transitions, and
// deletion.
package contests

import (
	"time"

	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	"github.com/contesthub/contesthub/internal/app/system/paging"
	"github.com/contesthub/contesthub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Contests.
type Handler struct {
	Contests *conteststore.Store
	Log      *zap.Logger
}

// NewHandler constructs a Contests handler bound to its store and logger.
func NewHandler(store *conteststore.Store, logger *zap.Logger) *Handler {
	return &Handler{Contests: store, Log: logger}
}

// participantView is the JSON shape for one enrolled participant.
type participantView struct {
	Email         string `json:"email"`
	PaymentStatus string `json:"payment_status"`
}

// contestView is the JSON shape for a contest.
type contestView struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	Instructions      string            `json:"instructions,omitempty"`
	ImageURL          string            `json:"image_url,omitempty"`
	ContestType       string            `json:"contest_type"`
	CreatorEmail      string            `json:"creator_email"`
	CreatorName       string            `json:"creator_name,omitempty"`
	EntryPrice        int64             `json:"entry_price"`
	PrizeMoney        int64             `json:"prize_money"`
	Deadline          time.Time         `json:"deadline"`
	Status            string            `json:"status"`
	ParticipantsCount int64             `json:"participants_count"`
	Participants      []participantView `json:"participants"`
	Winner            *participantView  `json:"winner"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func viewOf(c *models.Contest) contestView {
	v := contestView{
		ID:                c.ID.Hex(),
		Name:              c.Name,
		Description:       c.Description,
		Instructions:      c.Instructions,
		ImageURL:          c.ImageURL,
		ContestType:       c.ContestType,
		CreatorEmail:      c.CreatorEmail,
		CreatorName:       c.CreatorName,
		EntryPrice:        c.EntryPrice,
		PrizeMoney:        c.PrizeMoney,
		Deadline:          c.Deadline,
		Status:            c.Status,
		ParticipantsCount: c.ParticipantsCount,
		Participants:      make([]participantView, 0, len(c.Participants)),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	for _, p := range c.Participants {
		v.Participants = append(v.Participants, participantView{Email: p.Email, PaymentStatus: p.PaymentStatus})
	}
	if c.Winner != nil {
		v.Winner = &participantView{Email: c.Winner.Email, PaymentStatus: c.Winner.PaymentStatus}
	}
	return v
}

func viewsOf(cs []models.Contest) []contestView {
	out := make([]contestView, 0, len(cs))
	for i := range cs {
		out = append(out, viewOf(&cs[i]))
	}
	return out
}

type listResponse struct {
	Contests []contestView `json:"contests"`
	Meta     paging.Meta   `json:"meta"`
}

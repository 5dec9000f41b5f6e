package invite

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/internal/platform/mailer"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

var ErrNotAmbassador = fmt.Errorf("%w: sign up as an ambassador before inviting", errs.ErrForbidden)

type Service struct {
	store    storage.Store
	referral *referral.Service
	mail     mailer.Sender
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewService(store storage.Store, ref *referral.Service, mail mailer.Sender, log *zap.SugaredLogger) *Service {
	return &Service{store: store, referral: ref, mail: mail, log: log, now: time.Now}
}

type Input struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type Result struct {
	Invitation *models.Invitation `json:"invitation"`
	Warning    string             `json:"warning,omitempty"`
}

// Send records an invitation carrying the ambassador's referral link and
// emails it when SMTP is configured. A delivery failure is reported as a
// warning on an invitation marked failed.
func (s *Service) Send(ctx context.Context, userID string, in Input) (*Result, error) {
	lg := logctx.FromCtx(ctx, s.log)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrValidation)
	}
	amb, err := s.store.GetAmbassadorByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotAmbassador
	}
	if err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		ID:           tool.GenerateUUIDV7(),
		AmbassadorID: amb.ID,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		ReferralLink: s.referral.ReferralLink(amb),
		Status:       types.InvitationStatusRecorded,
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	res := &Result{Invitation: inv}
	if s.mail == nil {
		return res, nil
	}
	err = s.mail.Send(ctx, mailer.Message{
		To:       inv.Email,
		Subject:  amb.FullName + " invited you to join Bit Force",
		HTMLBody: body(amb.FullName, inv, in.Message),
	})
	switch {
	case errors.Is(err, mailer.ErrDisabled):
		return res, nil
	case err != nil:
		lg.Warnw("invitation_send_failed", "invitation_id", inv.ID, "err", err)
		inv.Status = types.InvitationStatusFailed
		inv.Error = lo.ToPtr(err.Error())
		res.Warning = "invitation recorded but the email could not be sent"
	default:
		inv.Status = types.InvitationStatusSent
		inv.SentAt = lo.ToPtr(s.now())
	}
	if err := s.store.UpdateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invitation: %w", err)
	}
	lg.Infow("invitation_recorded", "invitation_id", inv.ID, "status", inv.Status)
	return res, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Invitation, error) {
	amb, err := s.store.GetAmbassadorByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotAmbassador
	}
	if err != nil {
		return nil, err
	}
	return s.store.ListInvitations(ctx, amb.ID)
}

func body(from string, inv *models.Invitation, note string) string {
	var b strings.Builder
	greeting := "Hi"
	if inv.Name != "" {
		greeting += " " + html.EscapeString(inv.Name)
	}
	fmt.Fprintf(&b, "<p>%s,</p>", greeting)
	fmt.Fprintf(&b, "<p>%s thinks you would make a great Bit Force ambassador.</p>", html.EscapeString(from))
	if note = strings.TrimSpace(note); note != "" {
		fmt.Fprintf(&b, "<blockquote>%s</blockquote>", html.EscapeString(note))
	}
	link := html.EscapeString(inv.ReferralLink)
	fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`, link, link)
	return b.String()
}

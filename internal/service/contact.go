package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/mail"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/google/uuid"
)

type ContactService struct {
	Messages store.ContactStore
	Mail     mail.Sender
	Inbox    string
	Now      func() time.Time
}

// Submit stores the message and forwards it to the shop inbox. Delivery
// failures are logged only.
func (s *ContactService) Submit(ctx context.Context, req transport.ContactRequest) (*models.ContactMessage, error) {
	l := logging.FromContext(ctx).With("svc", "contact")

	m := &models.ContactMessage{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: clock(s.Now),
	}
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return nil, validationf("name, email and message are required")
	}
	if err := s.Messages.CreateMessage(ctx, m); err != nil {
		return nil, storeErr(err, "contact message")
	}

	if s.Mail != nil && s.Inbox != "" {
		subject := "Contact form: " + m.Subject
		if m.Subject == "" {
			subject = "Contact form message"
		}
		body := fmt.Sprintf("From: %s <%s>\nPhone: %s\n\n%s\n", m.Name, m.Email, m.Phone, m.Message)
		if err := s.Mail.Send(ctx, s.Inbox, subject, body); err != nil {
			l.Warn("contact_mail_error", "id", m.ID, "error", err)
		}
	}

	l.Info("contact_message_received", "id", m.ID)
	return m, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	out, err := s.Messages.ListMessages(ctx)
	if err != nil {
		return nil, storeErr(err, "contact message")
	}
	if out == nil {
		out = []models.ContactMessage{}
	}
	return out, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.Messages.DeleteMessage(ctx, id), "contact message")
}

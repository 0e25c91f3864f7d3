package contact

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mariphil/foundation-site/internal/db"
	"github.com/mariphil/foundation-site/internal/domain/donation"
	"github.com/mariphil/foundation-site/internal/mailer"
	"github.com/mariphil/foundation-site/internal/utils"
)

var validate = validator.New()

// Input is a contact form submission.
type Input struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Message string `json:"message" validate:"required,max=5000"`
}

type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists contact messages.
type Store interface {
	CreateContactMessage(ctx context.Context, arg db.CreateContactMessageParams) (db.ContactMessage, error)
	ListRecentContactMessages(ctx context.Context, limit int64) ([]db.ContactMessage, error)
}

type Service struct {
	store      Store
	mailer     mailer.Sender
	adminEmail string
	now        func() time.Time
}

func NewService(store Store, sender mailer.Sender, adminEmail string) *Service {
	if sender == nil {
		sender = mailer.LogSender{}
	}
	return &Service{store: store, mailer: sender, adminEmail: adminEmail, now: time.Now}
}

// Submit validates and stores in, then notifies the site admin. The
// notification is best effort.
func (s *Service) Submit(ctx context.Context, in Input) (Message, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := validateInput(in); err != nil {
		return Message{}, err
	}

	row, err := s.store.CreateContactMessage(ctx, db.CreateContactMessageParams{
		ID:        utils.NewID(utils.PrefixContact),
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return Message{}, &donation.PersistenceError{Op: "insert contact message", Err: err}
	}
	msg := toMessage(row)

	html, err := mailer.ContactNotification(msg.Name, msg.Email, msg.Message)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to render contact notification", slog.String("error", err.Error()))
		return msg, nil
	}
	if err := s.mailer.Send(context.WithoutCancel(ctx), s.adminEmail, mailer.ContactSubject, html); err != nil {
		slog.WarnContext(ctx, "Failed to send contact notification",
			slog.String("contact_id", msg.ID),
			slog.String("error", err.Error()),
		)
	}
	return msg, nil
}

// Recent lists the newest messages for the back office.
func (s *Service) Recent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.store.ListRecentContactMessages(ctx, int64(limit))
	if err != nil {
		return nil, &donation.PersistenceError{Op: "list contact messages", Err: err}
	}
	out := make([]Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, toMessage(r))
	}
	return out, nil
}

func validateInput(in Input) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &donation.ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &donation.ValidationError{Field: field, Message: "Name, email, and message are required"}
	case "email":
		return &donation.ValidationError{Field: field, Message: "email must be a valid email address"}
	default:
		return &donation.ValidationError{Field: field, Message: field + " is too long"}
	}
}

func toMessage(r db.ContactMessage) Message {
	return Message{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}

package mail

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"pawpals/internal/domain"
)

// Message is a plain-text notification.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Sender delivers notification mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to a logger instead of delivering them.
// It is used when no SendGrid key is configured.
type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("to address is empty")
	}
	s.logger.Printf("mail: to=%s subject=%q body=%q", msg.To, msg.Subject, msg.Body)
	return nil
}

func Welcome(c domain.Client) Message {
	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: "Bienvenue chez PawPals",
		Body:    fmt.Sprintf("Bonjour %s,\n\nVotre compte PawPals est prêt. Merci de nous avoir rejoints !", c.Name),
	}
}

func ResetCode(c domain.Client, code string) Message {
	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: "Code de réinitialisation du mot de passe",
		Body: fmt.Sprintf("Bonjour %s,\n\nVotre code de vérification est : %s\nIl expire dans 15 minutes.",
			c.Name, code),
	}
}

func PasswordChanged(c domain.Client) Message {
	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: "Mot de passe modifié",
		Body:    fmt.Sprintf("Bonjour %s,\n\nLe mot de passe de votre compte PawPals vient d'être modifié.", c.Name),
	}
}

func AccountDeleted(c domain.Client) Message {
	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: "Compte supprimé",
		Body:    fmt.Sprintf("Bonjour %s,\n\nVotre compte PawPals a été supprimé. À bientôt peut-être !", c.Name),
	}
}

// OrderConfirmation summarises a placed order line by line.
func OrderConfirmation(c domain.Client, o domain.Order) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\nMerci pour votre commande n°%d.\n\n", c.Name, o.ID)
	for _, l := range o.Lines {
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("produit %d", l.ProductID)
		}
		fmt.Fprintf(&b, "- %s x%d : %s €\n", name, l.Quantity, l.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal : %s €", o.Total.StringFixed(2))
	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: fmt.Sprintf("Confirmation de commande n°%d", o.ID),
		Body:    b.String(),
	}
}

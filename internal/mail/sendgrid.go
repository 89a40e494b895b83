package mail

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   string
	logger *log.Logger
}

func NewSendGridSender(apiKey, from string, logger *log.Logger) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return nil, fmt.Errorf("from address is empty")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		logger: logger,
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("to address is empty")
	}
	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("PawPals", s.from),
		msg.Subject,
		sgmail.NewEmail(msg.ToName, msg.To),
		msg.Body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(msg.Body)),
	)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Printf("sendgrid: status=%d body=%s", resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid send failed: status=%d", resp.StatusCode)
	}
	s.logger.Printf("sendgrid: sent status=%d to=%s subject=%q", resp.StatusCode, msg.To, msg.Subject)
	return nil
}

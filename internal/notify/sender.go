package notify

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers one-off messages to guests. Delivery is best-effort by
// contract: callers log failures and move on.
type Sender interface {
	SendSMS(to, body string) error
	SendEmail(to, body string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
	log    zerolog.Logger
}

func NewTwilioSender(accountSID, authToken, from string, log zerolog.Logger) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
		log:  log,
	}
}

func (s *TwilioSender) SendSMS(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	s.log.Info().Str("to", to).Msg("sms sent")
	return nil
}

// SendEmail has no provider wired yet; it logs the message and succeeds.
func (s *TwilioSender) SendEmail(to, body string) error {
	s.log.Info().Str("to", to).Str("body", body).Msg("email delivery stub")
	return nil
}

// LogSender is the development fallback used when Twilio credentials are not
// configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendSMS(to, body string) error {
	s.log.Info().Str("to", to).Str("body", body).Msg("sms delivery stub")
	return nil
}

func (s *LogSender) SendEmail(to, body string) error {
	s.log.Info().Str("to", to).Str("body", body).Msg("email delivery stub")
	return nil
}

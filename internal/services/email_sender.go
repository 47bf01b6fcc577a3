package services

import "log/slog"

type EmailSender interface {
	Send(to string, subject string, body string) error
}

// LogSender writes outgoing mail to the log instead of delivering it.
// Used when no SMTP host is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(to string, subject string, body string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("email not delivered, smtp disabled", "to", to, "subject", subject, "body", body)
	return nil
}

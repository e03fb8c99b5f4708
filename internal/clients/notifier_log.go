package clients

import (
	"context"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes notifications to the log. Used when no brokers are set.
type LogNotifier struct {
	log *logrus.Logger
}

var _ domain.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) Send(_ context.Context, note domain.Notification) error {
	n.log.WithFields(logrus.Fields{
		"user_id":     note.UserID,
		"email":       note.Email,
		"subject":     note.Subject,
		"grand_total": note.Total,
	}).Info("Notifier: Checkout confirmation\n" + note.Body)
	return nil
}

func (n *LogNotifier) Close() error { return nil }

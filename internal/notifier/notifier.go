// Package notifier is the fire-and-forget notification sink. Failures are
// logged and never surfaced to the operation that triggered the message.
package notifier

import (
	"context"

	"github.com/designdesk/designdesk/internal/entities"
	"github.com/designdesk/designdesk/internal/storage"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, alert entities.SystemAlert)
}

// AlertNotifier persists notifications as system alert rows.
type AlertNotifier struct {
	storage storage.Storage
}

func NewAlertNotifier(storage storage.Storage) *AlertNotifier {
	return &AlertNotifier{
		storage: storage,
	}
}

func (n *AlertNotifier) Notify(ctx context.Context, alert entities.SystemAlert) {
	if err := n.storage.CreateAlert(ctx, alert); err != nil {
		zap.L().Info("error create system alert", zap.Error(err), zap.String("UserID", alert.UserID))
	}
}

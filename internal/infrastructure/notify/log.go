package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
)

// LogNotifier writes notifications to the log instead of an external
// channel. Used when Lark credentials are not configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message that would have been delivered
func (n *LogNotifier) Notify(ctx context.Context, userID, kind string, requestID int64, message string) error {
	n.logger.Info("Notification",
		zap.String("user_id", userID),
		zap.String("kind", kind),
		zap.Int64("request_id", requestID),
		zap.String("message", message))
	return nil
}

// BroadcastProgress logs the progress payload and its recipients
func (n *LogNotifier) BroadcastProgress(ctx context.Context, userIDs []string, payload map[string]interface{}) error {
	n.logger.Info("Progress broadcast",
		zap.Strings("user_ids", userIDs),
		zap.Any("payload", payload))
	return nil
}

// Verify interface compliance
var _ port.Notifier = (*LogNotifier)(nil)

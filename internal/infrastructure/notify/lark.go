package notify

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
)

// LarkConfig holds Lark app credentials
type LarkConfig struct {
	AppID     string
	AppSecret string
}

// LarkNotifier delivers lifecycle notifications over Lark instant
// messages. User IDs are Lark open IDs.
type LarkNotifier struct {
	client *lark.Client
	logger *zap.Logger
}

// NewLarkNotifier creates a new Lark-backed notifier
func NewLarkNotifier(cfg LarkConfig, logger *zap.Logger) *LarkNotifier {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)

	return &LarkNotifier{
		client: client,
		logger: logger,
	}
}

// Notify sends one text message to a user
func (n *LarkNotifier) Notify(ctx context.Context, userID, kind string, requestID int64, message string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	content, err := textContent(fmt.Sprintf("[%s] request #%d: %s", kind, requestID, message))
	if err != nil {
		return err
	}

	return n.send(ctx, userID, "text", content)
}

// BroadcastProgress fans a progress payload out to every participant
func (n *LarkNotifier) BroadcastProgress(ctx context.Context, userIDs []string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal progress payload: %w", err)
	}

	content, err := textContent(string(body))
	if err != nil {
		return err
	}

	var firstErr error
	for _, userID := range userIDs {
		if err := n.send(ctx, userID, "text", content); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (n *LarkNotifier) send(ctx context.Context, openID, msgType, content string) error {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("open_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(openID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := n.client.Im.Message.Create(ctx, req)
	if err != nil {
		n.logger.Error("Failed to send message",
			zap.String("receive_id", openID),
			zap.Error(err))
		return fmt.Errorf("send message: %w", err)
	}

	if !resp.Success() {
		n.logger.Error("Lark API returned failure",
			zap.String("receive_id", openID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("lark API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	return nil
}

// textContent builds the Lark text message body
func textContent(text string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("marshal text content: %w", err)
	}
	return string(body), nil
}

// Verify interface compliance
var _ port.Notifier = (*LarkNotifier)(nil)

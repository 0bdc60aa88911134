package session

import "context"

// NoticeFlags persists which one-time notices the player has seen.
type NoticeFlags interface {
	DecimalNoticeShown(ctx context.Context) (bool, error)
	MarkDecimalNoticeShown(ctx context.Context) error
}

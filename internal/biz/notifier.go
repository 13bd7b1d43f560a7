package biz

import (
	"context"

	"RentalHub/internal/model"
)

// NotificationDispatcher accepts a fully-formed notification event and hands
// it to the asynchronous delivery pipeline. Dispatch must not block the
// workflow on delivery and has no result the workflow consumes; delivery
// failures stay inside the dispatcher.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event *model.NotificationEvent)
}

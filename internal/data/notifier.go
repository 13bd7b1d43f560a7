package data

import (
	"context"
	"fmt"
	"time"

	"RentalHub/internal/conf"
	"RentalHub/internal/model"

	"github.com/gammazero/workerpool"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-resty/resty/v2"
)

// EventSender delivers one notification event to its recipients.
type EventSender interface {
	Send(ctx context.Context, event *model.NotificationEvent) error
}

// AsyncNotificationDispatcher queues notification events and delivers them on
// a worker pool. Dispatch never blocks the caller: when the queue is full the
// event is dropped with a warning. Delivery failure never affects the
// workflow that produced the event.
type AsyncNotificationDispatcher struct {
	sender  EventSender
	queue   chan *model.NotificationEvent
	pool    *workerpool.WorkerPool
	timeout time.Duration
	logger  *log.Helper
}

// NewNotificationDispatcher creates the dispatcher and starts its pump
// goroutine. The returned cleanup drains queued events and stops the pool.
func NewNotificationDispatcher(c *conf.Notify, logger log.Logger) (*AsyncNotificationDispatcher, func()) {
	queueSize := 1000
	if c.QueueSize > 0 {
		queueSize = int(c.QueueSize)
	}
	workers := 4
	if c.Workers > 0 {
		workers = int(c.Workers)
	}
	timeout := 5 * time.Second
	if c.Timeout != nil && c.Timeout.AsDuration() > 0 {
		timeout = c.Timeout.AsDuration()
	}

	helper := log.NewHelper(logger)

	var sender EventSender
	if c.WebhookUrl != "" {
		sender = NewWebhookSender(c.WebhookUrl, timeout)
		helper.Infof("notification dispatcher delivering to webhook %s", c.WebhookUrl)
	} else {
		sender = &LogSender{logger: helper}
		helper.Info("no notification webhook configured, events will be logged only")
	}

	d := &AsyncNotificationDispatcher{
		sender:  sender,
		queue:   make(chan *model.NotificationEvent, queueSize),
		pool:    workerpool.New(workers),
		timeout: timeout,
		logger:  helper,
	}

	go d.pump()

	cleanup := func() {
		helper.Info("stopping notification dispatcher")
		close(d.queue)
		d.pool.StopWait()
	}

	return d, cleanup
}

// Dispatch queues an event for asynchronous delivery. Never blocks.
func (d *AsyncNotificationDispatcher) Dispatch(_ context.Context, event *model.NotificationEvent) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warnw("notification queue full, dropping event",
			"event_type", event.EventType,
			"recipients", len(event.RecipientIDs))
	}
}

// pump moves queued events onto the worker pool.
func (d *AsyncNotificationDispatcher) pump() {
	for event := range d.queue {
		ev := event
		d.pool.Submit(func() {
			d.deliver(ev)
		})
	}
}

func (d *AsyncNotificationDispatcher) deliver(event *model.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, event); err != nil {
		d.logger.Errorw("failed to deliver notification",
			"event_type", event.EventType,
			"recipients", len(event.RecipientIDs),
			"error", err)
		return
	}

	d.logger.Debugw("notification delivered",
		"event_type", event.EventType,
		"recipients", len(event.RecipientIDs))
}

// WebhookSender posts events to the notification service's webhook endpoint.
type WebhookSender struct {
	http *resty.Client
	url  string
}

// NewWebhookSender creates a webhook-backed event sender.
func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	return &WebhookSender{
		http: resty.New().SetTimeout(timeout),
		url:  url,
	}
}

// Send posts the event as JSON to the webhook URL.
func (w *WebhookSender) Send(ctx context.Context, event *model.NotificationEvent) error {
	resp, err := w.http.R().
		SetContext(ctx).
		SetBody(event).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// LogSender writes events to the log. Used when no webhook is configured.
type LogSender struct {
	logger *log.Helper
}

// Send logs the event.
func (l *LogSender) Send(_ context.Context, event *model.NotificationEvent) error {
	l.logger.Infow("notification event",
		"event_type", event.EventType,
		"title", event.Title,
		"message", event.Message,
		"recipients", event.RecipientIDs,
		"channels", event.Channels)
	return nil
}

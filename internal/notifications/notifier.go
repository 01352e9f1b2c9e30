package notifications

import (
	"context"
	"sync"

	"github.com/skillnotes/skillnotes-backend/pkg/enums"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
)

// Notifier delivers a short user-facing message. Delivery is best effort and
// never fails the calling operation.
type Notifier interface {
	Notify(ctx context.Context, kind enums.NotificationKind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, kind enums.NotificationKind, message string)

func (f NotifierFunc) Notify(ctx context.Context, kind enums.NotificationKind, message string) {
	f(ctx, kind, message)
}

// Nop drops every notification.
var Nop Notifier = NotifierFunc(func(context.Context, enums.NotificationKind, string) {})

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Notify(ctx context.Context, kind enums.NotificationKind, message string) {
	ctx = n.logg.WithFields(ctx, map[string]any{
		"kind": kind.String(),
		"text": message,
	})
	if kind == enums.NotificationError {
		n.logg.Warn(ctx, "notification.sent")
		return
	}
	n.logg.Info(ctx, "notification.sent")
}

// Message is a delivered notification.
type Message struct {
	Kind    enums.NotificationKind `json:"kind"`
	Message string                 `json:"message"`
}

// Collector keeps the notifications raised while handling one request so they
// can be returned to the client with the response.
type Collector struct {
	mu       sync.Mutex
	messages []Message
}

func (c *Collector) add(kind enums.NotificationKind, message string) {
	c.mu.Lock()
	c.messages = append(c.messages, Message{Kind: kind, Message: message})
	c.mu.Unlock()
}

// Messages returns the collected notifications in order.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

type collectorKey struct{}

// WithCollector attaches a fresh Collector to ctx.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// FromContext returns the collector attached to ctx, if any.
func FromContext(ctx context.Context) (*Collector, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok
}

// ContextNotifier records into the request's Collector when one is attached
// and always forwards to base.
type ContextNotifier struct {
	base Notifier
}

func NewContextNotifier(base Notifier) *ContextNotifier {
	if base == nil {
		base = Nop
	}
	return &ContextNotifier{base: base}
}

func (n *ContextNotifier) Notify(ctx context.Context, kind enums.NotificationKind, message string) {
	if c, ok := FromContext(ctx); ok {
		c.add(kind, message)
	}
	n.base.Notify(ctx, kind, message)
}

package quoteform

import (
	"context"

	"github.com/alanquantic/voltdrive/pkg/broadcast"
)

// ToastKind tells success and failure notifications apart.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast messages for the submission outcome.
const (
	MessageSent   = "Solicitud enviada. Te contactaremos pronto."
	MessageFailed = "No se pudo enviar la solicitud. Inténtalo más tarde."
)

// Toast is a transient status notification.
type Toast struct {
	Kind    ToastKind
	Message string
}

// Toasts fans notifications out to whoever renders them. Slow listeners
// miss toasts instead of blocking the dialog.
type Toasts struct {
	b *broadcast.MemoryBroadcaster[Toast]
}

func NewToasts() *Toasts {
	return &Toasts{b: broadcast.NewMemoryBroadcaster[Toast](8)}
}

func (t *Toasts) Show(ctx context.Context, toast Toast) {
	if t == nil {
		return
	}
	_ = t.b.Publish(ctx, toast)
}

func (t *Toasts) Subscribe(ctx context.Context) broadcast.Subscriber[Toast] {
	return t.b.Subscribe(ctx)
}

func (t *Toasts) Close() error {
	return t.b.Close()
}

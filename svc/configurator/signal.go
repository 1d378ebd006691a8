package configurator

import (
	"context"

	"github.com/alanquantic/voltdrive/pkg/broadcast"
	"github.com/alanquantic/voltdrive/svc/quote"
)

// OpenQuoteEvent asks the quote dialog to open with a prefilled lead and a
// configuration snapshot.
type OpenQuoteEvent struct {
	Lead          quote.Lead
	Configuration quote.Configuration
}

// QuoteSignal is the "open quote dialog" channel shared by the views that can
// start a quote and the dialog that handles it.
type QuoteSignal struct {
	b *broadcast.MemoryBroadcaster[OpenQuoteEvent]
}

// NewQuoteSignal returns a signal whose subscribers buffer a few events each.
func NewQuoteSignal() *QuoteSignal {
	return &QuoteSignal{b: broadcast.NewMemoryBroadcaster[OpenQuoteEvent](4)}
}

// Open publishes ev to every subscriber.
func (s *QuoteSignal) Open(ctx context.Context, ev OpenQuoteEvent) error {
	return s.b.Publish(ctx, ev)
}

// Subscribe registers a listener that is removed when ctx is done.
func (s *QuoteSignal) Subscribe(ctx context.Context) broadcast.Subscriber[OpenQuoteEvent] {
	return s.b.Subscribe(ctx)
}

// Close closes every subscriber.
func (s *QuoteSignal) Close() error {
	return s.b.Close()
}

// RequestQuote publishes an OpenQuoteEvent with a default lead and the
// current payload. It performs no network I/O.
func (c *Configurator) RequestQuote(ctx context.Context) error {
	if c.signal == nil {
		return ErrNoSignal
	}
	return c.signal.Open(ctx, OpenQuoteEvent{
		Lead:          quote.NewLead(),
		Configuration: c.QuotePayload(),
	})
}

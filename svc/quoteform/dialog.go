package quoteform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alanquantic/voltdrive/pkg/broadcast"
	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/statemachine"
	"github.com/alanquantic/voltdrive/svc/configurator"
	"github.com/alanquantic/voltdrive/svc/quote"
)

// State is the dialog lifecycle state.
type State string

const (
	StateClosed  State = "closed"
	StateEditing State = "editing"
	StateSending State = "sending"
)

type event string

const (
	eventOpen    event = "open"
	eventSubmit  event = "submit"
	eventSucceed event = "succeed"
	eventFail    event = "fail"
	eventCancel  event = "cancel"
)

// DialogOption configures a Dialog.
type DialogOption func(*Dialog)

// WithToasts sets where submission outcomes are announced.
func WithToasts(t *Toasts) DialogOption {
	return func(d *Dialog) {
		d.toasts = t
	}
}

// WithLogger sets the logger for lifecycle messages.
func WithLogger(log *slog.Logger) DialogOption {
	return func(d *Dialog) {
		if log != nil {
			d.log = log
		}
	}
}

// Dialog owns the lead being edited and guards submission so only one
// request is in flight at a time.
//
// A successful submission closes the dialog and discards the lead. A failed
// one keeps the lead and leaves the dialog open for another attempt.
// Cancelling discards the lead. Methods are safe for concurrent use.
type Dialog struct {
	mu        sync.Mutex
	machine   *statemachine.Machine[State, event]
	submitter Submitter
	toasts    *Toasts
	log       *slog.Logger

	lead   quote.Lead
	config quote.Configuration
}

// NewDialog returns a closed dialog that submits through s.
func NewDialog(s Submitter, opts ...DialogOption) *Dialog {
	d := &Dialog{
		submitter: s,
		log:       logger.Discard(),
		lead:      quote.NewLead(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.machine = statemachine.MustNew(StateClosed,
		statemachine.WithTransition(StateClosed, StateEditing, eventOpen),
		statemachine.WithTransition(StateEditing, StateEditing, eventOpen),
		statemachine.WithTransition(StateEditing, StateSending, eventSubmit,
			statemachine.WithGuard[State, event](func(context.Context, State, event) bool {
				return Validate(d.lead).Valid
			}),
		),
		statemachine.WithTransition(StateSending, StateClosed, eventSucceed),
		statemachine.WithTransition(StateSending, StateEditing, eventFail),
		statemachine.WithTransition(StateEditing, StateClosed, eventCancel),
		statemachine.WithObserver[State, event](func(ctx context.Context, from, to State, ev event) {
			d.log.DebugContext(ctx, "quote dialog transition",
				slog.String("from", string(from)),
				logger.State(string(to)),
				slog.String("event", string(ev)),
			)
		}),
	)
	return d
}

// State returns the current lifecycle state.
func (d *Dialog) State() State {
	return d.machine.Current()
}

// IsOpen reports whether the dialog is editing or sending.
func (d *Dialog) IsOpen() bool {
	return !d.machine.Is(StateClosed)
}

// Sending reports whether a submission is in flight.
func (d *Dialog) Sending() bool {
	return d.machine.Is(StateSending)
}

// Lead returns a copy of the lead being edited.
func (d *Dialog) Lead() quote.Lead {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lead
}

// Configuration returns the configuration the dialog will submit.
func (d *Dialog) Configuration() quote.Configuration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

// Validate checks the current lead.
func (d *Dialog) Validate() Result {
	return Validate(d.Lead())
}

// Open shows the dialog with the event's lead and configuration. Opening an
// already open dialog replaces both. It fails while a submission is in flight.
func (d *Dialog) Open(ctx context.Context, ev configurator.OpenQuoteEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.machine.Is(StateSending) {
		return ErrSubmitInFlight
	}
	if err := d.machine.Fire(ctx, eventOpen); err != nil {
		return err
	}
	d.lead = ev.Lead
	d.config = ev.Configuration
	return nil
}

// UpdateLead sets one lead field by its JSON name.
func (d *Dialog) UpdateLead(field, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.machine.Current() {
	case StateSending:
		return ErrSubmitInFlight
	case StateClosed:
		return ErrDialogClosed
	}
	if !d.lead.Set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Submit validates the lead and sends the request. The network call runs
// without holding the dialog lock, so state can be read while it is in flight.
//
// An invalid lead returns ErrInvalidLead with the field errors and leaves the
// dialog editing. A second Submit during a send returns ErrSubmitInFlight.
func (d *Dialog) Submit(ctx context.Context) (Result, error) {
	d.mu.Lock()
	switch d.machine.Current() {
	case StateSending:
		d.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	case StateClosed:
		d.mu.Unlock()
		return Result{}, ErrDialogClosed
	}

	res := Validate(d.lead)
	if !res.Valid {
		d.mu.Unlock()
		return res, ErrInvalidLead
	}
	if err := d.machine.Fire(ctx, eventSubmit); err != nil {
		d.mu.Unlock()
		return res, err
	}
	req := quote.Request{Customer: d.lead, Configuration: d.config}
	d.mu.Unlock()

	sendErr := d.send(ctx, req)

	d.mu.Lock()
	defer d.mu.Unlock()

	if sendErr != nil {
		d.log.WarnContext(ctx, "quote submission failed", logger.Error(sendErr))
		_ = d.machine.Fire(ctx, eventFail)
		d.toasts.Show(ctx, Toast{Kind: ToastError, Message: MessageFailed})
		return res, sendErr
	}

	_ = d.machine.Fire(ctx, eventSucceed)
	d.lead = quote.NewLead()
	d.config = quote.Configuration{}
	d.toasts.Show(ctx, Toast{Kind: ToastSuccess, Message: MessageSent})
	return res, nil
}

func (d *Dialog) send(ctx context.Context, req quote.Request) (err error) {
	if d.submitter == nil {
		return fmt.Errorf("%w: no submitter", ErrRequestFailed)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRequestFailed, r)
		}
	}()
	return d.submitter.Submit(ctx, req)
}

// Cancel closes the dialog and discards the lead. It is refused while a
// submission is in flight and is a no-op on a closed dialog.
func (d *Dialog) Cancel(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.machine.Current() {
	case StateSending:
		return ErrSubmitInFlight
	case StateClosed:
		return nil
	}
	if err := d.machine.Fire(ctx, eventCancel); err != nil {
		return err
	}
	d.lead = quote.NewLead()
	d.config = quote.Configuration{}
	return nil
}

// Listen opens the dialog for every event published on signal until ctx is
// done or the signal is closed.
func (d *Dialog) Listen(ctx context.Context, signal *configurator.QuoteSignal) error {
	err := broadcast.Listen(ctx, signal.Subscribe(ctx), func(ev configurator.OpenQuoteEvent) {
		if err := d.Open(ctx, ev); err != nil {
			d.log.WarnContext(ctx, "quote dialog ignored open request", logger.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Package intake turns a quote request into a vendor notification and a
// customer acknowledgement.
//
// Each request moves through received, field_validated, config_checked,
// primary_sent and ack_attempted before it is responded. Validation and
// configuration failures, and a failed vendor notification, short-circuit to
// responded. The acknowledgement is best-effort: its failure is logged and
// never changes the result.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanquantic/voltdrive/pkg/email"
	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/metrics"
	"github.com/alanquantic/voltdrive/pkg/validator"
	"github.com/alanquantic/voltdrive/svc/quote"
)

// Outcome labels recorded per request.
const (
	OutcomeOK             = "ok"
	OutcomeMissingFields  = "missing_fields"
	OutcomeInvalidFields  = "invalid_fields"
	OutcomeNotConfigured  = "not_configured"
	OutcomeDispatchFailed = "dispatch_failed"
	OutcomeInternal       = "internal"
)

const (
	kindVendor = "vendor"
	kindAck    = "ack"
)

// Length caps applied in strict mode, in runes.
const (
	maxTextLen  = 120
	maxEmailLen = 254
	maxPhoneLen = 40
)

// Option configures a Service.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock replaces time.Now for the notification timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStageObserver registers fn to be called each time a request enters a
// new stage.
func WithStageObserver(fn func(ctx context.Context, stage Stage)) Option {
	return func(s *Service) {
		s.onStage = fn
	}
}

// Service processes quote requests. It keeps no per-request state and is
// safe for concurrent use.
type Service struct {
	cfg     Config
	sender  email.Sender
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	loc     *time.Location
	onStage func(context.Context, Stage)
}

// New returns a Service that sends through sender. A nil sender is allowed:
// every request then fails with ErrProviderNotConfigured.
func New(cfg Config, sender email.Sender, opts ...Option) (*Service, error) {
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Mexico_City"
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, cfg.Timezone, err)
	}
	if cfg.To == "" {
		return nil, fmt.Errorf("%w: vendor address is required", ErrInvalidConfig)
	}
	if cfg.From == "" {
		cfg.From = DefaultFrom("")
	}

	s := &Service{
		cfg:    cfg,
		sender: sender,
		log:    logger.Discard(),
		now:    time.Now,
		loc:    loc,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("intake"))
	return s, nil
}

// Configured reports whether an email provider is available.
func (s *Service) Configured() bool {
	return s.sender != nil
}

// Submit validates req, sends the vendor notification and then attempts the
// acknowledgement.
//
// Errors are *MissingFieldsError, *InvalidFieldsError, ErrProviderNotConfigured
// or *DispatchError; anything else is an internal failure. A panic while
// building or sending the vendor notification is returned as ErrInternal.
func (s *Service) Submit(ctx context.Context, req quote.Request) (err error) {
	p := newPipeline(s.log, s.onStage)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInternal, rec)
			s.log.ErrorContext(ctx, "quote request panicked", logger.Error(err))
		}
		outcome := outcomeOf(err)
		s.metrics.QuoteOutcome(outcome)
		p.respond(ctx, outcome)
	}()

	if err := s.checkFields(req.Customer); err != nil {
		s.log.InfoContext(ctx, "quote request rejected", logger.Error(err))
		return err
	}
	p.advance(ctx, evValidate)

	if s.sender == nil {
		s.log.ErrorContext(ctx, "email provider credentials are not configured")
		return ErrProviderNotConfigured
	}
	p.advance(ctx, evCheckConfig)

	msg, err := s.vendorMessage(ctx, req)
	if err != nil {
		return err
	}
	if err := s.sendPrimary(ctx, msg); err != nil {
		return err
	}
	p.advance(ctx, evSendPrimary)

	s.acknowledge(ctx, req)
	p.advance(ctx, evAttemptAck)
	s.log.InfoContext(ctx, "quote request relayed",
		logger.Provider(s.sender.Name()),
		slog.String("model", req.Configuration.Model.String()),
	)
	return nil
}

func (s *Service) checkFields(c quote.Lead) error {
	rules := make([]validator.Rule, 0, len(quote.RequiredFields))
	for _, f := range quote.RequiredFields {
		rules = append(rules, validator.Required(f, c.Field(f).String()))
	}
	if errs := validator.ExtractValidationErrors(validator.Apply(rules...)); errs != nil {
		return &MissingFieldsError{Fields: errs.Fields()}
	}

	if !s.cfg.StrictValidation {
		return nil
	}
	errs := validator.ExtractValidationErrors(validator.Apply(
		validator.MaxLen(quote.FieldName, c.Name.String(), maxTextLen),
		validator.EmailShape(quote.FieldEmail, c.Email.String()),
		validator.MaxLen(quote.FieldEmail, c.Email.String(), maxEmailLen),
		validator.MaxLen(quote.FieldPhone, c.Phone.String(), maxPhoneLen),
		validator.OneOf(quote.FieldType, c.Type.String(), intentNames()...),
		validator.PositiveInt(quote.FieldUnits, c.Units.String()),
		validator.MaxLen(quote.FieldCity, c.City.String(), maxTextLen),
		validator.OneOf(quote.FieldCountry, c.Country.String(), quote.Countries...),
	))
	if errs != nil {
		return &InvalidFieldsError{Fields: errs.Fields()}
	}
	return nil
}

func intentNames() []string {
	names := make([]string, 0, len(quote.Intents))
	for _, in := range quote.Intents {
		names = append(names, string(in))
	}
	return names
}

func (s *Service) sendPrimary(ctx context.Context, msg email.Message) error {
	provider := s.sender.Name()
	resp, err := s.dispatch(ctx, kindVendor, msg)
	if err != nil {
		s.log.ErrorContext(ctx, "vendor notification failed",
			logger.Provider(provider),
			logger.Error(err),
		)
		return &DispatchError{Provider: provider, Err: err}
	}
	if !resp.OK() {
		s.log.ErrorContext(ctx, "vendor notification rejected",
			logger.Provider(provider),
			logger.StatusCode(resp.StatusCode),
			logger.Body(resp.Body),
		)
		return &DispatchError{Provider: provider, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return nil
}

// acknowledge sends the customer confirmation. Failures, including panics in
// the sender, are logged and dropped.
func (s *Service) acknowledge(ctx context.Context, req quote.Request) {
	recipient := req.Customer.Email.String()
	defer func() {
		if r := recover(); r != nil {
			s.log.WarnContext(ctx, "acknowledgement panicked",
				logger.Recipient(recipient),
				slog.Any("panic", r),
			)
		}
	}()

	msg, err := s.ackMessage(ctx, req)
	if err != nil {
		s.log.WarnContext(ctx, "acknowledgement not built", logger.Recipient(recipient), logger.Error(err))
		return
	}

	resp, err := s.dispatch(ctx, kindAck, msg)
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "acknowledgement failed",
			logger.Provider(s.sender.Name()),
			logger.Recipient(recipient),
			logger.Error(err),
		)
	case !resp.OK():
		s.log.WarnContext(ctx, "acknowledgement rejected",
			logger.Provider(s.sender.Name()),
			logger.Recipient(recipient),
			logger.StatusCode(resp.StatusCode),
			logger.Body(resp.Body),
		)
	default:
		s.log.DebugContext(ctx, "acknowledgement sent", logger.Recipient(recipient))
	}
}

func (s *Service) dispatch(ctx context.Context, kind string, msg email.Message) (email.Response, error) {
	start := time.Now()
	resp, err := s.sender.Send(ctx, msg)
	took := time.Since(start)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case !resp.OK():
		outcome = "rejected"
	}
	s.metrics.EmailDispatch(kind, outcome, took)
	return resp, err
}

package intake

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/statemachine"
)

// Stage is a step of one intake request.
type Stage string

const (
	StageReceived       Stage = "received"
	StageFieldValidated Stage = "field_validated"
	StageConfigChecked  Stage = "config_checked"
	StagePrimarySent    Stage = "primary_sent"
	StageAckAttempted   Stage = "ack_attempted"
	StageResponded      Stage = "responded"
)

type stageEvent string

const (
	evValidate    stageEvent = "validate"
	evCheckConfig stageEvent = "check_config"
	evSendPrimary stageEvent = "send_primary"
	evAttemptAck  stageEvent = "attempt_ack"
	evRespond     stageEvent = "respond"
)

type pipeline struct {
	m   *statemachine.Machine[Stage, stageEvent]
	log *slog.Logger
}

func newPipeline(log *slog.Logger, onStage func(context.Context, Stage)) *pipeline {
	opts := []statemachine.Option[Stage, stageEvent]{
		statemachine.WithTransition(StageReceived, StageFieldValidated, evValidate),
		statemachine.WithTransition(StageFieldValidated, StageConfigChecked, evCheckConfig),
		statemachine.WithTransition(StageConfigChecked, StagePrimarySent, evSendPrimary),
		statemachine.WithTransition(StagePrimarySent, StageAckAttempted, evAttemptAck),
		statemachine.WithObserver[Stage, stageEvent](func(ctx context.Context, from, to Stage, _ stageEvent) {
			log.DebugContext(ctx, "quote pipeline", slog.String("from", string(from)), logger.State(string(to)))
			if onStage != nil {
				onStage(ctx, to)
			}
		}),
	}
	for _, from := range []Stage{StageReceived, StageFieldValidated, StageConfigChecked, StagePrimarySent, StageAckAttempted} {
		opts = append(opts, statemachine.WithTransition(from, StageResponded, evRespond))
	}
	return &pipeline{m: statemachine.MustNew(StageReceived, opts...), log: log}
}

func (p *pipeline) advance(ctx context.Context, ev stageEvent) {
	if err := p.m.Fire(ctx, ev); err != nil {
		p.log.ErrorContext(ctx, "quote pipeline out of order", logger.Error(err))
	}
}

func (p *pipeline) respond(ctx context.Context, outcome string) {
	from := p.m.Current()
	p.advance(ctx, evRespond)
	p.log.DebugContext(ctx, "quote request responded",
		slog.String("outcome", outcome),
		slog.String("last_stage", string(from)),
	)
}

func outcomeOf(err error) string {
	var (
		missing  *MissingFieldsError
		invalid  *InvalidFieldsError
		dispatch *DispatchError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &missing):
		return OutcomeMissingFields
	case errors.As(err, &invalid):
		return OutcomeInvalidFields
	case errors.Is(err, ErrProviderNotConfigured):
		return OutcomeNotConfigured
	case errors.As(err, &dispatch):
		return OutcomeDispatchFailed
	default:
		return OutcomeInternal
	}
}

// Command server runs the Volt Drive quote service: the catalog read API,
// the quote intake endpoint, health checks and metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	catalogapi "github.com/alanquantic/voltdrive/modules/catalog"
	intakeapi "github.com/alanquantic/voltdrive/modules/intake"
	"github.com/alanquantic/voltdrive/pkg/config"
	"github.com/alanquantic/voltdrive/pkg/email"
	"github.com/alanquantic/voltdrive/pkg/httpserver"
	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/metrics"
	"github.com/alanquantic/voltdrive/pkg/ratelimit"
	"github.com/alanquantic/voltdrive/pkg/requestid"
	"github.com/alanquantic/voltdrive/svc/catalog"
	"github.com/alanquantic/voltdrive/svc/intake"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"voltdrive"`
}

func main() {
	var app appConfig
	config.MustLoad(&app)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	if err := run(context.Background(), log); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		httpCfg   httpserver.Config
		emailCfg  email.Config
		intakeCfg intake.Config
		limitCfg  ratelimit.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&emailCfg) },
		func() error { return config.Load(&intakeCfg) },
		func() error { return config.Load(&limitCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	reg := catalog.Default()
	m := metrics.New()

	sender, err := email.NewSender(emailCfg)
	switch {
	case errors.Is(err, email.ErrNotConfigured):
		log.Error("email provider not configured, quote requests will fail",
			logger.Provider(string(emailCfg.Provider)),
			logger.Error(err),
		)
		sender = nil
	case err != nil:
		return err
	}
	if intakeCfg.From == "" {
		intakeCfg.From = intake.DefaultFrom(emailCfg.MailgunDomain)
	}

	svc, err := intake.New(intakeCfg, sender,
		intake.WithLogger(log),
		intake.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	limiter, err := ratelimit.New(limitCfg)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, m.Middleware)

	r.Mount("/api/quote", intakeapi.New(svc,
		intakeapi.WithLogger(log),
		intakeapi.WithLimiter(limiter),
	).Handle())
	r.Mount("/api/catalog", catalogapi.New(reg, log).Handle())
	r.Handle("/metrics", m.Handler())
	r.Get("/healthz", httpserver.HealthCheckHandler(log))

	server := httpserver.New(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("listening",
				slog.String("addr", httpCfg.Addr),
				slog.Int("models", len(reg.Models())),
				slog.Bool("email_configured", svc.Configured()),
			)
		}),
	)
	return server.Run(ctx, r)
}

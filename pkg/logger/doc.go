// Package logger builds *slog.Logger instances for the service.
//
// New applies functional options on top of production-safe defaults (JSON, INFO,
// stdout). Environment presets select text output and DEBUG level for local
// development. Context extractors registered with WithContextExtractors add
// request-scoped attributes, such as the request id, to every record logged
// with a *Context method.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "voltdrive"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.ErrorContext(ctx, "primary send failed", logger.Provider("Mailgun"), logger.StatusCode(502))
package logger

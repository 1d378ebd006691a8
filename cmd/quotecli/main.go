// Command quotecli builds a vehicle configuration from flags and submits a
// quote request to a running server, the same way the site's dialog does.
//
//	quotecli -model halcon -color Azul -seats Negro -roof solar \
//	    -name "Ana Pérez" -email ana@example.com -phone "55 1234 5678" \
//	    -city Monterrey
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/sanitizer"
	"github.com/alanquantic/voltdrive/svc/catalog"
	"github.com/alanquantic/voltdrive/svc/configurator"
	"github.com/alanquantic/voltdrive/svc/quote"
	"github.com/alanquantic/voltdrive/svc/quoteform"
)

type options struct {
	api         string
	timeout     time.Duration
	share       string
	shareBase   string
	dryRun      bool
	verbose     bool
	model       string
	version     string
	color       string
	seats       string
	roof        string
	packages    string
	accessories string
	lead        map[string]*string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("quotecli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{lead: make(map[string]*string, len(quote.RequiredFields))}
	fs.StringVar(&o.api, "api", "http://localhost:3000", "base URL of the quote service")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "request timeout")
	fs.StringVar(&o.share, "share", "", "restore model, color and seats from a share link")
	fs.StringVar(&o.shareBase, "share-base", "", "print the share link for this base URL and exit")
	fs.BoolVar(&o.dryRun, "dry-run", false, "print the request body instead of sending it")
	fs.BoolVar(&o.verbose, "v", false, "log at debug level")

	fs.StringVar(&o.model, "model", "", "model key (default: first catalog model)")
	fs.StringVar(&o.version, "version", "", "version name")
	fs.StringVar(&o.color, "color", "", "body color")
	fs.StringVar(&o.seats, "seats", "", "seat color")
	fs.StringVar(&o.roof, "roof", "", `roof: "standard" or "solar"`)
	fs.StringVar(&o.packages, "packages", "", "comma separated packages")
	fs.StringVar(&o.accessories, "accessories", "", "comma separated accessory SKUs")

	defaults := quote.NewLead()
	for _, f := range quote.RequiredFields {
		o.lead[f] = fs.String(f, defaults.Field(f).String(), "customer "+f)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "quotecli:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logOpts := []logger.Option{logger.WithFormat(logger.FormatText), logger.WithOutput(stderr)}
	if o.verbose {
		logOpts = append(logOpts, logger.WithLevel(slog.LevelDebug))
	}
	log := logger.New(logOpts...)

	sig := configurator.NewQuoteSignal()
	defer sig.Close()

	cfg, err := configure(o, sig)
	if err != nil {
		return err
	}

	if o.shareBase != "" {
		fmt.Fprintln(stdout, cfg.ShareURL(o.shareBase))
		return nil
	}
	fmt.Fprintln(stdout, cfg.Summary())

	var submitter quoteform.Submitter = quoteform.NewClient(o.api)
	if o.dryRun {
		submitter = quoteform.SubmitterFunc(func(_ context.Context, req quote.Request) error {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(req)
		})
	}

	toasts := quoteform.NewToasts()
	defer toasts.Close()
	dialog := quoteform.NewDialog(submitter,
		quoteform.WithToasts(toasts),
		quoteform.WithLogger(log),
	)

	sub := sig.Subscribe(ctx)
	defer sub.Close()
	if err := cfg.RequestQuote(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case msg := <-sub.Receive(ctx):
		if err := dialog.Open(ctx, msg.Data); err != nil {
			return err
		}
	}

	for _, f := range quote.RequiredFields {
		if err := dialog.UpdateLead(f, *o.lead[f]); err != nil {
			return err
		}
	}

	toastSub := toasts.Subscribe(ctx)
	defer toastSub.Close()

	sendCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	res, err := dialog.Submit(sendCtx)
	if errors.Is(err, quoteform.ErrInvalidLead) {
		for _, f := range quote.RequiredFields {
			if msg, ok := res.FieldErrors[f]; ok {
				fmt.Fprintf(stderr, "  -%s: %s\n", f, msg)
			}
		}
		return err
	}

	select {
	case msg := <-toastSub.Receive(ctx):
		fmt.Fprintln(stdout, msg.Data.Message)
	default:
	}
	return err
}

// configure applies the selection flags in the order the site does: share
// link first, then model, then the remaining choices.
func configure(o *options, sig *configurator.QuoteSignal) (*configurator.Configurator, error) {
	cfg := configurator.New(catalog.Default(), configurator.WithSignal(sig))

	if o.share != "" {
		if err := cfg.ApplyShareURL(o.share); err != nil {
			return nil, err
		}
	}
	if o.model != "" {
		if err := cfg.SetModel(sanitizer.Clean(o.model)); err != nil {
			return nil, err
		}
	}

	m := cfg.Model()
	if o.version != "" {
		v, ok := m.Variant(o.version)
		if !ok {
			return nil, fmt.Errorf("model %s has no version %q", m.Key, o.version)
		}
		cfg.SetVersion(v.Name)
	}
	if o.color != "" {
		c, ok := m.Color(o.color)
		if !ok {
			return nil, fmt.Errorf("model %s has no color %q", m.Key, o.color)
		}
		cfg.SetColor(c.Name)
	}
	if o.seats != "" {
		s, ok := m.Seat(o.seats)
		if !ok {
			return nil, fmt.Errorf("model %s has no seat color %q", m.Key, o.seats)
		}
		cfg.SetSeat(s.Name)
	}
	switch strings.ToLower(o.roof) {
	case "", "standard":
	case "solar":
		if !m.SolarRoof {
			return nil, fmt.Errorf("model %s has no solar roof", m.Key)
		}
		cfg.SetRoof(catalog.RoofSolar)
	default:
		return nil, fmt.Errorf("unknown roof %q", o.roof)
	}

	for _, p := range splitList(o.packages) {
		if !m.OffersPackage(p) {
			return nil, fmt.Errorf("model %s has no package %q", m.Key, p)
		}
		cfg.TogglePackage(p)
	}
	for _, sku := range splitList(o.accessories) {
		if !m.Fits(sku) {
			return nil, fmt.Errorf("accessory %q does not fit %s", sku, m.Key)
		}
		cfg.ToggleAccessory(sku)
	}
	return cfg, nil
}

func splitList(s string) []string {
	return sanitizer.CleanAll(strings.Split(s, ","))
}

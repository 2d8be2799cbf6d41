package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/auth"
	"github.com/ccj16/regdesk/internal/invoice"
	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/mode"
	"github.com/ccj16/regdesk/internal/mode/shared"
	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/registration"
	"github.com/ccj16/regdesk/internal/summary"
	"github.com/ccj16/regdesk/internal/tracing"
)

// runtime owns the long-lived collaborators built from the config.
type runtime struct {
	services mode.Services
	client   *api.Client
	tracer   *tracing.Provider
	session  *auth.Session
	store    *receipts.Store
}

func newRuntime(ctx context.Context, o *options) (*runtime, error) {
	cfg := o.cfg

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	client, err := api.New(api.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		XSRFRetryBudget: cfg.API.XSRFRetryBudget,
		UserAgent:       "regdesk/" + version,
	}, api.WithTracer(provider.Tracer()))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	rt := &runtime{
		client:  client,
		tracer:  provider,
		session: auth.NewSession(client),
	}

	// The desk still works without the local receipts store.
	if cfg.Receipts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Receipts.Path), 0o750); err != nil {
			log.ErrorErr(log.CatReceipts, "creating receipts directory failed", err)
		} else if store, err := receipts.Open(ctx, cfg.Receipts.Path); err != nil {
			log.ErrorErr(log.CatReceipts, "opening receipts failed", err, "path", cfg.Receipts.Path)
		} else {
			rt.store = store
		}
	}

	clock := shared.RealClock{}
	rt.services = mode.Services{
		Registrations: registration.NewService(client, clock),
		Invoices:      invoice.NewService(client, cfg.API.ReadCacheTTL),
		Summary:       summary.NewService(client, cfg.API.ReadCacheTTL),
		Session:       rt.session,
		Receipts:      rt.store,
		Config:        &o.cfg,
		ConfigPath:    o.configPath,
		Clock:         clock,
		Clipboard:     shared.SystemClipboard{},
	}
	return rt, nil
}

// Close releases the store, session and tracer.
func (rt *runtime) Close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			log.ErrorErr(log.CatReceipts, "closing receipts failed", err)
		}
	}
	rt.session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.tracer.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatConfig, "tracer shutdown failed", err)
	}
}

// Command aadhaarscan serves the Aadhaar field extraction API. It wires
// the env-loaded config, the remote detection sidecar and the local
// Tesseract engine into the extraction pipeline and exposes it over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docuscan/aadhaarkit/config"
	"github.com/docuscan/aadhaarkit/detect/remote"
	"github.com/docuscan/aadhaarkit/extract"
	"github.com/docuscan/aadhaarkit/observability"
	"github.com/docuscan/aadhaarkit/observability/zaplog"
	"github.com/docuscan/aadhaarkit/ocr/tesseract"
	"github.com/docuscan/aadhaarkit/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aadhaarscan: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := zaplog.New(cfg.LogLevel)

	detector := remote.New(cfg.DetectorURL, cfg.ConfidenceThreshold)
	engine := tesseract.NewEngine()
	extractor := extract.New(engine,
		extract.WithMargin(cfg.CropMargin),
		extract.WithConcurrency(cfg.WorkerConcurrency),
		extract.WithLanguages(cfg.OCRLanguages...),
		extract.WithLogger(log),
	)
	srv := server.New(cfg, detector, engine, extractor, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			observability.String("addr", httpSrv.Addr),
			observability.String("detector", cfg.DetectorURL))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

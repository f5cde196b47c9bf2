package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"weatherattest/config"
	oraclecrypto "weatherattest/crypto"
	"weatherattest/internal/oracle"
	"weatherattest/internal/oracleerr"
	"weatherattest/internal/store"
	"weatherattest/internal/weatherdata"
	"weatherattest/observability/logging"
	"weatherattest/observability/tracing"
)

// Main wires configuration, logging, the embedded store, the oracle's key
// material and the facade together. It does not start an HTTP server: that
// collaborator lives outside this module.
func Main() error {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "oracled.toml", "path to oracled config")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup("oracled", "", cfg.LogLevel)

	tracer, shutdownTracing := tracing.Init("oracled")
	defer func() { _ = shutdownTracing(context.Background()) }()

	privateKey, err := oraclecrypto.LoadOrGenerateKey(cfg.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("load signing key: %w", err)
	}

	if err := os.MkdirAll(cfg.EventDBDir, 0o755); err != nil {
		return fmt.Errorf("create event db directory: %w", err)
	}
	st, err := store.Open(filepath.Join(cfg.EventDBDir, "events.db3"))
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}

	if err := ensureIdentity(context.Background(), st, privateKey); err != nil {
		return fmt.Errorf("verify oracle identity: %w", err)
	}

	index := weatherdata.NewDirIndex(cfg.DataDir)
	weather := weatherdata.New(index)

	o := oracle.New(st, weather, privateKey, slog.Default(), tracer)
	slog.Info("oracled: ready", "listen_address", cfg.ListenAddress, "public_key", o.PublicKey())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := config.LoadSchedule(cfg.SchedulePath)
	if err != nil {
		return fmt.Errorf("load etl schedule: %w", err)
	}
	if sched.Interval.Duration > 0 {
		go runScheduledETL(ctx, o, sched.Interval.Duration)
	} else {
		slog.Info("oracled: no schedule interval configured, etl runs only on demand", "schedule_path", cfg.SchedulePath)
	}

	<-ctx.Done()
	slog.Info("oracled: shutting down")
	return nil
}

// runScheduledETL invokes the lifecycle controller once per interval until
// ctx is cancelled, logging but never aborting on a cycle's failure.
func runScheduledETL(ctx context.Context, o *oracle.Oracle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processID := fmt.Sprintf("scheduled-%d", i)
			if err := o.RunETL(ctx, processID); err != nil {
				slog.Error("oracled: scheduled etl cycle failed", "process_id", processID, "error", err)
			}
		}
	}
}

// ensureIdentity records the oracle's public key on first boot, or verifies
// a prior boot's stored key matches the loaded private key otherwise. A
// mismatch is startup-fatal: it means the on-disk events belong to a
// different key than the one currently loaded.
func ensureIdentity(ctx context.Context, st *store.Store, priv *oraclecrypto.PrivateKey) error {
	pub := priv.PubKey().Bytes()

	stored, err := st.GetStoredPublicKey(ctx)
	if err != nil {
		var oerr *oracleerr.Error
		if errors.As(err, &oerr) && oerr.Kind == oracleerr.NotFound {
			return st.AddOracleMetadata(ctx, pub, "oracled", time.Now().UTC())
		}
		return err
	}

	if string(stored) != string(pub) {
		return oracleerr.MismatchPubkeyf("loaded private key's public part does not match stored oracle identity")
	}
	return nil
}

func main() {
	if err := Main(); err != nil {
		log.Fatalf("oracled: %v", err)
	}
}

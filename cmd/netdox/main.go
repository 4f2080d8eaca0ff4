package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lirkwood/netdox-sub001/internal/api"
	"github.com/lirkwood/netdox-sub001/internal/config"
	"github.com/lirkwood/netdox-sub001/internal/database"
	"github.com/lirkwood/netdox-sub001/internal/logging"
	"github.com/lirkwood/netdox-sub001/internal/netmodel"
	"github.com/lirkwood/netdox-sub001/internal/plugin"
	"github.com/lirkwood/netdox-sub001/internal/plugins/natdump"
	"github.com/lirkwood/netdox-sub001/internal/plugins/zonefile"
	"github.com/lirkwood/netdox-sub001/internal/secrets"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to YAML configuration file (or set NETDOX_CONFIG)")
		importPolicy = flag.Bool("import", false, "Import the config file's network policy into the policy store and exit")
		dbPath       = flag.String("db", "", "Policy store path (overrides database.path)")
		snapshotPath = flag.String("snapshot", "", "Snapshot output path (overrides snapshot.path)")
		genKey       = flag.Bool("gen-key", false, "Generate a secrets key file at the configured path and exit")
		setSecret    = flag.String("set-secret", "", "Store one plugin credential as plugin:key=value and exit")
		serve        = flag.Bool("serve", false, "Serve the API after the refresh (overrides api.enabled)")
		jsonLogs     = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug        = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *snapshotPath != "" {
		cfg.Snapshot.Path = *snapshotPath
	}
	if *serve {
		// Forcing the API on bypasses the enabled-only validation at load
		// time, so the listen settings are checked again here.
		cfg.API.Enabled = true
		if err := cfg.API.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
			os.Exit(1)
		}
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})

	if *genKey {
		if cfg.Secrets.KeyPath == "" {
			fmt.Fprintln(os.Stderr, "secrets.key_path is not configured")
			os.Exit(1)
		}
		if err := secrets.GenerateKey(cfg.Secrets.KeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate key: %v\n", err)
			os.Exit(1)
		}
		logger.Info("secrets key written", "path", cfg.Secrets.KeyPath)
		return
	}

	if *setSecret != "" {
		if err := storeSecret(cfg, *setSecret); err != nil {
			fmt.Fprintf(os.Stderr, "failed to store secret: %v\n", err)
			os.Exit(1)
		}
		logger.Info("secret stored", "path", cfg.Secrets.Path)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	if cfg.Database.Path != "" {
		db, err = database.Open(cfg.Database.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open policy store: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	if *importPolicy {
		if db == nil {
			fmt.Fprintln(os.Stderr, "database.path is not configured")
			os.Exit(1)
		}
		if err := db.ImportFromConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "failed to import policy: %v\n", err)
			os.Exit(1)
		}
		version, _ := db.GetVersion()
		logger.Info("policy imported", "version", version)
		return
	}

	network, err := buildNetwork(cfg, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build network: %v\n", err)
		os.Exit(1)
	}

	registry := plugin.NewRegistry()
	if cfg.Plugins.ZoneDir != "" {
		mustRegister(registry, &zonefile.Plugin{Dir: cfg.Plugins.ZoneDir})
	}
	if cfg.Plugins.NATDumpPath != "" {
		mustRegister(registry, &natdump.Plugin{Path: cfg.Plugins.NATDumpPath})
	}

	// An unreadable secrets store or an unsatisfied credential declaration
	// is fatal: plugins must not run without their credentials.
	if cfg.Secrets.Path != "" {
		store, err := secrets.Open(cfg.Secrets.Path, cfg.Secrets.KeyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open secrets: %v\n", err)
			os.Exit(1)
		}
		if err := registry.ApplyCredentials(store.Plugin); err != nil {
			fmt.Fprintf(os.Stderr, "failed to resolve plugin credentials: %v\n", err)
			os.Exit(1)
		}
	} else {
		for _, name := range registry.Names() {
			if p, ok := registry.Get(name); ok && len(p.ConfigKeys()) > 0 {
				fmt.Fprintf(os.Stderr, "plugin %s needs credentials but secrets.path is not configured\n", name)
				os.Exit(1)
			}
		}
	}

	runner := plugin.NewRunner(registry, cfg.Plugins.Enabled, logger)
	runner.SnapshotPath = cfg.Snapshot.Path
	if err := runner.Run(ctx, network); err != nil {
		fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
		os.Exit(1)
	}

	if cfg.API.Enabled {
		serveAPI(ctx, cfg, network, db, logger)
	}
}

// buildNetwork assembles the aggregate from the policy store when one is
// open, falling back to the config file.
func buildNetwork(cfg *config.Config, db *database.DB) (*netmodel.Network, error) {
	policy := cfg.Network
	locations := map[string][]string(cfg.Locations)
	natPairs := cfg.NAT

	if db != nil {
		var err error
		if policy, err = db.ExportPolicy(); err != nil {
			return nil, err
		}
		if locations, err = db.ExportLocations(); err != nil {
			return nil, err
		}
		if natPairs, err = db.ExportNAT(); err != nil {
			return nil, err
		}
	}

	locator, err := netmodel.NewLocator(locations)
	if err != nil {
		return nil, err
	}
	nat, err := netmodel.NewNATTable(natPairs)
	if err != nil {
		return nil, err
	}

	network := netmodel.NewNetwork(policy, locator, nat)
	for _, pair := range nat.Pairs() {
		if err := network.SetNAT(pair.Addr, pair.Alias); err != nil {
			return nil, err
		}
	}
	return network, nil
}

// storeSecret merges one plugin:key=value credential into the sealed
// store and writes it back.
func storeSecret(cfg *config.Config, spec string) error {
	if cfg.Secrets.Path == "" || cfg.Secrets.KeyPath == "" {
		return errors.New("secrets.path and secrets.key_path must be configured")
	}
	name, kv, ok := strings.Cut(spec, ":")
	key, value, ok2 := strings.Cut(kv, "=")
	if !ok || !ok2 || name == "" || key == "" {
		return fmt.Errorf("want plugin:key=value, got %q", spec)
	}

	store, err := secrets.Open(cfg.Secrets.Path, cfg.Secrets.KeyPath)
	if err != nil {
		return err
	}
	creds, err := store.Plugin(name)
	if errors.Is(err, secrets.ErrNotFound) {
		creds = map[string]string{}
	} else if err != nil {
		return err
	}
	creds[key] = value
	store.Set(name, creds)
	return store.Seal(cfg.Secrets.Path, cfg.Secrets.KeyPath)
}

func mustRegister(registry *plugin.Registry, p plugin.Plugin) {
	if err := registry.Register(p); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register plugin: %v\n", err)
		os.Exit(1)
	}
}

// serveAPI blocks until the context is cancelled, then shuts the server
// down gracefully.
func serveAPI(ctx context.Context, cfg *config.Config, network *netmodel.Network, db *database.DB, logger *slog.Logger) {
	srv := api.New(cfg.API, network, db, logger)
	logger.Info("api listening", "addr", srv.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "api server exited with error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "api shutdown failed: %v\n", err)
		}
	}
}

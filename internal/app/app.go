package app

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/stormctl/internal/config"
	"github.com/five82/stormctl/internal/logging"
	"github.com/five82/stormctl/internal/prefs"
	"github.com/five82/stormctl/internal/state"
	"github.com/five82/stormctl/internal/ui"
	"github.com/five82/stormctl/scrapestorm"
)

// Options configure stormctl. Zero values keep the config file's settings.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/stormctl/prefs.toml
	// Host accepts "host", "host:port" or "http://host:port".
	Host      string
	Port      int
	Timeout   time.Duration
	PollEvery time.Duration
	LogLevel  string
}

// LoadConfig reads the config file and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if host := strings.TrimSpace(opts.Host); host != "" {
		ep, err := scrapestorm.ParseEndpoint(host)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Host = ep.Host
		if hasPort(host) {
			cfg.Port = ep.Port
		}
	}
	if opts.Port < 0 || opts.Port > 65535 {
		return config.Config{}, fmt.Errorf("port %d out of range", opts.Port)
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	return cfg, nil
}

func hasPort(host string) bool {
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	_, port, err := net.SplitHostPort(host)
	return err == nil && port != ""
}

// NewClient builds the ScrapeStorm client described by cfg.
func NewClient(cfg config.Config, logger *zap.Logger) (*scrapestorm.Client, error) {
	client, err := scrapestorm.NewClient(cfg.Endpoint(),
		scrapestorm.WithTimeout(cfg.Timeout),
		scrapestorm.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init scrapestorm client: %w", err)
	}
	return client, nil
}

// Run boots the dashboard until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs always go to the file.
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := NewClient(cfg, logger)
	if err != nil {
		return err
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	store := &state.Store{}

	poller := NewPoller(store, client, cfg.PollInterval, logger.Named("poller"))
	poller.Start(ctx)

	logger.Info("dashboard started",
		zap.String("endpoint", client.Endpoint().String()),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	err = ui.Run(ui.Options{
		Context:       ctx,
		API:           client,
		Store:         store,
		Refresh:       poller.Trigger,
		Endpoint:      client.Endpoint().String(),
		LogPath:       cfg.LogFile,
		ActionTimeout: cfg.Timeout,
		ThemeName:     userPrefs.Theme,
		TypeFilter:    userPrefs.TypeFilter,
		PrefsPath:     opts.PrefsPath,
	})
	if err != nil {
		logger.Error("dashboard exited", zap.Error(err))
		return fmt.Errorf("run dashboard: %w", err)
	}
	logger.Info("dashboard stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/app/onboarding"
	"cribbage/internal/auth"
	"cribbage/internal/config"
	"cribbage/internal/logging"
	"cribbage/internal/ports/nakama"
	"cribbage/internal/telemetry"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "cribbage",
	Short:         "Cribbage client for a Nakama-hosted game authority",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig string
	flagURL    string
	flagToken  string
	flagID     string
	flagName   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "cribbage.yaml", "path to the YAML config file")
	flags.StringVar(&flagURL, "url", "", "realtime socket URL (overrides server.url)")
	flags.StringVar(&flagToken, "token", "", "Nakama session token (overrides server.token)")
	flags.StringVar(&flagID, "id", "", "player id (overrides player.id)")
	flags.StringVar(&flagName, "name", "", "player display name (overrides player.name)")

	rootCmd.AddCommand(playCmd, reconnectCmd, lobbiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("cribbage")
	}
}

// session bundles what every subcommand needs.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *telemetry.Metrics
	client  *app.Client
	id      string
	name    string
}

func newSession() (*session, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagURL != "" {
		cfg.Server.URL = flagURL
	}
	if flagToken != "" {
		cfg.Server.Token = flagToken
	}
	if flagID != "" {
		cfg.Player.ID = flagID
	}
	if flagName != "" {
		cfg.Player.Name = flagName
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	id, name, err := resolveIdentity(cfg, time.Now())
	if err != nil {
		return nil, err
	}

	metrics := telemetry.NewMetrics()
	dialer := &nakama.Dialer{
		URL:               cfg.Server.URL,
		Token:             cfg.Server.Token,
		HandshakeTimeout:  cfg.Server.HandshakeTimeout,
		HeartbeatInterval: cfg.Server.HeartbeatInterval,
		Logger:            logger.WithField("component", "socket"),
	}
	client := app.NewClient(dialer, app.Options{
		PassThreshold:   cfg.Rules.PassThreshold,
		MaxPeggingTotal: cfg.Rules.MaxPeggingTotal,
		Logger:          logger,
		Metrics:         metrics,
	})

	return &session{cfg: cfg, logger: logger, metrics: metrics, client: client, id: id, name: name}, nil
}

// resolveIdentity picks the login identity: the session token's user when a
// token is configured, otherwise the configured player or a generated guest.
func resolveIdentity(cfg *config.Config, now time.Time) (id, name string, err error) {
	id, name = cfg.Player.ID, cfg.Player.Name
	if cfg.Server.Token != "" {
		ident, err := auth.ParseSessionToken(cfg.Server.Token, now)
		if err != nil {
			return "", "", err
		}
		if id != "" && id != ident.UserID {
			return "", "", fmt.Errorf("player id %s does not match session token user %s", id, ident.UserID)
		}
		id = ident.UserID
		if name == "" {
			name = ident.Username
		}
	}
	guest := onboarding.NewService(nil).NewGuest(id, name)
	return guest.ID, guest.Name, nil
}

// connect opens the socket and logs in.
func (s *session) connect(ctx context.Context) error {
	if err := s.client.Connect(ctx); err != nil {
		return err
	}
	if err := s.client.Login(ctx, s.name, s.id); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{"id": s.id, "name": s.name}).Info("Connected to %s", s.cfg.Server.URL)
	return nil
}

func (s *session) close() {
	if err := s.client.Close(); err != nil && !errors.Is(err, app.ErrNotConnected) {
		s.logger.Warn("Close: %v", err)
	}
}

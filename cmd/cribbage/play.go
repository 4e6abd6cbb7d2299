package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/telemetry"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Join a game and follow it, optionally on autopilot",
	RunE:  runPlay,
}

var (
	flagLobby      string
	flagStart      bool
	flagAuto       bool
	flagStrategy   string
	flagStatusAddr string
)

func init() {
	flags := playCmd.Flags()
	flags.StringVar(&flagLobby, "lobby", "", "lobby to join after login")
	flags.BoolVar(&flagStart, "start", false, "ask the authority to start the game after joining")
	flags.BoolVar(&flagAuto, "auto", false, "answer every decision automatically")
	flags.StringVar(&flagStrategy, "strategy", bot.StrategyPegging, "autopilot strategy: first|pegging")
	flags.StringVar(&flagStatusAddr, "status-addr", "", "local status listener address (overrides status.addr)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if flagStatusAddr != "" {
		s.cfg.Status.Addr = flagStatusAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.connect(ctx); err != nil {
		return err
	}
	defer s.close()

	if flagLobby != "" {
		if err := s.client.JoinLobby(ctx, flagLobby); err != nil {
			return err
		}
	}
	if flagStart {
		if err := s.client.StartGame(ctx); err != nil {
			return err
		}
	}

	if s.cfg.Status.Addr != "" {
		srv := &http.Server{
			Addr:              s.cfg.Status.Addr,
			Handler:           telemetry.Routes(statusSource{client: s.client}, s.metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}
		s.logger.Info("Status listening on http://%s", s.cfg.Status.Addr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Warn("Status: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	if flagAuto {
		brain, err := bot.NewBrain(flagStrategy)
		if err != nil {
			return err
		}
		agent := bot.NewAgent(s.client, brain, s.logger.WithField("component", "autopilot"))
		go func() {
			if err := agent.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("Autopilot stopped: %v", err)
			}
		}()
		return s.watch(ctx, nil)
	}
	return s.watch(ctx, s.client.Updates())
}

// watch renders the table on every update until ctx ends or the connection
// drops. A nil updates channel only watches the connection.
func (s *session) watch(ctx context.Context, updates <-chan struct{}) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			render(os.Stdout, s.client, s.id)
		case <-ticker.C:
		}
		if s.client.Session().State == app.Disconnected {
			return errors.New("connection to the authority was lost")
		}
	}
}

// table is one rendered line of output.
type table struct {
	Waiting  string          `json:"waiting,omitempty"`
	Decision string          `json:"decision"`
	CanPass  bool            `json:"canPass,omitempty"`
	You      *app.PlayerView `json:"you,omitempty"`
	Opponent *app.PlayerView `json:"opponent,omitempty"`
	Winner   string          `json:"winner,omitempty"`
}

func render(w io.Writer, c *app.Client, viewer string) {
	t := table{Decision: c.DecisionState().String(), CanPass: c.CanPass()}
	if waiting, err := c.WaitingOn(viewer); err == nil {
		t.Waiting = waiting.Describe()
	}
	if you, opp, err := c.Players(viewer); err == nil {
		if v, err := c.Project(viewer, you.ID); err == nil {
			t.You = &v
		}
		if v, err := c.Project(viewer, opp.ID); err == nil {
			t.Opponent = &v
		}
	}
	if name, ok := c.WinnerName(); ok {
		t.Winner = name
	}

	line, err := json.Marshal(t)
	if err != nil {
		return
	}
	fmt.Fprintln(w, string(line))
}

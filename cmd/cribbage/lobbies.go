package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var lobbiesCmd = &cobra.Command{
	Use:   "lobbies",
	Short: "List the lobbies the authority reports as active",
	RunE:  runLobbies,
}

var flagLobbiesTimeout time.Duration

func init() {
	lobbiesCmd.Flags().DurationVar(&flagLobbiesTimeout, "timeout", 5*time.Second, "how long to wait for the lobby list")
}

func runLobbies(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.connect(ctx); err != nil {
		return err
	}
	defer s.close()

	wait := time.NewTimer(flagLobbiesTimeout)
	defer wait.Stop()
	for len(s.client.Lobbies()) == 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-wait.C:
			fmt.Fprintln(cmd.OutOrStdout(), "no active lobbies")
			return nil
		case <-s.client.Updates():
		}
	}
	for _, lobby := range s.client.Lobbies() {
		fmt.Fprintln(cmd.OutOrStdout(), lobby)
	}
	return nil
}

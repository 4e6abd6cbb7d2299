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

var reconnectCmd = &cobra.Command{
	Use:   "reconnect",
	Short: "Ask the authority whether the player has a game to rejoin",
	RunE:  runReconnect,
}

var flagReconnectTimeout time.Duration

func init() {
	reconnectCmd.Flags().DurationVar(&flagReconnectTimeout, "timeout", 10*time.Second, "how long to wait for the answer")
}

func runReconnect(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.client.Connect(ctx); err != nil {
		return err
	}
	defer s.close()

	qctx, cancel := context.WithTimeout(ctx, flagReconnectTimeout)
	defer cancel()
	lobby, found, err := s.client.CheckReconnect(qctx, s.id)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "no game to rejoin")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), lobby)
	return nil
}

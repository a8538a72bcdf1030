package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/round"
	"github.com/younwookim/remnant/internal/application/session"
	"github.com/younwookim/remnant/internal/infrastructure/admin"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a session until interrupted or the requested rounds finish",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("level", "", "level to load (default: game.json level)")
	serveCmd.Flags().StringSlice("bots", nil, "bot scripts joining every round")
	serveCmd.Flags().Int("rounds", 0, "rounds to play before exiting (0 runs until interrupted)")
	serveCmd.Flags().String("admin-addr", "", "listen address for the websocket admin console")
	_ = viper.BindPFlags(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	log := logger.Log
	l := loader()

	bundle, err := l.LoadAll(viper.GetString("level"))
	if err != nil {
		return err
	}
	s, err := session.New(bundle)
	if err != nil {
		return err
	}

	for _, name := range viper.GetStringSlice("bots") {
		bot, err := l.LoadBot(name)
		if err != nil {
			return err
		}
		if err := s.AddParticipant(round.Participant{ClientID: name, Source: input.NewScript(*bot)}); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	go func() { errc <- s.Run(ctx) }()
	if addr := viper.GetString("admin-addr"); addr != "" {
		go func() { errc <- admin.NewServer(admin.SessionExecutor(s), addr).Run(ctx) }()
	}

	log.WithField("session", s.ID()).WithField("level", bundle.Level.Name).Info("session started")

	rounds := viper.GetInt("rounds")
	if rounds <= 0 {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return stopped(err)
		}
	}

	results, err := s.RunRounds(ctx, rounds)
	for _, res := range results {
		log.WithField("round", res.RoundID).WithField("timelines", len(res.Timelines)).Info("round finished")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("rounds aborted: %w", err)
	}

	done := make(chan string, 1)
	if err := s.Do(ctx, func(s *session.Session) error {
		done <- s.Status()
		return nil
	}); err == nil {
		log.Info(<-done)
	}
	return nil
}

// stopped filters the error a loop returns once the context is cancelled
func stopped(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iiviie/bbsfront/internal/board"
	"github.com/iiviie/bbsfront/internal/client"
	"github.com/iiviie/bbsfront/internal/config"
	"github.com/iiviie/bbsfront/internal/logging"
	"github.com/iiviie/bbsfront/internal/poller"
	"github.com/iiviie/bbsfront/internal/server"
	"github.com/iiviie/bbsfront/internal/storage"
	"github.com/iiviie/bbsfront/internal/submit"
)

var configPath string

// app holds the components shared by every command.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	store     storage.Storage
	client    *client.Client
	board     *board.Board
	submitter *submit.Submitter
}

func newApp() (*app, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfigFile(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.Log)

	cl, err := client.New(cfg.API, log)
	if err != nil {
		return nil, fmt.Errorf("init client: %w", err)
	}

	store := storage.NewMemoryStorage()
	b := board.New(cl, store, cfg.API.Sort, log)
	sub := submit.New(cl, b, submit.NewThrottle(cfg.Submit.Throttle), log)

	return &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		client:    cl,
		board:     b,
		submitter: sub,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close storage")
	}
}

func main() {
	root := &cobra.Command{
		Use:           "bbsfront",
		Short:         "Front-end for a remote bulletin board API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(serveCmd(), listCmd(), postCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the board page and keep it refreshed",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := server.New(a.cfg.Server, a.board, a.submitter, a.log)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	ctx := cmd.Context()

	// Refresh loop lives as long as the server
	p := poller.New(a.board, a.cfg.Poller.Interval, a.log)
	pollDone := make(chan struct{})
	pollCtx, cancelPoll := context.WithCancel(ctx)
	go func() {
		p.Run(pollCtx)
		close(pollDone)
	}()

	a.log.WithFields(logrus.Fields{
		"api":      a.client.BaseURL(),
		"shape":    a.cfg.API.Shape,
		"sort":     a.cfg.API.Sort,
		"interval": a.cfg.Poller.Interval.String(),
	}).Info("Board front-end configured")

	err = srv.Run(ctx)
	cancelPoll()
	<-pollDone
	return err
}

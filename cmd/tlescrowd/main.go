package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/app"
	"github.com/iov-one/tlescrow/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagConfig  = flag.String("config", "", "path to the configuration file")
	flagVersion = flag.Bool("version", false, "print the version and exit")
)

func main() {
	flag.Parse()
	if *flagVersion {
		fmt.Println(tlescrow.Version())
		return
	}

	conf, err := loadConfig(viper.New(), *flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %s\n", err)
		os.Exit(2)
	}
	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %s\n", err)
		os.Exit(2)
	}
	if err := run(conf, logger); err != nil {
		logger.Error("daemon stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "tlescrowd")
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

func run(conf configuration, logger log.Logger) error {
	gen, err := app.LoadGenesis(conf.Genesis)
	if err != nil {
		return err
	}
	a, err := app.New(gen, logger.With("module", "ledger"))
	if err != nil {
		return errors.Wrap(err, "create ledger")
	}
	logger.Info("ledger ready",
		"chain_id", a.ChainID(),
		"escrow_program", a.EscrowProgramID(),
		"version", tlescrow.Version())

	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           newServer(a, logger, conf.Debug).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	failed := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", conf.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return errors.Wrapf(errors.ErrHuman, "http server: %s", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/contractvm/contractvm"
)

func main() {
	p, err := parseParams(os.Args[1:])
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if p.printVersion {
		fmt.Printf("%s@%s\n", contractvm.Name, contractvm.Version)
		os.Exit(0)
	}

	log.Root().SetHandler(log.LvlFilterHandler(p.logLevel, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	if err := run(context.Background(), p); err != nil {
		log.Error("contractvm failed", "err", err)
		os.Exit(1)
	}
	log.Info("Terminated successfully.")
}

func run(ctx context.Context, p *params) error {
	registry := prometheus.NewRegistry()
	factory := &contractvm.Factory{
		Config:     p.vmConfig,
		DB:         memdb.New(),
		Registerer: registry,
	}
	vm, err := factory.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create vm: %w", err)
	}

	handler, err := vm.CreateHandler()
	if err != nil {
		return fmt.Errorf("failed to create api handler: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: p.httpAddr, Handler: mux}

	// register signals to kill the application
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("serving contractvm api", "addr", p.httpAddr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-signals:
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}

	if shutdownErr := server.Shutdown(ctx); err == nil {
		err = shutdownErr
	}
	if shutdownErr := vm.Shutdown(ctx); err == nil {
		err = shutdownErr
	}
	return err
}

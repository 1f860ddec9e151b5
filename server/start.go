package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"golang.org/x/sync/errgroup"

	"github.com/EscanBE/valueiou/devchain"
)

// StartNode runs a local chain behind a JSON-RPC server until ctx is done.
// ready, if not nil, receives the address the server listens on.
func StartNode(ctx context.Context, chainCfg devchain.Config, config JSONRPCConfig, logger log.Logger, ready chan<- string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	chainCfg.Logger = logger
	chain, err := devchain.New(chainCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := chain.Close(); err != nil {
			logger.Error("failed to close chain", "error", err.Error())
		}
	}()

	httpSrv, httpSrvDone, err := StartJSONRPC(chain, config, logger)
	if err != nil {
		return err
	}

	for i, account := range chain.Accounts() {
		logger.Info("dev account", "index", i, "address", account.Address.Hex())
	}
	logger.Info("node started", "chain-id", chain.ChainID().String(), "address", httpSrv.Addr)
	if ready != nil {
		ready <- httpSrv.Addr
	}

	<-ctx.Done()

	shutdownCtx, cancelFn := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFn()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown produced a warning", "error", err.Error())
	} else {
		logger.Info("HTTP server shut down, waiting 5 sec")
		select {
		case <-time.Tick(5 * time.Second):
		case <-httpSrvDone:
		}
	}
	return nil
}

// PrepareStartCtx returns a context canceled on SIGINT or SIGTERM, or when parent is done.
func PrepareStartCtx(parent context.Context, logger log.Logger) (*errgroup.Group, context.Context) {
	goCtx, cancelFn := context.WithCancel(parent)

	g, goCtx := errgroup.WithContext(goCtx)
	listenForQuitSignals(g, goCtx, cancelFn, logger)

	return g, goCtx
}

func listenForQuitSignals(g *errgroup.Group, ctx context.Context, cancelFn context.CancelFunc, logger log.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	g.Go(func() error {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logger.Info("caught signal", "signal", sig.String())
			cancelFn()
		case <-ctx.Done():
		}
		return nil
	})
}

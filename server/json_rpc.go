package server

import (
	"errors"
	"net"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/net/netutil"

	"github.com/EscanBE/valueiou/devchain"
)

// StartJSONRPC serves the JSON-RPC API of chain over HTTP.
// The returned channel is closed once the server has shut down.
func StartJSONRPC(chain *devchain.Chain, config JSONRPCConfig, logger log.Logger) (*http.Server, chan struct{}, error) {
	logger = logger.With("module", "geth")

	r := mux.NewRouter()
	r.HandleFunc("/", chain.Handler().ServeHTTP).Methods("POST")
	if config.EnableWebsocket {
		r.Handle("/ws", chain.WebsocketHandler([]string{"*"}))
	}

	handlerWithCors := cors.Default()
	if config.EnableUnsafeCORS {
		handlerWithCors = cors.AllowAll()
	}

	httpSrv := &http.Server{
		Addr:              config.Address,
		Handler:           handlerWithCors.Handler(r),
		ReadHeaderTimeout: config.HTTPTimeout,
		ReadTimeout:       config.HTTPTimeout,
		WriteTimeout:      config.HTTPTimeout,
		IdleTimeout:       config.HTTPIdleTimeout,
	}
	httpSrvDone := make(chan struct{}, 1)

	ln, err := Listen(httpSrv.Addr, config)
	if err != nil {
		return nil, nil, err
	}

	errCh := make(chan error)
	go func() {
		logger.Info("Starting JSON-RPC server", "address", ln.Addr().String())
		if err := httpSrv.Serve(ln); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				close(httpSrvDone)
				return
			}

			logger.Error("failed to start JSON-RPC server", "error", err.Error())
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("failed to boot JSON-RPC server", "error", err.Error())
		return nil, nil, err
	case <-time.After(ServerStartTime): // assume JSON RPC server started successfully
	}

	httpSrv.Addr = ln.Addr().String()
	return httpSrv, httpSrvDone, nil
}

// Listen starts a net.Listener on the tcp network on the given address.
// If there is a specified MaxOpenConnections in the config, it will also set the limitListener.
func Listen(addr string, config JSONRPCConfig) (net.Listener, error) {
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if config.MaxOpenConnections > 0 {
		ln = netutil.LimitListener(ln, config.MaxOpenConnections)
	}
	return ln, err
}

package server

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	iotypes "github.com/EscanBE/valueiou/types"
)

const (
	// DefaultJSONRPCAddress is the default address the JSON-RPC server binds to.
	DefaultJSONRPCAddress = "127.0.0.1:8545"

	DefaultHTTPTimeout     = 30 * time.Second
	DefaultHTTPIdleTimeout = 120 * time.Second

	// ServerStartTime is the time to wait for a server to fail before it is considered started.
	ServerStartTime = 2 * time.Second
)

// JSONRPCConfig configures the JSON-RPC server of the node command.
type JSONRPCConfig struct {
	Address string

	// EnableWebsocket also serves JSON-RPC over websocket at /ws.
	EnableWebsocket bool

	// EnableUnsafeCORS allows any origin.
	EnableUnsafeCORS bool

	HTTPTimeout     time.Duration
	HTTPIdleTimeout time.Duration

	// MaxOpenConnections limits concurrent connections, 0 means unlimited.
	MaxOpenConnections int
}

// DefaultJSONRPCConfig returns the default JSON-RPC server configuration.
func DefaultJSONRPCConfig() JSONRPCConfig {
	return JSONRPCConfig{
		Address:          DefaultJSONRPCAddress,
		EnableWebsocket:  true,
		EnableUnsafeCORS: true,
		HTTPTimeout:      DefaultHTTPTimeout,
		HTTPIdleTimeout:  DefaultHTTPIdleTimeout,
	}
}

// Validate returns an error if the configuration fields are invalid.
func (c JSONRPCConfig) Validate() error {
	if c.HTTPTimeout < 0 {
		return errorsmod.Wrap(iotypes.ErrInvalidConfig, "JSON-RPC HTTP timeout duration cannot be negative")
	}
	if c.HTTPIdleTimeout < 0 {
		return errorsmod.Wrap(iotypes.ErrInvalidConfig, "JSON-RPC HTTP idle timeout duration cannot be negative")
	}
	if c.MaxOpenConnections < 0 {
		return errorsmod.Wrap(iotypes.ErrInvalidConfig, "JSON-RPC max open connections cannot be negative")
	}
	return nil
}

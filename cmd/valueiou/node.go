package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/EscanBE/valueiou/devchain"
	"github.com/EscanBE/valueiou/server"
)

const (
	flagListen             = "listen"
	flagMaxOpenConnections = "max-open-connections"
	flagNoWebsocket        = "no-websocket"
)

func NodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Serve a local chain over JSON-RPC until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx := getClientContext(cmd)

			rpcConfig := server.DefaultJSONRPCConfig()
			var err error
			if rpcConfig.Address, err = cmd.Flags().GetString(flagListen); err != nil {
				return err
			}
			if rpcConfig.MaxOpenConnections, err = cmd.Flags().GetInt(flagMaxOpenConnections); err != nil {
				return err
			}
			noWebsocket, err := cmd.Flags().GetBool(flagNoWebsocket)
			if err != nil {
				return err
			}
			rpcConfig.EnableWebsocket = !noWebsocket

			g, ctx := server.PrepareStartCtx(cmd.Context(), clientCtx.Logger)
			g.Go(func() error {
				return server.StartNode(ctx, devchain.Config{}, rpcConfig, clientCtx.Logger, nil)
			})
			return g.Wait()
		},
	}

	addJSONRPCFlags(cmd.Flags())

	return cmd
}

func addJSONRPCFlags(fs *pflag.FlagSet) {
	fs.String(flagListen, server.DefaultJSONRPCAddress, "address to serve JSON-RPC on")
	fs.Int(flagMaxOpenConnections, 0, "maximum number of simultaneous connections, 0 for unlimited")
	fs.Bool(flagNoWebsocket, false, "do not serve JSON-RPC over websocket at /ws")
}

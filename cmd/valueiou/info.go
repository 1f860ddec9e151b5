package main

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/EscanBE/valueiou/constants"
	"github.com/EscanBE/valueiou/contracts"
	"github.com/EscanBE/valueiou/deploy"
)

const (
	flagOutput = "output"

	outputText = "text"
	outputJSON = "json"
)

func InfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [name]",
		Short: "Print name, symbol, decimals and address of a ValueIOU deployment",
		Long:  "Print name, symbol, decimals and address of a ValueIOU deployment, ValueIOU by default. On the in-process hardhat network the deploy scripts run first.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx := getClientContext(cmd)

			name := constants.ValueIOUContractName
			if len(args) > 0 {
				name = args[0]
			}

			output, err := cmd.Flags().GetString(flagOutput)
			if err != nil {
				return err
			}

			n, err := connect(cmd.Context(), clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			defer n.Close()

			env, _, err := n.environment(clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			if n.chain != nil {
				if err := deploy.NewRegistry().Run(cmd.Context(), env); err != nil {
					return err
				}
			}

			deployment, err := env.Deployments.Get(name)
			if err != nil {
				return err
			}

			token := contracts.NewValueIOU(deployment.Address, n.client)
			opts := &bind.CallOpts{Context: cmd.Context()}

			tokenName, err := token.Name(opts)
			if err != nil {
				return err
			}
			symbol, err := token.Symbol(opts)
			if err != nil {
				return err
			}
			decimals, err := token.Decimals(opts)
			if err != nil {
				return err
			}

			switch output {
			case outputJSON:
				bz := []byte("{}")
				for _, field := range []struct {
					path  string
					value interface{}
				}{
					{"deployment", name},
					{"address", deployment.Address.Hex()},
					{"name", tokenName},
					{"symbol", symbol},
					{"decimals", decimals},
				} {
					if bz, err = sjson.SetBytes(bz, field.path, field.value); err != nil {
						return err
					}
				}
				cmd.Println(string(bz))
			default:
				cmd.Printf("deployment: %s\naddress: %s\nname: %s\nsymbol: %s\ndecimals: %d\n",
					name, deployment.Address.Hex(), tokenName, symbol, decimals)
			}
			return nil
		},
	}

	cmd.Flags().String(flagOutput, outputText, "output format (text|json)")

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/EscanBE/valueiou/deploy"
)

const flagTags = "tags"

func DeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deploy scripts against the selected network",
		Long:  "Run the deploy scripts against the selected network. Deployments on the in-process hardhat network are discarded when the command exits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx := getClientContext(cmd)

			n, err := connect(cmd.Context(), clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			defer n.Close()

			env, store, err := n.environment(clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}

			tags, err := cmd.Flags().GetStringSlice(flagTags)
			if err != nil {
				return err
			}
			if err := deploy.NewRegistry().Run(cmd.Context(), env, tags...); err != nil {
				return err
			}

			names, err := store.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				deployment, err := store.Get(name)
				if err != nil {
					return err
				}
				cmd.Printf("%s: %s\n", name, deployment.Address.Hex())
			}
			return nil
		},
	}

	cmd.Flags().StringSlice(flagTags, nil, "only run scripts with these tags, comma separated")

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/EscanBE/valueiou/chainutil"
)

const flagDecimals = "decimals"

func ConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert amounts between decimal and base units",
	}

	cmd.AddCommand(
		convertCmd("to-wei <amount>", "Expand a decimal amount to base units, eg. 1.5 to 1500000000000000000", toWei),
		convertCmd("from-wei <amount>", "Collapse base units to a decimal amount, eg. 1500000000000000000 to 1.5", chainutil.CollapseDecimals),
	)

	return cmd
}

// toWei only accepts amounts that have an integral value in base units.
func toWei(amount string, decimals uint8) (string, error) {
	wei, err := chainutil.ExpandDecimals(amount, decimals)
	if err != nil {
		return "", err
	}
	return wei.String(), nil
}

func convertCmd(use, short string, convert func(string, uint8) (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decimals, err := cmd.Flags().GetUint8(flagDecimals)
			if err != nil {
				return err
			}

			res, err := convert(args[0], decimals)
			if err != nil {
				return err
			}
			cmd.Println(res)
			return nil
		},
	}

	cmd.Flags().Uint8(flagDecimals, chainutil.DefaultDecimals, "number of decimals")

	return cmd
}

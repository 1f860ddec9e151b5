package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/EscanBE/valueiou/chainutil"
	iotypes "github.com/EscanBE/valueiou/types"
)

const (
	flagBlocks    = "blocks"
	flagTimestamp = "timestamp"
	flagForkURL   = "fork-url"
	flagForkBlock = "block"
)

func MineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine blocks on the selected network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx := getClientContext(cmd)

			blocks, err := cmd.Flags().GetInt(flagBlocks)
			if err != nil {
				return err
			}
			timestamp, err := cmd.Flags().GetUint64(flagTimestamp)
			if err != nil {
				return err
			}
			if timestamp > 0 && blocks != 1 {
				return errorsmod.Wrapf(iotypes.ErrInvalidTimestamp, "--%s mines a single block", flagTimestamp)
			}

			n, err := connect(cmd.Context(), clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			defer n.Close()

			if timestamp > 0 {
				err = chainutil.MineBlockTimestamp(cmd.Context(), n.rpc, timestamp)
			} else {
				err = chainutil.MineBlocks(cmd.Context(), n.rpc, blocks)
			}
			if err != nil {
				return err
			}

			number, err := chainutil.GetLatestBlockNumber(cmd.Context(), n.rpc)
			if err != nil {
				return err
			}
			cmd.Println("Latest block number:", number)
			return nil
		},
	}

	cmd.Flags().Int(flagBlocks, 1, "number of blocks to mine")
	cmd.Flags().Uint64(flagTimestamp, 0, "timestamp of the mined block, in seconds")

	return cmd
}

func ImpersonateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "impersonate <address> [<address>...]",
		Short: "Allow sending transactions from addresses without their keys, on nodes supporting it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx := getClientContext(cmd)

			addresses, err := parseAddresses(args)
			if err != nil {
				return err
			}

			n, err := connect(cmd.Context(), clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			defer n.Close()

			if err := chainutil.UnlockForkAddresses(cmd.Context(), n.rpc, addresses); err != nil {
				return err
			}
			for _, address := range addresses {
				cmd.Println("Impersonating", address.Hex())
			}
			return nil
		},
	}
}

func StopImpersonatingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop-impersonating <address>",
		Short: "Stop impersonating an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx := getClientContext(cmd)

			addresses, err := parseAddresses(args)
			if err != nil {
				return err
			}

			n, err := connect(cmd.Context(), clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			defer n.Close()

			if err := chainutil.LockForkAddress(cmd.Context(), n.rpc, addresses[0]); err != nil {
				return err
			}
			cmd.Println("Stopped impersonating", addresses[0].Hex())
			return nil
		},
	}
}

func ForkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fork",
		Short: "Reset the selected network to a fork of another network at a block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx := getClientContext(cmd)
			fork := clientCtx.Config.Fork

			if cmd.Flags().Changed(flagForkBlock) {
				blockNumber, err := cmd.Flags().GetUint64(flagForkBlock)
				if err != nil {
					return err
				}
				fork.BlockNumber = blockNumber
			}
			if fork.URL == "" {
				return errorsmod.Wrapf(iotypes.ErrInvalidConfig, "fork url is required, use --%s or the fork.url config", flagForkURL)
			}

			n, err := connect(cmd.Context(), clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			defer n.Close()

			if err := chainutil.ForkBlockNumber(cmd.Context(), n.rpc, fork.URL, fork.BlockNumber); err != nil {
				return err
			}
			cmd.Printf("Forked %s at block %d\n", fork.URL, fork.BlockNumber)
			return nil
		},
	}

	cmd.Flags().String(flagForkURL, "", "JSON-RPC url of the network to fork")
	cmd.Flags().Uint64(flagForkBlock, 0, "block number to fork at")

	return cmd
}

func BlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block [latest | <height>]",
		Short: "Get a specific block header or the latest one, marshal to JSON and print out",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx := getClientContext(cmd)

			var reqHeight *big.Int
			if len(args) > 0 {
				reqHeightStr := strings.TrimSpace(strings.ToLower(args[0]))
				switch reqHeightStr {
				case "latest", "last", "newest", "":
				default:
					height, err := strconv.ParseUint(reqHeightStr, 10, 64)
					if err != nil {
						return fmt.Errorf("bad block height: %s", reqHeightStr)
					}
					reqHeight = new(big.Int).SetUint64(height)
				}
			}

			n, err := connect(cmd.Context(), clientCtx.Config, clientCtx.Logger)
			if err != nil {
				return err
			}
			defer n.Close()

			header, err := n.client.HeaderByNumber(cmd.Context(), reqHeight)
			if err != nil {
				return err
			}

			bz, err := json.MarshalIndent(header, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(bz))
			return nil
		},
	}
}

func parseAddresses(args []string) ([]common.Address, error) {
	addresses := make([]common.Address, len(args))
	for i, arg := range args {
		if !common.IsHexAddress(arg) {
			return nil, fmt.Errorf("invalid address: %s", arg)
		}
		addresses[i] = common.HexToAddress(arg)
	}
	return addresses, nil
}

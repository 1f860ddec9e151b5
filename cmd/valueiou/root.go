package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EscanBE/valueiou/config"
	"github.com/EscanBE/valueiou/constants"
)

type clientContextKey struct{}

// clientContext is what every sub-command runs with, built once the flags are parsed.
type clientContext struct {
	Config config.Config
	Logger log.Logger
	Viper  *viper.Viper
}

// DefaultHome is the default home directory, holding the config file and deployments.
var DefaultHome = func() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "." + constants.ApplicationName
	}
	return filepath.Join(userHome, "."+constants.ApplicationName)
}()

// NewRootCmd creates a new root command for our binary. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:          constants.ApplicationBinaryName,
		Short:        "Deploy and operate the ValueIOU token",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			clientCtx, err := readPersistentCommandFlags(cmd, v)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, clientContextKey{}, clientCtx))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(config.FlagHome, DefaultHome, "directory for config and deployments")
	rootCmd.PersistentFlags().String(config.FlagNetwork, constants.HardhatNetwork, "network to operate on")
	rootCmd.PersistentFlags().String(config.FlagLogLevel, config.DefaultLogLevel, "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String(config.FlagLogFormat, config.DefaultLogFormat, "log format (plain|json)")
	rootCmd.PersistentFlags().String(config.FlagDeploymentsDir, "", "directory of deployment records, defaults to <home>/deployments")
	rootCmd.PersistentFlags().String(config.FlagArtifactsDir, "", "directory of hardhat artifacts used before the built-in ones")

	rootCmd.AddCommand(
		DeployCmd(),
		InfoCmd(),
		NodeCmd(),
		MineCmd(),
		ImpersonateCmd(),
		StopImpersonatingCmd(),
		ForkCmd(),
		BlockCmd(),
		ConvertCmd(),
		ConfigCmd(),
	)

	return rootCmd
}

func readPersistentCommandFlags(cmd *cobra.Command, v *viper.Viper) (*clientContext, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if forkURL := cmd.Flags().Lookup(flagForkURL); forkURL != nil {
		if err := v.BindPFlag(config.FlagForkURL, forkURL); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(constants.ViperEnvPrefix)
	v.SetEnvKeyReplacer(config.EnvKeyReplacer)
	v.AutomaticEnv()

	v.SetConfigName(config.ConfigFileName)
	v.AddConfigPath(v.GetString(config.FlagHome))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg, err := config.GetConfig(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return &clientContext{
		Config: cfg,
		Logger: logger,
		Viper:  v,
	}, nil
}

func getClientContext(cmd *cobra.Command) *clientContext {
	if clientCtx, ok := cmd.Context().Value(clientContextKey{}).(*clientContext); ok {
		return clientCtx
	}
	panic("client context not set, PersistentPreRunE did not run")
}

package main

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/EscanBE/valueiou/config"
)

type printedNetwork struct {
	URL      string   `json:"url,omitempty"`
	Accounts []string `json:"accounts"`
}

type printedConfig struct {
	Home           string                    `json:"home"`
	Network        string                    `json:"network"`
	Networks       map[string]printedNetwork `json:"networks"`
	DeploymentsDir string                    `json:"deployments-dir"`
	ArtifactsDir   string                    `json:"artifacts-dir,omitempty"`
	Fork           struct {
		URL         string `json:"url,omitempty"`
		BlockNumber uint64 `json:"block-number"`
	} `json:"fork"`
	LogLevel  string `json:"log-level"`
	LogFormat string `json:"log-format"`
}

func ConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML, with account addresses instead of keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getClientContext(cmd).Config

			printed, err := newPrintedConfig(cfg)
			if err != nil {
				return err
			}

			bz, err := yaml.Marshal(printed)
			if err != nil {
				return err
			}
			cmd.Print(string(bz))
			return nil
		},
	}
}

func newPrintedConfig(cfg config.Config) (*printedConfig, error) {
	printed := &printedConfig{
		Home:           cfg.Home,
		Network:        cfg.Network,
		Networks:       make(map[string]printedNetwork, len(cfg.Networks)),
		DeploymentsDir: cfg.DeploymentsDir,
		ArtifactsDir:   cfg.ArtifactsDir,
		LogLevel:       cfg.LogLevel,
		LogFormat:      cfg.LogFormat,
	}
	printed.Fork.URL = cfg.Fork.URL
	printed.Fork.BlockNumber = cfg.Fork.BlockNumber

	for name, network := range cfg.Networks {
		keys, err := network.Keys()
		if err != nil {
			return nil, err
		}
		accounts := make([]string, len(keys))
		for i, key := range keys {
			accounts[i] = crypto.PubkeyToAddress(key.PublicKey).Hex()
		}
		printed.Networks[name] = printedNetwork{URL: network.URL, Accounts: accounts}
	}
	return printed, nil
}

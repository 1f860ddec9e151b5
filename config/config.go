package config

import (
	"crypto/ecdsa"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/EscanBE/valueiou/constants"
	"github.com/EscanBE/valueiou/devchain"
	iotypes "github.com/EscanBE/valueiou/types"
	"github.com/EscanBE/valueiou/utils"
)

// Config keys, also used as flag names.
const (
	FlagHome           = "home"
	FlagNetwork        = "network"
	FlagLogLevel       = "log-level"
	FlagLogFormat      = "log-format"
	FlagDeploymentsDir = "deployments-dir"
	FlagArtifactsDir   = "artifacts-dir"
	FlagForkURL        = "fork.url"
	FlagForkBlock      = "fork.block-number"

	KeyNetworks = "networks"
)

// EnvKeyReplacer maps config keys to environment variable names, eg. fork.block-number to FORK_BLOCK_NUMBER.
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

const (
	LogFormatPlain = "plain"
	LogFormatJSON  = "json"

	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatPlain

	// ConfigFileName is looked up in the home directory, any extension viper supports.
	ConfigFileName = "config"
)

// NetworkConfig describes how to reach a network and who signs there.
type NetworkConfig struct {
	// URL is the JSON-RPC endpoint. Empty for the in-process network.
	URL string

	// Accounts are hex private keys, the first one is the deployer.
	Accounts []string
}

// InProcess reports whether the network is a devchain started by the command itself.
func (n NetworkConfig) InProcess() bool {
	return n.URL == ""
}

// Keys parses the account private keys.
func (n NetworkConfig) Keys() ([]*ecdsa.PrivateKey, error) {
	keys := make([]*ecdsa.PrivateKey, len(n.Accounts))
	for i, hexKey := range n.Accounts {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "account %d: %v", i, err)
		}
		keys[i] = key
	}
	return keys, nil
}

// ForkConfig is the network forked by the fork command.
type ForkConfig struct {
	URL         string
	BlockNumber uint64
}

// Config is the configuration of the valueiou command.
type Config struct {
	Home           string
	Network        string
	Networks       map[string]NetworkConfig
	DeploymentsDir string

	// ArtifactsDir holds hardhat artifacts used before the built-in ones. Optional.
	ArtifactsDir string

	Fork      ForkConfig
	LogLevel  string
	LogFormat string
}

// DefaultNetworks returns the built-in networks.
func DefaultNetworks() map[string]NetworkConfig {
	return map[string]NetworkConfig{
		constants.HardhatNetwork: {},
		constants.LocalhostNetwork: {
			URL:      constants.DefaultLocalhostURL,
			Accounts: devchain.DefaultAccountKeyHexes(),
		},
	}
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig(home string) Config {
	return Config{
		Home:           home,
		Network:        constants.HardhatNetwork,
		Networks:       DefaultNetworks(),
		DeploymentsDir: filepath.Join(home, "deployments"),
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// GetConfig reads the configuration from viper on top of the defaults.
func GetConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig(v.GetString(FlagHome))

	cfg.Network = utils.FirstNonZero(v.GetString(FlagNetwork), cfg.Network)
	cfg.DeploymentsDir = utils.FirstNonZero(v.GetString(FlagDeploymentsDir), cfg.DeploymentsDir)
	cfg.ArtifactsDir = v.GetString(FlagArtifactsDir)
	cfg.LogLevel = utils.FirstNonZero(v.GetString(FlagLogLevel), cfg.LogLevel)
	cfg.LogFormat = utils.FirstNonZero(v.GetString(FlagLogFormat), cfg.LogFormat)

	cfg.Fork.URL = v.GetString(FlagForkURL)
	blockNumber, err := cast.ToUint64E(v.Get(FlagForkBlock))
	if err != nil {
		return cfg, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "%s: %v", FlagForkBlock, err)
	}
	cfg.Fork.BlockNumber = blockNumber

	if !v.IsSet(KeyNetworks) {
		return cfg, nil
	}
	networks, err := cast.ToStringMapE(v.Get(KeyNetworks))
	if err != nil {
		return cfg, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "%s: %v", KeyNetworks, err)
	}
	for name, raw := range networks {
		fields, err := cast.ToStringMapE(raw)
		if err != nil {
			return cfg, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "network %s: %v", name, err)
		}

		network := cfg.Networks[name]
		if url, found := fields["url"]; found {
			network.URL = cast.ToString(url)
		}
		if accounts, found := fields["accounts"]; found {
			if network.Accounts, err = cast.ToStringSliceE(accounts); err != nil {
				return cfg, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "network %s accounts: %v", name, err)
			}
		}
		cfg.Networks[name] = network
	}

	return cfg, nil
}

// Validate checks the configuration of the selected network and logger.
func (c Config) Validate() error {
	network, err := c.NetworkConfig(c.Network)
	if err != nil {
		return err
	}
	if !network.InProcess() && len(network.Accounts) == 0 {
		return errorsmod.Wrapf(iotypes.ErrInvalidConfig, "network %s has no accounts", c.Network)
	}
	if _, err := network.Keys(); err != nil {
		return err
	}
	if !network.InProcess() && c.DeploymentsDir == "" {
		return errorsmod.Wrap(iotypes.ErrInvalidConfig, "deployments dir is required for persistent networks")
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errorsmod.Wrapf(iotypes.ErrInvalidConfig, "log level: %v", err)
	}
	switch c.LogFormat {
	case LogFormatPlain, LogFormatJSON:
	default:
		return errorsmod.Wrapf(iotypes.ErrInvalidConfig, "log format must be %s or %s, got %q", LogFormatPlain, LogFormatJSON, c.LogFormat)
	}
	return nil
}

// NetworkConfig returns the configuration of network name.
func (c Config) NetworkConfig(name string) (NetworkConfig, error) {
	network, found := c.Networks[name]
	if !found {
		return NetworkConfig{}, errorsmod.Wrapf(iotypes.ErrUnknownNetwork, "%s, known networks: %s", name, strings.Join(c.NetworkNames(), ", "))
	}
	return network, nil
}

// NetworkNames returns the configured network names, sorted.
func (c Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Logger builds the logger described by the configuration, writing to w.
func (c Config) Logger(w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "log level: %v", err)
	}

	opts := []log.Option{log.LevelOption(level)}
	if c.LogFormat == LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}

func (c Config) String() string {
	return fmt.Sprintf("network=%s deployments=%s artifacts=%s", c.Network, c.DeploymentsDir, c.ArtifactsDir)
}

package constants

const (
	// ApplicationName is the name of this tool.
	ApplicationName = "valueiou"

	// ApplicationBinaryName is the name of the compiled binary.
	ApplicationBinaryName = "valueiou"

	// ViperEnvPrefix is the prefix of environment variables overriding config keys.
	ViperEnvPrefix = "VALUEIOU"
)

const (
	// HardhatNetwork is the built-in in-process network. Deployments made there are not persisted.
	HardhatNetwork = "hardhat"

	// LocalhostNetwork is a devchain node served on the local machine.
	LocalhostNetwork = "localhost"

	// DefaultLocalhostURL is where the node command listens by default.
	DefaultLocalhostURL = "http://127.0.0.1:8545"

	// DevChainID is the EIP-155 chain id of the local simulated chain.
	DevChainID = 1337
)

const (
	// ValueIOUContractName is the artifact and deployment name of the IOU token.
	ValueIOUContractName = "ValueIOU"

	// ValueIOUTag selects the ValueIOU deploy script.
	ValueIOUTag = "ValueIOU"

	ValueIOUName     = "mvStablesBond"
	ValueIOUSymbol   = "mvUSDBond"
	ValueIOUDecimals = uint8(18)
)

// DeployerAccount is the named account used to deploy and initialize contracts.
const DeployerAccount = "deployer"

package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the codespace of every error registered by this module.
const Codespace = "valueiou"

const (
	codeErrDeploymentNotFound = uint32(iota) + 2
	codeErrArtifactNotFound
	codeErrInvalidArtifact
	codeErrTransactionFailed
	codeErrFractionalAmount
	codeErrInvalidAmount
	codeErrUnknownNetwork
	codeErrUnknownAccount
	codeErrForkingUnsupported
	codeErrInvalidTimestamp
	codeErrInvalidConfig
	codeErrInvalidScript
)

var (
	// ErrDeploymentNotFound returns an error if no deployment record exists for the requested name
	ErrDeploymentNotFound = errorsmod.Register(Codespace, codeErrDeploymentNotFound, "deployment not found")

	// ErrArtifactNotFound returns an error if no artifact source can provide the requested contract
	ErrArtifactNotFound = errorsmod.Register(Codespace, codeErrArtifactNotFound, "artifact not found")

	// ErrInvalidArtifact returns an error if an artifact is missing its ABI or bytecode
	ErrInvalidArtifact = errorsmod.Register(Codespace, codeErrInvalidArtifact, "invalid artifact")

	// ErrTransactionFailed returns an error if a mined transaction has a failed receipt status
	ErrTransactionFailed = errorsmod.Register(Codespace, codeErrTransactionFailed, "transaction failed")

	// ErrFractionalAmount returns an error if a decimal expansion does not produce an integer
	ErrFractionalAmount = errorsmod.Register(Codespace, codeErrFractionalAmount, "amount has more fractional digits than decimals")

	// ErrInvalidAmount returns an error if an amount is not a base-10 decimal number
	ErrInvalidAmount = errorsmod.Register(Codespace, codeErrInvalidAmount, "invalid decimal amount")

	// ErrUnknownNetwork returns an error if the selected network is not configured
	ErrUnknownNetwork = errorsmod.Register(Codespace, codeErrUnknownNetwork, "unknown network")

	// ErrUnknownAccount returns an error if a named account is not configured
	ErrUnknownAccount = errorsmod.Register(Codespace, codeErrUnknownAccount, "unknown account")

	// ErrForkingUnsupported returns an error if the local chain is asked to fork a remote network
	ErrForkingUnsupported = errorsmod.Register(Codespace, codeErrForkingUnsupported, "forking is not supported by the local chain")

	// ErrInvalidTimestamp returns an error if a block is mined with a timestamp not after its parent
	ErrInvalidTimestamp = errorsmod.Register(Codespace, codeErrInvalidTimestamp, "invalid block timestamp")

	// ErrInvalidConfig returns an error if the configuration fails validation
	ErrInvalidConfig = errorsmod.Register(Codespace, codeErrInvalidConfig, "invalid config")

	// ErrInvalidScript returns an error if deploy scripts are misconfigured, eg. duplicated or with cyclic dependencies
	ErrInvalidScript = errorsmod.Register(Codespace, codeErrInvalidScript, "invalid deploy script")
)

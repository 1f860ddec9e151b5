package deploy

import (
	"context"

	"github.com/EscanBE/valueiou/constants"
	"github.com/EscanBE/valueiou/deployments"
)

// DeployValueIOUScriptName names the ValueIOU deploy script.
const DeployValueIOUScriptName = "001_deploy_valueiou"

// DeployValueIOU deploys ValueIOU from the deployer once and initializes it right after the first deployment.
func DeployValueIOU(ctx context.Context, env *deployments.Environment) error {
	deployer, err := env.Accounts.Get(constants.DeployerAccount)
	if err != nil {
		return err
	}

	res, err := env.Deployments.Deploy(ctx, constants.ValueIOUContractName, deployments.DeployOptions{
		Contract:              constants.ValueIOUContractName,
		From:                  deployer,
		SkipIfAlreadyDeployed: true,
		Log:                   true,
	})
	if err != nil {
		return err
	}
	if !res.NewlyDeployed {
		return nil
	}

	_, err = env.Deployments.Execute(
		ctx,
		constants.ValueIOUContractName,
		deployments.ExecuteOptions{From: deployer, Log: true},
		"initialize",
		constants.ValueIOUName, constants.ValueIOUSymbol, constants.ValueIOUDecimals,
	)
	return err
}

// Scripts returns the deploy scripts of the project.
func Scripts() []deployments.Script {
	return []deployments.Script{
		{
			Name: DeployValueIOUScriptName,
			Tags: []string{constants.ValueIOUTag},
			Func: DeployValueIOU,
		},
	}
}

// NewRegistry returns a registry holding Scripts.
func NewRegistry() *deployments.Registry {
	registry, err := deployments.NewRegistry(Scripts()...)
	if err != nil {
		panic(err)
	}
	return registry
}

package deploy_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EscanBE/valueiou/constants"
	"github.com/EscanBE/valueiou/contracts"
	"github.com/EscanBE/valueiou/deploy"
	"github.com/EscanBE/valueiou/deploytest"
)

var _ = Describe("ValueIOU", func() {
	var (
		ctx   context.Context
		env   *deploytest.Env
		token *contracts.ValueIOU
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		env, err = deploytest.Fixture(ctx, constants.ValueIOUTag)
		Expect(err).To(BeNil())

		deployment, err := env.Deployments.Get(constants.ValueIOUContractName)
		Expect(err).To(BeNil())

		token = contracts.NewValueIOU(deployment.Address, env.Client)
	})

	AfterEach(func() {
		Expect(env.Close()).To(Succeed())
	})

	Context("after the fixture", func() {
		It("should have the bond name", func() {
			name, err := token.Name(nil)
			Expect(err).To(BeNil())
			Expect(name).To(Equal("mvStablesBond"))
		})

		It("should have the bond symbol", func() {
			symbol, err := token.Symbol(nil)
			Expect(err).To(BeNil())
			Expect(symbol).To(Equal("mvUSDBond"))
		})

		It("should have 18 decimals", func() {
			decimals, err := token.Decimals(nil)
			Expect(err).To(BeNil())
			Expect(decimals).To(Equal(uint8(18)))
		})

		It("should be deployed by the deployer", func() {
			deployment, err := env.Deployments.Get(constants.ValueIOUContractName)
			Expect(err).To(BeNil())

			deployer, err := env.Accounts.Address(constants.DeployerAccount)
			Expect(err).To(BeNil())
			Expect(deployment.Receipt.From).To(Equal(deployer))
		})
	})

	Context("running the scripts again on the same network", func() {
		It("should neither deploy nor initialize again", func() {
			before, err := env.Client.BlockNumber(ctx)
			Expect(err).To(BeNil())
			first, err := env.Deployments.Get(constants.ValueIOUContractName)
			Expect(err).To(BeNil())

			Expect(deploy.NewRegistry().Run(ctx, env.Environment, constants.ValueIOUTag)).To(Succeed())

			after, err := env.Client.BlockNumber(ctx)
			Expect(err).To(BeNil())
			Expect(after).To(Equal(before), "no transaction should have been sent")

			second, err := env.Deployments.Get(constants.ValueIOUContractName)
			Expect(err).To(BeNil())
			Expect(second.Address).To(Equal(first.Address))
		})
	})

	Context("calling initialize on the deployed token", func() {
		It("should be rejected", func() {
			deployer, err := env.Accounts.Get(constants.DeployerAccount)
			Expect(err).To(BeNil())

			_, err = token.Initialize(deployer, "other", "OTH", 6)
			Expect(err).ToNot(BeNil(), "initialize must only succeed once")
		})
	})
})

var _ = Describe("Scripts", func() {
	It("should register the ValueIOU script under its tag", func() {
		plan, err := deploy.NewRegistry().Plan(constants.ValueIOUTag)
		Expect(err).To(BeNil())
		Expect(plan).To(HaveLen(1))
		Expect(plan[0].Name).To(Equal(deploy.DeployValueIOUScriptName))
	})
})

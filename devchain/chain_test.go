package devchain

import (
	"context"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/suite"

	"github.com/EscanBE/valueiou/constants"
	iotypes "github.com/EscanBE/valueiou/types"
	"github.com/EscanBE/valueiou/utils"
)

type ChainTestSuite struct {
	suite.Suite

	ctx    context.Context
	chain  *Chain
	client *ethclient.Client
}

func TestChainTestSuite(t *testing.T) {
	suite.Run(t, new(ChainTestSuite))
}

func (suite *ChainTestSuite) SetupTest() {
	chain, err := New(Config{})
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.chain = chain
	suite.client = ethclient.NewClient(chain.Client())
}

func (suite *ChainTestSuite) TearDownTest() {
	suite.client.Close()
	suite.Require().NoError(suite.chain.Close())
}

func (suite *ChainTestSuite) transferOpts(from Account) *bind.TransactOpts {
	opts, err := bind.NewKeyedTransactorWithChainID(from.Key, suite.chain.ChainID())
	suite.Require().NoError(err)
	opts.Context = suite.ctx
	return opts
}

func (suite *ChainTestSuite) sendValue(from Account, to common.Address, value *big.Int) *ethtypes.Transaction {
	nonce, err := suite.client.PendingNonceAt(suite.ctx, from.Address)
	suite.Require().NoError(err)

	head, err := suite.client.HeaderByNumber(suite.ctx, nil)
	suite.Require().NoError(err)

	tx := ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   suite.chain.ChainID(),
		Nonce:     nonce,
		GasTipCap: big.NewInt(1),
		GasFeeCap: new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
		Gas:       params.TxGas,
		To:        &to,
		Value:     value,
	})
	signed, err := suite.transferOpts(from).Signer(from.Address, tx)
	suite.Require().NoError(err)
	return signed
}

func (suite *ChainTestSuite) Test_Genesis() {
	chainID, err := suite.client.ChainID(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(int64(constants.DevChainID), chainID.Int64())

	number, err := suite.client.BlockNumber(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Zero(number)

	suite.Require().Len(suite.chain.Accounts(), len(defaultAccountKeys))
	for _, account := range suite.chain.Accounts() {
		balance, err := suite.client.BalanceAt(suite.ctx, account.Address, nil)
		suite.Require().NoError(err)
		suite.Require().Equal(DefaultBalance, balance)
	}

	var accounts []common.Address
	suite.Require().NoError(suite.chain.Client().CallContext(suite.ctx, &accounts, "eth_accounts"))
	suite.Require().Equal(suite.chain.Accounts()[0].Address, accounts[0])

	var version string
	suite.Require().NoError(suite.chain.Client().CallContext(suite.ctx, &version, "net_version"))
	suite.Require().Equal("1337", version)
}

func (suite *ChainTestSuite) Test_SendRawTransaction_AutoMine() {
	sender := suite.chain.Accounts()[0]
	receiver := suite.chain.Accounts()[1]
	value := big.NewInt(params.Ether)

	tx := suite.sendValue(sender, receiver.Address, value)
	suite.Require().NoError(suite.client.SendTransaction(suite.ctx, tx))

	receipt, err := bind.WaitMined(suite.ctx, suite.client, tx)
	suite.Require().NoError(err)
	suite.Require().Equal(ethtypes.ReceiptStatusSuccessful, receipt.Status)
	suite.Require().Equal(uint64(1), receipt.BlockNumber.Uint64())

	balance, err := suite.client.BalanceAt(suite.ctx, receiver.Address, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(new(big.Int).Add(DefaultBalance, value), balance)

	block, err := suite.client.BlockByNumber(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Require().Len(block.Transactions(), 1)
	suite.Require().Equal(tx.Hash(), block.Transactions()[0].Hash())

	suite.Run("fail - replayed nonce", func() {
		suite.Require().Error(suite.client.SendTransaction(suite.ctx, tx))
	})

	suite.Run("receipt carries sender, recipient and effective gas price", func() {
		var fields struct {
			From              common.Address  `json:"from"`
			To                *common.Address `json:"to"`
			ContractAddress   *common.Address `json:"contractAddress"`
			EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
		}
		suite.Require().NoError(suite.chain.Client().CallContext(suite.ctx, &fields, "eth_getTransactionReceipt", tx.Hash()))

		header, err := suite.client.HeaderByNumber(suite.ctx, receipt.BlockNumber)
		suite.Require().NoError(err)

		suite.Require().Equal(sender.Address, fields.From)
		suite.Require().NotNil(fields.To)
		suite.Require().Equal(receiver.Address, *fields.To)
		suite.Require().Nil(fields.ContractAddress)
		suite.Require().NotNil(fields.EffectiveGasPrice)
		suite.Require().Equal(new(big.Int).Add(header.BaseFee, big.NewInt(1)), fields.EffectiveGasPrice.ToInt())
	})

	suite.Run("block beyond head is null", func() {
		block := map[string]interface{}{"number": "0x0"}
		suite.Require().NoError(suite.chain.Client().CallContext(suite.ctx, &block, "eth_getBlockByNumber", hexutil.EncodeUint64(100), false))
		suite.Require().Nil(block)
	})

	suite.Run("unknown receipt is not found", func() {
		_, err := suite.client.TransactionReceipt(suite.ctx, common.HexToHash("0x01"))
		suite.Require().Error(err)
	})
}

func (suite *ChainTestSuite) Test_Mine() {
	suite.Require().NoError(suite.chain.Mine(nil))
	suite.Require().NoError(suite.chain.Mine(nil))
	suite.Require().Equal(uint64(2), suite.chain.LatestHeader().Number.Uint64())

	latest := suite.chain.LatestHeader().Time

	suite.Run("pass - mine at timestamp", func() {
		timestamp := latest + 1_000
		suite.Require().NoError(suite.chain.Mine(&timestamp))
		suite.Require().Equal(timestamp, suite.chain.LatestHeader().Time)
		suite.Require().Equal(uint64(3), suite.chain.LatestHeader().Number.Uint64())
	})

	suite.Run("fail - timestamp not after latest block", func() {
		suite.Require().ErrorIs(suite.chain.Mine(utils.Ptr(suite.chain.LatestHeader().Time)), iotypes.ErrInvalidTimestamp)
	})

	suite.Run("fail - timestamp far in the future", func() {
		suite.Require().ErrorIs(suite.chain.Mine(utils.Ptr(uint64(1)<<40)), iotypes.ErrInvalidTimestamp)
	})
}

func (suite *ChainTestSuite) Test_Reset() {
	sender := suite.chain.Accounts()[0]
	tx := suite.sendValue(sender, suite.chain.Accounts()[1].Address, big.NewInt(1))
	suite.Require().NoError(suite.client.SendTransaction(suite.ctx, tx))
	suite.chain.Impersonate(common.HexToAddress("0xdead"))

	suite.Require().NoError(suite.chain.Reset())

	suite.Require().Zero(suite.chain.LatestHeader().Number.Uint64())
	suite.Require().False(suite.chain.IsImpersonated(common.HexToAddress("0xdead")))

	nonce, err := suite.client.NonceAt(suite.ctx, sender.Address, nil)
	suite.Require().NoError(err)
	suite.Require().Zero(nonce)
}

func (suite *ChainTestSuite) Test_Impersonation() {
	address := common.HexToAddress("0x1234")
	suite.Require().False(suite.chain.IsImpersonated(address))

	suite.chain.Impersonate(address)
	suite.Require().True(suite.chain.IsImpersonated(address))

	suite.Require().True(suite.chain.StopImpersonating(address))
	suite.Require().False(suite.chain.IsImpersonated(address))
	suite.Require().False(suite.chain.StopImpersonating(address))
}

func (suite *ChainTestSuite) Test_Handler() {
	server := httptest.NewServer(suite.chain.Handler())
	defer server.Close()

	client, err := ethclient.Dial(server.URL)
	suite.Require().NoError(err)
	defer client.Close()

	suite.Require().NoError(suite.chain.Mine(nil))

	number, err := client.BlockNumber(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), number)

	head, err := client.HeaderByNumber(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(suite.chain.LatestHeader().Hash(), head.Hash())
}

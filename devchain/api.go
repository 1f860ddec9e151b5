package devchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/EscanBE/valueiou/chainutil"
	"github.com/EscanBE/valueiou/constants"
	iotypes "github.com/EscanBE/valueiou/types"
)

// TransactionArgs are the arguments of eth_call and eth_estimateGas.
type TransactionArgs struct {
	From                 *common.Address `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  *hexutil.Uint64 `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"`
	Data                 *hexutil.Bytes  `json:"data"`
	Input                *hexutil.Bytes  `json:"input"`
}

func (args TransactionArgs) toCallMsg() ethereum.CallMsg {
	var msg ethereum.CallMsg
	if args.From != nil {
		msg.From = *args.From
	}
	msg.To = args.To
	if args.Gas != nil {
		msg.Gas = uint64(*args.Gas)
	}
	msg.GasPrice = args.GasPrice.ToInt()
	msg.GasFeeCap = args.MaxFeePerGas.ToInt()
	msg.GasTipCap = args.MaxPriorityFeePerGas.ToInt()
	msg.Value = args.Value.ToInt()
	if args.Input != nil {
		msg.Data = *args.Input
	} else if args.Data != nil {
		msg.Data = *args.Data
	}
	return msg
}

func isPending(blockNrOrHash *rpc.BlockNumberOrHash) bool {
	if blockNrOrHash == nil {
		return false
	}
	number, ok := blockNrOrHash.Number()
	return ok && number == rpc.PendingBlockNumber
}

// ethAPI serves the eth namespace subset used by go-ethereum clients and bindings.
type ethAPI struct {
	chain *Chain
}

func (api *ethAPI) ChainId() *hexutil.Big { //nolint:revive,stylecheck
	return (*hexutil.Big)(api.chain.ChainID())
}

func (api *ethAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.chain.LatestHeader().Number.Uint64())
}

func (api *ethAPI) Accounts() []common.Address {
	addresses := make([]common.Address, len(api.chain.accounts))
	for i, account := range api.chain.accounts {
		addresses[i] = account.Address
	}
	return addresses
}

func (api *ethAPI) GetBlockByNumber(ctx context.Context, number rpc.BlockNumber, fullTx bool) (map[string]interface{}, error) {
	var block *ethtypes.Block
	err := api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		var blockNumber *big.Int
		if number >= 0 {
			if uint64(number) > backend.Blockchain().CurrentHeader().Number.Uint64() {
				return nil
			}
			blockNumber = big.NewInt(number.Int64())
		}
		var err error
		block, err = backend.BlockByNumber(ctx, blockNumber)
		return err
	})
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errorsmod.Wrapf(err, "failed to get block %d", number.Int64())
	}
	if block == nil {
		// unknown blocks are reported as null
		return nil, nil
	}
	return marshalBlock(block, fullTx, api.chain.ChainID())
}

func (api *ethAPI) GetCode(ctx context.Context, address common.Address, blockNrOrHash rpc.BlockNumberOrHash) (code hexutil.Bytes, err error) {
	err = api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		if isPending(&blockNrOrHash) {
			code, err = backend.PendingCodeAt(ctx, address)
		} else {
			code, err = backend.CodeAt(ctx, address, nil)
		}
		return err
	})
	return code, err
}

func (api *ethAPI) GetBalance(ctx context.Context, address common.Address, _ rpc.BlockNumberOrHash) (*hexutil.Big, error) {
	var balance *big.Int
	err := api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		var err error
		balance, err = backend.BalanceAt(ctx, address, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(balance), nil
}

func (api *ethAPI) GetTransactionCount(ctx context.Context, address common.Address, blockNrOrHash rpc.BlockNumberOrHash) (*hexutil.Uint64, error) {
	var nonce uint64
	err := api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		var err error
		if isPending(&blockNrOrHash) {
			nonce, err = backend.PendingNonceAt(ctx, address)
		} else {
			nonce, err = backend.NonceAt(ctx, address, nil)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return (*hexutil.Uint64)(&nonce), nil
}

func (api *ethAPI) Call(ctx context.Context, args TransactionArgs, blockNrOrHash *rpc.BlockNumberOrHash) (ret hexutil.Bytes, err error) {
	err = api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		if isPending(blockNrOrHash) {
			ret, err = backend.PendingCallContract(ctx, args.toCallMsg())
		} else {
			ret, err = backend.CallContract(ctx, args.toCallMsg(), nil)
		}
		return err
	})
	return ret, err
}

func (api *ethAPI) EstimateGas(ctx context.Context, args TransactionArgs, _ *rpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	var gas uint64
	err := api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		var err error
		gas, err = backend.EstimateGas(ctx, args.toCallMsg())
		return err
	})
	return hexutil.Uint64(gas), err
}

func (api *ethAPI) GasPrice(ctx context.Context) (*hexutil.Big, error) {
	var price *big.Int
	err := api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		var err error
		price, err = backend.SuggestGasPrice(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(price), nil
}

func (api *ethAPI) MaxPriorityFeePerGas(ctx context.Context) (*hexutil.Big, error) {
	var tip *big.Int
	err := api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		var err error
		tip, err = backend.SuggestGasTipCap(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(tip), nil
}

func (api *ethAPI) SendRawTransaction(ctx context.Context, input hexutil.Bytes) (common.Hash, error) {
	tx := new(ethtypes.Transaction)
	if err := tx.UnmarshalBinary(input); err != nil {
		return common.Hash{}, fmt.Errorf("failed to decode transaction: %w", err)
	}
	if err := api.chain.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// GetTransactionReceipt returns the receipt with the sender, recipient and effective gas price added.
func (api *ethAPI) GetTransactionReceipt(ctx context.Context, hash common.Hash) (map[string]interface{}, error) {
	var receipt *ethtypes.Receipt
	var tx *ethtypes.Transaction
	var header *ethtypes.Header
	err := api.chain.withBackend(func(backend *backends.SimulatedBackend) error {
		var err error
		receipt, err = backend.TransactionReceipt(ctx, hash)
		if err != nil || receipt == nil {
			return err
		}
		if tx, _, err = backend.TransactionByHash(ctx, hash); err != nil {
			return errorsmod.Wrap(err, "failed to get transaction")
		}
		if header, err = backend.HeaderByHash(ctx, receipt.BlockHash); err != nil {
			return errorsmod.Wrapf(err, "failed to get block %s", receipt.BlockHash.Hex())
		}
		return nil
	})
	if errors.Is(err, ethereum.NotFound) || (err == nil && receipt == nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return marshalReceipt(receipt, tx, header, api.chain.ChainID())
}

// marshalReceipt renders a receipt the way eth_getTransactionReceipt returns it.
func marshalReceipt(receipt *ethtypes.Receipt, tx *ethtypes.Transaction, header *ethtypes.Header, chainID *big.Int) (map[string]interface{}, error) {
	from, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(chainID), tx)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "failed to recover sender of %s", tx.Hash().Hex())
	}

	res := *receipt
	if res.Logs == nil {
		res.Logs = []*ethtypes.Log{}
	}
	bz, err := json.Marshal(&res)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(bz, &fields); err != nil {
		return nil, err
	}

	fields["from"] = from
	fields["to"] = tx.To()
	if tx.To() != nil {
		fields["contractAddress"] = nil
	}
	fields["effectiveGasPrice"] = (*hexutil.Big)(effectiveGasPrice(tx, header.BaseFee))
	return fields, nil
}

// effectiveGasPrice is the price per gas the sender paid once the tx was included.
func effectiveGasPrice(tx *ethtypes.Transaction, baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return tx.GasPrice()
	}
	tip, err := tx.EffectiveGasTip(baseFee)
	if err != nil {
		return tx.GasFeeCap()
	}
	return tip.Add(tip, baseFee)
}

// marshalBlock renders a block the way eth_getBlockByNumber returns it.
func marshalBlock(block *ethtypes.Block, fullTx bool, chainID *big.Int) (map[string]interface{}, error) {
	bz, err := json.Marshal(block.Header())
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(bz, &fields); err != nil {
		return nil, err
	}

	fields["size"] = hexutil.Uint64(block.Size())
	fields["uncles"] = []common.Hash{}

	txs := block.Transactions()
	if !fullTx {
		hashes := make([]common.Hash, len(txs))
		for i, tx := range txs {
			hashes[i] = tx.Hash()
		}
		fields["transactions"] = hashes
		return fields, nil
	}

	signer := ethtypes.LatestSignerForChainID(chainID)
	rpcTxs := make([]map[string]interface{}, len(txs))
	for i, tx := range txs {
		txBz, err := json.Marshal(tx)
		if err != nil {
			return nil, err
		}
		var txFields map[string]interface{}
		if err := json.Unmarshal(txBz, &txFields); err != nil {
			return nil, err
		}
		if from, err := ethtypes.Sender(signer, tx); err == nil {
			txFields["from"] = from
		}
		txFields["blockHash"] = block.Hash()
		txFields["blockNumber"] = (*hexutil.Big)(block.Number())
		txFields["transactionIndex"] = hexutil.Uint64(i)
		rpcTxs[i] = txFields
	}
	fields["transactions"] = rpcTxs
	return fields, nil
}

type netAPI struct {
	chain *Chain
}

func (api *netAPI) Version() string {
	return api.chain.ChainID().String()
}

type web3API struct{}

func (api *web3API) ClientVersion() string {
	return constants.ApplicationName + "/devchain"
}

// timestampArg accepts a JSON number or a hex quantity.
type timestampArg uint64

func (t *timestampArg) UnmarshalJSON(input []byte) error {
	s := string(input)
	if strings.HasPrefix(s, `"`) {
		v, err := hexutil.DecodeUint64(strings.Trim(s, `"`))
		if err != nil {
			return err
		}
		*t = timestampArg(v)
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*t = timestampArg(v)
	return nil
}

type evmAPI struct {
	chain *Chain
}

// Mine implements evm_mine.
func (api *evmAPI) Mine(timestamp *timestampArg) (string, error) {
	var ts *uint64
	if timestamp != nil {
		v := uint64(*timestamp)
		ts = &v
	}
	if err := api.chain.Mine(ts); err != nil {
		return "", err
	}
	return "0", nil
}

type hardhatAPI struct {
	chain *Chain
}

func (api *hardhatAPI) ImpersonateAccount(address common.Address) bool {
	api.chain.Impersonate(address)
	return true
}

func (api *hardhatAPI) StopImpersonatingAccount(address common.Address) bool {
	api.chain.StopImpersonating(address)
	return true
}

// Reset implements hardhat_reset. Forking a remote network is not supported.
func (api *hardhatAPI) Reset(params *chainutil.ResetParams) (bool, error) {
	if params != nil && params.Forking != nil {
		return false, errorsmod.Wrapf(iotypes.ErrForkingUnsupported, "requested fork of %s", params.Forking.JSONRPCURL)
	}
	if err := api.chain.Reset(); err != nil {
		return false, err
	}
	return true, nil
}

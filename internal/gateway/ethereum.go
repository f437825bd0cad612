package gateway

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// Minimal ABI fragments for the ERC-20 staking token and the
// StakingRewards contract; only the methods the dashboard uses.
const (
	erc20ABI = `[
		{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
	]`

	stakingRewardsABI = `[
		{"name":"earned","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"stake","type":"function","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
		{"name":"withdraw","type":"function","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
		{"name":"getReward","type":"function","stateMutability":"nonpayable","inputs":[],"outputs":[]}
	]`
)

// EthereumGateway talks to the contracts over an RPC endpoint.
type EthereumGateway struct {
	client      *ethclient.Client
	token       *bind.BoundContract
	rewards     *bind.BoundContract
	rewardsAddr common.Address
	auth        *bind.TransactOpts
}

// NewEthereumGateway dials the RPC endpoint and binds the token and rewards
// contracts. All write operations are signed with the given key.
func NewEthereumGateway(rpcURL string, chainID int64, tokenAddr, rewardsAddr common.Address, key *ecdsa.PrivateKey) (*EthereumGateway, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial rpc endpoint %s", rpcURL)
	}

	tokenParsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc20 abi")
	}
	rewardsParsed, err := abi.JSON(strings.NewReader(stakingRewardsABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse staking rewards abi")
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		return nil, errors.Wrap(err, "create transactor")
	}

	return &EthereumGateway{
		client:      client,
		token:       bind.NewBoundContract(tokenAddr, tokenParsed, client, client, client),
		rewards:     bind.NewBoundContract(rewardsAddr, rewardsParsed, client, client, client),
		rewardsAddr: rewardsAddr,
		auth:        auth,
	}, nil
}

// Close releases the underlying RPC connection.
func (g *EthereumGateway) Close() {
	g.client.Close()
}

func (g *EthereumGateway) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	var out []interface{}
	if err := g.token.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", addr); err != nil {
		return nil, errors.Wrap(err, "call balanceOf")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (g *EthereumGateway) Allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	var out []interface{}
	if err := g.token.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, g.rewardsAddr); err != nil {
		return nil, errors.Wrap(err, "call allowance")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (g *EthereumGateway) Earned(ctx context.Context, addr common.Address) (*big.Int, error) {
	var out []interface{}
	if err := g.rewards.Call(&bind.CallOpts{Context: ctx}, &out, "earned", addr); err != nil {
		return nil, errors.Wrap(err, "call earned")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (g *EthereumGateway) Approve(ctx context.Context, amount *big.Int) (PendingTx, error) {
	tx, err := g.token.Transact(g.txOpts(ctx), "approve", g.rewardsAddr, amount)
	if err != nil {
		return nil, errors.Wrap(err, "send approve")
	}
	return &pendingTx{tx: tx, backend: g.client}, nil
}

func (g *EthereumGateway) Stake(ctx context.Context, amount *big.Int) (PendingTx, error) {
	tx, err := g.rewards.Transact(g.txOpts(ctx), "stake", amount)
	if err != nil {
		return nil, errors.Wrap(err, "send stake")
	}
	return &pendingTx{tx: tx, backend: g.client}, nil
}

func (g *EthereumGateway) Withdraw(ctx context.Context, amount *big.Int) (PendingTx, error) {
	tx, err := g.rewards.Transact(g.txOpts(ctx), "withdraw", amount)
	if err != nil {
		return nil, errors.Wrap(err, "send withdraw")
	}
	return &pendingTx{tx: tx, backend: g.client}, nil
}

func (g *EthereumGateway) GetReward(ctx context.Context) (PendingTx, error) {
	tx, err := g.rewards.Transact(g.txOpts(ctx), "getReward")
	if err != nil {
		return nil, errors.Wrap(err, "send getReward")
	}
	return &pendingTx{tx: tx, backend: g.client}, nil
}

// txOpts clones the keyed transactor with the call context attached.
func (g *EthereumGateway) txOpts(ctx context.Context) *bind.TransactOpts {
	opts := *g.auth
	opts.Context = ctx
	return &opts
}

type pendingTx struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

func (p *pendingTx) Hash() string {
	return p.tx.Hash().Hex()
}

func (p *pendingTx) Wait(ctx context.Context) (Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "wait for transaction")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return Receipt{}, errors.Errorf("transaction %s reverted", p.tx.Hash().Hex())
	}
	return Receipt{TxHash: receipt.TxHash.Hex()}, nil
}

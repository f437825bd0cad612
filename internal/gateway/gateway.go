// Package gateway exposes the staking and token contracts to the rest of the
// application. Reads return raw 18-decimal fixed-point integers; writes
// return a confirmation handle that resolves once the transaction is mined.
package gateway

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// tokenDecimals is the fixed-point scale of both the staking token and the
// reward token (standard ERC-20 18 decimals).
const tokenDecimals = 18

// Receipt identifies a confirmed on-chain transaction.
type Receipt struct {
	TxHash string
}

// PendingTx is the awaitable result of a submitted state-changing call.
type PendingTx interface {
	// Hash returns the transaction hash, known before confirmation.
	Hash() string
	// Wait blocks until the transaction is mined and returns its receipt.
	// A mined-but-reverted transaction is an error.
	Wait(ctx context.Context) (Receipt, error)
}

// Gateway is the boundary to the staking-rewards and token contracts.
type Gateway interface {
	// BalanceOf returns the user's staking-token balance in wei.
	BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error)
	// Allowance returns how much the rewards contract may transfer on the
	// owner's behalf, in wei.
	Allowance(ctx context.Context, owner common.Address) (*big.Int, error)
	// Earned returns the unclaimed reward owed to addr, in wei.
	Earned(ctx context.Context, addr common.Address) (*big.Int, error)

	// Approve authorizes the rewards contract to transfer amount wei.
	Approve(ctx context.Context, amount *big.Int) (PendingTx, error)
	// Stake deposits amount wei into the rewards contract.
	Stake(ctx context.Context, amount *big.Int) (PendingTx, error)
	// Withdraw removes amount wei of staked tokens.
	Withdraw(ctx context.Context, amount *big.Int) (PendingTx, error)
	// GetReward claims the caller's accrued reward.
	GetReward(ctx context.Context) (PendingTx, error)
}

// FromWei converts a fixed-point on-chain integer to a decimal amount.
func FromWei(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -tokenDecimals)
}

// ToWei converts a decimal token amount to its fixed-point representation.
func ToWei(d decimal.Decimal) *big.Int {
	return d.Shift(tokenDecimals).BigInt()
}

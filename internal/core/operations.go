package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stakeboard/internal/domain"
	"github.com/vadiminshakov/stakeboard/internal/gateway"
	"go.uber.org/zap"
)

const (
	msgConnectWallet       = "Please connect your wallet first"
	msgSelectToken         = "Please select a token"
	msgTokenInactive       = "This token is not available for staking"
	msgInvalidAmount       = "Please enter a valid amount"
	msgInsufficientBalance = "Insufficient token balance for staking"
	msgExceedsStaked       = "Withdrawal amount exceeds staked amount"
	msgLockedFunds         = "Cannot withdraw locked funds before unlock period"
	msgNoRewards           = "No rewards available to claim"

	msgStakeFailed    = "Failed to stake tokens. Please try again."
	msgWithdrawFailed = "Failed to withdraw tokens. Please try again."
	msgClaimFailed    = "Failed to claim rewards. Please try again."
)

// Stake stakes the amount in the staking input buffer against the selected
// token. Preconditions are checked synchronously before any remote call; the
// outcome is reported through the message fields, never as a returned error.
func (c *Core) Stake(ctx context.Context) bool {
	c.mu.Lock()

	if !c.session.Connected() {
		c.failLocked(msgConnectWallet)
		return false
	}
	addr, ok := c.session.Address()
	if !ok {
		c.failLocked(msgConnectWallet)
		return false
	}
	token, ok := c.catalog.ByID(c.selectedTokenID)
	if !ok {
		c.failLocked(msgSelectToken)
		return false
	}
	if !token.Active {
		c.failLocked(msgTokenInactive)
		return false
	}
	amount, err := parsePositiveAmount(c.stakingAmount)
	if err != nil {
		c.failLocked(msgInvalidAmount)
		return false
	}

	c.mu.Unlock()

	// the balance guard is still a precondition: it runs before the
	// loading flag is ever set
	if !c.session.Connected() {
		c.fail(msgConnectWallet)
		return false
	}
	balance, err := c.gw.BalanceOf(ctx, addr)
	if err != nil {
		c.failOp(err, msgStakeFailed)
		return false
	}
	if gateway.FromWei(balance).LessThan(amount) {
		c.fail(msgInsufficientBalance)
		return false
	}

	c.mu.Lock()
	c.loading = true
	c.errorMessage = ""
	c.successMessage = ""
	c.mu.Unlock()
	defer c.clearLoading()

	amountWei := gateway.ToWei(amount)
	allowance, err := c.gw.Allowance(ctx, addr)
	if err != nil {
		c.failOp(err, msgStakeFailed)
		return false
	}
	if allowance.Cmp(amountWei) < 0 {
		pending, err := c.gw.Approve(ctx, amountWei)
		if err != nil {
			c.failOp(err, msgStakeFailed)
			return false
		}
		if _, err := pending.Wait(ctx); err != nil {
			c.failOp(err, msgStakeFailed)
			return false
		}
	}

	pending, err := c.gw.Stake(ctx, amountWei)
	if err != nil {
		c.failOp(err, msgStakeFailed)
		return false
	}
	receipt, err := pending.Wait(ctx)
	if err != nil {
		c.failOp(err, msgStakeFailed)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.Connected() {
		c.logger.Warn("wallet disconnected while stake was confirming, leaving ledger untouched",
			zap.String("tx", receipt.TxHash))
		return false
	}

	c.applyStakeLocked(token, amount, time.Now())
	c.appendTransactionLocked(domain.TxTypeStake, amount, token.Symbol, domain.TxStatusCompleted, receipt.TxHash)
	c.successMessage = fmt.Sprintf("Successfully staked %s %s", amount.String(), token.Symbol)
	c.stakingAmount = ""

	c.logger.Info("stake confirmed",
		zap.String("token", token.Symbol),
		zap.String("amount", amount.String()),
		zap.String("tx", receipt.TxHash))
	return true
}

// Withdraw unstakes the amount in the withdraw input buffer from the selected
// token. The locked portion of the stake cannot be reached: only unlocked
// records are reduced, newest first.
func (c *Core) Withdraw(ctx context.Context) bool {
	c.mu.Lock()

	if !c.session.Connected() {
		c.failLocked(msgConnectWallet)
		return false
	}
	if _, ok := c.session.Address(); !ok {
		c.failLocked(msgConnectWallet)
		return false
	}
	token, ok := c.catalog.ByID(c.selectedTokenID)
	if !ok {
		c.failLocked(msgSelectToken)
		return false
	}
	amount, err := parsePositiveAmount(c.withdrawAmount)
	if err != nil {
		c.failLocked(msgInvalidAmount)
		return false
	}
	staked := c.tokenStakedAmountLocked()
	if amount.GreaterThan(staked) {
		c.failLocked(msgExceedsStaked)
		return false
	}
	locked := c.lockedAmountLocked(token.ID)
	if locked.IsPositive() && amount.GreaterThan(staked.Sub(locked)) {
		c.failLocked(msgLockedFunds)
		return false
	}

	c.loading = true
	c.errorMessage = ""
	c.successMessage = ""
	c.mu.Unlock()
	defer c.clearLoading()

	pending, err := c.gw.Withdraw(ctx, gateway.ToWei(amount))
	if err != nil {
		c.failOp(err, msgWithdrawFailed)
		return false
	}
	receipt, err := pending.Wait(ctx)
	if err != nil {
		c.failOp(err, msgWithdrawFailed)
		return false
	}

	// pick up the post-withdrawal reward figure before touching the ledger
	if err := c.Reconcile(ctx); err != nil {
		c.logger.Error("post-withdraw reconciliation failed", zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.Connected() {
		c.logger.Warn("wallet disconnected while withdrawal was confirming, leaving ledger untouched",
			zap.String("tx", receipt.TxHash))
		return false
	}

	c.reduceStakesLocked(token.ID, amount)
	c.appendTransactionLocked(domain.TxTypeWithdraw, amount, token.Symbol, domain.TxStatusCompleted, receipt.TxHash)
	c.successMessage = fmt.Sprintf("Successfully withdrew %s %s", amount.String(), token.Symbol)
	c.withdrawAmount = ""

	c.logger.Info("withdrawal confirmed",
		zap.String("token", token.Symbol),
		zap.String("amount", amount.String()),
		zap.String("tx", receipt.TxHash))
	return true
}

// ClaimRewards claims the accrued reward for the selected token, records the
// claim, zeroes the local reward figures and immediately reconciles once to
// pick up residual on-chain state.
func (c *Core) ClaimRewards(ctx context.Context) bool {
	c.mu.Lock()

	if !c.session.Connected() {
		c.failLocked(msgConnectWallet)
		return false
	}
	if _, ok := c.session.Address(); !ok {
		c.failLocked(msgConnectWallet)
		return false
	}
	token, ok := c.catalog.ByID(c.selectedTokenID)
	if !ok {
		c.failLocked(msgSelectToken)
		return false
	}
	if !c.tokenRewards.IsPositive() {
		c.failLocked(msgNoRewards)
		return false
	}

	c.loading = true
	c.errorMessage = ""
	c.successMessage = ""
	c.mu.Unlock()
	defer c.clearLoading()

	pending, err := c.gw.GetReward(ctx)
	if err != nil {
		c.failOp(err, msgClaimFailed)
		return false
	}
	receipt, err := pending.Wait(ctx)
	if err != nil {
		c.failOp(err, msgClaimFailed)
		return false
	}

	c.mu.Lock()

	if !c.session.Connected() {
		c.mu.Unlock()
		c.logger.Warn("wallet disconnected while claim was confirming, leaving ledger untouched",
			zap.String("tx", receipt.TxHash))
		return false
	}

	claimed := c.tokenRewards
	now := time.Now()

	c.rewardHistory = append(c.rewardHistory, domain.RewardClaim{
		ID:     uuid.New().String(),
		Date:   now,
		Amount: claimed,
		TxHash: receipt.TxHash,
		Status: domain.ClaimStatusCompleted,
	})
	c.persistRewardHistoryLocked()

	c.tokenRewards = decimal.Zero
	for i := range c.stakes {
		if c.stakes[i].TokenID == token.ID {
			c.stakes[i].Reward = decimal.Zero
			c.stakes[i].LastClaimed = now
		}
	}
	c.persistStakesLocked()

	c.appendTransactionLocked(domain.TxTypeReward, claimed, token.RewardSymbol, domain.TxStatusCompleted, receipt.TxHash)
	c.successMessage = fmt.Sprintf("Successfully claimed %s %s", claimed.StringFixed(4), token.RewardSymbol)
	c.mu.Unlock()

	c.logger.Info("rewards claimed",
		zap.String("token", token.Symbol),
		zap.String("amount", claimed.String()),
		zap.String("tx", receipt.TxHash))

	if err := c.Reconcile(ctx); err != nil {
		c.logger.Error("post-claim reconciliation failed", zap.Error(err))
	}
	return true
}

// failLocked records a precondition failure and releases the state lock.
func (c *Core) failLocked(msg string) {
	c.errorMessage = msg
	c.mu.Unlock()
}

func (c *Core) fail(msg string) {
	c.mu.Lock()
	c.errorMessage = msg
	c.mu.Unlock()
}

// failOp records a remote failure, preferring the underlying description.
func (c *Core) failOp(err error, fallback string) {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	c.logger.Error("operation failed", zap.Error(err))
	c.fail(msg)
}

func (c *Core) clearLoading() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func parsePositiveAmount(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive, got %s", d.String())
	}
	return d, nil
}

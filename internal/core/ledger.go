package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stakeboard/internal/domain"
	"go.uber.org/zap"
)

// applyStakeLocked merges amount into the existing unlocked record for the
// token or creates a new record. Lock-up tokens always create a locked record
// so the at-most-one-unlocked-record invariant holds.
func (c *Core) applyStakeLocked(token *domain.StakingToken, amount decimal.Decimal, now time.Time) {
	if !token.HasLockup() {
		for i := range c.stakes {
			if c.stakes[i].TokenID == token.ID && !c.stakes[i].Locked {
				c.stakes[i].Amount = c.stakes[i].Amount.Add(amount)
				c.persistStakesLocked()
				return
			}
		}
	}

	c.stakes = append(c.stakes, domain.NewStakeRecord(token.ID, amount, token.LockupDays, now))
	c.persistStakesLocked()
}

// reduceStakesLocked walks the token's unlocked records newest-first and
// subtracts amount from each until exhausted. Records whose amount reaches
// zero are removed, never retained. Locked records are untouched.
func (c *Core) reduceStakesLocked(tokenID string, amount decimal.Decimal) {
	remaining := amount
	for i := len(c.stakes) - 1; i >= 0; i-- {
		if remaining.IsZero() {
			break
		}
		rec := &c.stakes[i]
		if rec.TokenID != tokenID || rec.Locked {
			continue
		}
		if rec.Amount.LessThanOrEqual(remaining) {
			remaining = remaining.Sub(rec.Amount)
			c.stakes = append(c.stakes[:i], c.stakes[i+1:]...)
		} else {
			rec.Amount = rec.Amount.Sub(remaining)
			remaining = decimal.Zero
		}
	}
	c.persistStakesLocked()
}

// appendTransactionLocked appends to the bounded transaction log.
func (c *Core) appendTransactionLocked(txType domain.TxType, amount decimal.Decimal, token string, status domain.TxStatus, txHash string) {
	c.txSeq++
	c.transactions = append(c.transactions, domain.TransactionRecord{
		Seq:       c.txSeq,
		ID:        uuid.New().String(),
		Type:      txType,
		Amount:    amount,
		Token:     token,
		Timestamp: time.Now(),
		Status:    status,
		TxHash:    txHash,
	})
	if len(c.transactions) > transactionLogLimit {
		c.transactions = c.transactions[len(c.transactions)-transactionLogLimit:]
	}
}

// persistStakesLocked mirrors the stake collection to the store. A failed
// write is logged; the in-memory ledger stays authoritative.
func (c *Core) persistStakesLocked() {
	stakes := make([]domain.StakeRecord, len(c.stakes))
	copy(stakes, c.stakes)
	if err := c.store.SaveStakes(stakes); err != nil {
		c.logger.Error("failed to persist stakes", zap.Error(err))
	}
}

func (c *Core) persistRewardHistoryLocked() {
	claims := make([]domain.RewardClaim, len(c.rewardHistory))
	copy(claims, c.rewardHistory)
	if err := c.store.SaveRewardHistory(claims); err != nil {
		c.logger.Error("failed to persist reward history", zap.Error(err))
	}
}

// EstimateAccrued computes a local APY-based accrual estimate for the
// selected token's records since their last claim. It is advisory only and
// never replaces the authoritative figure from the contract.
func (c *Core) EstimateAccrued(now time.Time) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for i := range c.stakes {
		rec := &c.stakes[i]
		if rec.TokenID != c.selectedTokenID {
			continue
		}
		token, ok := c.catalog.ByID(rec.TokenID)
		if !ok {
			continue
		}
		days := decimal.NewFromFloat(now.Sub(rec.LastClaimed).Hours() / 24)
		if days.IsNegative() {
			continue
		}
		dailyRate := token.APY.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(365))
		total = total.Add(rec.Amount.Mul(dailyRate).Mul(days))
	}
	return total
}

// Summary is the aggregate view streamed to the dashboard.
type Summary struct {
	Connected        bool                 `json:"connected"`
	Address          string               `json:"address,omitempty"`
	SelectedTokenID  string               `json:"selected_token_id,omitempty"`
	TotalStaked      decimal.Decimal      `json:"total_staked"`
	TotalRewards     decimal.Decimal      `json:"total_rewards"`
	TokenStaked      decimal.Decimal      `json:"token_staked"`
	TokenRewards     decimal.Decimal      `json:"token_rewards"`
	EstimatedAccrued decimal.Decimal      `json:"estimated_accrued"`
	Stakes           []domain.StakeRecord `json:"stakes"`
	Loading          bool                 `json:"loading"`
	ErrorMessage     string               `json:"error_message,omitempty"`
	SuccessMessage   string               `json:"success_message,omitempty"`
}

// Summary builds the aggregate view of the current state.
func (c *Core) Summary() Summary {
	estimated := c.EstimateAccrued(time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		Connected:        c.session.Connected(),
		SelectedTokenID:  c.selectedTokenID,
		TotalRewards:     decimal.Zero,
		TotalStaked:      decimal.Zero,
		TokenStaked:      c.tokenStakedAmountLocked(),
		TokenRewards:     c.tokenRewards,
		EstimatedAccrued: estimated,
		Stakes:           c.stakesForTokenLocked(c.selectedTokenID),
		Loading:          c.loading,
		ErrorMessage:     c.errorMessage,
		SuccessMessage:   c.successMessage,
	}
	if addr, ok := c.session.Address(); ok {
		s.Address = addr.Hex()
	}
	for i := range c.stakes {
		s.TotalStaked = s.TotalStaked.Add(c.stakes[i].Amount)
		s.TotalRewards = s.TotalRewards.Add(c.stakes[i].Reward)
	}
	return s
}

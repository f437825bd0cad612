// Package core owns the user's stake ledger and reward history, derives the
// aggregate views served to the dashboard, and reconciles the locally tracked
// reward figure against the on-chain contract while a wallet is connected.
package core

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stakeboard/internal/domain"
	"github.com/vadiminshakov/stakeboard/internal/gateway"
	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is how often rewards are reconciled against the
	// contract while a wallet is connected.
	DefaultPollInterval = 30 * time.Second

	// transactionLogLimit caps the transaction log; oldest entries are evicted.
	transactionLogLimit = 50
)

// SessionState is the read side of the wallet session.
type SessionState interface {
	Connected() bool
	Address() (common.Address, bool)
}

// LedgerStore mirrors the ledger to durable storage.
type LedgerStore interface {
	SaveStakes([]domain.StakeRecord) error
	SaveRewardHistory([]domain.RewardClaim) error
	Load() ([]domain.StakeRecord, []domain.RewardClaim)
}

// Core is the stake ledger and reward reconciliation service. All exported
// methods are safe for concurrent use; state is guarded by a single mutex and
// remote calls are made outside of it, so a reconciliation tick may interleave
// with an operation at its suspension points.
type Core struct {
	logger  *zap.Logger
	session SessionState
	gw      gateway.Gateway
	store   LedgerStore
	catalog domain.Catalog

	pollInterval time.Duration

	pollMu      sync.Mutex
	stopPolling func()

	mu              sync.Mutex
	stakes          []domain.StakeRecord
	rewardHistory   []domain.RewardClaim
	transactions    []domain.TransactionRecord
	txSeq           uint64
	selectedTokenID string
	stakingAmount   string
	withdrawAmount  string
	loading         bool
	errorMessage    string
	successMessage  string
	tokenRewards    decimal.Decimal
}

// New hydrates the ledger from the store and returns a ready core.
func New(logger *zap.Logger, session SessionState, gw gateway.Gateway, store LedgerStore, catalog domain.Catalog, pollInterval time.Duration) *Core {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	stakes, claims := store.Load()
	logger.Info("ledger hydrated",
		zap.Int("stake_records", len(stakes)),
		zap.Int("reward_claims", len(claims)))

	return &Core{
		logger:        logger,
		session:       session,
		gw:            gw,
		store:         store,
		catalog:       catalog,
		pollInterval:  pollInterval,
		stakes:        stakes,
		rewardHistory: claims,
		tokenRewards:  decimal.Zero,
	}
}

// Catalog returns the static token catalog.
func (c *Core) Catalog() domain.Catalog {
	return c.catalog
}

// SelectToken sets the current token selection and clears pending inputs and
// transient messages. An unknown id is not an error; aggregates over the
// selection simply come back empty.
func (c *Core) SelectToken(tokenID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectedTokenID = tokenID
	c.stakingAmount = ""
	c.withdrawAmount = ""
	c.errorMessage = ""
	c.successMessage = ""
}

// SelectedTokenID returns the current selection, empty when none.
func (c *Core) SelectedTokenID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedTokenID
}

// SetStakingAmount sets the stake amount input buffer.
func (c *Core) SetStakingAmount(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stakingAmount = v
}

// SetWithdrawAmount sets the withdraw amount input buffer.
func (c *Core) SetWithdrawAmount(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.withdrawAmount = v
}

// Loading reports whether an operation is in flight.
func (c *Core) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ErrorMessage returns the last user-visible error, empty when none.
func (c *Core) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// SuccessMessage returns the last user-visible success note, empty when none.
func (c *Core) SuccessMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successMessage
}

// ClearMessages clears both transient messages.
func (c *Core) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = ""
	c.successMessage = ""
}

// TokenRewards returns the authoritative unclaimed reward figure.
func (c *Core) TokenRewards() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenRewards
}

// UserTotalStaked sums the staked amount over all records.
func (c *Core) UserTotalStaked() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for i := range c.stakes {
		total = total.Add(c.stakes[i].Amount)
	}
	return total
}

// UserTotalRewards sums the tracked reward over all records.
func (c *Core) UserTotalRewards() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for i := range c.stakes {
		total = total.Add(c.stakes[i].Reward)
	}
	return total
}

// StakesForSelected returns a copy of the records for the selected token.
func (c *Core) StakesForSelected() []domain.StakeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stakesForTokenLocked(c.selectedTokenID)
}

// TokenStakedAmount sums the staked amount within the current selection.
func (c *Core) TokenStakedAmount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenStakedAmountLocked()
}

// RewardsHistory returns a copy of the reward-claim log.
func (c *Core) RewardsHistory() []domain.RewardClaim {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.RewardClaim, len(c.rewardHistory))
	copy(out, c.rewardHistory)
	return out
}

// Transactions returns the transaction log, newest first.
func (c *Core) Transactions() []domain.TransactionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.TransactionRecord, 0, len(c.transactions))
	for i := len(c.transactions) - 1; i >= 0; i-- {
		out = append(out, c.transactions[i])
	}
	return out
}

// TransactionsAfter returns log entries with a sequence number greater than
// seq, in ascending order. Used by the dashboard stream to resume.
func (c *Core) TransactionsAfter(seq uint64) []domain.TransactionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []domain.TransactionRecord
	for i := range c.transactions {
		if c.transactions[i].Seq > seq {
			out = append(out, c.transactions[i])
		}
	}
	return out
}

func (c *Core) stakesForTokenLocked(tokenID string) []domain.StakeRecord {
	var out []domain.StakeRecord
	for i := range c.stakes {
		if c.stakes[i].TokenID == tokenID {
			out = append(out, c.stakes[i])
		}
	}
	return out
}

func (c *Core) tokenStakedAmountLocked() decimal.Decimal {
	total := decimal.Zero
	for i := range c.stakes {
		if c.stakes[i].TokenID == c.selectedTokenID {
			total = total.Add(c.stakes[i].Amount)
		}
	}
	return total
}

func (c *Core) lockedAmountLocked(tokenID string) decimal.Decimal {
	total := decimal.Zero
	for i := range c.stakes {
		if c.stakes[i].TokenID == tokenID && c.stakes[i].Locked {
			total = total.Add(c.stakes[i].Amount)
		}
	}
	return total
}

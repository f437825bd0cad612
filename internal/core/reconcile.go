package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stakeboard/internal/gateway"
	"github.com/vadiminshakov/stakeboard/internal/wallet"
	"go.uber.org/zap"
)

// Run drives the reconciliation scheduler from wallet session transitions:
// polling is armed on connect and disarmed on disconnect. It blocks until ctx
// is cancelled.
func (c *Core) Run(ctx context.Context, transitions <-chan wallet.Transition) error {
	defer c.disarmPolling()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tr, ok := <-transitions:
			if !ok {
				return nil
			}
			if tr.Connected {
				c.armPolling(ctx)
			} else {
				c.disarmPolling()
			}
		}
	}
}

// armPolling starts the reward polling loop. Any previously armed timer is
// cancelled first so duplicate connect signals never run two loops.
func (c *Core) armPolling(ctx context.Context) {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()

	if c.stopPolling != nil {
		c.stopPolling()
	}

	pollCtx, cancel := context.WithCancel(ctx)
	c.stopPolling = cancel

	c.logger.Info("reward polling armed", zap.Duration("interval", c.pollInterval))
	go c.pollLoop(pollCtx)
}

// disarmPolling stops the polling loop and resets the authoritative reward
// figure. Calling it with no timer armed is a no-op.
func (c *Core) disarmPolling() {
	c.pollMu.Lock()
	if c.stopPolling != nil {
		c.stopPolling()
		c.stopPolling = nil
		c.logger.Info("reward polling disarmed")
	}
	c.pollMu.Unlock()

	c.mu.Lock()
	c.tokenRewards = decimal.Zero
	c.mu.Unlock()
}

func (c *Core) pollLoop(ctx context.Context) {
	if err := c.Reconcile(ctx); err != nil {
		c.logger.Error("reward reconciliation failed", zap.Error(err))
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Reconcile(ctx); err != nil {
				// keep the previous figure, keep polling
				c.logger.Error("reward reconciliation failed", zap.Error(err))
			}
		}
	}
}

// Reconcile performs one reconciliation step: read the authoritative earned
// figure from the contract and project it onto the selected token's records.
// A disconnected wallet is a logged skip, not an error.
func (c *Core) Reconcile(ctx context.Context) error {
	if !c.session.Connected() {
		c.logger.Debug("skip reward reconciliation, wallet disconnected")
		return nil
	}
	addr, ok := c.session.Address()
	if !ok {
		c.logger.Debug("skip reward reconciliation, no wallet address")
		return nil
	}

	earned, err := c.gw.Earned(ctx, addr)
	if err != nil {
		return err
	}
	reward := gateway.FromWei(earned)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokenRewards = reward

	// All records of the selected token share one undifferentiated reward
	// pool; records of other tokens keep their last known figure.
	if c.selectedTokenID == "" {
		return nil
	}
	changed := false
	for i := range c.stakes {
		if c.stakes[i].TokenID == c.selectedTokenID {
			c.stakes[i].Reward = reward
			changed = true
		}
	}
	if changed {
		c.persistStakesLocked()
	}
	return nil
}

package core

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/stakeboard/internal/domain"
	"github.com/vadiminshakov/stakeboard/internal/gateway"
	"github.com/vadiminshakov/stakeboard/internal/wallet"
)

func TestReconcileSkipsWhenDisconnected(t *testing.T) {
	session := &stubSession{connected: false}
	gw := newStubGateway()
	c, _ := newTestCore(t, session, gw)

	require.NoError(t, c.Reconcile(context.Background()))

	earnedCalls, _, _, _, _ := gw.calls()
	require.Zero(t, earnedCalls)
}

func TestReconcileProjectsOntoSelectedToken(t *testing.T) {
	gw := newStubGateway()
	c, _ := newTestCore(t, connectedSession(), gw)

	now := time.Now()
	c.mu.Lock()
	c.stakes = []domain.StakeRecord{
		{TokenID: "1", Amount: decimal.NewFromInt(50), Timestamp: now, LastClaimed: now},
		{TokenID: "1", Amount: decimal.NewFromInt(10), Timestamp: now, Locked: true, LastClaimed: now},
		{TokenID: "2", Amount: decimal.NewFromInt(5), Timestamp: now, LastClaimed: now},
	}
	c.mu.Unlock()

	c.SelectToken("1")
	gw.setEarned(gateway.ToWei(decimal.RequireFromString("7.25")), nil)
	require.NoError(t, c.Reconcile(context.Background()))

	require.True(t, decimal.RequireFromString("7.25").Equal(c.TokenRewards()))
	for _, rec := range c.StakesForSelected() {
		require.True(t, decimal.RequireFromString("7.25").Equal(rec.Reward))
	}

	// records of other tokens keep their last known figure
	c.mu.Lock()
	for i := range c.stakes {
		if c.stakes[i].TokenID == "2" {
			require.True(t, c.stakes[i].Reward.IsZero())
		}
	}
	c.mu.Unlock()
}

func TestReconcileFailureRetainsPreviousFigure(t *testing.T) {
	gw := newStubGateway()
	c, _ := newTestCore(t, connectedSession(), gw)
	c.SelectToken("1")

	gw.setEarned(gateway.ToWei(decimal.RequireFromString("5")), nil)
	require.NoError(t, c.Reconcile(context.Background()))

	gw.setEarned(nil, errTest)
	require.Error(t, c.Reconcile(context.Background()))
	require.True(t, decimal.NewFromInt(5).Equal(c.TokenRewards()), "previous figure must be retained on failure")
}

func TestPollingLifecycle(t *testing.T) {
	gw := newStubGateway()
	session := connectedSession()
	c, _ := newTestCore(t, session, gw)
	gw.setEarned(gateway.ToWei(decimal.NewFromInt(1)), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transitions := make(chan wallet.Transition)
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, transitions)
	}()

	transitions <- wallet.Transition{Connected: true}
	require.Eventually(t, func() bool {
		earnedCalls, _, _, _, _ := gw.calls()
		return earnedCalls >= 2
	}, time.Second, 5*time.Millisecond, "connect must trigger an immediate reconcile and then ticks")
	require.True(t, decimal.NewFromInt(1).Equal(c.TokenRewards()))

	transitions <- wallet.Transition{Connected: false}
	require.Eventually(t, func() bool {
		return c.TokenRewards().IsZero()
	}, time.Second, 5*time.Millisecond, "disconnect must reset the reward figure")

	earnedBefore, _, _, _, _ := gw.calls()
	time.Sleep(50 * time.Millisecond)
	earnedAfter, _, _, _, _ := gw.calls()
	require.LessOrEqual(t, earnedAfter, earnedBefore+1, "polling must stop after disconnect")

	// a second disconnect with no timer armed is a no-op
	transitions <- wallet.Transition{Connected: false}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestDuplicateConnectDoesNotDoubleTick(t *testing.T) {
	gw := newStubGateway()
	c, _ := newTestCore(t, connectedSession(), gw)
	gw.setEarned(big.NewInt(0), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transitions := make(chan wallet.Transition)
	go c.Run(ctx, transitions) //nolint:errcheck

	transitions <- wallet.Transition{Connected: true}
	transitions <- wallet.Transition{Connected: true}

	// with a 10ms interval a doubled timer would roughly double the calls
	time.Sleep(105 * time.Millisecond)
	earnedCalls, _, _, _, _ := gw.calls()
	require.LessOrEqual(t, earnedCalls, 14, "duplicate connect must replace the timer, not add one")
	require.GreaterOrEqual(t, earnedCalls, 8)
}

func TestDisarmPollingIdempotent(t *testing.T) {
	c, _ := newTestCore(t, connectedSession(), newStubGateway())

	// never armed
	c.disarmPolling()
	c.disarmPolling()
	require.True(t, c.TokenRewards().IsZero())
}

package ledgerstore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/stakeboard/internal/domain"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, dir string) *Store {
	store, err := NewStore(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	now := time.Now().UTC().Truncate(time.Second)
	unlock := now.Add(30 * 24 * time.Hour)
	stakes := []domain.StakeRecord{
		{
			TokenID:     "2",
			Amount:      decimal.RequireFromString("100"),
			Timestamp:   now,
			Reward:      decimal.RequireFromString("1.25"),
			LastClaimed: now,
			Locked:      true,
			UnlockTime:  &unlock,
		},
		{
			TokenID:     "1",
			Amount:      decimal.RequireFromString("50"),
			Timestamp:   now,
			Reward:      decimal.Zero,
			LastClaimed: now,
		},
	}
	claims := []domain.RewardClaim{
		{
			ID:     "claim-1",
			Date:   now,
			Amount: decimal.RequireFromString("12.5"),
			TxHash: "0xabc",
			Status: domain.ClaimStatusCompleted,
		},
	}

	store := newTestStore(t, dir)
	require.NoError(t, store.SaveStakes(stakes))
	require.NoError(t, store.SaveRewardHistory(claims))
	require.NoError(t, store.Close())

	// a fresh instance hydrates an equal collection
	reopened := newTestStore(t, dir)
	gotStakes, gotClaims := reopened.Load()

	require.Len(t, gotStakes, 2)
	require.Equal(t, "2", gotStakes[0].TokenID)
	require.True(t, stakes[0].Amount.Equal(gotStakes[0].Amount))
	require.True(t, stakes[0].Reward.Equal(gotStakes[0].Reward))
	require.True(t, gotStakes[0].Locked)
	require.NotNil(t, gotStakes[0].UnlockTime)
	require.True(t, unlock.Equal(*gotStakes[0].UnlockTime))
	require.False(t, gotStakes[1].Locked)

	require.Len(t, gotClaims, 1)
	require.Equal(t, domain.ClaimStatusCompleted, gotClaims[0].Status)
	require.True(t, claims[0].Amount.Equal(gotClaims[0].Amount))
}

func TestStoreLastWriteWins(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)

	require.NoError(t, store.SaveStakes([]domain.StakeRecord{{TokenID: "1", Amount: decimal.NewFromInt(10)}}))
	require.NoError(t, store.SaveStakes([]domain.StakeRecord{{TokenID: "1", Amount: decimal.NewFromInt(75)}}))

	stakes, _ := store.Load()
	require.Len(t, stakes, 1)
	require.True(t, decimal.NewFromInt(75).Equal(stakes[0].Amount))
}

func TestStoreLoadEmpty(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	stakes, claims := store.Load()
	require.Empty(t, stakes)
	require.Empty(t, claims)
}

func TestStoreCorruptPayloadResetsToEmpty(t *testing.T) {
	dir := t.TempDir()

	// write garbage under the stakes key directly
	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "ledger_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	})
	require.NoError(t, err)
	require.NoError(t, wal.Write(1, stakesKey, []byte("{not json")))
	require.NoError(t, wal.Close())

	store := newTestStore(t, dir)
	stakes, claims := store.Load()
	require.Empty(t, stakes)
	require.Empty(t, claims)
}

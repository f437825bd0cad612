// Package ledgerstore persists the stake ledger and reward history in a WAL.
// The store is a mirror of the in-memory state, not a source of truth: every
// mutation appends the full serialized collection and hydration replays the
// log keeping the last payload per key.
package ledgerstore

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/stakeboard/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultDir       = "./wal/ledger"
	segmentThreshold = 1000
	maxSegments      = 100

	stakesKey        = "stakes"
	rewardHistoryKey = "reward_history"
)

// Store is a WAL-backed mirror of the stake ledger.
type Store struct {
	wal    *gowal.Wal
	mu     sync.Mutex
	logger *zap.Logger
}

// NewStore initializes the WAL in dir.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "ledger_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init ledger WAL")
	}

	return &Store{wal: wal, logger: logger}, nil
}

// SaveStakes writes the full stake-record collection.
func (s *Store) SaveStakes(stakes []domain.StakeRecord) error {
	if stakes == nil {
		stakes = []domain.StakeRecord{}
	}
	payload, err := json.Marshal(stakes)
	if err != nil {
		return errors.Wrap(err, "marshal stakes")
	}
	return s.write(stakesKey, payload)
}

// SaveRewardHistory writes the full reward-history collection.
func (s *Store) SaveRewardHistory(claims []domain.RewardClaim) error {
	if claims == nil {
		claims = []domain.RewardClaim{}
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return errors.Wrap(err, "marshal reward history")
	}
	return s.write(rewardHistoryKey, payload)
}

func (s *Store) write(key string, payload []byte) error {
	if s == nil || s.wal == nil {
		return errors.New("ledger store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// Load replays the WAL and returns the last persisted collections. Corrupt
// payloads are treated as absent: the affected collection comes back empty
// and the condition is logged, never returned as an error.
func (s *Store) Load() ([]domain.StakeRecord, []domain.RewardClaim) {
	stakes := []domain.StakeRecord{}
	claims := []domain.RewardClaim{}

	if s == nil || s.wal == nil {
		return stakes, claims
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stakesPayload, claimsPayload []byte
	for msg := range s.wal.Iterator() {
		switch msg.Key {
		case stakesKey:
			stakesPayload = msg.Value
		case rewardHistoryKey:
			claimsPayload = msg.Value
		}
	}

	if stakesPayload != nil {
		if err := json.Unmarshal(stakesPayload, &stakes); err != nil {
			s.logger.Warn("corrupt persisted stakes, resetting to empty", zap.Error(err))
			stakes = []domain.StakeRecord{}
		}
	}
	if claimsPayload != nil {
		if err := json.Unmarshal(claimsPayload, &claims); err != nil {
			s.logger.Warn("corrupt persisted reward history, resetting to empty", zap.Error(err))
			claims = []domain.RewardClaim{}
		}
	}

	return stakes, claims
}

// Close closes the underlying WAL.
func (s *Store) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("ledger store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}

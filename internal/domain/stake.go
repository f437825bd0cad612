package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StakeRecord is one ledger entry per (token, lock-cohort).
// At most one unlocked record exists per token; locked records are kept
// separate and never merged with unlocked ones.
type StakeRecord struct {
	TokenID     string          `json:"token_id"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	Reward      decimal.Decimal `json:"reward"`
	LastClaimed time.Time       `json:"last_claimed"`
	Locked      bool            `json:"locked"`
	UnlockTime  *time.Time      `json:"unlock_time,omitempty"`
}

// NewStakeRecord creates a ledger entry for a fresh stake. When the token
// defines a lock-up the record is locked until now + lockupDays.
func NewStakeRecord(tokenID string, amount decimal.Decimal, lockupDays int, now time.Time) StakeRecord {
	rec := StakeRecord{
		TokenID:     tokenID,
		Amount:      amount,
		Timestamp:   now,
		Reward:      decimal.Zero,
		LastClaimed: now,
	}
	if lockupDays > 0 {
		unlock := now.Add(time.Duration(lockupDays) * 24 * time.Hour)
		rec.Locked = true
		rec.UnlockTime = &unlock
	}
	return rec
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus tracks the lifecycle of a reward claim.
type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusCompleted ClaimStatus = "completed"
	ClaimStatusFailed    ClaimStatus = "failed"
)

// RewardClaim is an append-only record of one claimed reward. After creation
// only the status may transition (pending -> completed/failed).
type RewardClaim struct {
	ID     string          `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	TxHash string          `json:"tx_hash,omitempty"`
	Status ClaimStatus     `json:"status"`
}

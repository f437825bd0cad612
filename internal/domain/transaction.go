package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the kind of user-facing operation recorded in the transaction log.
type TxType string

const (
	TxTypeStake    TxType = "stake"
	TxTypeWithdraw TxType = "withdraw"
	TxTypeReward   TxType = "reward"
)

// TxStatus is the terminal state of a logged transaction.
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusCompleted TxStatus = "completed"
	TxStatusFailed    TxStatus = "failed"
)

// TransactionRecord is one entry of the bounded transaction log.
// Seq increases monotonically across the process lifetime so stream readers
// can resume from the last entry they saw.
type TransactionRecord struct {
	Seq       uint64          `json:"seq"`
	ID        string          `json:"id"`
	Type      TxType          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token"`
	Timestamp time.Time       `json:"timestamp"`
	Status    TxStatus        `json:"status"`
	TxHash    string          `json:"tx_hash,omitempty"`
}

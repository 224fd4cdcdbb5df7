package model

import (
	"time"

	"github.com/google/uuid"
)

// LedgerReason tags why money moved (or, for zero amounts, why an event
// was worth tracking on the ledger).
type LedgerReason string

const (
	ReasonAnte        LedgerReason = "ante"
	ReasonWin         LedgerReason = "win"
	ReasonMiss        LedgerReason = "miss"
	ReasonAmendFee    LedgerReason = "amend_fee"
	ReasonAdminAdjust LedgerReason = "admin_adjust"
	ReasonDpRule      LedgerReason = "dp_rule"
)

func (r LedgerReason) IsValid() bool {
	switch r {
	case ReasonAnte, ReasonWin, ReasonMiss, ReasonAmendFee, ReasonAdminAdjust, ReasonDpRule:
		return true
	}
	return false
}

// LedgerEntry is append-only. Negative amounts move money from a player
// into the pot, positive amounts award money to a player, zero amounts are
// bookkeeping. Balances are always derived by summing entries.
type LedgerEntry struct {
	Id            uuid.UUID
	GameId        uuid.UUID
	InningId      *uuid.UUID
	PlayerId      *uuid.UUID
	AmountDollars int64
	Reason        LedgerReason
	Note          *string
	CreatedAt     time.Time
}

func (LedgerEntry) TableName() string {
	return "ledger_entry"
}

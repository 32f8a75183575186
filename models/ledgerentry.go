package models

import (
	"errors"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/fin"
)

type LedgerEntryType string

const (
	EntryTypePremium    = LedgerEntryType("Premium")
	EntryTypeRenewal    = LedgerEntryType("Renewal")
	EntryTypeRefund     = LedgerEntryType("Refund")
	EntryTypePayout     = LedgerEntryType("Payout")
	EntryTypeDeposit    = LedgerEntryType("Deposit")
	EntryTypeWithdrawal = LedgerEntryType("Withdrawal")
	EntryTypeEmergency  = LedgerEntryType("Emergency")
)

var ValidLedgerEntryTypes = map[LedgerEntryType]struct{}{
	EntryTypePremium:    {},
	EntryTypeRenewal:    {},
	EntryTypeRefund:     {},
	EntryTypePayout:     {},
	EntryTypeDeposit:    {},
	EntryTypeWithdrawal: {},
	EntryTypeEmergency:  {},
}

// IsCredit is true for entry types that increase the pool balance
func (t LedgerEntryType) IsCredit() bool {
	switch t {
	case EntryTypePremium, EntryTypeRenewal, EntryTypeDeposit:
		return true
	}
	return false
}

type LedgerEntries []LedgerEntry

// LedgerEntry journals one movement of the payment asset in or out of the
// premium pool. Entries are written in the same transaction as the pool
// balance change and are never modified afterward, except to record when they
// were entered into the accounting system.
type LedgerEntry struct {
	ID            uuid.UUID       `db:"id"`
	EntryType     LedgerEntryType `db:"entry_type"`
	Amount        int64           `db:"amount" validate:"min=1"`
	AccountNumber string          `db:"account_number"`
	PolicyID      nulls.UUID      `db:"policy_id"`
	ClaimID       nulls.Int64     `db:"claim_id"`
	Description   string          `db:"description"`
	DateSubmitted time.Time       `db:"date_submitted"`
	DateEntered   nulls.Time      `db:"date_entered"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (le *LedgerEntry) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(le), nil
}

// account maps an entry type to its accounting system account number
func (t LedgerEntryType) account() string {
	switch t {
	case EntryTypePremium, EntryTypeRenewal, EntryTypeRefund:
		return domain.Env.PremiumsAccount
	case EntryTypePayout:
		return domain.Env.ClaimsAccount
	default:
		return domain.Env.PoolAccount
	}
}

// NewLedgerEntry builds an unsaved journal entry for a pool movement
func NewLedgerEntry(entryType LedgerEntryType, amount int64, policy *Policy, claim *Claim, description string) LedgerEntry {
	entry := LedgerEntry{
		EntryType:     entryType,
		Amount:        amount,
		AccountNumber: entryType.account(),
		Description:   description,
		DateSubmitted: domain.Clock.Now().UTC(),
	}
	if policy != nil {
		entry.PolicyID = nulls.NewUUID(policy.ID)
	}
	if claim != nil {
		entry.ClaimID = nulls.NewInt64(claim.ID)
	}
	return entry
}

// AllNotEntered loads the entries that have not yet been exported to the
// accounting system, oldest first.
func (le *LedgerEntries) AllNotEntered(tx *pop.Connection) error {
	err := tx.Where("date_entered IS NULL").Order("date_submitted asc").All(le)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// AllForMonth loads the entries submitted before the start of the given
// month's successor, i.e. everything through the end of that month, that have
// not been entered yet.
func (le *LedgerEntries) AllForMonth(tx *pop.Connection, firstDay time.Time) error {
	cutoff := domain.EndOfMonth(firstDay).AddDate(0, 0, 1)
	err := tx.Where("date_entered IS NULL AND date_submitted < ?", cutoff).
		Order("date_submitted asc").All(le)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// ToCsv exports the entries as an accounting batch. It errors if there is
// nothing to export.
func (le *LedgerEntries) ToCsv(batchDate time.Time) ([]byte, error) {
	if len(*le) == 0 {
		return nil, api.NewAppError(
			errors.New("no ledger entries to export"), api.ErrorLedgerNoEntries, api.CategoryNotFound)
	}

	batch := fin.NewBatch(fin.ProviderTypeSage, batchDate)

	for _, entry := range *le {
		amount := entry.Amount
		if !entry.EntryType.IsCredit() {
			amount = -amount
		}
		batch.AppendToBatch(fin.Transaction{
			Account:     entry.AccountNumber,
			Amount:      amount,
			Description: entry.Description,
			Reference:   string(entry.EntryType),
			Date:        entry.DateSubmitted,
		})
	}

	return batch.BatchToCSV(), nil
}

// MarkEntered stamps the entries as exported to the accounting system
func (le *LedgerEntries) MarkEntered(tx *pop.Connection) error {
	now := domain.Clock.Now().UTC()
	for i := range *le {
		(*le)[i].DateEntered = nulls.NewTime(now)
		if err := update(tx, &(*le)[i]); err != nil {
			return err
		}
	}
	return nil
}

package models

import (
	"fmt"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
)

// PremiumPool is the contract's reserve of the payment asset. A single row is
// created at initialization. Every balance change is journaled as a
// LedgerEntry in the same transaction.
type PremiumPool struct {
	ID        uuid.UUID `db:"id"`
	Balance   int64     `db:"balance" validate:"min=0"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (pp *PremiumPool) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(pp), nil
}

// GetPremiumPool loads the pool row, which exists once the contract has been
// initialized.
func GetPremiumPool(tx *pop.Connection) (PremiumPool, error) {
	var pool PremiumPool
	if err := tx.First(&pool); err != nil {
		return pool, appErrorFromDB(err, api.ErrorNotInitialized)
	}
	return pool, nil
}

func (pp *PremiumPool) credit(tx *pop.Connection, amount int64, entryType LedgerEntryType,
	policy *Policy, claim *Claim, description string) error {
	if amount < 1 {
		err := fmt.Errorf("pool credit amount %d must be positive", amount)
		return api.NewAppError(err, api.ErrorPoolAmount, api.CategoryUser)
	}

	pp.Balance += amount
	if err := update(tx, pp); err != nil {
		return err
	}

	entry := NewLedgerEntry(entryType, amount, policy, claim, description)
	return create(tx, &entry)
}

func (pp *PremiumPool) debit(tx *pop.Connection, amount int64, entryType LedgerEntryType,
	policy *Policy, claim *Claim, description string) error {
	if amount < 1 {
		err := fmt.Errorf("pool debit amount %d must be positive", amount)
		return api.NewAppError(err, api.ErrorPoolAmount, api.CategoryUser)
	}
	if amount > pp.Balance {
		err := fmt.Errorf("pool balance %d cannot cover %d", pp.Balance, amount)
		return api.NewAppError(err, api.ErrorPoolInsufficient, api.CategoryUser)
	}

	pp.Balance -= amount
	if err := update(tx, pp); err != nil {
		return err
	}

	entry := NewLedgerEntry(entryType, amount, policy, claim, description)
	return create(tx, &entry)
}

// AddToPool deposits reserve funds. Admin only.
func (pp *PremiumPool) AddToPool(tx *pop.Connection, actor User, amount int64) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireAdmin(actor); err != nil {
		return err
	}

	return pp.credit(tx, amount, EntryTypeDeposit, nil, nil,
		fmt.Sprintf("pool deposit by %s", actor.Name()))
}

// WithdrawFromPool removes reserve funds, bounded by the balance. Admin only.
func (pp *PremiumPool) WithdrawFromPool(tx *pop.Connection, actor User, amount int64) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireAdmin(actor); err != nil {
		return err
	}

	return pp.debit(tx, amount, EntryTypeWithdrawal, nil, nil,
		fmt.Sprintf("pool withdrawal by %s", actor.Name()))
}

// EmergencyWithdraw drains the entire pool balance and returns the amount
// removed. Draining an empty pool succeeds without writing a journal entry.
// Admin only.
func (pp *PremiumPool) EmergencyWithdraw(tx *pop.Connection, actor User) (int64, error) {
	config, err := GetConfig(tx)
	if err != nil {
		return 0, err
	}
	if err := config.requireAdmin(actor); err != nil {
		return 0, err
	}

	amount := pp.Balance
	if amount == 0 {
		return 0, nil
	}

	if err := pp.debit(tx, amount, EntryTypeEmergency, nil, nil,
		fmt.Sprintf("emergency pool withdrawal by %s", actor.Name())); err != nil {
		return 0, err
	}
	return amount, nil
}

// ConvertToAPI converts the pool to its API type
func (pp *PremiumPool) ConvertToAPI() api.PremiumPool {
	return api.PremiumPool{Balance: pp.Balance}
}

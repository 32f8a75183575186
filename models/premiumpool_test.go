package models

import (
	"github.com/silinternational/assetcover-api/api"
)

func (ms *ModelSuite) TestPoolDeposit() {
	admin, _ := CreateAdminFixture(ms.DB, 100)
	other := CreateUserFixtures(ms.DB, 1).Users[0]

	pool, err := GetPremiumPool(ms.DB)
	ms.NoError(err)

	err = pool.AddToPool(ms.DB, other, 1000)
	ms.AppErrorKey(err, api.ErrorAdminOnly)

	err = pool.AddToPool(ms.DB, admin, 0)
	ms.AppErrorKey(err, api.ErrorPoolAmount)

	ms.NoError(pool.AddToPool(ms.DB, admin, 1000))
	ms.EqualValues(1000, pool.Balance)

	var entries LedgerEntries
	ms.NoError(entries.AllNotEntered(ms.DB))
	ms.Len(entries, 1)
	ms.Equal(EntryTypeDeposit, entries[0].EntryType)
}

func (ms *ModelSuite) TestPoolWithdraw() {
	admin, config := CreateAdminFixture(ms.DB, 100)

	pool, err := GetPremiumPool(ms.DB)
	ms.NoError(err)
	ms.NoError(pool.AddToPool(ms.DB, admin, 1000))

	// the balance can never go negative
	err = pool.WithdrawFromPool(ms.DB, admin, 1001)
	ms.AppErrorKey(err, api.ErrorPoolInsufficient)

	ms.NoError(pool.WithdrawFromPool(ms.DB, admin, 400))
	ms.EqualValues(600, pool.Balance)

	// withdrawals are not gated by the pause flag
	ms.NoError(config.SetPaused(ms.DB, admin, true))
	ms.NoError(pool.WithdrawFromPool(ms.DB, admin, 100))
	ms.EqualValues(500, pool.Balance)
}

func (ms *ModelSuite) TestPoolEmergencyWithdraw() {
	admin, config := CreateAdminFixture(ms.DB, 100)
	other := CreateUserFixtures(ms.DB, 1).Users[0]

	pool, err := GetPremiumPool(ms.DB)
	ms.NoError(err)
	ms.NoError(pool.AddToPool(ms.DB, admin, 600))
	ms.NoError(config.SetPaused(ms.DB, admin, true))

	_, err = pool.EmergencyWithdraw(ms.DB, other)
	ms.AppErrorKey(err, api.ErrorAdminOnly)

	drained, err := pool.EmergencyWithdraw(ms.DB, admin)
	ms.NoError(err)
	ms.EqualValues(600, drained, "the drain must take the whole balance")
	ms.EqualValues(0, pool.Balance)

	// draining an empty pool succeeds and leaves no journal entry
	drained, err = pool.EmergencyWithdraw(ms.DB, admin)
	ms.NoError(err)
	ms.EqualValues(0, drained)

	var entries LedgerEntries
	ms.NoError(entries.AllNotEntered(ms.DB))
	ms.Len(entries, 2, "expected one deposit and one emergency entry")

	count, err := ms.DB.Where("entry_type = ?", EntryTypeEmergency).Count(LedgerEntry{})
	ms.NoError(err)
	ms.Equal(1, count, "the empty drain must not add a journal entry")

	fresh, err := GetPremiumPool(ms.DB)
	ms.NoError(err)
	ms.EqualValues(0, fresh.Balance)
}

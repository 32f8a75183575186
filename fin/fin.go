package fin

import (
	"fmt"
	"time"

	"github.com/silinternational/assetcover-api/domain"
)

const ProviderTypeSage = "sage"

// Transaction is one journal line. Amount is in minor units of the payment
// asset, positive for credits to the pool.
type Transaction struct {
	Account     string
	Amount      int64
	Description string
	Reference   string
	Date        time.Time
}

type Provider interface {
	AppendToBatch(Transaction)
	BatchToCSV() []byte
}

func NewBatch(providerType string, date time.Time) Provider {
	batchDesc := fmt.Sprintf("%s %s JE", date.Format("January 2006"), domain.Env.AppName)

	switch providerType {
	case ProviderTypeSage:
		return &Sage{
			Period:             getFiscalPeriod(int(date.Month())),
			Year:               date.Year(),
			JournalDescription: batchDesc,
			Transactions:       nil,
		}
	}
	panic("fin: invalid provider type")
}

func getFiscalPeriod(month int) int {
	return (month-domain.Env.FiscalStartMonth+12)%12 + 1
}

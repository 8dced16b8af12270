package salesreport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salesreports/internal/core/id"
	"salesreports/internal/core/types"
)

func TestCurrencySums_GetZeroForUnseen(t *testing.T) {
	sums := make(CurrencySums)
	assert.True(t, sums.Get("USD").IsZero())

	sums.add("USD", types.MustMoney("10.50"))
	sums.add("USD", types.MustMoney("4.50"))
	assert.True(t, sums.Get("USD").Equal(types.MustMoney("15.00")))
	assert.True(t, sums.Get("EUR").IsZero())
}

func TestGatewayCurrencySums_GetZeroForUnseen(t *testing.T) {
	g1, g2 := id.New(), id.New()
	sums := make(GatewayCurrencySums)

	// No allocation happens on read.
	assert.True(t, sums.Get(g1, "USD").IsZero())
	assert.Empty(t, sums)

	sums.add(g1, "USD", types.MustMoney("7.00"))
	assert.True(t, sums.Get(g1, "USD").Equal(types.MustMoney("7.00")))
	assert.True(t, sums.Get(g1, "EUR").IsZero())
	assert.True(t, sums.Get(g2, "USD").IsZero())
}

func TestOrderGatewaySums_GetZeroForUnseen(t *testing.T) {
	o1, g1 := id.New(), id.New()
	sums := make(OrderGatewaySums)

	assert.True(t, sums.Get(o1, g1).IsZero())
	assert.Empty(t, sums)

	sums.add(o1, g1, types.MustMoney("3.00"))
	sums.add(o1, g1, types.MustMoney("2.00"))
	assert.True(t, sums.Get(o1, g1).Equal(types.MustMoney("5.00")))
}

func TestFilter_Validate(t *testing.T) {
	valid := rangeFilter()
	assert.NoError(t, valid.Validate())

	sameDay := Filter{StartDate: date(2026, 8, 29), EndDate: date(2026, 8, 29)}
	assert.NoError(t, sameDay.Validate())

	assert.Error(t, Filter{EndDate: date(2026, 8, 31)}.Validate())
	assert.Error(t, Filter{StartDate: date(2026, 8, 1)}.Validate())
	assert.Error(t, Filter{StartDate: date(2026, 8, 31), EndDate: date(2026, 8, 1)}.Validate())
}

func TestFilter_RangeDays(t *testing.T) {
	sameDay := Filter{StartDate: date(2026, 8, 29), EndDate: date(2026, 8, 29)}
	assert.Equal(t, 1, sameDay.RangeDays())

	week := Filter{StartDate: date(2026, 8, 1), EndDate: date(2026, 8, 7)}
	assert.Equal(t, 7, week.RangeDays())
}

func TestWizardStart_Filter(t *testing.T) {
	customerID := id.New()
	start := WizardStart{
		StartDate:        date(2026, 8, 1),
		EndDate:          date(2026, 8, 31),
		CustomerID:       &customerID,
		DetailedPayments: true,
	}

	f := start.Filter()
	assert.Equal(t, start.StartDate, f.StartDate)
	assert.Equal(t, start.EndDate, f.EndDate)
	assert.Equal(t, &customerID, f.CustomerID)
	assert.Nil(t, f.ProductID)
	assert.True(t, f.DetailedPayments)
}

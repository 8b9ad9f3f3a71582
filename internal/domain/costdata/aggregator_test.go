package costdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
)

func costMap(pairs ...any) *entity.CostMap {
	m := entity.NewCostMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(float64))
	}
	return m
}

func account(name string, summary *entity.CostMap, total float64, months ...entity.MonthRecord) entity.AccountData {
	a := entity.AccountData{
		AccountName: name,
		Services:    summary.Keys(),
		Summary:     entity.Summary{Services: summary, TotalCost: total},
		MonthlyData: months,
		TotalCost:   total,
		DataRange:   entity.DataRange{MonthCount: len(months)},
	}
	if len(months) > 0 {
		a.DataRange.StartDate = months[0].Date
		a.DataRange.EndDate = months[len(months)-1].Date
	}
	return a
}

func month(date string, total float64, services *entity.CostMap) entity.MonthRecord {
	return entity.MonthRecord{Date: date, TotalCost: total, Services: services}
}

func devAndProd() []entity.AccountData {
	dev := account("dev", costMap("S3", 48.0), 48,
		month("2025-01-01", 20, costMap("S3", 20.0)),
		month("2025-02-01", 28, costMap("S3", 28.0)),
	)
	prod := account("prod", costMap("EC2", 50.0), 50,
		month("2025-01-01", 50, costMap("EC2", 50.0)),
	)
	return []entity.AccountData{dev, prod}
}

func TestAggregateMultiAccountData(t *testing.T) {
	agg := AggregateMultiAccountData(devAndProd())

	t.Run("monthly trends fill missing months with zero", func(t *testing.T) {
		require.Len(t, agg.MonthlyTrends, 2)

		jan := agg.MonthlyTrends[0]
		assert.Equal(t, "2025-01-01", jan.Date)
		assert.Equal(t, 70.0, jan.TotalCost)
		assert.Equal(t, 20.0, jan.AccountCost("dev"))
		assert.Equal(t, 50.0, jan.AccountCost("prod"))
		assert.True(t, costMap("S3", 20.0, "EC2", 50.0).Equal(jan.ServiceBreakdown))

		feb := agg.MonthlyTrends[1]
		assert.Equal(t, 28.0, feb.TotalCost)
		assert.Equal(t, 28.0, feb.AccountCost("dev"))
		v, ok := feb.AccountCosts.Get("prod")
		assert.True(t, ok)
		assert.Equal(t, 0.0, v)
		assert.True(t, costMap("S3", 28.0).Equal(feb.ServiceBreakdown))
	})

	t.Run("services are the sorted union", func(t *testing.T) {
		assert.Equal(t, []string{"EC2", "S3"}, agg.Services)
	})

	t.Run("totals are conserved", func(t *testing.T) {
		assert.Equal(t, 98.0, agg.TotalCost)
		assert.Equal(t, 2, agg.TotalAccounts)
		for _, trend := range agg.MonthlyTrends {
			assert.InDelta(t, trend.TotalCost, trend.AccountCosts.Sum(), 1e-9)
		}
	})

	t.Run("service aggregation uses summary values", func(t *testing.T) {
		assert.Equal(t, 48.0, agg.ServiceAggregation.Value("S3"))
		assert.Equal(t, 50.0, agg.ServiceAggregation.Value("EC2"))
	})

	t.Run("account summaries and date range", func(t *testing.T) {
		assert.Equal(t, []entity.AccountSummary{
			{Name: "dev", TotalCost: 48, MonthCount: 2, Services: 1},
			{Name: "prod", TotalCost: 50, MonthCount: 1, Services: 1},
		}, agg.Accounts)
		assert.Equal(t, entity.DateRange{StartDate: "2025-01-01", EndDate: "2025-02-01"}, agg.DateRange)
	})
}

func TestAggregateEmpty(t *testing.T) {
	agg := AggregateMultiAccountData(nil)
	assert.Equal(t, 0, agg.TotalAccounts)
	assert.Equal(t, 0.0, agg.TotalCost)
	assert.Empty(t, agg.Services)
	assert.NotNil(t, agg.Services)
	assert.Empty(t, agg.MonthlyTrends)
	assert.Equal(t, 0, agg.ServiceAggregation.Len())
}

func TestAggregateIsIdempotent(t *testing.T) {
	accounts := devAndProd()
	assert.Equal(t, AggregateMultiAccountData(accounts), AggregateMultiAccountData(accounts))
}

func TestAggregateSanitizesSummaryValues(t *testing.T) {
	accounts := []entity.AccountData{
		account("a", costMap("S3", math.NaN(), "EC2", 10.0), 10),
		account("b", costMap("S3", 5.0, "EC2", -3.0), 5),
		account("c", costMap("S3", math.Inf(1)), 0),
	}
	agg := AggregateMultiAccountData(accounts)
	assert.Equal(t, 5.0, agg.ServiceAggregation.Value("S3"))
	assert.Equal(t, 10.0, agg.ServiceAggregation.Value("EC2"))
}

func TestAggregateFromCSV(t *testing.T) {
	dev, err := TransformCostData(mustParse(t, devCSV), "dev")
	require.NoError(t, err)
	agg := AggregateMultiAccountData([]entity.AccountData{dev})
	require.Len(t, agg.MonthlyTrends, 3)
	assert.Equal(t, dev.TotalCost, agg.TotalCost)
	assert.Equal(t, 50.0, agg.MonthlyTrends[2].ServiceBreakdown.Value("S3"))
}

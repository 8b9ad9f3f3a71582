package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/costdata"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

func costMap(pairs ...any) *entity.CostMap {
	m := entity.NewCostMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(float64))
	}
	return m
}

func months(costs ...float64) []entity.MonthRecord {
	out := make([]entity.MonthRecord, len(costs))
	for i, c := range costs {
		out[i] = entity.MonthRecord{
			Date:      []string{"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01", "2025-05-01", "2025-06-01"}[i],
			TotalCost: c,
			Services:  entity.NewCostMap(),
		}
	}
	return out
}

func TestCalculateGrowthRates(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		got := CalculateGrowthRates(months(100))
		assert.Equal(t, entity.GrowthRate{Trend: entity.TrendInsufficientData}, got)
	})

	t.Run("increasing", func(t *testing.T) {
		got := CalculateGrowthRates(months(100, 110, 132))
		assert.Equal(t, 20.0, got.MonthOverMonth)
		assert.Equal(t, 32.0, got.TotalGrowth)
		assert.Equal(t, entity.TrendIncreasing, got.Trend)
		assert.Equal(t, 132.0, got.LatestCost)
		assert.Equal(t, 110.0, got.PreviousCost)
	})

	t.Run("stable below one percent", func(t *testing.T) {
		got := CalculateGrowthRates(months(100, 100.5))
		assert.Equal(t, entity.TrendStable, got.Trend)
		assert.Equal(t, 0.5, got.MonthOverMonth)
	})

	t.Run("decreasing", func(t *testing.T) {
		got := CalculateGrowthRates(months(90, 60))
		assert.Equal(t, -33.33, got.MonthOverMonth)
		assert.Equal(t, entity.TrendDecreasing, got.Trend)
	})

	t.Run("zero baseline yields zero", func(t *testing.T) {
		got := CalculateGrowthRates(months(0, 0, 50))
		assert.Equal(t, 0.0, got.MonthOverMonth)
		assert.Equal(t, 0.0, got.TotalGrowth)
		assert.Equal(t, entity.TrendStable, got.Trend)
	})

	t.Run("unsorted input is sorted without mutation", func(t *testing.T) {
		data := months(100, 200)
		data[0], data[1] = data[1], data[0]
		got := CalculateGrowthRates(data)
		assert.Equal(t, 100.0, got.MonthOverMonth)
		assert.Equal(t, "2025-02-01", data[0].Date)
	})
}

func TestCalculateTotalGrowthRates(t *testing.T) {
	trends := []entity.MonthlyTrendRecord{
		{Date: "2025-01-01", TotalCost: 200},
		{Date: "2025-02-01", TotalCost: 150},
	}
	got := CalculateTotalGrowthRates(trends)
	assert.Equal(t, -25.0, got.MonthOverMonth)
	assert.Equal(t, entity.TrendDecreasing, got.Trend)

	assert.Equal(t, entity.TrendInsufficientData, CalculateTotalGrowthRates(nil).Trend)
}

func TestDetectCostVariations(t *testing.T) {
	t.Run("new service counts as +100", func(t *testing.T) {
		got := DetectCostVariations(costMap("X", 10.0), costMap("X", 0.0), 5)
		require.Len(t, got, 1)
		assert.Equal(t, 100.0, got[0].ChangeRate)
		assert.Equal(t, entity.ChangeIncrease, got[0].ChangeType)
	})

	t.Run("vanished service counts as -100", func(t *testing.T) {
		got := DetectCostVariations(costMap(), costMap("Y", 8.0), 5)
		require.Len(t, got, 1)
		assert.Equal(t, -100.0, got[0].ChangeRate)
		assert.Equal(t, entity.ChangeDecrease, got[0].ChangeType)
		assert.Equal(t, 8.0, got[0].PreviousCost)
	})

	t.Run("both zero are skipped and threshold filters", func(t *testing.T) {
		current := costMap("A", 0.0, "B", 103.0, "C", 150.0)
		previous := costMap("A", 0.0, "B", 100.0, "C", 100.0)
		got := DetectCostVariations(current, previous, 5)
		require.Len(t, got, 1)
		assert.Equal(t, "C", got[0].Service)
		assert.Equal(t, 50.0, got[0].ChangeRate)
	})

	t.Run("sorted by magnitude with stable ties", func(t *testing.T) {
		current := costMap("A", 120.0, "B", 80.0, "C", 300.0, "D", 0.0)
		previous := costMap("A", 100.0, "B", 100.0, "C", 100.0, "D", 10.0)
		got := DetectCostVariations(current, previous, 0)
		services := make([]string, len(got))
		for i, v := range got {
			services[i] = v.Service
		}
		assert.Equal(t, []string{"C", "D", "A", "B"}, services)
	})
}

func TestLatestCostVariations(t *testing.T) {
	agg := &entity.AggregatedData{MonthlyTrends: []entity.MonthlyTrendRecord{
		{Date: "2025-01-01", ServiceBreakdown: costMap("S3", 10.0)},
		{Date: "2025-02-01", ServiceBreakdown: costMap("S3", 20.0)},
	}}
	got := LatestCostVariations(agg, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].ChangeRate)

	agg.MonthlyTrends = agg.MonthlyTrends[:1]
	assert.Empty(t, LatestCostVariations(agg, 5))
	assert.Empty(t, LatestCostVariations(nil, 5))
}

func TestCalculatePeriodStatistics(t *testing.T) {
	got := CalculatePeriodStatistics(months(10, 20, 30))
	assert.Equal(t, entity.PeriodStatistics{Mean: 20, StdDev: 8.16, Min: 10, Max: 30, Count: 3}, got)

	assert.Equal(t, entity.PeriodStatistics{}, CalculatePeriodStatistics([]entity.MonthRecord{}))

	got = CalculatePeriodStatistics(months(1.005, 2.335))
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 1.67, got.Mean)
}

func TestLastDayOfMonth(t *testing.T) {
	for in, want := range map[string]string{
		"2025-01": "2025-01-31",
		"2025-04": "2025-04-30",
		"2024-02": "2024-02-29",
		"2025-02": "2025-02-28",
		"2100-02": "2100-02-28",
		"2000-02": "2000-02-29",
		"2025-12": "2025-12-31",
	} {
		assert.Equal(t, want, LastDayOfMonth(in), in)
	}
}

func TestComparePeriods(t *testing.T) {
	data := months(100, 200, 300, 50, 50, 50)

	t.Run("computes both periods", func(t *testing.T) {
		got, err := ComparePeriods(data, entity.Period{Start: "2025-01", End: "2025-03"}, entity.Period{Start: "2025-04", End: "2025-06"})
		require.NoError(t, err)
		assert.Equal(t, 200.0, got.BaseStats.Mean)
		assert.Equal(t, 3, got.BaseStats.Count)
		assert.Equal(t, 50.0, got.CompareStats.Mean)
		assert.Equal(t, 0.0, got.CompareStats.StdDev)
		assert.Equal(t, -150.0, got.MeanDifference)
		assert.Equal(t, -75.0, got.MeanChangePercent)
	})

	t.Run("end bound includes the last day of the month", func(t *testing.T) {
		records := []entity.MonthRecord{{Date: "2024-02-29", TotalCost: 10}}
		got, err := ComparePeriods(records, entity.Period{Start: "2024-02", End: "2024-02"}, entity.Period{Start: "2024-01", End: "2024-02"})
		require.NoError(t, err)
		assert.Equal(t, 1, got.BaseStats.Count)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := ComparePeriods(data, entity.Period{Start: "2025-03", End: "2025-01"}, entity.Period{Start: "2025-04", End: "2025-06"})
		var validationErr *types.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "base period", validationErr.Field)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := ComparePeriods(data, entity.Period{Start: "2025-01", End: "2025-01"}, entity.Period{})
		var validationErr *types.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "compare period", validationErr.Field)
	})

	t.Run("malformed month", func(t *testing.T) {
		_, err := ComparePeriods(data, entity.Period{Start: "2025-13", End: "2025-13"}, entity.Period{Start: "2025-01", End: "2025-01"})
		var validationErr *types.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})

	t.Run("empty window", func(t *testing.T) {
		_, err := ComparePeriods(data, entity.Period{Start: "2024-01", End: "2024-06"}, entity.Period{Start: "2025-01", End: "2025-01"})
		var validationErr *types.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.ErrorIs(t, err, types.ErrNoDataInPeriod)
	})
}

func TestCalculateReductionEffect(t *testing.T) {
	t.Run("peak month", func(t *testing.T) {
		got, err := CalculateReductionEffect(months(100, 150, 90), entity.BaselinePeakMonth)
		require.NoError(t, err)
		assert.Equal(t, entity.ReductionEffect{BaselineCost: 150, LatestCost: 90, ReductionAmount: 60, ReductionPercentage: 40}, got)
	})

	t.Run("first month", func(t *testing.T) {
		got, err := CalculateReductionEffect(months(100, 150, 90), entity.BaselineFirstMonth)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.BaselineCost)
		assert.Equal(t, 10.0, got.ReductionPercentage)
	})

	t.Run("previous month", func(t *testing.T) {
		got, err := CalculateReductionEffect(months(100, 150, 90), entity.BaselinePreviousMonth)
		require.NoError(t, err)
		assert.Equal(t, 150.0, got.BaselineCost)
	})

	t.Run("cost increase is a negative reduction", func(t *testing.T) {
		got, err := CalculateReductionEffect(months(100, 120), entity.BaselineFirstMonth)
		require.NoError(t, err)
		assert.Equal(t, -20.0, got.ReductionAmount)
		assert.Equal(t, -20.0, got.ReductionPercentage)
	})

	t.Run("zero baseline", func(t *testing.T) {
		got, err := CalculateReductionEffect(months(0, 20), entity.BaselineFirstMonth)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.ReductionPercentage)
	})

	t.Run("fewer than two months", func(t *testing.T) {
		got, err := CalculateReductionEffect(months(100), entity.BaselinePeakMonth)
		require.NoError(t, err)
		assert.Equal(t, entity.ReductionEffect{}, got)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := CalculateReductionEffect(months(100, 90), entity.BaselineMode("median"))
		var validationErr *types.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func pivotAccounts() []entity.AccountData {
	return []entity.AccountData{
		{
			AccountName: "dev",
			Services:    []string{"S3", "EC2"},
			MonthlyData: []entity.MonthRecord{
				{Date: "2025-01-01", TotalCost: 15, Services: costMap("S3", 10.0, "EC2", 5.0)},
				{Date: "2025-02-01", TotalCost: 20, Services: costMap("S3", 20.0)},
			},
		},
		{
			AccountName: "prod",
			Services:    []string{"EC2"},
			MonthlyData: []entity.MonthRecord{
				{Date: "2025-02-01", TotalCost: 40, Services: costMap("EC2", 40.0)},
				{Date: "2025-03-01", TotalCost: 30, Services: costMap("EC2", 30.0)},
			},
		},
	}
}

func TestBuildServicePivot(t *testing.T) {
	got, err := BuildServicePivot(pivotAccounts(), "EC2")
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-01-01", "2025-02-01", "2025-03-01"}, got.Months)
	require.Len(t, got.Accounts, 2)

	dev := got.Accounts[0]
	assert.Equal(t, []entity.MonthValue{
		{Date: "2025-01-01", Cost: 5},
		{Date: "2025-02-01", Cost: 0},
		{Date: "2025-03-01", Cost: 0},
	}, dev.MonthlyData)
	assert.Equal(t, 5.0, dev.TotalCost)
	assert.InDelta(t, 5.0/3, dev.AverageCost, 1e-9)
	assert.Equal(t, entity.TrendDecreasing, dev.Trend)

	prod := got.Accounts[1]
	assert.Equal(t, 70.0, prod.TotalCost)
	assert.Equal(t, entity.TrendIncreasing, prod.Trend)

	assert.Equal(t, []float64{5, 40, 30}, got.TotalByMonth)

	_, err = BuildServicePivot(pivotAccounts(), " ")
	var validationErr *types.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestBuildMultiServicePivot(t *testing.T) {
	got, err := BuildMultiServicePivot(pivotAccounts(), []string{"S3", "EC2", "S3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"S3", "EC2"}, got.Services)
	require.Len(t, got.MonthlyBreakdown, 3)
	assert.Equal(t, 15.0, got.MonthlyBreakdown[0].Total)
	assert.Equal(t, 60.0, got.MonthlyBreakdown[1].Total)
	assert.Equal(t, 40.0, got.MonthlyBreakdown[1].Services.Value("EC2"))
	assert.Equal(t, 30.0, got.ServiceTotals.Value("S3"))
	assert.Equal(t, 75.0, got.ServiceTotals.Value("EC2"))
	assert.Equal(t, 105.0, got.GrandTotal)

	_, err = BuildMultiServicePivot(pivotAccounts(), nil)
	var validationErr *types.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestTopServices(t *testing.T) {
	totals := costMap("A", 10.0, "B", 50.0, "C", 30.0, "D", 30.0)

	t.Run("adds Other for the remainder", func(t *testing.T) {
		got := TopServices(totals, 2)
		assert.Equal(t, []entity.ServiceShare{
			{Service: "B", Cost: 50},
			{Service: "C", Cost: 30},
			{Service: entity.OtherBucket, Cost: 40},
		}, got)
	})

	t.Run("no Other when everything fits", func(t *testing.T) {
		got := TopServices(totals, 10)
		assert.Len(t, got, 4)
		for _, s := range got {
			assert.NotEqual(t, entity.OtherBucket, s.Service)
		}
	})

	t.Run("k is clamped to one", func(t *testing.T) {
		got := TopServices(totals, 0)
		require.Len(t, got, 2)
		assert.Equal(t, "B", got[0].Service)
		assert.Equal(t, 70.0, got[1].Cost)
	})
}

func TestServiceComposition(t *testing.T) {
	got, err := ServiceComposition(pivotAccounts(), AllAccounts, 1)
	require.NoError(t, err)
	assert.Equal(t, []entity.ServiceShare{{Service: "EC2", Cost: 75}, {Service: entity.OtherBucket, Cost: 30}}, got)

	got, err = ServiceComposition(pivotAccounts(), "dev", 5)
	require.NoError(t, err)
	assert.Equal(t, []entity.ServiceShare{{Service: "S3", Cost: 30}, {Service: "EC2", Cost: 5}}, got)

	_, err = ServiceComposition(pivotAccounts(), "nope", 5)
	assert.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestStackedMonthlyComposition(t *testing.T) {
	got, err := StackedMonthlyComposition(pivotAccounts(), AllAccounts, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01", "2025-02-01", "2025-03-01"}, got.Months)
	assert.Equal(t, []entity.StackedSeries{
		{Service: "EC2", Values: []float64{5, 40, 30}},
		{Service: entity.OtherBucket, Values: []float64{10, 20, 0}},
	}, got.Series)

	got, err = StackedMonthlyComposition(pivotAccounts(), "prod", 3)
	require.NoError(t, err)
	assert.Equal(t, []entity.StackedSeries{{Service: "EC2", Values: []float64{0, 40, 30}}}, got.Series)
}

func TestAccountServiceTrend(t *testing.T) {
	got, err := AccountServiceTrend(pivotAccounts(), AllAccounts, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01", "2025-02-01", "2025-03-01"}, got.Months)
	assert.Equal(t, []entity.StackedSeries{
		{Service: "dev", Values: []float64{15, 20, 0}},
		{Service: "prod", Values: []float64{0, 40, 30}},
	}, got.Accounts)
	assert.Equal(t, []float64{15, 60, 30}, got.Total)
	assert.Equal(t, []entity.StackedSeries{
		{Service: "EC2", Values: []float64{5, 40, 30}},
		{Service: entity.OtherBucket, Values: []float64{10, 20, 0}},
	}, got.Services)

	got, err = AccountServiceTrend(pivotAccounts(), "dev", 5)
	require.NoError(t, err)
	assert.Equal(t, []entity.StackedSeries{{Service: "dev", Values: []float64{15, 20, 0}}}, got.Accounts)
	assert.Nil(t, got.Total)
	assert.Len(t, got.Services, 2)

	_, err = AccountServiceTrend(pivotAccounts(), "nope", 5)
	assert.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestCompareAccounts(t *testing.T) {
	accounts := []entity.AccountData{
		{AccountName: "a", MonthlyData: []entity.MonthRecord{
			{Date: "2025-01-01", Services: costMap("S3", 60.0, "EC2", 30.0, "RDS", 10.0, "Neg", -5.0)},
		}},
		{AccountName: "b", MonthlyData: []entity.MonthRecord{
			{Date: "2025-01-01", Services: costMap("Lambda", 100.0, "S3", 1.0, "NaN", math.NaN())},
		}},
		{AccountName: "empty"},
	}

	got := CompareAccounts(accounts, 2)
	assert.Equal(t, []string{"a", "b"}, got.Accounts)
	assert.Equal(t, []float64{100, 101}, got.AccountTotals)

	require.Len(t, got.Series, 3)
	assert.Equal(t, "Lambda", got.Series[0].Service)
	assert.Equal(t, "S3", got.Series[1].Service)
	assert.Equal(t, entity.OtherBucket, got.Series[2].Service)
	assert.Equal(t, []float64{0, 100.0 / 101 * 100}, got.Series[0].Values)
	assert.Equal(t, []float64{60, 1.0 / 101 * 100}, got.Series[1].Values)
	assert.Equal(t, []float64{40, 0}, got.Series[2].Values)

	assert.Empty(t, CompareAccounts(nil, 3).Series)
}

func TestLowUsageServices(t *testing.T) {
	agg := &entity.AggregatedData{MonthlyTrends: []entity.MonthlyTrendRecord{
		{Date: "2025-02-01", ServiceBreakdown: costMap("A", 3.0, "B", 0.0, "C", 1.5, "D", 10.0, "E", 42.0)},
		{Date: "2025-01-01", ServiceBreakdown: costMap("Z", 1.0)},
	}}
	got := LowUsageServices(agg, DefaultLowUsageThreshold)
	assert.Equal(t, []entity.ServiceShare{{Service: "C", Cost: 1.5}, {Service: "A", Cost: 3}}, got)
	assert.Empty(t, LowUsageServices(nil, 10))
}

func TestPipelineFromCSV(t *testing.T) {
	rows, err := costdata.ParseCSVString("サービス,S3($),合計コスト($)\n合計,60,60\n2025-01-01,10,10\n2025-02-01,20,20\n2025-03-01,30,30\n")
	require.NoError(t, err)
	data, err := costdata.TransformCostData(rows, "dev")
	require.NoError(t, err)

	stats := CalculatePeriodStatistics(data.MonthlyData)
	assert.Equal(t, 8.16, stats.StdDev)
	assert.Equal(t, 50.0, CalculateGrowthRates(data.MonthlyData).MonthOverMonth)
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/metrics"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

func TestBuildReport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.BuildReport(ctx, 5, 10)
	assert.ErrorIs(t, err, types.ErrNoAccounts)

	f.addBoth(t)
	report, err := f.uc.BuildReport(ctx, metrics.DefaultVariationThreshold, metrics.DefaultLowUsageThreshold)
	require.NoError(t, err)

	agg := report.Aggregated
	assert.Equal(t, 553.0, agg.TotalCost)
	assert.Equal(t, []float64{30, 181, 342}, []float64{agg.MonthlyTrends[0].TotalCost, agg.MonthlyTrends[1].TotalCost, agg.MonthlyTrends[2].TotalCost})
	assert.Equal(t, 340.0, agg.ServiceAggregation.Value("EC2-インスタンス"))

	assert.Equal(t, entity.GrowthRate{MonthOverMonth: 88.95, TotalGrowth: 1040, Trend: entity.TrendIncreasing, LatestCost: 342, PreviousCost: 181}, report.TotalGrowth)
	require.Len(t, report.AccountGrowth, 2)
	assert.Equal(t, "dev", report.AccountGrowth[0].AccountName)
	assert.Equal(t, 33.33, report.AccountGrowth[0].MonthOverMonth)

	services := make([]string, len(report.Variations))
	for i, v := range report.Variations {
		services[i] = v.Service
	}
	assert.Equal(t, []string{"RDS", "Lambda", "EC2-インスタンス", "S3"}, services)

	assert.Equal(t, []entity.ServiceShare{{Service: "Lambda", Cost: 2}}, report.LowUsage)
	assert.Same(t, agg, f.uc.Aggregated())

	_, err = f.uc.BuildReport(ctx, -1, 10)
	var validationErr *types.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestRunAnalysis(t *testing.T) {
	f := newFixture()
	f.addBoth(t)
	f.export.fail = "pdf"

	args := &types.CLIArgs{
		Trend:              true,
		VariationThreshold: 95,
		LowUsageThreshold:  1,
		ReportName:         "monthly",
		ReportType:         []string{"csv", "json", "pdf", "csv", "xlsx"},
		Dir:                "/tmp/out",
	}
	report, err := f.uc.RunAnalysis(context.Background(), args)
	require.NoError(t, err)

	assert.Len(t, report.Variations, 2)
	assert.Empty(t, report.LowUsage)
	assert.Equal(t, []string{"csv", "json", "pdf"}, f.export.calls)
	assert.Len(t, f.console.successes, 2)
	assert.Contains(t, f.console.errors, "Failed to export to PDF: disk full")
	assert.Len(t, f.console.warnings, 2)
	assert.Equal(t, 3, len(f.console.trendTitles))

	out := f.console.output()
	assert.Contains(t, out, "RDS | $50.00 | $100.00")
	assert.Contains(t, out, "All accounts")
}

func TestRunAnalysisWithoutExport(t *testing.T) {
	f := newFixture()
	f.addBoth(t)
	_, err := f.uc.RunAnalysis(context.Background(), &types.CLIArgs{ReportType: []string{"csv"}, VariationThreshold: 5, LowUsageThreshold: 10})
	require.NoError(t, err)
	assert.Empty(t, f.export.calls)
	assert.Empty(t, f.console.trendTitles)
}

func TestTrendBars(t *testing.T) {
	bars := trendBars([]entity.MonthlyTrendRecord{{Date: "2025-01-01", TotalCost: 5}, {Date: "bad", TotalCost: 1}},
		func(m entity.MonthlyTrendRecord) float64 { return m.TotalCost })
	assert.Equal(t, []types.MonthlyCost{{Month: "2025-01", Cost: 5}, {Month: "bad", Cost: 1}}, bars)
}

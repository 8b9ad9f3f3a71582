package usecase

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/costdata"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/metrics"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// BuildReport agrega as contas cadastradas e calcula crescimento, variações
// e serviços de baixo uso. O resultado agregado é salvo na sessão.
func (uc *AnalyzerUseCase) BuildReport(ctx context.Context, variationThreshold, lowUsageThreshold float64) (*entity.AnalysisReport, error) {
	if err := uc.requireAccounts(); err != nil {
		return nil, err
	}
	if variationThreshold < 0 || lowUsageThreshold < 0 {
		return nil, &types.ValidationError{Field: "threshold", Reason: "thresholds must not be negative"}
	}

	uc.aggregated = costdata.AggregateMultiAccountData(uc.accountData())
	uc.saveSession(ctx)

	return &entity.AnalysisReport{
		Aggregated:  uc.aggregated,
		TotalGrowth: metrics.CalculateTotalGrowthRates(uc.aggregated.MonthlyTrends),
		AccountGrowth: lo.Map(uc.accounts, func(a entity.RegisteredAccount, _ int) entity.AccountGrowth {
			return entity.AccountGrowth{AccountName: a.Name, GrowthRate: metrics.CalculateGrowthRates(a.Data.MonthlyData)}
		}),
		Variations:         metrics.LatestCostVariations(uc.aggregated, variationThreshold),
		VariationThreshold: variationThreshold,
		LowUsage:           metrics.LowUsageServices(uc.aggregated, lowUsageThreshold),
		LowUsageThreshold:  lowUsageThreshold,
	}, nil
}

// RunAnalysis executa o comando analyze: monta o relatório, exibe as tabelas
// e exporta nos formatos pedidos quando há nome de relatório.
func (uc *AnalyzerUseCase) RunAnalysis(ctx context.Context, args *types.CLIArgs) (*entity.AnalysisReport, error) {
	status := uc.console.Status("Aggregating cost data...")
	report, err := uc.BuildReport(ctx, args.VariationThreshold, args.LowUsageThreshold)
	status.Stop()
	if err != nil {
		return nil, err
	}

	uc.displaySummary(report.Aggregated)
	uc.displayGrowth(report)
	uc.displayServices(report.Aggregated)
	uc.displayVariations(report)
	uc.displayLowUsage(report)

	if args.Trend {
		uc.displayTrend(report.Aggregated)
	}

	if args.ReportName != "" && len(args.ReportType) > 0 {
		uc.exportReport(report, args)
	}
	return report, nil
}

func (uc *AnalyzerUseCase) exportReport(report *entity.AnalysisReport, args *types.CLIArgs) {
	for _, reportType := range lo.Uniq(args.ReportType) {
		switch strings.ToLower(reportType) {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		default:
			uc.console.LogWarning("Unknown report type %q ignored (use csv, json or pdf)", reportType)
		}
	}
}

func (uc *AnalyzerUseCase) displayTrend(agg *entity.AggregatedData) {
	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprint("All accounts"))
	uc.console.DisplayTrendBars("Monthly Cost Trend", trendBars(agg.MonthlyTrends, func(m entity.MonthlyTrendRecord) float64 { return m.TotalCost }))

	for _, a := range agg.Accounts {
		bars := trendBars(agg.MonthlyTrends, func(m entity.MonthlyTrendRecord) float64 { return m.AccountCost(a.Name) })
		uc.console.Printf("\n%s\n", pterm.FgYellow.Sprintf("Account: %s", a.Name))
		uc.console.DisplayTrendBars("Monthly Cost Trend", bars)
	}
}

// trendBars converte os meses agregados para o formato do gráfico de barras (YYYY-MM).
func trendBars(trends []entity.MonthlyTrendRecord, cost func(entity.MonthlyTrendRecord) float64) []types.MonthlyCost {
	return lo.Map(trends, func(m entity.MonthlyTrendRecord, _ int) types.MonthlyCost {
		month := m.Date
		if len(month) >= 7 {
			month = month[:7]
		}
		return types.MonthlyCost{Month: month, Cost: cost(m)}
	})
}

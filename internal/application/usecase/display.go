package usecase

import (
	"fmt"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/metrics"
	"github.com/diillson/aws-cost-analyzer-go/pkg/console"
)

// Funções auxiliares de formatação das tabelas.
var (
	money      = console.Currency
	changeText = console.ColorChange
	trendText  = console.ColorTrend
)

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// shortMonth reduz YYYY-MM-DD para YYYY-MM.
func shortMonth(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

func (uc *AnalyzerUseCase) displaySummary(agg *entity.AggregatedData) {
	uc.console.Printf("\n%s\n", console.BrightCyan("Cost Summary"))
	uc.console.Printf("Accounts: %d | Services: %d | Period: %s to %s | Total: %s\n",
		agg.TotalAccounts, len(agg.Services), agg.DateRange.StartDate, agg.DateRange.EndDate, console.BrightMagenta(money(agg.TotalCost)))

	table := uc.console.CreateTable()
	for _, col := range []string{"Account", "Months", "Services", "Total Cost", "Share"} {
		table.AddColumn(col)
	}
	for _, a := range agg.Accounts {
		table.AddRow(a.Name, a.MonthCount, a.Services, money(a.TotalCost), fmt.Sprintf("%.1f%%", share(a.TotalCost, agg.TotalCost)))
	}
	uc.console.Println(table.Render())
}

func (uc *AnalyzerUseCase) displayGrowth(report *entity.AnalysisReport) {
	table := uc.console.CreateTable()
	for _, col := range []string{"Account", "Previous Month", "Latest Month", "MoM Change", "Total Growth", "Trend"} {
		table.AddColumn(col)
	}
	addRow := func(name string, g entity.GrowthRate) {
		if g.Trend == entity.TrendInsufficientData {
			table.AddRow(name, "-", "-", "-", "-", trendText(g.Trend))
			return
		}
		table.AddRow(name, money(g.PreviousCost), money(g.LatestCost), changeText(g.MonthOverMonth), changeText(g.TotalGrowth), trendText(g.Trend))
	}
	addRow("All accounts", report.TotalGrowth)
	for _, g := range report.AccountGrowth {
		addRow(g.AccountName, g.GrowthRate)
	}
	uc.console.Printf("\n%s\n", console.BrightCyan("Growth"))
	uc.console.Println(table.Render())
}

func (uc *AnalyzerUseCase) displayServices(agg *entity.AggregatedData) {
	table := uc.console.CreateTable()
	for _, col := range []string{"Service", "Total Cost", "Share"} {
		table.AddColumn(col)
	}
	for _, s := range rankedServices(agg.ServiceAggregation) {
		table.AddRow(s.Service, money(s.Cost), fmt.Sprintf("%.1f%%", share(s.Cost, agg.TotalCost)))
	}
	uc.console.Printf("\n%s\n", console.BrightCyan("Cost by Service"))
	uc.console.Println(table.Render())
}

func (uc *AnalyzerUseCase) displayVariations(report *entity.AnalysisReport) {
	if len(report.Variations) == 0 {
		uc.console.LogInfo("No service changed by %.1f%% or more in the latest month", report.VariationThreshold)
		return
	}
	table := uc.console.CreateTable()
	for _, col := range []string{"Service", "Previous", "Current", "Change"} {
		table.AddColumn(col)
	}
	for _, v := range report.Variations {
		table.AddRow(v.Service, money(v.PreviousCost), money(v.CurrentCost), changeText(v.ChangeRate))
	}
	uc.console.Printf("\n%s\n", console.BrightCyan(fmt.Sprintf("Cost Variations (>= %.1f%%)", report.VariationThreshold)))
	uc.console.Println(table.Render())
}

func (uc *AnalyzerUseCase) displayLowUsage(report *entity.AnalysisReport) {
	if len(report.LowUsage) == 0 {
		uc.console.LogInfo("No low-usage services below %s in the latest month", money(report.LowUsageThreshold))
		return
	}
	table := uc.console.CreateTable()
	for _, col := range []string{"Service", "Latest Month Cost"} {
		table.AddColumn(col)
	}
	for _, s := range report.LowUsage {
		table.AddRow(s.Service, money(s.Cost))
	}
	uc.console.Printf("\n%s\n", console.BrightCyan(fmt.Sprintf("Low Usage Services (< %s)", money(report.LowUsageThreshold))))
	uc.console.Println(table.Render())
}

// rankedServices ordena os serviços por custo, maior primeiro, sem agrupar em "Other".
func rankedServices(totals *entity.CostMap) []entity.ServiceShare {
	return metrics.TopServices(totals, totals.Len())
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/metrics"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// ParsePeriod converte "YYYY-MM:YYYY-MM" (ou um único "YYYY-MM") em um Period.
func ParsePeriod(s string, field string) (entity.Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.Period{}, &types.ValidationError{Field: field, Reason: "a period is required (YYYY-MM:YYYY-MM)"}
	}
	start, end, found := strings.Cut(s, ":")
	if !found {
		end = start
	}
	p := entity.Period{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if _, _, err := metrics.PeriodBounds(p, field); err != nil {
		return entity.Period{}, err
	}
	return p, nil
}

// CompareStatistics compara dois períodos da conta escolhida. "all" usa a
// tendência agregada e exige que a análise já tenha sido executada.
func (uc *AnalyzerUseCase) CompareStatistics(ctx context.Context, account string, base, compare entity.Period) (entity.PeriodComparison, error) {
	if err := uc.requireAccounts(); err != nil {
		return entity.PeriodComparison{}, err
	}
	if account == "" {
		account = metrics.AllAccounts
	}

	var (
		result entity.PeriodComparison
		err    error
	)
	if account == metrics.AllAccounts {
		if uc.aggregated == nil {
			return entity.PeriodComparison{}, types.ErrNotAnalyzed
		}
		result, err = metrics.ComparePeriods(uc.aggregated.MonthlyTrends, base, compare)
	} else {
		idx := uc.findAccount(account)
		if idx < 0 {
			return entity.PeriodComparison{}, fmt.Errorf("%w: %s", types.ErrAccountNotFound, account)
		}
		result, err = metrics.ComparePeriods(uc.accounts[idx].Data.MonthlyData, base, compare)
	}
	if err != nil {
		return entity.PeriodComparison{}, err
	}
	result.Account = account

	table := uc.console.CreateTable()
	for _, col := range []string{"Metric", periodLabel("Base", base), periodLabel("Compare", compare)} {
		table.AddColumn(col)
	}
	b, c := result.BaseStats, result.CompareStats
	table.AddRow("Months", b.Count, c.Count)
	table.AddRow("Mean", money(b.Mean), money(c.Mean))
	table.AddRow("Std Dev", money(b.StdDev), money(c.StdDev))
	table.AddRow("Min", money(b.Min), money(c.Min))
	table.AddRow("Max", money(b.Max), money(c.Max))
	uc.console.Printf("\nStatistical comparison for %s\n", account)
	uc.console.Println(table.Render())
	uc.console.LogInfo("Mean difference: %s (%s)", money(result.MeanDifference), changeText(result.MeanChangePercent))
	return result, nil
}

func periodLabel(name string, p entity.Period) string {
	return fmt.Sprintf("%s (%s to %s)", name, p.Start, p.End)
}

// ReductionEffects calcula o efeito de redução de cada conta, na ordem de cadastro.
// Quando há análise agregada, a última linha cobre todas as contas.
func (uc *AnalyzerUseCase) ReductionEffects(ctx context.Context, mode entity.BaselineMode) ([]entity.ReductionEffect, error) {
	if err := uc.requireAccounts(); err != nil {
		return nil, err
	}
	if _, err := metrics.ParseBaselineMode(string(mode)); err != nil {
		return nil, err
	}

	effects := make([]entity.ReductionEffect, 0, len(uc.accounts)+1)
	for _, a := range uc.accounts {
		effect, err := metrics.CalculateReductionEffect(a.Data.MonthlyData, mode)
		if err != nil {
			return nil, err
		}
		effect.AccountName = a.Name
		effects = append(effects, effect)
	}
	if uc.aggregated != nil {
		effect, err := metrics.CalculateReductionEffect(uc.aggregated.MonthlyTrends, mode)
		if err != nil {
			return nil, err
		}
		effect.AccountName = metrics.AllAccounts
		effects = append(effects, effect)
	}

	table := uc.console.CreateTable()
	for _, col := range []string{"Account", "Baseline (" + string(mode) + ")", "Latest", "Reduction", "Reduction (%)"} {
		table.AddColumn(col)
	}
	for _, e := range effects {
		table.AddRow(e.AccountName, money(e.BaselineCost), money(e.LatestCost), money(e.ReductionAmount), fmt.Sprintf("%.2f%%", e.ReductionPercentage))
	}
	uc.console.Println(table.Render())
	return effects, nil
}

// ServicePivot cruza um serviço com todas as contas.
func (uc *AnalyzerUseCase) ServicePivot(ctx context.Context, service string) (entity.ServicePivot, error) {
	if err := uc.requireAccounts(); err != nil {
		return entity.ServicePivot{}, err
	}
	pivot, err := metrics.BuildServicePivot(uc.accountData(), service)
	if err != nil {
		return entity.ServicePivot{}, err
	}
	if !lo.SomeBy(uc.accounts, func(a entity.RegisteredAccount) bool { return lo.Contains(a.Data.Services, service) }) {
		uc.console.LogWarning("Service %q was not found in any account; all values are zero", service)
	}

	table := uc.console.CreateTable()
	table.AddColumn("Account")
	for _, m := range pivot.Months {
		table.AddColumn(shortMonth(m))
	}
	for _, col := range []string{"Total", "Average", "Trend"} {
		table.AddColumn(col)
	}
	for _, s := range pivot.Accounts {
		row := []interface{}{s.AccountName}
		for _, v := range s.MonthlyData {
			row = append(row, money(v.Cost))
		}
		row = append(row, money(s.TotalCost), money(s.AverageCost), trendText(s.Trend))
		table.AddRow(row...)
	}
	totals := []interface{}{"Total"}
	for _, v := range pivot.TotalByMonth {
		totals = append(totals, money(v))
	}
	table.AddRow(append(totals, money(lo.Sum(pivot.TotalByMonth)), "", "")...)

	uc.console.Printf("\nService: %s\n", service)
	uc.console.Println(table.Render())
	return pivot, nil
}

// MultiServicePivot soma vários serviços de todas as contas, mês a mês.
func (uc *AnalyzerUseCase) MultiServicePivot(ctx context.Context, services []string) (entity.MultiServicePivot, error) {
	if err := uc.requireAccounts(); err != nil {
		return entity.MultiServicePivot{}, err
	}
	pivot, err := metrics.BuildMultiServicePivot(uc.accountData(), services)
	if err != nil {
		return entity.MultiServicePivot{}, err
	}

	table := uc.console.CreateTable()
	table.AddColumn("Month")
	for _, s := range pivot.Services {
		table.AddColumn(s)
	}
	table.AddColumn("Total")
	for _, m := range pivot.MonthlyBreakdown {
		row := []interface{}{shortMonth(m.Date)}
		for _, s := range pivot.Services {
			row = append(row, money(m.Services.Value(s)))
		}
		table.AddRow(append(row, money(m.Total))...)
	}
	totals := []interface{}{"Total"}
	for _, s := range pivot.Services {
		totals = append(totals, money(pivot.ServiceTotals.Value(s)))
	}
	table.AddRow(append(totals, money(pivot.GrandTotal))...)
	uc.console.Println(table.Render())
	return pivot, nil
}

// Composition exibe o top N de serviços com "Other", no total e mês a mês.
func (uc *AnalyzerUseCase) Composition(ctx context.Context, account string, top int) ([]entity.ServiceShare, entity.StackedComposition, error) {
	if err := uc.requireAccounts(); err != nil {
		return nil, entity.StackedComposition{}, err
	}
	if account == "" {
		account = metrics.AllAccounts
	}
	data := uc.accountData()
	shares, err := metrics.ServiceComposition(data, account, top)
	if err != nil {
		return nil, entity.StackedComposition{}, err
	}
	stacked, err := metrics.StackedMonthlyComposition(data, account, top)
	if err != nil {
		return nil, entity.StackedComposition{}, err
	}

	total := lo.SumBy(shares, func(s entity.ServiceShare) float64 { return s.Cost })
	table := uc.console.CreateTable()
	for _, col := range []string{"Service", "Cost", "Share"} {
		table.AddColumn(col)
	}
	for _, s := range shares {
		table.AddRow(s.Service, money(s.Cost), fmt.Sprintf("%.1f%%", share(s.Cost, total)))
	}
	uc.console.Printf("\nService composition for %s\n", account)
	uc.console.Println(table.Render())

	monthly := uc.console.CreateTable()
	monthly.AddColumn("Service")
	for _, m := range stacked.Months {
		monthly.AddColumn(shortMonth(m))
	}
	for _, s := range stacked.Series {
		row := []interface{}{s.Service}
		for _, v := range s.Values {
			row = append(row, money(v))
		}
		monthly.AddRow(row...)
	}
	uc.console.Println(monthly.Render())
	return shares, stacked, nil
}

// ServiceTrend exibe a evolução mensal do total das contas e dos principais serviços.
func (uc *AnalyzerUseCase) ServiceTrend(ctx context.Context, account string, top int) (entity.ServiceTrend, error) {
	if err := uc.requireAccounts(); err != nil {
		return entity.ServiceTrend{}, err
	}
	trend, err := metrics.AccountServiceTrend(uc.accountData(), account, top)
	if err != nil {
		return entity.ServiceTrend{}, err
	}

	table := uc.console.CreateTable()
	table.AddColumn("Series")
	for _, m := range trend.Months {
		table.AddColumn(shortMonth(m))
	}
	addRow := func(label string, values []float64) {
		row := []interface{}{label}
		for _, v := range values {
			row = append(row, money(v))
		}
		table.AddRow(row...)
	}
	for _, a := range trend.Accounts {
		addRow(a.Service+" total", a.Values)
	}
	if trend.Total != nil {
		addRow("Total", trend.Total)
	}
	for _, s := range trend.Services {
		addRow(s.Service, s.Values)
	}
	uc.console.Printf("\nMonthly trend of accounts and top services for %s\n", trend.Account)
	uc.console.Println(table.Render())
	return trend, nil
}

// CompareAccountComposition compara a participação dos serviços no último mês de cada conta.
func (uc *AnalyzerUseCase) CompareAccountComposition(ctx context.Context, top int) (entity.AccountComparison, error) {
	if err := uc.requireAccounts(); err != nil {
		return entity.AccountComparison{}, err
	}
	comparison := metrics.CompareAccounts(uc.accountData(), top)
	if len(comparison.Accounts) == 0 {
		uc.console.LogWarning("No account has positive costs in its latest month")
		return comparison, nil
	}

	table := uc.console.CreateTable()
	table.AddColumn("Service")
	for i, name := range comparison.Accounts {
		table.AddColumn(fmt.Sprintf("%s (%s)", name, money(comparison.AccountTotals[i])))
	}
	for _, s := range comparison.Series {
		row := []interface{}{s.Service}
		for _, v := range s.Values {
			row = append(row, fmt.Sprintf("%.1f%%", v))
		}
		table.AddRow(row...)
	}
	uc.console.Println("\nLatest month service share by account")
	uc.console.Println(table.Render())
	return comparison, nil
}

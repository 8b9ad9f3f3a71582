package costdata

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
)

// AggregateMultiAccountData consolida várias contas em uma única visão.
// O resultado é sempre recalculado por completo; nada é mantido entre chamadas.
func AggregateMultiAccountData(accounts []entity.AccountData) *entity.AggregatedData {
	if len(accounts) == 0 {
		return &entity.AggregatedData{
			Accounts:           []entity.AccountSummary{},
			Services:           []string{},
			MonthlyTrends:      []entity.MonthlyTrendRecord{},
			ServiceAggregation: entity.NewCostMap(),
		}
	}

	services := ServiceUnion(accounts)
	dates := MonthUnion(accounts)

	trends := make([]entity.MonthlyTrendRecord, 0, len(dates))
	for _, date := range dates {
		trend := entity.MonthlyTrendRecord{
			Date:             date,
			ServiceBreakdown: entity.NewCostMap(),
			AccountCosts:     entity.NewCostMap(),
		}
		for _, account := range accounts {
			record, ok := account.MonthByDate(date)
			if !ok {
				// Conta sem dados no mês contribui com zero.
				trend.AccountCosts.Add(account.AccountName, 0)
				continue
			}
			trend.AccountCosts.Add(account.AccountName, record.TotalCost)
			trend.TotalCost += record.TotalCost
			record.Services.Each(trend.ServiceBreakdown.Add)
		}
		trends = append(trends, trend)
	}

	aggregation := entity.NewCostMap()
	for _, service := range services {
		total := 0.0
		for _, account := range accounts {
			total += sanitizeCost(account.Summary.Services.Value(service))
		}
		aggregation.Set(service, total)
	}

	result := &entity.AggregatedData{
		Accounts: lo.Map(accounts, func(a entity.AccountData, _ int) entity.AccountSummary {
			return entity.AccountSummary{
				Name:       a.AccountName,
				TotalCost:  a.TotalCost,
				MonthCount: a.DataRange.MonthCount,
				Services:   len(a.Services),
			}
		}),
		TotalAccounts:      len(accounts),
		TotalCost:          lo.SumBy(accounts, func(a entity.AccountData) float64 { return a.TotalCost }),
		Services:           services,
		MonthlyTrends:      trends,
		ServiceAggregation: aggregation,
	}
	if len(dates) > 0 {
		result.DateRange = entity.DateRange{StartDate: dates[0], EndDate: dates[len(dates)-1]}
	}
	return result
}

// ServiceUnion returns every service of every account, deduplicated and sorted.
func ServiceUnion(accounts []entity.AccountData) []string {
	services := lo.Uniq(lo.FlatMap(accounts, func(a entity.AccountData, _ int) []string {
		return a.Services
	}))
	sort.Strings(services)
	return services
}

// MonthUnion returns every month date present in any account, sorted ascending.
func MonthUnion(accounts []entity.AccountData) []string {
	dates := lo.Uniq(lo.FlatMap(accounts, func(a entity.AccountData, _ int) []string {
		return lo.Map(a.MonthlyData, func(m entity.MonthRecord, _ int) string { return m.Date })
	}))
	sort.Strings(dates)
	return dates
}

// sanitizeCost descarta valores não finitos e limita negativos a zero.
func sanitizeCost(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

package metrics

import (
	"strings"

	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/costdata"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// BuildServicePivot alinha um serviço de todas as contas pela união de meses.
// Meses sem o serviço contam como zero. TotalByMonth soma todas as contas.
func BuildServicePivot(accounts []entity.AccountData, service string) (entity.ServicePivot, error) {
	if strings.TrimSpace(service) == "" {
		return entity.ServicePivot{}, &types.ValidationError{Field: "service", Reason: "a service name is required"}
	}

	months := costdata.MonthUnion(accounts)
	pivot := entity.ServicePivot{
		Service:      service,
		Months:       months,
		Accounts:     make([]entity.AccountServiceSeries, 0, len(accounts)),
		TotalByMonth: make([]float64, len(months)),
	}

	for _, account := range accounts {
		series := entity.AccountServiceSeries{
			AccountName: account.AccountName,
			MonthlyData: make([]entity.MonthValue, 0, len(months)),
			Trend:       entity.TrendStable,
		}
		for i, month := range months {
			cost := 0.0
			if record, ok := account.MonthByDate(month); ok {
				cost = record.ServiceCost(service)
			}
			series.MonthlyData = append(series.MonthlyData, entity.MonthValue{Date: month, Cost: cost})
			series.TotalCost += cost
			pivot.TotalByMonth[i] += cost
		}
		if len(months) > 0 {
			series.AverageCost = series.TotalCost / float64(len(months))
		}
		series.Trend = seriesTrend(series.MonthlyData)
		pivot.Accounts = append(pivot.Accounts, series)
	}
	return pivot, nil
}

// seriesTrend compara o primeiro e o último mês com margem de 10%.
func seriesTrend(values []entity.MonthValue) string {
	if len(values) < 2 {
		return entity.TrendStable
	}
	first, last := values[0].Cost, values[len(values)-1].Cost
	switch {
	case last > first*1.1:
		return entity.TrendIncreasing
	case last < first*0.9:
		return entity.TrendDecreasing
	default:
		return entity.TrendStable
	}
}

// BuildMultiServicePivot soma cada serviço selecionado em todas as contas, mês a mês,
// e calcula os totais por serviço e o total geral.
func BuildMultiServicePivot(accounts []entity.AccountData, services []string) (entity.MultiServicePivot, error) {
	services = lo.Uniq(lo.Filter(services, func(s string, _ int) bool { return strings.TrimSpace(s) != "" }))
	if len(services) == 0 {
		return entity.MultiServicePivot{}, &types.ValidationError{Field: "services", Reason: "at least one service must be selected"}
	}

	months := costdata.MonthUnion(accounts)
	pivot := entity.MultiServicePivot{
		Services:         services,
		Months:           months,
		MonthlyBreakdown: make([]entity.MultiServiceMonth, 0, len(months)),
		ServiceTotals:    entity.NewCostMap(),
	}
	for _, s := range services {
		pivot.ServiceTotals.Set(s, 0)
	}

	for _, month := range months {
		row := entity.MultiServiceMonth{Date: month, Services: entity.NewCostMap()}
		for _, s := range services {
			total := 0.0
			for _, account := range accounts {
				if record, ok := account.MonthByDate(month); ok {
					total += record.ServiceCost(s)
				}
			}
			row.Services.Set(s, total)
			row.Total += total
			pivot.ServiceTotals.Add(s, total)
		}
		pivot.MonthlyBreakdown = append(pivot.MonthlyBreakdown, row)
	}
	pivot.GrandTotal = pivot.ServiceTotals.Sum()
	return pivot, nil
}

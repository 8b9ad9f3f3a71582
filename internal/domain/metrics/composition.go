package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/costdata"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// AllAccounts selects every registered account in composition views.
const AllAccounts = "all"

// DefaultLowUsageThreshold is the cost under which a service counts as low usage.
const DefaultLowUsageThreshold = 10.0

// TopServices ordena os serviços por custo (decrescente) e mantém os k primeiros.
// O restante é somado no balde "Other", que só aparece se houver restante.
// k é limitado a no mínimo 1.
func TopServices(totals *entity.CostMap, k int) []entity.ServiceShare {
	k = max(k, 1)
	ranked := rankServices(totals)
	if len(ranked) <= k {
		return ranked
	}
	other := entity.ServiceShare{Service: entity.OtherBucket}
	for _, s := range ranked[k:] {
		other.Cost += s.Cost
	}
	return append(ranked[:k:k], other)
}

// rankServices sorts by cost descending; equal costs keep insertion order.
func rankServices(totals *entity.CostMap) []entity.ServiceShare {
	ranked := make([]entity.ServiceShare, 0, totals.Len())
	totals.Each(func(service string, cost float64) {
		ranked = append(ranked, entity.ServiceShare{Service: service, Cost: cost})
	})
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Cost > ranked[j].Cost })
	return ranked
}

// ServiceComposition soma cada serviço em todos os meses das contas selecionadas
// e devolve o top k com "Other".
func ServiceComposition(accounts []entity.AccountData, accountFilter string, k int) ([]entity.ServiceShare, error) {
	selected, err := selectAccounts(accounts, accountFilter)
	if err != nil {
		return nil, err
	}
	totals := entity.NewCostMap()
	for _, account := range selected {
		for _, month := range account.MonthlyData {
			month.Services.Each(totals.Add)
		}
	}
	return TopServices(totals, k), nil
}

// StackedMonthlyComposition devolve, para cada mês da união, o custo dos k
// serviços principais e do balde "Other".
func StackedMonthlyComposition(accounts []entity.AccountData, accountFilter string, k int) (entity.StackedComposition, error) {
	selected, err := selectAccounts(accounts, accountFilter)
	if err != nil {
		return entity.StackedComposition{}, err
	}
	k = max(k, 1)
	months := costdata.MonthUnion(accounts)

	perMonth := make([]*entity.CostMap, len(months))
	totals := entity.NewCostMap()
	for i, month := range months {
		perMonth[i] = entity.NewCostMap()
		for _, account := range selected {
			if record, ok := account.MonthByDate(month); ok {
				record.Services.Each(perMonth[i].Add)
			}
		}
		perMonth[i].Each(totals.Add)
	}

	ranked := rankServices(totals)
	top := lo.Map(ranked[:min(k, len(ranked))], func(s entity.ServiceShare, _ int) string { return s.Service })
	isTop := lo.SliceToMap(top, func(s string) (string, struct{}) { return s, struct{}{} })

	out := entity.StackedComposition{Account: accountFilter, Months: months, Series: []entity.StackedSeries{}}
	for _, service := range top {
		values := make([]float64, len(months))
		for i := range months {
			values[i] = perMonth[i].Value(service)
		}
		out.Series = append(out.Series, entity.StackedSeries{Service: service, Values: values})
	}
	if len(ranked) > k {
		values := make([]float64, len(months))
		for i := range months {
			perMonth[i].Each(func(service string, cost float64) {
				if _, ok := isTop[service]; !ok {
					values[i] += cost
				}
			})
		}
		out.Series = append(out.Series, entity.StackedSeries{Service: entity.OtherBucket, Values: values})
	}
	return out, nil
}

// CompareAccounts monta a comparação percentual entre contas usando o último mês
// de cada uma. Os serviços exibidos vêm da união dos principais de cada conta,
// reordenada pelo total entre contas; o restante vai para "Other", sempre presente.
func CompareAccounts(accounts []entity.AccountData, k int) entity.AccountComparison {
	k = max(k, 1)
	type accountServices struct {
		name     string
		services *entity.CostMap
		total    float64
	}

	var valid []accountServices
	allServices := entity.NewCostMap()
	for _, account := range accounts {
		latest, ok := account.LatestMonth()
		if !ok {
			continue
		}
		services := entity.NewCostMap()
		latest.Services.Each(func(service string, cost float64) {
			if !math.IsNaN(cost) && !math.IsInf(cost, 0) && cost > 0 {
				services.Set(service, cost)
				allServices.Add(service, cost)
			}
		})
		if services.Len() > 0 {
			valid = append(valid, accountServices{name: account.AccountName, services: services, total: services.Sum()})
		}
	}

	out := entity.AccountComparison{Accounts: []string{}, AccountTotals: []float64{}, Series: []entity.StackedSeries{}}
	if len(valid) == 0 {
		return out
	}

	perAccount := max(2, int(math.Ceil(float64(k)/float64(len(valid)))))
	important := entity.NewCostMap()
	for _, a := range valid {
		for _, s := range rankServices(a.services)[:min(perAccount, a.services.Len())] {
			if !important.Has(s.Service) {
				important.Set(s.Service, allServices.Value(s.Service))
			}
		}
	}
	ranked := rankServices(important)
	top := lo.Map(ranked[:min(k, len(ranked))], func(s entity.ServiceShare, _ int) string { return s.Service })
	isTop := lo.SliceToMap(top, func(s string) (string, struct{}) { return s, struct{}{} })

	share := func(part, total float64) float64 {
		if total <= 0 {
			return 0
		}
		return part / total * 100
	}

	for _, a := range valid {
		out.Accounts = append(out.Accounts, a.name)
		out.AccountTotals = append(out.AccountTotals, a.total)
	}
	for _, service := range top {
		values := lo.Map(valid, func(a accountServices, _ int) float64 {
			return share(a.services.Value(service), a.total)
		})
		out.Series = append(out.Series, entity.StackedSeries{Service: service, Values: values})
	}
	others := lo.Map(valid, func(a accountServices, _ int) float64 {
		rest := 0.0
		a.services.Each(func(service string, cost float64) {
			if _, ok := isTop[service]; !ok {
				rest += cost
			}
		})
		return share(rest, a.total)
	})
	out.Series = append(out.Series, entity.StackedSeries{Service: entity.OtherBucket, Values: others})
	return out
}

// LowUsageServices lista os serviços do último mês agregado com custo entre
// zero (exclusivo) e threshold (exclusivo), do menor para o maior.
func LowUsageServices(data *entity.AggregatedData, threshold float64) []entity.ServiceShare {
	out := []entity.ServiceShare{}
	if data == nil || len(data.MonthlyTrends) == 0 {
		return out
	}
	trends := sortedByDate(data.MonthlyTrends)
	latest := trends[len(trends)-1]
	latest.ServiceBreakdown.Each(func(service string, cost float64) {
		if cost > 0 && cost < threshold {
			out = append(out, entity.ServiceShare{Service: service, Cost: cost})
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

func selectAccounts(accounts []entity.AccountData, filter string) ([]entity.AccountData, error) {
	if filter == "" || filter == AllAccounts {
		return accounts, nil
	}
	account, ok := lo.Find(accounts, func(a entity.AccountData) bool { return a.AccountName == filter })
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrAccountNotFound, filter)
	}
	return []entity.AccountData{account}, nil
}

package metrics

import "github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"

// AccountServiceTrend monta as séries mensais de custo total por conta e dos k
// serviços principais. Com AllAccounts inclui também a linha do total geral.
// Nas séries de conta, o campo Service carrega o nome da conta.
func AccountServiceTrend(accounts []entity.AccountData, accountFilter string, k int) (entity.ServiceTrend, error) {
	if accountFilter == "" {
		accountFilter = AllAccounts
	}
	selected, err := selectAccounts(accounts, accountFilter)
	if err != nil {
		return entity.ServiceTrend{}, err
	}
	stacked, err := StackedMonthlyComposition(accounts, accountFilter, k)
	if err != nil {
		return entity.ServiceTrend{}, err
	}

	out := entity.ServiceTrend{
		Account:  accountFilter,
		Months:   stacked.Months,
		Accounts: make([]entity.StackedSeries, 0, len(selected)),
		Services: stacked.Series,
	}
	total := make([]float64, len(out.Months))
	for _, account := range selected {
		values := make([]float64, len(out.Months))
		for i, month := range out.Months {
			if record, ok := account.MonthByDate(month); ok {
				values[i] = record.TotalCost
				total[i] += record.TotalCost
			}
		}
		out.Accounts = append(out.Accounts, entity.StackedSeries{Service: account.AccountName, Values: values})
	}
	if accountFilter == AllAccounts {
		out.Total = total
	}
	return out, nil
}

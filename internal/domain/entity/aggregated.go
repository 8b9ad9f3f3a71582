package entity

import (
	"bytes"
	"encoding/json"
)

// AccountSummary is the per-account line of an aggregation.
type AccountSummary struct {
	Name       string  `json:"name"`
	TotalCost  float64 `json:"totalCost"`
	MonthCount int     `json:"monthCount"`
	Services   int     `json:"services"`
}

// DateRange is the span of months present across all accounts.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// MonthlyTrendRecord agrega um mês para todas as contas.
// O custo de cada conta é serializado como campo de primeiro nível, com o nome da conta como chave.
type MonthlyTrendRecord struct {
	Date             string
	TotalCost        float64
	ServiceBreakdown *CostMap
	AccountCosts     *CostMap
}

func (r MonthlyTrendRecord) GetDate() string       { return r.Date }
func (r MonthlyTrendRecord) GetTotalCost() float64 { return r.TotalCost }

// AccountCost returns the cost of account in this month (0 when absent).
func (r MonthlyTrendRecord) AccountCost(account string) float64 {
	return r.AccountCosts.Value(account)
}

func (r MonthlyTrendRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, KeyDate, r.Date); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, KeyTotalCost, finite(r.TotalCost)); err != nil {
		return nil, err
	}
	breakdown := r.ServiceBreakdown
	if breakdown == nil {
		breakdown = NewCostMap()
	}
	buf.WriteByte(',')
	if err := writeField(&buf, KeyServiceBreakdown, breakdown); err != nil {
		return nil, err
	}
	if err := r.AccountCosts.writeFields(&buf, true, true); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *MonthlyTrendRecord) UnmarshalJSON(data []byte) error {
	*r = MonthlyTrendRecord{ServiceBreakdown: NewCostMap(), AccountCosts: NewCostMap()}
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		switch key {
		case KeyDate:
			return dec.Decode(&r.Date)
		case KeyTotalCost:
			return dec.Decode(&r.TotalCost)
		case KeyServiceBreakdown:
			return dec.Decode(r.ServiceBreakdown)
		default:
			return decodeNumericField(dec, key, r.AccountCosts)
		}
	})
}

// AggregatedData é a visão consolidada de todas as contas cadastradas.
// Sempre recalculada a partir das contas; nunca atualizada incrementalmente.
type AggregatedData struct {
	Accounts           []AccountSummary     `json:"accounts"`
	TotalAccounts      int                  `json:"totalAccounts"`
	TotalCost          float64              `json:"totalCost"`
	Services           []string             `json:"services"`
	MonthlyTrends      []MonthlyTrendRecord `json:"monthlyTrends"`
	ServiceAggregation *CostMap             `json:"serviceAggregation"`
	DateRange          DateRange            `json:"dateRange"`
}

// LatestTrends returns the last two monthly trends (previous, current).
func (a *AggregatedData) LatestTrends() (previous, current MonthlyTrendRecord, ok bool) {
	n := len(a.MonthlyTrends)
	if n < 2 {
		return MonthlyTrendRecord{}, MonthlyTrendRecord{}, false
	}
	return a.MonthlyTrends[n-2], a.MonthlyTrends[n-1], true
}

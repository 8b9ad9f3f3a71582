package entity

// CostPoint is any monthly record that carries a date and a total cost.
type CostPoint interface {
	GetDate() string
	GetTotalCost() float64
}

// Trend values.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// GrowthRate resume o crescimento mês a mês e do período inteiro.
type GrowthRate struct {
	MonthOverMonth float64 `json:"monthOverMonth"`
	TotalGrowth    float64 `json:"totalGrowth"`
	Trend          string  `json:"trend"`
	LatestCost     float64 `json:"latestCost"`
	PreviousCost   float64 `json:"previousCost"`
}

const (
	ChangeIncrease = "increase"
	ChangeDecrease = "decrease"
)

// VariationRecord é a variação de custo de um serviço entre dois meses.
type VariationRecord struct {
	Service      string  `json:"service"`
	CurrentCost  float64 `json:"currentCost"`
	PreviousCost float64 `json:"previousCost"`
	ChangeRate   float64 `json:"changeRate"`
	ChangeType   string  `json:"changeType"`
}

// PeriodStatistics são estatísticas de custo total de um intervalo de meses.
type PeriodStatistics struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Period is a month-granularity range; Start and End use YYYY-MM.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PeriodComparison compares two periods of the same monthly series.
type PeriodComparison struct {
	Account           string           `json:"account,omitempty"`
	BasePeriod        Period           `json:"basePeriod"`
	ComparePeriod     Period           `json:"comparePeriod"`
	BaseStats         PeriodStatistics `json:"baseStats"`
	CompareStats      PeriodStatistics `json:"compareStats"`
	MeanDifference    float64          `json:"meanDifference"`
	MeanChangePercent float64          `json:"meanChangePercent"`
}

// BaselineMode selects the reference month of a reduction effect.
type BaselineMode string

const (
	BaselineFirstMonth    BaselineMode = "first-month"
	BaselinePeakMonth     BaselineMode = "peak-month"
	BaselinePreviousMonth BaselineMode = "previous-month"
)

// ReductionEffect mede a redução de custo do último mês contra a linha de base.
type ReductionEffect struct {
	AccountName         string  `json:"accountName,omitempty"`
	BaselineCost        float64 `json:"baselineCost"`
	LatestCost          float64 `json:"latestCost"`
	ReductionAmount     float64 `json:"reductionAmount"`
	ReductionPercentage float64 `json:"reductionPercentage"`
}

// MonthValue is one point of a per-account service series.
type MonthValue struct {
	Date string  `json:"date"`
	Cost float64 `json:"cost"`
}

// AccountServiceSeries é a série mensal de um serviço para uma conta.
type AccountServiceSeries struct {
	AccountName string       `json:"accountName"`
	MonthlyData []MonthValue `json:"monthlyData"`
	TotalCost   float64      `json:"totalCost"`
	AverageCost float64      `json:"averageCost"`
	Trend       string       `json:"trend"`
}

// ServicePivot cruza um serviço com todas as contas, alinhado pela união de meses.
type ServicePivot struct {
	Service      string                 `json:"selectedService"`
	Months       []string               `json:"months"`
	Accounts     []AccountServiceSeries `json:"accounts"`
	TotalByMonth []float64              `json:"totalByMonth"`
}

// MultiServiceMonth holds, for one month, each selected service summed across accounts.
type MultiServiceMonth struct {
	Date     string   `json:"date"`
	Services *CostMap `json:"services"`
	Total    float64  `json:"total"`
}

// MultiServicePivot cruza vários serviços com a soma de todas as contas.
type MultiServicePivot struct {
	Services         []string            `json:"services"`
	Months           []string            `json:"months"`
	MonthlyBreakdown []MultiServiceMonth `json:"monthlyBreakdown"`
	ServiceTotals    *CostMap            `json:"serviceTotals"`
	GrandTotal       float64             `json:"grandTotal"`
}

// OtherBucket is the synthetic service that collects everything outside the top N.
const OtherBucket = "Other"

// ServiceShare is a service with its cost.
type ServiceShare struct {
	Service string  `json:"service"`
	Cost    float64 `json:"cost"`
}

// StackedSeries is one service's per-month values in a stacked view.
type StackedSeries struct {
	Service string    `json:"service"`
	Values  []float64 `json:"values"`
}

// StackedComposition é a composição mensal por serviço (top N + Other).
type StackedComposition struct {
	Account string          `json:"account"`
	Months  []string        `json:"months"`
	Series  []StackedSeries `json:"series"`
}

// AccountComparison compares service shares (%) of each account's latest month.
type AccountComparison struct {
	Accounts      []string        `json:"accounts"`
	AccountTotals []float64       `json:"accountTotals"`
	Series        []StackedSeries `json:"series"`
}

// ServiceTrend acompanha, mês a mês, o total de cada conta, o total geral
// (só para todas as contas) e os principais serviços com "Other".
type ServiceTrend struct {
	Account  string          `json:"account"`
	Months   []string        `json:"months"`
	Accounts []StackedSeries `json:"accounts"`
	Total    []float64       `json:"total,omitempty"`
	Services []StackedSeries `json:"services"`
}

// AccountGrowth is the growth rate of one account.
type AccountGrowth struct {
	AccountName string `json:"accountName"`
	GrowthRate
}

// AnalysisReport é o conjunto de resultados exportado pelo comando analyze.
type AnalysisReport struct {
	Aggregated         *AggregatedData   `json:"aggregated"`
	TotalGrowth        GrowthRate        `json:"totalGrowth"`
	AccountGrowth      []AccountGrowth   `json:"accountGrowth"`
	Variations         []VariationRecord `json:"variations"`
	VariationThreshold float64           `json:"variationThreshold"`
	LowUsage           []ServiceShare    `json:"lowUsageServices"`
	LowUsageThreshold  float64           `json:"lowUsageThreshold"`
}

package metrics

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CalculatePeriodStatistics calcula média, desvio padrão populacional, mínimo e
// máximo do custo total. Entrada vazia devolve tudo zero.
func CalculatePeriodStatistics[T entity.CostPoint](records []T) entity.PeriodStatistics {
	n := len(records)
	if n == 0 {
		return entity.PeriodStatistics{}
	}

	sum := 0.0
	minCost, maxCost := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		c := r.GetTotalCost()
		sum += c
		minCost = math.Min(minCost, c)
		maxCost = math.Max(maxCost, c)
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, r := range records {
		d := r.GetTotalCost() - mean
		variance += d * d
	}
	variance /= float64(n)

	return entity.PeriodStatistics{
		Mean:   Round2(mean),
		StdDev: Round2(math.Sqrt(variance)),
		Min:    Round2(minCost),
		Max:    Round2(maxCost),
		Count:  n,
	}
}

// ComparePeriods calcula as estatísticas de dois períodos (YYYY-MM) da mesma série.
// Falha com ValidationError para períodos inválidos ou sem dados.
func ComparePeriods[T entity.CostPoint](monthlyData []T, base, compare entity.Period) (entity.PeriodComparison, error) {
	baseStart, baseEnd, err := PeriodBounds(base, "base period")
	if err != nil {
		return entity.PeriodComparison{}, err
	}
	compareStart, compareEnd, err := PeriodBounds(compare, "compare period")
	if err != nil {
		return entity.PeriodComparison{}, err
	}

	baseData := FilterByDate(monthlyData, baseStart, baseEnd)
	if len(baseData) == 0 {
		return entity.PeriodComparison{}, &types.ValidationError{Field: "base period", Reason: types.ErrNoDataInPeriod.Error(), Err: types.ErrNoDataInPeriod}
	}
	compareData := FilterByDate(monthlyData, compareStart, compareEnd)
	if len(compareData) == 0 {
		return entity.PeriodComparison{}, &types.ValidationError{Field: "compare period", Reason: types.ErrNoDataInPeriod.Error(), Err: types.ErrNoDataInPeriod}
	}

	baseStats := CalculatePeriodStatistics(baseData)
	compareStats := CalculatePeriodStatistics(compareData)
	out := entity.PeriodComparison{
		BasePeriod:     base,
		ComparePeriod:  compare,
		BaseStats:      baseStats,
		CompareStats:   compareStats,
		MeanDifference: Round2(compareStats.Mean - baseStats.Mean),
	}
	if baseStats.Mean != 0 {
		out.MeanChangePercent = Round2((compareStats.Mean - baseStats.Mean) / baseStats.Mean * 100)
	}
	return out, nil
}

// PeriodBounds converte um período YYYY-MM em datas inclusivas: dia 01 do mês
// inicial e o último dia real do mês final.
func PeriodBounds(p entity.Period, field string) (start, end string, err error) {
	if p.Start == "" || p.End == "" {
		return "", "", &types.ValidationError{Field: field, Reason: "start and end months are required"}
	}
	if !isYearMonth(p.Start) || !isYearMonth(p.End) {
		return "", "", &types.ValidationError{Field: field, Reason: fmt.Sprintf("months must use YYYY-MM, got %q to %q", p.Start, p.End)}
	}
	if p.Start > p.End {
		return "", "", &types.ValidationError{Field: field, Reason: fmt.Sprintf("start month %s is after end month %s", p.Start, p.End)}
	}
	return p.Start + "-01", LastDayOfMonth(p.End), nil
}

// LastDayOfMonth returns YYYY-MM-DD for the last calendar day of yearMonth.
func LastDayOfMonth(yearMonth string) string {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return yearMonth + "-31"
	}
	last := t.AddDate(0, 1, -1)
	return yearMonth + "-" + fmt.Sprintf("%02d", last.Day())
}

// FilterByDate keeps records whose date lies in [start, end] by string comparison.
func FilterByDate[T entity.CostPoint](records []T, start, end string) []T {
	var out []T
	for _, r := range records {
		if d := r.GetDate(); d >= start && d <= end {
			out = append(out, r)
		}
	}
	return out
}

func isYearMonth(s string) bool {
	if !yearMonthPattern.MatchString(s) {
		return false
	}
	month, _ := strconv.Atoi(s[5:])
	return month >= 1 && month <= 12
}

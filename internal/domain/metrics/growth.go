package metrics

import (
	"math"
	"sort"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
)

// stableThreshold é a variação mensal (%) abaixo da qual a tendência é estável.
const stableThreshold = 1.0

// CalculateGrowthRates calcula o crescimento de uma conta a partir de seus meses.
func CalculateGrowthRates(monthlyData []entity.MonthRecord) entity.GrowthRate {
	return growthRates(monthlyData)
}

// CalculateTotalGrowthRates calcula o crescimento do custo total agregado.
func CalculateTotalGrowthRates(monthlyTrends []entity.MonthlyTrendRecord) entity.GrowthRate {
	return growthRates(monthlyTrends)
}

func growthRates[T entity.CostPoint](data []T) entity.GrowthRate {
	if len(data) < 2 {
		return entity.GrowthRate{Trend: entity.TrendInsufficientData}
	}
	sorted := sortedByDate(data)
	latest := sorted[len(sorted)-1].GetTotalCost()
	previous := sorted[len(sorted)-2].GetTotalCost()
	earliest := sorted[0].GetTotalCost()

	mom := percentChange(previous, latest)
	return entity.GrowthRate{
		MonthOverMonth: Round2(mom),
		TotalGrowth:    Round2(percentChange(earliest, latest)),
		Trend:          trendOf(mom),
		LatestCost:     latest,
		PreviousCost:   previous,
	}
}

func trendOf(changePercent float64) string {
	switch {
	case math.Abs(changePercent) < stableThreshold:
		return entity.TrendStable
	case changePercent > 0:
		return entity.TrendIncreasing
	default:
		return entity.TrendDecreasing
	}
}

// percentChange returns (to-from)/from*100, or 0 when from is not positive.
func percentChange(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (to - from) / from * 100
}

// sortedByDate devolve uma cópia ordenada; a entrada não é alterada.
func sortedByDate[T entity.CostPoint](data []T) []T {
	out := make([]T, len(data))
	copy(out, data)
	sort.SliceStable(out, func(i, j int) bool { return out[i].GetDate() < out[j].GetDate() })
	return out
}

// Round2 arredonda para centavos, com meio centavo se afastando de zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

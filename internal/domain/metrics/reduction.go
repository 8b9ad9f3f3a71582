package metrics

import (
	"fmt"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// ParseBaselineMode validates a baseline mode name.
func ParseBaselineMode(s string) (entity.BaselineMode, error) {
	switch mode := entity.BaselineMode(s); mode {
	case entity.BaselineFirstMonth, entity.BaselinePeakMonth, entity.BaselinePreviousMonth:
		return mode, nil
	}
	return "", &types.ValidationError{
		Field:  "baseline",
		Reason: fmt.Sprintf("unknown baseline mode %q (use first-month, peak-month or previous-month)", s),
	}
}

// CalculateReductionEffect compara o último mês com a linha de base escolhida.
// Com menos de dois meses o resultado é todo zero.
func CalculateReductionEffect[T entity.CostPoint](monthlyData []T, mode entity.BaselineMode) (entity.ReductionEffect, error) {
	if _, err := ParseBaselineMode(string(mode)); err != nil {
		return entity.ReductionEffect{}, err
	}
	if len(monthlyData) < 2 {
		return entity.ReductionEffect{}, nil
	}

	sorted := sortedByDate(monthlyData)
	latest := sorted[len(sorted)-1].GetTotalCost()

	var baseline float64
	switch mode {
	case entity.BaselineFirstMonth:
		baseline = sorted[0].GetTotalCost()
	case entity.BaselinePeakMonth:
		baseline = sorted[0].GetTotalCost()
		for _, r := range sorted[1:] {
			if c := r.GetTotalCost(); c > baseline {
				baseline = c
			}
		}
	case entity.BaselinePreviousMonth:
		baseline = latest
		if len(sorted) >= 2 {
			baseline = sorted[len(sorted)-2].GetTotalCost()
		}
	}

	out := entity.ReductionEffect{
		BaselineCost:    baseline,
		LatestCost:      latest,
		ReductionAmount: baseline - latest,
	}
	if baseline != 0 {
		out.ReductionPercentage = Round2(out.ReductionAmount / baseline * 100)
	}
	return out, nil
}

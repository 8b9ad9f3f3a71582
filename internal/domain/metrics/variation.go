package metrics

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
)

// DefaultVariationThreshold is the change rate (%) used when none is configured.
const DefaultVariationThreshold = 5.0

// DetectCostVariations compara os custos por serviço de dois meses e devolve
// os serviços cuja variação absoluta atinge threshold, da maior para a menor.
func DetectCostVariations(current, previous *entity.CostMap, threshold float64) []entity.VariationRecord {
	variations := []entity.VariationRecord{}
	for _, service := range lo.Union(current.Keys(), previous.Keys()) {
		cur := current.Value(service)
		prev := previous.Value(service)
		if cur == 0 && prev == 0 {
			continue
		}

		var rate float64
		switch {
		case prev == 0 && cur > 0:
			rate = 100
		case prev > 0 && cur == 0:
			rate = -100
		case prev != 0:
			rate = (cur - prev) / prev * 100
		}

		if math.Abs(rate) < threshold {
			continue
		}
		changeType := entity.ChangeIncrease
		if rate < 0 {
			changeType = entity.ChangeDecrease
		}
		variations = append(variations, entity.VariationRecord{
			Service:      service,
			CurrentCost:  cur,
			PreviousCost: prev,
			ChangeRate:   rate,
			ChangeType:   changeType,
		})
	}

	sort.SliceStable(variations, func(i, j int) bool {
		return math.Abs(variations[i].ChangeRate) > math.Abs(variations[j].ChangeRate)
	})
	return variations
}

// LatestCostVariations aplica DetectCostVariations aos dois últimos meses agregados.
func LatestCostVariations(data *entity.AggregatedData, threshold float64) []entity.VariationRecord {
	if data == nil {
		return []entity.VariationRecord{}
	}
	trends := sortedByDate(data.MonthlyTrends)
	if len(trends) < 2 {
		return []entity.VariationRecord{}
	}
	current := trends[len(trends)-1]
	previous := trends[len(trends)-2]
	return DetectCostVariations(current.ServiceBreakdown, previous.ServiceBreakdown, threshold)
}

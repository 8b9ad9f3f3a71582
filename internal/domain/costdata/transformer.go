package costdata

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// Colunas e marcadores do CSV exportado pelo Cost Explorer (console em japonês).
const (
	LabelColumn     = "サービス"
	TotalColumn     = "合計コスト($)"
	TotalMarker     = "合計"
	TotalCostMarker = "合計コスト"
	CurrencySuffix  = "($)"
)

var (
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// TransformCostData normaliza as linhas de um CSV de custos em AccountData.
func TransformCostData(rows []Row, accountName string) (entity.AccountData, error) {
	if len(rows) == 0 {
		return entity.AccountData{}, &types.TransformError{Account: accountName, Reason: "invalid or empty data array"}
	}

	columns := serviceColumns(rows[0].Keys())
	services := make([]string, len(columns))
	for i, c := range columns {
		services[i] = c.service
	}

	var (
		summaryRow *Row
		months     []entity.MonthRecord
	)
	for i := range rows {
		label := rows[i].Value(LabelColumn)
		if label == "" {
			continue
		}
		if summaryRow == nil && strings.Contains(label, TotalMarker) {
			summaryRow = &rows[i]
			continue
		}
		if IsValidDateString(label) {
			costs, total := transformRowData(rows[i], columns)
			months = append(months, entity.MonthRecord{Date: label, TotalCost: total, Services: costs})
		}
	}
	if summaryRow == nil {
		return entity.AccountData{}, &types.TransformError{Account: accountName, Reason: "summary row not found in CSV data"}
	}

	sort.SliceStable(months, func(i, j int) bool { return months[i].Date < months[j].Date })

	summaryCosts, summaryTotal := transformRowData(*summaryRow, columns)
	data := entity.AccountData{
		AccountName: accountName,
		Services:    services,
		Summary:     entity.Summary{Services: summaryCosts, TotalCost: summaryTotal},
		MonthlyData: months,
		TotalCost:   summaryTotal,
		DataRange:   entity.DataRange{MonthCount: len(months)},
	}
	if data.MonthlyData == nil {
		data.MonthlyData = []entity.MonthRecord{}
	}
	if len(months) > 0 {
		data.DataRange.StartDate = months[0].Date
		data.DataRange.EndDate = months[len(months)-1].Date
	}
	return data, nil
}

type serviceColumn struct {
	header  string
	service string
}

// ExtractServiceColumns retorna os nomes dos serviços (sem o sufixo "($)")
// das colunas de custo, excluindo a coluna de rótulo e a de custo total.
func ExtractServiceColumns(headers []string) []string {
	columns := serviceColumns(headers)
	services := make([]string, len(columns))
	for i, c := range columns {
		services[i] = c.service
	}
	return services
}

func serviceColumns(headers []string) []serviceColumn {
	var columns []serviceColumn
	for _, h := range headers {
		if h == LabelColumn || strings.Contains(h, TotalCostMarker) || !strings.HasSuffix(h, CurrencySuffix) {
			continue
		}
		columns = append(columns, serviceColumn{
			header:  h,
			service: strings.TrimSpace(strings.TrimSuffix(h, CurrencySuffix)),
		})
	}
	return columns
}

// transformRowData lê o custo de cada serviço e o custo total de uma linha.
func transformRowData(row Row, columns []serviceColumn) (*entity.CostMap, float64) {
	costs := entity.NewCostMap()
	for _, c := range columns {
		costs.Set(c.service, ParseCost(row.Value(c.header)))
	}
	return costs, ParseCost(row.Value(TotalColumn))
}

// ParseCost lê o prefixo numérico da célula; vazio ou não numérico vira 0.
func ParseCost(cell string) float64 {
	m := numericPrefix.FindString(strings.TrimSpace(cell))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// IsValidDateString reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDateString(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

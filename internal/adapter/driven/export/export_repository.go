package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// --- CSV ---

// ExportToCSV grava o relatório em blocos separados por uma linha em branco:
// tendência mensal, custo por serviço, variações e serviços de baixo uso.
func (r *ExportRepositoryImpl) ExportToCSV(report *entity.AnalysisReport, filename, outputDir string) (string, error) {
	if err := checkReport(report); err != nil {
		return "", err
	}
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, block := range csvBlocks(report) {
		if err := writer.WriteAll(block); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func csvBlocks(report *entity.AnalysisReport) [][][]string {
	agg := report.Aggregated
	accounts := lo.Map(agg.Accounts, func(a entity.AccountSummary, _ int) string { return a.Name })

	trend := [][]string{append([]string{"Month", "Total Cost"}, accounts...)}
	for _, m := range agg.MonthlyTrends {
		row := []string{m.Date, money(m.TotalCost)}
		for _, name := range accounts {
			row = append(row, money(m.AccountCost(name)))
		}
		trend = append(trend, row)
	}

	services := [][]string{{"Service", "Total Cost"}}
	agg.ServiceAggregation.Each(func(service string, cost float64) {
		services = append(services, []string{service, money(cost)})
	})

	variations := [][]string{{"Service", "Previous Cost", "Current Cost", "Change Rate (%)", "Change"}}
	for _, v := range report.Variations {
		variations = append(variations, []string{v.Service, money(v.PreviousCost), money(v.CurrentCost), percent(v.ChangeRate), v.ChangeType})
	}

	lowUsage := [][]string{{fmt.Sprintf("Low Usage Service (< $%.2f)", report.LowUsageThreshold), "Latest Month Cost"}}
	for _, s := range report.LowUsage {
		lowUsage = append(lowUsage, []string{s.Service, money(s.Cost)})
	}

	growth := [][]string{{"Account", "Month over Month (%)", "Total Growth (%)", "Trend"}}
	growth = append(growth, []string{"All accounts", percent(report.TotalGrowth.MonthOverMonth), percent(report.TotalGrowth.TotalGrowth), report.TotalGrowth.Trend})
	for _, g := range report.AccountGrowth {
		growth = append(growth, []string{g.AccountName, percent(g.MonthOverMonth), percent(g.TotalGrowth), g.Trend})
	}

	blank := [][]string{{}}
	return [][][]string{trend, blank, services, blank, growth, blank, variations, blank, lowUsage}
}

// --- JSON ---

func (r *ExportRepositoryImpl) ExportToJSON(report *entity.AnalysisReport, filename, outputDir string) (string, error) {
	if err := checkReport(report); err != nil {
		return "", err
	}
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- PDF ---

func (r *ExportRepositoryImpl) ExportToPDF(report *entity.AnalysisReport, filename, outputDir string) (string, error) {
	if err := checkReport(report); err != nil {
		return "", err
	}
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	agg := report.Aggregated
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by AWS Cost Analyzer | %s", r.now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	drawTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
	}

	drawTable := func(title string, widths []float64, header []string, rows [][]string) {
		if len(rows) == 0 {
			return
		}
		drawTitle(title)
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		for i, h := range header {
			pdf.CellFormat(widths[i], 7, tr(h), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, row := range rows {
			for i, cell := range row {
				pdf.CellFormat(widths[i], 6, tr(truncate(cell, 48)), "", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  AWS Cost Analysis"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	period := fmt.Sprintf("  %d accounts | %s to %s | Total %s", agg.TotalAccounts, agg.DateRange.StartDate, agg.DateRange.EndDate, money(agg.TotalCost))
	pdf.CellFormat(0, 8, tr(period), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	growthRows := [][]string{{"All accounts", percent(report.TotalGrowth.MonthOverMonth), percent(report.TotalGrowth.TotalGrowth), report.TotalGrowth.Trend}}
	for _, g := range report.AccountGrowth {
		growthRows = append(growthRows, []string{g.AccountName, percent(g.MonthOverMonth), percent(g.TotalGrowth), g.Trend})
	}
	drawTable("Growth", []float64{70, 40, 40, 40}, []string{"Account", "MoM (%)", "Total (%)", "Trend"}, growthRows)

	accountRows := lo.Map(agg.Accounts, func(a entity.AccountSummary, _ int) []string {
		return []string{a.Name, money(a.TotalCost), fmt.Sprint(a.MonthCount), fmt.Sprint(a.Services)}
	})
	drawTable("Accounts", []float64{70, 40, 40, 40}, []string{"Account", "Total Cost", "Months", "Services"}, accountRows)

	trendRows := lo.Map(agg.MonthlyTrends, func(m entity.MonthlyTrendRecord, _ int) []string {
		return []string{m.Date, money(m.TotalCost)}
	})
	drawTable("Monthly Trend", []float64{95, 95}, []string{"Month", "Total Cost"}, trendRows)

	var serviceRows [][]string
	agg.ServiceAggregation.Each(func(service string, cost float64) {
		serviceRows = append(serviceRows, []string{service, money(cost)})
	})
	drawTable("Cost By Service", []float64{130, 60}, []string{"Service", "Total Cost"}, serviceRows)

	variationRows := lo.Map(report.Variations, func(v entity.VariationRecord, _ int) []string {
		return []string{v.Service, money(v.PreviousCost), money(v.CurrentCost), percent(v.ChangeRate)}
	})
	drawTable(fmt.Sprintf("Cost Variations (>= %.1f%%)", report.VariationThreshold), []float64{85, 35, 35, 35},
		[]string{"Service", "Previous", "Current", "Change (%)"}, variationRows)

	lowUsageRows := lo.Map(report.LowUsage, func(s entity.ServiceShare, _ int) []string {
		return []string{s.Service, money(s.Cost)}
	})
	drawTable(fmt.Sprintf("Low Usage Services (< $%.2f)", report.LowUsageThreshold), []float64{130, 60},
		[]string{"Service", "Latest Month Cost"}, lowUsageRows)

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- helpers ---

func checkReport(report *entity.AnalysisReport) error {
	if report == nil || report.Aggregated == nil {
		return fmt.Errorf("nothing to export: the analysis report is empty")
	}
	return nil
}

func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if base == "" {
		base = "aws-cost-analysis"
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", sanitizeName(base), timestamp, ext)
	return filepath.Join(dir, filename), nil
}

var unsafeNameChars = regexp.MustCompile(`[^\w.\-]+`)

// sanitizeName troca separadores de caminho e outros caracteres problemáticos por "_".
func sanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

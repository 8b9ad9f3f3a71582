package repository

import (
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
)

// ExportRepository grava o relatório de análise em disco e devolve o caminho absoluto do arquivo.
type ExportRepository interface {
	ExportToCSV(report *entity.AnalysisReport, filename, outputDir string) (string, error)
	ExportToJSON(report *entity.AnalysisReport, filename, outputDir string) (string, error)
	ExportToPDF(report *entity.AnalysisReport, filename, outputDir string) (string, error)
}

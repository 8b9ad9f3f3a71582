package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

type fakeConsole struct {
	infos, warnings, errors, successes []string
	printed                            []string
	trendTitles                        []string
	progressTotal                      int
	progressSteps                      int
}

func (c *fakeConsole) Print(a ...interface{})                 { c.printed = append(c.printed, fmt.Sprint(a...)) }
func (c *fakeConsole) Printf(format string, a ...interface{}) { c.printed = append(c.printed, fmt.Sprintf(format, a...)) }
func (c *fakeConsole) Println(a ...interface{})               { c.printed = append(c.printed, fmt.Sprintln(a...)) }
func (c *fakeConsole) LogInfo(format string, a ...interface{}) {
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) Status(string) types.StatusHandle { return fakeHandle{} }
func (c *fakeConsole) Progress(_ string, total int) types.ProgressHandle {
	c.progressTotal = total
	return &fakeProgress{console: c}
}
func (c *fakeConsole) CreateTable() types.TableInterface { return &fakeTable{} }
func (c *fakeConsole) DisplayTrendBars(title string, _ []types.MonthlyCost) {
	c.trendTitles = append(c.trendTitles, title)
}

func (c *fakeConsole) output() string { return strings.Join(c.printed, "") }

type fakeHandle struct{}

func (fakeHandle) Update(string) {}
func (fakeHandle) Stop()         {}

type fakeProgress struct{ console *fakeConsole }

func (p *fakeProgress) Increment() { p.console.progressSteps++ }
func (p *fakeProgress) Stop()      {}

type fakeTable struct {
	columns []string
	rows    [][]string
}

func (t *fakeTable) AddColumn(name string, _ ...interface{}) { t.columns = append(t.columns, name) }
func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}
func (t *fakeTable) Render() string {
	lines := []string{strings.Join(t.columns, " | ")}
	for _, r := range t.rows {
		lines = append(lines, strings.Join(r, " | "))
	}
	return strings.Join(lines, "\n")
}

type fakeSession struct {
	values  map[string]string
	failGet error
	failSet error
}

func newFakeSession() *fakeSession { return &fakeSession{values: map[string]string{}} }

func (s *fakeSession) Get(_ context.Context, key string) (string, bool, error) {
	if s.failGet != nil {
		return "", false, s.failGet
	}
	v, ok := s.values[key]
	return v, ok, nil
}
func (s *fakeSession) Set(_ context.Context, key, value string) error {
	if s.failSet != nil {
		return s.failSet
	}
	s.values[key] = value
	return nil
}
func (s *fakeSession) Remove(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}
func (s *fakeSession) Close() error { return nil }

type fakeSource map[string]string

func (f fakeSource) ReadCSVFile(path string) (string, error) {
	text, ok := f[path]
	if !ok {
		return "", fmt.Errorf("error accessing CSV file: %w", os.ErrNotExist)
	}
	return text, nil
}

type fakeExport struct {
	calls []string
	fail  string
}

func (e *fakeExport) export(kind, filename, dir string) (string, error) {
	e.calls = append(e.calls, kind)
	if kind == e.fail {
		return "", errors.New("disk full")
	}
	return dir + "/" + filename + "." + kind, nil
}

func (e *fakeExport) ExportToCSV(_ *entity.AnalysisReport, filename, dir string) (string, error) {
	return e.export("csv", filename, dir)
}
func (e *fakeExport) ExportToJSON(_ *entity.AnalysisReport, filename, dir string) (string, error) {
	return e.export("json", filename, dir)
}
func (e *fakeExport) ExportToPDF(_ *entity.AnalysisReport, filename, dir string) (string, error) {
	return e.export("pdf", filename, dir)
}

const (
	devCSV = `"サービス","S3($)","EC2-インスタンス($)","合計コスト($)"
"サービス 合計","60.00","40.00","100.00"
"2025-01-01","10.00","20.00","30.00"
"2025-02-01","20.00","10.00","30.00"
"2025-03-01","30.00","10.00","40.00"
`
	prodCSV = `サービス,EC2-インスタンス($),RDS($),Lambda($),合計コスト($)
合計,300,150,3,453
2025-02-01,100,50,1,151
2025-03-01,200,100,2,302
2025-03-01,bad,row
`
)

type fixture struct {
	uc      *AnalyzerUseCase
	console *fakeConsole
	session *fakeSession
	export  *fakeExport
}

func newFixture() *fixture {
	f := &fixture{console: &fakeConsole{}, session: newFakeSession(), export: &fakeExport{}}
	source := fakeSource{"data/dev/costs.csv": devCSV, "prod-2025.csv": prodCSV, "empty.csv": "サービス\n"}
	f.uc = NewAnalyzerUseCase(source, f.session, f.export, f.console)
	f.uc.now = func() time.Time { return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

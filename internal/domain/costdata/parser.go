package costdata

import (
	"strings"

	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// Row é uma linha de dados do CSV indexada pelo cabeçalho.
type Row struct {
	header []string
	cells  map[string]string
}

// NewRow monta uma Row a partir do cabeçalho e das células na mesma ordem.
// Cabeçalhos duplicados ficam com o último valor.
func NewRow(header, cells []string) Row {
	m := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(cells) {
			m[h] = cells[i]
		}
	}
	return Row{header: header, cells: m}
}

// Get returns the cell under header key.
func (r Row) Get(key string) (string, bool) {
	v, ok := r.cells[key]
	return v, ok
}

// Value returns the cell under key, or "" when the column does not exist.
func (r Row) Value(key string) string {
	return r.cells[key]
}

// Keys returns the distinct header cells in column order.
func (r Row) Keys() []string {
	seen := make(map[string]struct{}, len(r.header))
	keys := make([]string, 0, len(r.header))
	for _, h := range r.header {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		keys = append(keys, h)
	}
	return keys
}

// SkippedRow descreve uma linha descartada por ter número de células diferente do cabeçalho.
type SkippedRow struct {
	Line     int
	Cells    int
	Expected int
}

// ParseResult is the output of ParseCSV.
type ParseResult struct {
	Header  []string
	Rows    []Row
	Skipped []SkippedRow
}

// ParseCSVString converte o texto CSV em linhas indexadas pelo cabeçalho.
// Linhas malformadas são descartadas; use ParseCSV para obtê-las.
func ParseCSVString(text string) ([]Row, error) {
	res, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// ParseCSV is ParseCSVString plus the diagnostics for skipped rows.
func ParseCSV(text string) (*ParseResult, error) {
	type numbered struct {
		n    int
		text string
	}
	var lines []numbered
	for i, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, numbered{n: i + 1, text: l})
	}
	if len(lines) < 2 {
		return nil, &types.ParseError{Reason: "CSV must contain at least a header and one data row"}
	}

	header := ParseCSVRow(lines[0].text)
	res := &ParseResult{Header: header}
	for _, l := range lines[1:] {
		cells := ParseCSVRow(l.text)
		if len(cells) != len(header) {
			res.Skipped = append(res.Skipped, SkippedRow{Line: l.n, Cells: len(cells), Expected: len(header)})
			continue
		}
		res.Rows = append(res.Rows, NewRow(header, cells))
	}
	return res, nil
}

// ParseCSVRow divide uma linha respeitando aspas; "" dentro de aspas vira uma aspa literal.
// Cada célula tem espaços das extremidades removidos.
func ParseCSVRow(line string) []string {
	var (
		cells    []string
		current  strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	return append(cells, strings.TrimSpace(current.String()))
}

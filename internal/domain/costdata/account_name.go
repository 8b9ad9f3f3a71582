package costdata

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var filePrefixPattern = regexp.MustCompile(`^([^-.]+)`)

// ExtractAccountName deriva o nome da conta a partir do caminho do arquivo.
// O prefixo do nome do arquivo vence: "/data/billing/dev-costs.csv" -> "dev".
// Sem separador no nome, vale o diretório pai: "resources/dev/costs.csv" -> "dev".
func ExtractAccountName(fileName string) string {
	if fileName == "" {
		return "unknown"
	}
	name := filepath.ToSlash(fileName)
	base := path.Base(name)
	stem := strings.TrimSuffix(base, ".csv")

	prefix := ""
	if m := filePrefixPattern.FindStringSubmatch(base); m != nil {
		prefix = m[1]
	}
	if prefix != "" && prefix != stem {
		return prefix
	}
	if strings.Contains(name, "/") {
		if dir := path.Base(path.Dir(name)); IsValidAccountName(dir) {
			return dir
		}
	}
	if prefix != "" {
		return prefix
	}
	return stem
}

// IsValidAccountName rejeita nomes vazios e segmentos de caminho como "." e "..".
func IsValidAccountName(name string) bool {
	switch strings.TrimSpace(name) {
	case "", ".", "..", "/":
		return false
	}
	return true
}

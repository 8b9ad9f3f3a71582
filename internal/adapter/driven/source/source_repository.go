package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/repository"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

var (
	utf16BEBOM = []byte{0xFE, 0xFF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)

// SourceRepositoryImpl lê CSVs de custo do sistema de arquivos local.
type SourceRepositoryImpl struct{}

// NewSourceRepository cria uma nova implementação do SourceRepository.
func NewSourceRepository() repository.SourceRepository {
	return &SourceRepositoryImpl{}
}

// ReadCSVFile lê o arquivo e devolve o texto em UTF-8, sem BOM.
// Exportações do console em japonês podem vir em Shift_JIS; nesse caso o texto é convertido.
func (r *SourceRepositoryImpl) ReadCSVFile(path string) (string, error) {
	if path == "" {
		return "", &types.ValidationError{Field: "file", Reason: "no file provided"}
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return "", &types.ValidationError{Field: "file", Reason: fmt.Sprintf("%s must be a CSV file", filepath.Base(path))}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("error accessing CSV file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, not a file", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading CSV file: %w", err)
	}

	text, err := decoderFor(raw).Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("error decoding CSV file %s: %w", filepath.Base(path), err)
	}
	return string(text), nil
}

// decoderFor usa o BOM quando presente; sem BOM, UTF-8 válido fica como está
// e o restante é tratado como Shift_JIS.
func decoderFor(raw []byte) *encoding.Decoder {
	if bytes.HasPrefix(raw, utf16BEBOM) || bytes.HasPrefix(raw, utf16LEBOM) || utf8.Valid(raw) {
		return &encoding.Decoder{Transformer: unicode.BOMOverride(unicode.UTF8BOM.NewDecoder())}
	}
	return japanese.ShiftJIS.NewDecoder()
}

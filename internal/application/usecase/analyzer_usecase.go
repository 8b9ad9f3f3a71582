package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/costdata"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/repository"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// AnalyzerUseCase mantém as contas cadastradas e os dados agregados da sessão
// e executa as análises pedidas pela CLI.
type AnalyzerUseCase struct {
	sourceRepo  repository.SourceRepository
	sessionRepo repository.SessionRepository
	exportRepo  repository.ExportRepository
	console     types.ConsoleInterface
	now         func() time.Time

	accounts   []entity.RegisteredAccount
	aggregated *entity.AggregatedData
}

// NewAnalyzerUseCase creates a new analyzer use case.
func NewAnalyzerUseCase(
	sourceRepo repository.SourceRepository,
	sessionRepo repository.SessionRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *AnalyzerUseCase {
	return &AnalyzerUseCase{
		sourceRepo:  sourceRepo,
		sessionRepo: sessionRepo,
		exportRepo:  exportRepo,
		console:     console,
		now:         time.Now,
	}
}

// LoadSession restaura contas e dados agregados salvos.
// Dados corrompidos descartam as duas chaves; falhas do armazenamento só geram aviso.
func (uc *AnalyzerUseCase) LoadSession(ctx context.Context) {
	uc.accounts = nil
	uc.aggregated = nil

	rawAccounts, hasAccounts, err := uc.sessionRepo.Get(ctx, repository.SessionKeyAccounts)
	if err != nil {
		uc.console.LogWarning("Could not read saved accounts: %v", err)
		return
	}
	rawAggregated, hasAggregated, readErr := uc.sessionRepo.Get(ctx, repository.SessionKeyAggregatedData)
	if readErr != nil {
		uc.console.LogWarning("Could not read saved analysis: %v", readErr)
		hasAggregated = false
	}

	var accounts []entity.RegisteredAccount
	var aggregated *entity.AggregatedData
	if hasAccounts {
		err = json.Unmarshal([]byte(rawAccounts), &accounts)
	}
	if err == nil && hasAggregated {
		aggregated = &entity.AggregatedData{}
		err = json.Unmarshal([]byte(rawAggregated), aggregated)
	}
	if err != nil {
		uc.console.LogWarning("Saved session data is corrupted and was discarded: %v", err)
		uc.removeKeys(ctx, repository.SessionKeyAccounts, repository.SessionKeyAggregatedData)
		return
	}

	uc.accounts = accounts
	uc.aggregated = aggregated
}

// saveSession grava as contas e, se existirem, os dados agregados.
// Sem dados agregados a chave correspondente é removida.
func (uc *AnalyzerUseCase) saveSession(ctx context.Context) {
	accounts := uc.accounts
	if accounts == nil {
		accounts = []entity.RegisteredAccount{}
	}
	if raw, err := json.Marshal(accounts); err != nil {
		uc.console.LogError("Error encoding accounts: %v", err)
	} else if err := uc.sessionRepo.Set(ctx, repository.SessionKeyAccounts, string(raw)); err != nil {
		uc.console.LogError("Error saving accounts: %v", err)
	}

	if uc.aggregated == nil {
		uc.removeKeys(ctx, repository.SessionKeyAggregatedData)
		return
	}
	if raw, err := json.Marshal(uc.aggregated); err != nil {
		uc.console.LogError("Error encoding aggregated data: %v", err)
	} else if err := uc.sessionRepo.Set(ctx, repository.SessionKeyAggregatedData, string(raw)); err != nil {
		uc.console.LogError("Error saving aggregated data: %v", err)
	}
}

func (uc *AnalyzerUseCase) removeKeys(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := uc.sessionRepo.Remove(ctx, key); err != nil {
			uc.console.LogError("Error clearing session key %s: %v", key, err)
		}
	}
}

// Accounts returns the registered accounts in registration order.
func (uc *AnalyzerUseCase) Accounts() []entity.RegisteredAccount {
	return append([]entity.RegisteredAccount(nil), uc.accounts...)
}

// Aggregated returns the last analysis result, or nil when none is available.
func (uc *AnalyzerUseCase) Aggregated() *entity.AggregatedData {
	return uc.aggregated
}

func (uc *AnalyzerUseCase) accountData() []entity.AccountData {
	return lo.Map(uc.accounts, func(a entity.RegisteredAccount, _ int) entity.AccountData { return a.Data })
}

// AddAccount lê, interpreta e cadastra um CSV de custos. Sem nome explícito,
// o nome é derivado do caminho do arquivo. Um nome já cadastrado é rejeitado.
func (uc *AnalyzerUseCase) AddAccount(ctx context.Context, path, name string) (entity.RegisteredAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = costdata.ExtractAccountName(path)
	}
	if !costdata.IsValidAccountName(name) {
		return entity.RegisteredAccount{}, &types.ValidationError{Field: "name", Reason: fmt.Sprintf("%q is not a valid account name", name)}
	}
	if uc.findAccount(name) >= 0 {
		return entity.RegisteredAccount{}, fmt.Errorf("%w: %s", types.ErrDuplicateAccount, name)
	}

	text, err := uc.sourceRepo.ReadCSVFile(path)
	if err != nil {
		return entity.RegisteredAccount{}, err
	}
	parsed, err := costdata.ParseCSV(text)
	if err != nil {
		return entity.RegisteredAccount{}, err
	}
	for _, s := range parsed.Skipped {
		uc.console.LogWarning("%s: line %d skipped (%d cells, expected %d)", filepath.Base(path), s.Line, s.Cells, s.Expected)
	}
	data, err := costdata.TransformCostData(parsed.Rows, name)
	if err != nil {
		return entity.RegisteredAccount{}, err
	}

	account := entity.RegisteredAccount{
		Name:     name,
		FileName: filepath.Base(path),
		Data:     data,
		AddedAt:  uc.now().UTC(),
	}
	uc.accounts = append(uc.accounts, account)
	uc.aggregated = nil
	uc.saveSession(ctx)
	return account, nil
}

// AddAccounts cadastra vários arquivos, um por conta, exibindo progresso.
// Um nome explícito só é aceito com um único arquivo. Falhas individuais são
// registradas e não interrompem os demais arquivos.
func (uc *AnalyzerUseCase) AddAccounts(ctx context.Context, paths []string, name string) error {
	if len(paths) == 0 {
		return &types.ValidationError{Field: "file", Reason: "no file provided"}
	}
	if name != "" && len(paths) > 1 {
		return &types.ValidationError{Field: "name", Reason: "--name can only be used with a single file"}
	}

	progress := uc.console.Progress("Loading cost files", len(paths))
	var failed int
	for _, path := range paths {
		account, err := uc.AddAccount(ctx, path, name)
		progress.Increment()
		if err != nil {
			failed++
			uc.console.LogError("Failed to add %s: %v", path, err)
			continue
		}
		uc.console.LogSuccess("Account %q added: %d months, %d services, total %s",
			account.Name, account.Data.DataRange.MonthCount, len(account.Data.Services), money(account.Data.TotalCost))
	}
	progress.Stop()

	if failed == len(paths) {
		return fmt.Errorf("no account was added (%d file(s) failed)", failed)
	}
	return nil
}

// RemoveAccount remove a conta pelo nome e invalida os dados agregados.
func (uc *AnalyzerUseCase) RemoveAccount(ctx context.Context, name string) error {
	idx := uc.findAccount(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", types.ErrAccountNotFound, name)
	}
	uc.accounts = append(uc.accounts[:idx], uc.accounts[idx+1:]...)
	uc.aggregated = nil
	uc.saveSession(ctx)
	uc.console.LogInfo("Account %q removed", name)
	return nil
}

// ClearAll descarta todas as contas e o resultado da análise.
func (uc *AnalyzerUseCase) ClearAll(ctx context.Context) {
	uc.accounts = nil
	uc.aggregated = nil
	uc.removeKeys(ctx, repository.SessionKeyAccounts, repository.SessionKeyAggregatedData)
	uc.console.LogInfo("All accounts cleared")
}

// ListAccounts exibe as contas cadastradas.
func (uc *AnalyzerUseCase) ListAccounts() error {
	if len(uc.accounts) == 0 {
		return types.ErrNoAccounts
	}
	table := uc.console.CreateTable()
	for _, col := range []string{"Account", "File", "Months", "Period", "Services", "Total Cost", "Added At"} {
		table.AddColumn(col)
	}
	for _, a := range uc.accounts {
		r := a.Data.DataRange
		table.AddRow(a.Name, a.FileName, r.MonthCount, fmt.Sprintf("%s - %s", r.StartDate, r.EndDate),
			len(a.Data.Services), money(a.Data.TotalCost), a.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	uc.console.Println(table.Render())
	if uc.aggregated == nil {
		uc.console.LogInfo("Run the analyze command to aggregate %d account(s)", len(uc.accounts))
	}
	return nil
}

func (uc *AnalyzerUseCase) findAccount(name string) int {
	_, idx, ok := lo.FindIndexOf(uc.accounts, func(a entity.RegisteredAccount) bool { return a.Name == name })
	if !ok {
		return -1
	}
	return idx
}

func (uc *AnalyzerUseCase) requireAccounts() error {
	if len(uc.accounts) == 0 {
		return types.ErrNoAccounts
	}
	return nil
}

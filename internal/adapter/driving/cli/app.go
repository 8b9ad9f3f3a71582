package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diillson/aws-cost-analyzer-go/internal/application/usecase"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/repository"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
	"github.com/diillson/aws-cost-analyzer-go/pkg/version"
)

// SessionOpener abre o armazenamento de sessão no caminho informado.
type SessionOpener func(ctx context.Context, path string) (repository.SessionRepository, error)

// Dependencies são os adaptadores usados pelos comandos.
type Dependencies struct {
	ConfigRepo  repository.ConfigRepository
	SourceRepo  repository.SourceRepository
	ExportRepo  repository.ExportRepository
	OpenSession SessionOpener
	Console     types.ConsoleInterface
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd  *cobra.Command
	deps     Dependencies
	version  string
	args     *types.CLIArgs
	analyzer *usecase.AnalyzerUseCase
	session  repository.SessionRepository
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "aws-cost-analyzer",
		Short:         "Analyze AWS billing CSV exports across multiple accounts",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayWelcomeBanner()
			return cmd.Help()
		},
		PersistentPreRunE: app.setup,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS Cost Analyzer version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("session-file", "", "SQLite file that keeps registered accounts between runs (default: "+types.DefaultSessionFile+")")

	rootCmd.AddCommand(
		app.newAddCommand(),
		app.newRemoveCommand(),
		app.newClearCommand(),
		app.newListCommand(),
		app.newAnalyzeCommand(),
		app.newStatsCommand(),
		app.newReductionCommand(),
		app.newPivotCommand(),
		app.newCompositionCommand(),
		app.newTrendCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

// SetDependencies define os adaptadores usados pelos comandos.
func (app *CLIApp) SetDependencies(deps Dependencies) {
	app.deps = deps
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI application and closes the session afterwards.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	err := app.rootCmd.ExecuteContext(ctx)
	if closeErr := app.closeSession(); err == nil {
		err = closeErr
	}
	return err
}

// SetArgs substitui os argumentos de os.Args, usado nos testes.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// parseArgs lê as flags do comando e aplica o arquivo de configuração e os padrões.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	sessionFile, _ := flags.GetString("session-file")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	trend, _ := flags.GetBool("trend")
	variationThreshold, _ := flags.GetFloat64("variation-threshold")
	lowUsageThreshold, _ := flags.GetFloat64("low-usage-threshold")
	top, _ := flags.GetInt("top")
	baseline, _ := flags.GetString("baseline")

	args := &types.CLIArgs{
		ConfigFile:         configFile,
		SessionFile:        sessionFile,
		ReportName:         reportName,
		ReportType:         reportType,
		Dir:                dir,
		Trend:              trend,
		VariationThreshold: variationThreshold,
		LowUsageThreshold:  lowUsageThreshold,
		TopServices:        top,
		BaselineMode:       baseline,
	}

	var cfg *types.Config
	if configFile != "" {
		loaded, err := app.deps.ConfigRepo.LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	args.MergeConfig(cfg, func(name string) bool { return flags.Changed(name) })

	if args.VariationThreshold < 0 || args.LowUsageThreshold < 0 {
		return nil, &types.ValidationError{Field: "threshold", Reason: "thresholds must not be negative"}
	}

	if args.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		args.Dir = cwd
	} else {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}

	return args, nil
}

// setup roda antes de cada comando: lê a configuração, abre a sessão e restaura as contas.
func (app *CLIApp) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations["session"] == "" {
		return nil
	}
	if app.deps.OpenSession == nil {
		return fmt.Errorf("cli dependencies are not configured")
	}

	args, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}
	app.args = args

	session, err := app.openSession(cmd.Context(), args.SessionFile)
	if err != nil {
		return err
	}
	app.session = session

	app.analyzer = usecase.NewAnalyzerUseCase(app.deps.SourceRepo, session, app.deps.ExportRepo, app.deps.Console)
	app.analyzer.LoadSession(cmd.Context())
	return nil
}

// openSession abre o arquivo de sessão; se falhar, segue com uma sessão em memória.
func (app *CLIApp) openSession(ctx context.Context, path string) (repository.SessionRepository, error) {
	session, err := app.deps.OpenSession(ctx, path)
	if err == nil {
		return session, nil
	}
	memory, memErr := app.deps.OpenSession(ctx, repository.InMemorySessionPath)
	if memErr != nil {
		return nil, err
	}
	app.deps.Console.LogWarning("Session store unavailable, accounts will not be kept after this run: %v", err)
	return memory, nil
}

func (app *CLIApp) closeSession() error {
	if app.session == nil {
		return nil
	}
	err := app.session.Close()
	app.session = nil
	return err
}

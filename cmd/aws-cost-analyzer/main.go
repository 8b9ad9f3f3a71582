package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/diillson/aws-cost-analyzer-go/internal/adapter/driven/config"
	"github.com/diillson/aws-cost-analyzer-go/internal/adapter/driven/export"
	"github.com/diillson/aws-cost-analyzer-go/internal/adapter/driven/session"
	"github.com/diillson/aws-cost-analyzer-go/internal/adapter/driven/source"
	"github.com/diillson/aws-cost-analyzer-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-cost-analyzer-go/pkg/console"
	"github.com/diillson/aws-cost-analyzer-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios; a sessão só é aberta depois de ler as flags
	app.SetDependencies(cli.Dependencies{
		ConfigRepo:  config.NewConfigRepository(),
		SourceRepo:  source.NewSourceRepository(),
		ExportRepo:  export.NewExportRepository(),
		OpenSession: session.NewSessionRepository,
		Console:     console.NewConsole(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Executa o aplicativo
	if err := app.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

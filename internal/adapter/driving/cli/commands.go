package cli

import (
	"github.com/spf13/cobra"

	"github.com/diillson/aws-cost-analyzer-go/internal/application/usecase"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/entity"
	"github.com/diillson/aws-cost-analyzer-go/internal/domain/metrics"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

// sessionAnnotation marca os comandos que precisam das contas registradas.
var sessionAnnotation = map[string]string{"session": "true"}

func (app *CLIApp) newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "add <file.csv>...",
		Short:       "Register one or more billing CSV exports as accounts",
		Annotations: sessionAnnotation,
		Args:        cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return app.analyzer.AddAccounts(cmd.Context(), args, name)
		},
	}
	cmd.Flags().String("name", "", "Account name (default: derived from the file path)")
	return cmd
}

func (app *CLIApp) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "remove <account>",
		Short:       "Remove a registered account",
		Annotations: sessionAnnotation,
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.analyzer.RemoveAccount(cmd.Context(), args[0])
		},
	}
}

func (app *CLIApp) newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "clear",
		Short:       "Remove every registered account and the analysis results",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.analyzer.ClearAll(cmd.Context())
			return nil
		},
	}
}

func (app *CLIApp) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List registered accounts",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.analyzer.ListAccounts()
		},
	}
}

func (app *CLIApp) newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "analyze",
		Short:       "Aggregate all accounts and show growth, variations and low usage services",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			displayWelcomeBanner()
			go checkLatestVersion(app.version)

			_, err := app.analyzer.RunAnalysis(cmd.Context(), app.args)
			return err
		},
	}
	cmd.Flags().Bool("trend", false, "Display the monthly cost trend as bars")
	cmd.Flags().Float64("variation-threshold", types.DefaultVariationThreshold, "Minimum absolute month-over-month change (%) to report a service")
	cmd.Flags().Float64("low-usage-threshold", types.DefaultLowUsageThreshold, "Services whose latest month cost (all accounts) is above zero and below this value are reported as low usage")
	cmd.Flags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	cmd.Flags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	return cmd
}

func (app *CLIApp) newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "stats",
		Short:       "Compare monthly cost statistics between two periods",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseFlag, _ := cmd.Flags().GetString("base")
			compareFlag, _ := cmd.Flags().GetString("compare")
			account, _ := cmd.Flags().GetString("account")

			base, err := usecase.ParsePeriod(baseFlag, "base")
			if err != nil {
				return err
			}
			compare, err := usecase.ParsePeriod(compareFlag, "compare")
			if err != nil {
				return err
			}
			_, err = app.analyzer.CompareStatistics(cmd.Context(), account, base, compare)
			return err
		},
	}
	cmd.Flags().String("base", "", "Base period, YYYY-MM:YYYY-MM")
	cmd.Flags().String("compare", "", "Comparison period, YYYY-MM:YYYY-MM")
	cmd.Flags().String("account", metrics.AllAccounts, "Account name, or \"all\" for the aggregated trend")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("compare")
	return cmd
}

func (app *CLIApp) newReductionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "reduction",
		Short:       "Show the cost reduction of the latest month against a baseline month",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := metrics.ParseBaselineMode(app.args.BaselineMode)
			if err != nil {
				return err
			}
			_, err = app.analyzer.ReductionEffects(cmd.Context(), mode)
			return err
		},
	}
	cmd.Flags().String("baseline", string(entity.BaselineFirstMonth), "Baseline month: first-month, peak-month or previous-month")
	return cmd
}

func (app *CLIApp) newPivotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "pivot",
		Short:       "Show the monthly cost of services per account",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, _ := cmd.Flags().GetStringArray("service")
			if len(services) == 1 {
				_, err := app.analyzer.ServicePivot(cmd.Context(), services[0])
				return err
			}
			_, err := app.analyzer.MultiServicePivot(cmd.Context(), services)
			return err
		},
	}
	cmd.Flags().StringArrayP("service", "s", nil, "Service name (repeat the flag for several services)")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func (app *CLIApp) newCompositionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "composition",
		Short:       "Show the share of the top services in the total cost",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comparison, _ := cmd.Flags().GetBool("comparison")
			if comparison {
				_, err := app.analyzer.CompareAccountComposition(cmd.Context(), app.args.TopServices)
				return err
			}
			account, _ := cmd.Flags().GetString("account")
			_, _, err := app.analyzer.Composition(cmd.Context(), account, app.args.TopServices)
			return err
		},
	}
	cmd.Flags().String("account", metrics.AllAccounts, "Account name, or \"all\" for every account")
	cmd.Flags().Int("top", types.DefaultTopServices, "Number of services shown before grouping the rest as Other")
	cmd.Flags().Bool("comparison", false, "Compare the latest month composition across accounts")
	return cmd
}

func (app *CLIApp) newTrendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "trend",
		Short:       "Show the monthly totals of accounts alongside the top services",
		Annotations: sessionAnnotation,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, _ := cmd.Flags().GetString("account")
			_, err := app.analyzer.ServiceTrend(cmd.Context(), account, app.args.TopServices)
			return err
		},
	}
	cmd.Flags().String("account", metrics.AllAccounts, "Account name, or \"all\" for every account plus the overall total")
	cmd.Flags().Int("top", types.DefaultTopServices, "Number of services shown before grouping the rest as Other")
	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/vscode-testkit/internal/config"
	"github.com/shaharia-lab/vscode-testkit/internal/logger"
	"github.com/shaharia-lab/vscode-testkit/internal/scenario"
	"github.com/shaharia-lab/vscode-testkit/internal/vscode"
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	skipStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// NewRunCmd returns the "run" subcommand that executes scenario files.
func NewRunCmd(cfg *config.AppConfig) *cobra.Command {
	var noColor bool
	var verbose bool
	var hostVersion string

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run end-to-end event scenarios",
		Long: `Run scenario files against the in-process notification hub.

Paths may be files or directories. With no paths the configured scenarios
directory (TESTKIT_SCENARIOS_DIR) is used.

Examples:
  vscode-testkit run
  vscode-testkit run testdata/scenarios/01_two_listeners_across_fires.yaml
  vscode-testkit run --host-version 1.85.0 -v ./scenarios`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("host-version") {
				cfg.HostVersion = hostVersion
			}
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			paths := args
			if len(paths) == 0 {
				paths = []string{cfg.ScenariosDir}
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runScenarios(ctx, cmd.OutOrStdout(), cfg, paths, verbose)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every executed step")
	cmd.Flags().StringVar(&hostVersion, "host-version", cfg.HostVersion, "Editor version reported by the mocked host (overrides TESTKIT_HOST_VERSION)")

	return cmd
}

func runScenarios(ctx context.Context, out io.Writer, cfg *config.AppConfig, paths []string, verbose bool) error {
	sysLogger, sysLog, err := logger.NewSystemLogger(cfg.LogDir(), cfg.SlogLevel(), logger.Rotation{
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer sysLog.Close()

	invocationID := uuid.NewString()
	runLogger, runLog, err := logger.NewRunLogger(cfg.LogDir(), invocationID, cfg.SlogLevel())
	if err != nil {
		return fmt.Errorf("initializing run logger: %w", err)
	}
	defer runLog.Close()
	sysLogger.Info("scenario run started",
		"invocation_id", invocationID,
		"paths", paths,
		"host_version", cfg.HostVersion,
		"log_file", filepath.Join(cfg.LogDir(), "runs", invocationID+".log"),
	)

	scenarios, err := scenario.Collect(paths...)
	if err != nil {
		sysLogger.Error("loading scenarios failed", "error", err)
		return err
	}

	window := vscode.NewWindow(runLogger, cfg.ChannelLevel())
	defer window.Dispose()
	channel := window.CreateOutputChannel("Scenario Runner")

	runner, err := scenario.NewRunner(channel, cfg.HostVersion)
	if err != nil {
		return err
	}
	defer runner.Dispose()
	if verbose {
		sub := runner.OnDidRunStep()(func(ev scenario.StepEvent) {
			fmt.Fprintln(out, dimStyle.Render("    "+describeStep(ev)))
		})
		defer sub.Dispose()
	}

	var passed, failed, skipped int
	for _, s := range scenarios {
		if verbose {
			fmt.Fprintln(out, dimStyle.Render(s.Name))
		}
		res, err := runner.Run(ctx, s)
		if err != nil {
			sysLogger.Error("scenario aborted", "scenario", s.Name, "error", err)
			return err
		}
		fmt.Fprintln(out, renderResult(res))
		switch {
		case res.Skipped:
			skipped++
		case res.Passed():
			passed++
		default:
			failed++
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed, %d skipped\n", passed, failed, skipped)
	sysLogger.Info("scenario run finished",
		"invocation_id", invocationID,
		"passed", passed,
		"failed", failed,
		"skipped", skipped,
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return nil
}

func renderResult(res scenario.Result) string {
	switch {
	case res.Skipped:
		return fmt.Sprintf("%s %s %s", skipStyle.Render("SKIP"), res.Scenario, dimStyle.Render("("+res.SkipReason+")"))
	case res.Passed():
		return fmt.Sprintf("%s %s", passStyle.Render("PASS"), res.Scenario)
	}
	line := fmt.Sprintf("%s %s", failStyle.Render("FAIL"), res.Scenario)
	for _, f := range res.Failures {
		line += "\n     " + f
	}
	return line
}

func describeStep(ev scenario.StepEvent) string {
	switch ev.Action {
	case scenario.ActionSubscribe, scenario.ActionDispose:
		return fmt.Sprintf("%d %s %s", ev.Index+1, ev.Action, ev.Listener)
	case scenario.ActionFire:
		return fmt.Sprintf("%d fire %v", ev.Index+1, ev.Payload)
	default:
		return fmt.Sprintf("%d %s", ev.Index+1, ev.Action)
	}
}

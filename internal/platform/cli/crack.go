package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pfxcrack/internal/adapter/pfx"
	"pfxcrack/internal/config"
	"pfxcrack/internal/core/domain"
	"pfxcrack/internal/core/prefilter"
	"pfxcrack/internal/core/service"
	"pfxcrack/internal/pkg/accel"
	"pfxcrack/internal/pkg/metrics"
)

func newCrackCommand() *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "crack",
		Short: "Brute force the bundle over a charset and length range",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrack(cmd.Context(), cmd.OutOrStdout(), v)
		},
	}

	flags := cmd.Flags()
	flags.StringP(config.KeyPFX, "p", "", "path to the PKCS#12 (.pfx/.p12) file")
	flags.StringP(config.KeyCharset, "c", "alnum", "symbols to try, or one of lower|upper|digits|special|alnum|all")
	flags.Int(config.KeyMinLength, 1, "minimum password length")
	flags.Int(config.KeyMaxLength, 6, "maximum password length")
	flags.IntP(config.KeyWorkers, "w", 0, "number of workers (0 = one per CPU)")
	flags.Int(config.KeyBatchSize, service.DefaultBatchSize, "candidates screened per prefilter batch")
	flags.String(config.KeyBackend, "sslmate", "PKCS#12 decoder: sslmate|xcrypto")
	flags.Bool(config.KeyPrefilter, false, "screen candidates on an accelerator before probing")
	flags.String(config.KeySkipFile, "", "newline-delimited passwords already known to be wrong")
	flags.Duration(config.KeyTimeout, 0, "give up after this long (0 = never)")
	flags.StringP(config.KeyFormat, "o", "text", "output format: text|json|yaml")
	flags.String(config.KeyReport, "", "append a run report to this file")
	flags.Bool(config.KeyProgress, false, "show a progress bar on a terminal")

	return cmd
}

func runCrack(ctx context.Context, out io.Writer, v *viper.Viper) error {
	settings, err := config.Load(v)
	if err != nil {
		return err
	}
	crackSettings := settings.CrackingSettings()

	if err := pfx.ValidateCharset(crackSettings.Charset); err != nil {
		return err
	}
	container, err := pfx.LoadContainer(settings.PFXPath)
	if err != nil {
		return err
	}
	probe, err := pfx.NewProbe(container, settings.BackendKind())
	if err != nil {
		return err
	}

	skip, err := loadSkipList(settings.SkipFile)
	if err != nil {
		return err
	}
	filter := prefilter.Select(settings.Prefilter, skip)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	svc := service.NewCrackingService(probe, filter)

	var bar *progressDisplay
	if settings.Progress {
		bar = startProgress(svc, os.Stderr)
	}
	report, err := svc.Crack(ctx, crackSettings)
	if bar != nil {
		bar.Stop()
	}
	if err != nil {
		return err
	}
	report.Container = container.Name()
	report.Backend = probe.Backend()

	if settings.ReportPath != "" {
		if err := writeReport(settings.ReportPath, settings.OutputFormat(), report); err != nil {
			slog.Error("failed to write report", "path", settings.ReportPath, "error", err)
		}
	}

	if err := printResult(out, settings.OutputFormat(), report); err != nil {
		return err
	}
	return outcome(report)
}

func loadSkipList(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewSetupError(domain.ErrInvalidSettings, "skip file", err)
	}
	defer f.Close()
	return accel.ReadLines(f, 0)
}

func writeReport(path string, format domain.OutputFormat, report *domain.RunReport) error {
	reporter, err := metrics.NewReporter(path, format)
	if err != nil {
		return err
	}
	reporter.Record(report)
	return reporter.Close()
}

func printResult(out io.Writer, format domain.OutputFormat, report *domain.RunReport) error {
	if format != domain.FormatText {
		return metrics.Encode(out, format, report)
	}

	var err error
	switch report.State {
	case domain.StateFound:
		_, err = fmt.Fprintln(out, report.Result.Password)
	case domain.StateExhausted:
		_, err = fmt.Fprintf(out, "password not found: %d candidates exhausted\n", report.SpaceSize)
	case domain.StateCancelled:
		_, err = fmt.Fprintf(out, "search cancelled after %d attempts: %s\n", report.Attempts, report.ErrMessage)
	}
	return err
}

func outcome(report *domain.RunReport) error {
	switch report.State {
	case domain.StateExhausted:
		return &exitError{code: ExitExhausted, msg: "search space exhausted"}
	case domain.StateCancelled:
		return &exitError{code: ExitCancelled, msg: "search cancelled"}
	}
	return nil
}

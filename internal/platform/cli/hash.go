package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pfxcrack/internal/pkg/accel"
	"pfxcrack/internal/pkg/metrics"
	"pfxcrack/internal/port"
)

func newHashCommand() *cobra.Command {
	var (
		input string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the FNV-1a digest of every line of a file, computed on the accelerator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd.OutOrStdout(), input, limit)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to newline-delimited input strings")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "max number of lines to hash (0 = all)")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runHash(out io.Writer, input string, limit int) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	defer f.Close()

	lines, err := accel.ReadLines(f, limit)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	var hasher port.Hasher
	device, err := accel.Detect()
	if err != nil {
		slog.Info("accelerator unavailable, hashing on the calling goroutine", "reason", err)
		hasher = accel.Sequential{}
	} else {
		slog.Debug("accelerator detected", "device", device.Name(), "lanes", device.Lanes())
		hasher = device
	}

	var digests []accel.Digest
	perf := metrics.CapturePerformance(len(lines), func() {
		digests = accel.HashLines(hasher, lines)
	})
	slog.Debug("hashed lines", "device", hasher.Name(), "perf", perf)

	w := bufio.NewWriter(out)
	for _, d := range digests {
		fmt.Fprintln(w, d.String())
	}
	return w.Flush()
}

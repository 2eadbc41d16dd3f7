package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"pfxcrack/internal/core/domain"
)

// Reporter appends finished run reports to a file.
type Reporter struct {
	mu      sync.Mutex
	logFile *os.File
	format  domain.OutputFormat
	reports []*domain.RunReport
}

func NewReporter(logPath string, format domain.OutputFormat) (*Reporter, error) {
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	if format == domain.FormatText {
		format = domain.FormatJSON
	}

	return &Reporter{
		logFile: file,
		format:  format,
	}, nil
}

func (r *Reporter) Record(report *domain.RunReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Reporter) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, report := range r.reports {
		if err := Encode(r.logFile, r.format, report); err != nil {
			return err
		}
	}
	r.reports = nil
	return nil
}

func (r *Reporter) Close() error {
	if err := r.Flush(); err != nil {
		return fmt.Errorf("failed to flush reports: %w", err)
	}
	return r.logFile.Close()
}

// Encode writes v to w as JSON or as a YAML document.
func Encode(w io.Writer, format domain.OutputFormat, v any) error {
	switch domain.OutputFormat(strings.ToUpper(string(format))) {
	case domain.FormatYAML:
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}
}

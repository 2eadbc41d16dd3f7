package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"pfxcrack/internal/core/domain"
)

const EnvPrefix = "PFXCRACK"

// Keys shared by flags, environment variables and viper.
const (
	KeyPFX       = "pfx"
	KeyCharset   = "charset"
	KeyMinLength = "min"
	KeyMaxLength = "max"
	KeyWorkers   = "workers"
	KeyBatchSize = "batch-size"
	KeyBackend   = "backend"
	KeyPrefilter = "prefilter"
	KeySkipFile  = "skip-file"
	KeyTimeout   = "timeout"
	KeyFormat    = "format"
	KeyReport    = "report"
	KeyProgress  = "progress"
)

type Settings struct {
	PFXPath    string `validate:"required"`
	Charset    string `validate:"required"`
	MinLength  int    `validate:"gte=0"`
	MaxLength  int    `validate:"gtefield=MinLength"`
	Workers    int    `validate:"gte=0"`
	BatchSize  int    `validate:"gte=0"`
	Backend    string `validate:"oneof=sslmate xcrypto"`
	Prefilter  bool
	SkipFile   string        `validate:"omitempty,file"`
	Timeout    time.Duration `validate:"gte=0"`
	Format     string        `validate:"oneof=text json yaml"`
	ReportPath string
	Progress   bool
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyCharset, "alnum")
	v.SetDefault(KeyMinLength, 1)
	v.SetDefault(KeyMaxLength, 6)
	v.SetDefault(KeyBackend, "sslmate")
	v.SetDefault(KeyFormat, "text")
	return v
}

var validate = validator.New()

func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		PFXPath:    v.GetString(KeyPFX),
		Charset:    v.GetString(KeyCharset),
		MinLength:  v.GetInt(KeyMinLength),
		MaxLength:  v.GetInt(KeyMaxLength),
		Workers:    v.GetInt(KeyWorkers),
		BatchSize:  v.GetInt(KeyBatchSize),
		Backend:    strings.ToLower(v.GetString(KeyBackend)),
		Prefilter:  v.GetBool(KeyPrefilter),
		SkipFile:   v.GetString(KeySkipFile),
		Timeout:    v.GetDuration(KeyTimeout),
		Format:     strings.ToLower(v.GetString(KeyFormat)),
		ReportPath: v.GetString(KeyReport),
		Progress:   v.GetBool(KeyProgress),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewSetupError(domain.ErrInvalidSettings, "", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %s %s", fe.Field(), fe.Tag(), fe.Param()))
	}
	kind := domain.ErrInvalidSettings
	switch verrs[0].Field() {
	case "Charset":
		kind = domain.ErrEmptyCharset
	case "MinLength", "MaxLength":
		kind = domain.ErrInvalidLength
	}
	return domain.NewSetupError(kind, strings.Join(msgs, "; "), nil)
}

func (s *Settings) CrackingSettings() domain.CrackingSettings {
	return domain.CrackingSettings{
		Charset:   domain.ResolveCharset(s.Charset),
		MinLength: s.MinLength,
		MaxLength: s.MaxLength,
		Workers:   s.Workers,
		BatchSize: s.BatchSize,
		Prefilter: s.Prefilter,
	}
}

func (s *Settings) BackendKind() domain.Backend {
	return domain.Backend(strings.ToUpper(s.Backend))
}

func (s *Settings) OutputFormat() domain.OutputFormat {
	return domain.OutputFormat(strings.ToUpper(s.Format))
}

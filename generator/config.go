package generator

import (
	"errors"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/erraggy/oasmcp/oaserrors"
	"github.com/erraggy/oasmcp/partition"
)

const (
	// DefaultFetchTimeout bounds remote source fetches.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultValidationTimeout bounds the post-generation output check.
	DefaultValidationTimeout = 60 * time.Second
	// DefaultOutputBase is the root of unit directories when no output
	// location is configured; units land in <base>/<category>/<name>.
	DefaultOutputBase = "integrations"
)

var labelPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Config is the configuration of one generation run.
type Config struct {
	// Source is a file path or http(s) URL of the OpenAPI document.
	Source string `validate:"required"`
	// OutputDir overrides the output location. Each unit is written to
	// OutputDir/<unit name>. An s3://bucket/prefix location is passed
	// through to the emitter unchanged.
	OutputDir string
	// Category overrides category inference. Labels are lowercase
	// letters, digits, underscores and hyphens.
	Category string `validate:"omitempty,label,max=64"`
	// ForceSplit partitions by tag even under the operation ceiling.
	ForceSplit bool
	// IncludeTests requests an integration test file per unit.
	IncludeTests bool
	// ValidateOutput runs the output checker after emission.
	ValidateOutput bool
	// DryRun computes artifact paths without writing anything.
	DryRun bool
	// MaxOperations is the operation ceiling of one unit.
	MaxOperations int `validate:"gte=1"`
	// FetchTimeout bounds remote source fetches.
	FetchTimeout time.Duration `validate:"gt=0"`
	// ValidationTimeout bounds the output checker.
	ValidationTimeout time.Duration `validate:"gt=0"`
	// Concurrency bounds how many partitions are built at once.
	// Zero means one per available CPU.
	Concurrency int `validate:"gte=0,lte=256"`
}

// DefaultConfig returns the configuration used when only a source is given.
func DefaultConfig(source string) Config {
	return Config{
		Source:            source,
		IncludeTests:      true,
		ValidateOutput:    true,
		MaxOperations:     partition.DefaultMaxOperations,
		FetchTimeout:      DefaultFetchTimeout,
		ValidationTimeout: DefaultValidationTimeout,
	}
}

var configValidator = newConfigValidator()

func newConfigValidator() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("label", func(fl govalidator.FieldLevel) bool {
		return labelPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the configuration. The error is an *oaserrors.ConfigError
// naming the first offending field.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs govalidator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &oaserrors.ConfigError{Message: err.Error(), Cause: err}
	}
	fe := fieldErrs[0]
	return &oaserrors.ConfigError{
		Option:  fe.Field(),
		Value:   fe.Value(),
		Message: constraintMessage(fe),
		Cause:   err,
	}
}

func constraintMessage(fe govalidator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "label":
		return "must contain only lowercase letters, digits, '_' and '-'"
	case "gt", "gte", "lt", "lte", "max", "min":
		return "must be " + fe.Tag() + " " + fe.Param()
	default:
		return "failed " + fe.Tag() + " constraint"
	}
}

// UnitDir returns where a unit's artifacts go. URL-style locations are
// joined with forward slashes so their scheme survives.
func (c Config) UnitDir(category, name string) string {
	if c.OutputDir == "" {
		return filepath.Join(DefaultOutputBase, category, name)
	}
	if scheme, rest, ok := strings.Cut(c.OutputDir, "://"); ok {
		return scheme + "://" + path.Join(rest, name)
	}
	return filepath.Join(c.OutputDir, name)
}

package engine

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-semigraph/pkg/adjacency"
)

// validate is a singleton validator instance
var validate = validator.New()

// Config tunes how the engine builds matrices and runs algorithms. The
// zero value is not valid; start from DefaultConfig and override fields.
type Config struct {
	// WeightAttr names the edge attribute read as the edge weight.
	// Edges without the attribute weigh 1.
	WeightAttr string `yaml:"weight_attr" validate:"required"`

	// OnDuplicate picks the duplicate-edge policy: reject, sum or last.
	OnDuplicate string `yaml:"on_duplicate" validate:"required,oneof=reject sum last"`

	// Damping is the PageRank damping factor, strictly between 0 and 1.
	Damping float64 `yaml:"damping" validate:"gt=0,lt=1"`

	// Tolerance is the convergence threshold for iterative rankings.
	Tolerance float64 `yaml:"tolerance" validate:"gt=0"`

	// MaxIterations bounds every convergence loop.
	MaxIterations int `yaml:"max_iterations" validate:"min=1"`

	// Normalized scales centrality scores to [0, 1]. Nil means true.
	Normalized *bool `yaml:"normalized"`

	// CacheMatrices keeps built matrices between calls until Invalidate.
	CacheMatrices bool `yaml:"cache_matrices"`

	// Workers sizes the batch runner pool. Zero means one per CPU.
	Workers int `yaml:"workers" validate:"min=0"`
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		WeightAttr:    "weight",
		OnDuplicate:   "reject",
		Damping:       0.85,
		Tolerance:     1e-6,
		MaxIterations: 100,
		CacheMatrices: true,
	}
}

// LoadConfig reads a YAML config file over the defaults, so a file only
// needs the fields it changes.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// normalized resolves the Normalized tri-state; unset means true.
func (c Config) normalized() bool {
	if c.Normalized == nil {
		return true
	}
	return *c.Normalized
}

// duplicatePolicy maps the config string to the builder's policy.
// Validate has already rejected anything outside the oneof set.
func (c Config) duplicatePolicy() adjacency.DuplicatePolicy {
	switch c.OnDuplicate {
	case "sum":
		return adjacency.DuplicateSum
	case "last":
		return adjacency.DuplicateLast
	default:
		return adjacency.DuplicateReject
	}
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "lt":
			return fmt.Errorf("%s: must be less than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}

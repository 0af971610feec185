package heapsched

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Scenario is a simulation input: the horizon, output settings and the
// task list. It is read from YAML by a [ScenarioLoader].
type Scenario struct {
	EndTime    int     `yaml:"end_time" mapstructure:"end_time" validate:"gte=0"`
	IdleMarker string  `yaml:"idle_marker" mapstructure:"idle_marker" validate:"required"`
	LogLevel   string  `yaml:"log_level" mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	Tasks      []*Task `yaml:"tasks" mapstructure:"-" validate:"dive,required"`
}

// scenarioTask mirrors Task for decoding so that an omitted duration can be
// told apart from an explicit zero.
type scenarioTask struct {
	ID          string `mapstructure:"id"`
	Priority    int    `mapstructure:"priority"`
	ArrivalTime int    `mapstructure:"arrival_time"`
	Deadline    int    `mapstructure:"deadline"`
	Duration    *int   `mapstructure:"duration"`
}

// ValidationError represents a scenario validation error with field details.
type ValidationError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}

// ScenarioLoader reads scenarios. Precedence, highest first: overrides set
// with SetOverride, HEAPSCHED_* environment variables, the scenario file,
// built-in defaults.
type ScenarioLoader struct {
	v         *viper.Viper
	validator *validator.Validate
	overrides map[string]interface{}
}

// NewScenarioLoader creates a new scenario loader.
func NewScenarioLoader() *ScenarioLoader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("HEAPSCHED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ScenarioLoader{
		v:         v,
		validator: validator.New(),
		overrides: make(map[string]interface{}),
	}
}

// SetOverride sets a value that takes precedence over file and environment,
// e.g. SetOverride("end_time", 20).
func (l *ScenarioLoader) SetOverride(key string, value interface{}) {
	l.overrides[key] = value
}

// LoadFromPath reads and validates the scenario file at path.
func (l *ScenarioLoader) LoadFromPath(path string) (*Scenario, error) {
	l.setDefaults()

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return l.build()
}

// Load reads and validates a YAML scenario from r.
func (l *ScenarioLoader) Load(r io.Reader) (*Scenario, error) {
	l.setDefaults()

	if err := l.v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return l.build()
}

func (l *ScenarioLoader) build() (*Scenario, error) {
	for key, value := range l.overrides {
		l.v.Set(key, value)
	}

	sc := &Scenario{}
	if err := l.v.Unmarshal(sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}

	var raw []scenarioTask
	if err := l.v.UnmarshalKey("tasks", &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
	}
	sc.Tasks = make([]*Task, 0, len(raw))
	for _, rt := range raw {
		t := NewTask(rt.ID, rt.Priority, rt.ArrivalTime, rt.Deadline)
		if rt.Duration != nil {
			t.Duration = *rt.Duration
		}
		sc.Tasks = append(sc.Tasks, t)
	}

	if err := l.Validate(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks the scenario against its struct tags.
func (l *ScenarioLoader) Validate(sc *Scenario) error {
	var errs ValidationErrors

	err := l.validator.Struct(sc)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, e := range validationErrs {
				errs = append(errs, ValidationError{
					Field:   e.Namespace(),
					Tag:     e.Tag(),
					Value:   e.Value(),
					Message: formatValidationError(e),
				})
			}
		} else {
			return fmt.Errorf("validation error: %w", err)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (l *ScenarioLoader) setDefaults() {
	defaults := DefaultScenario()

	l.v.SetDefault("end_time", defaults.EndTime)
	l.v.SetDefault("idle_marker", defaults.IdleMarker)
	l.v.SetDefault("log_level", defaults.LogLevel)
}

func formatValidationError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Scenario.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "gte":
		return fmt.Sprintf("'%s' must be at least %s (got '%v')", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s] (got '%v')", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("'%s' failed validation '%s'", field, e.Tag())
	}
}

// DefaultScenario returns an empty scenario with default settings.
func DefaultScenario() *Scenario {
	return &Scenario{
		EndTime:    0,
		IdleMarker: IdleMarker,
		LogLevel:   "info",
	}
}

// DemoScenario returns the four-task scenario used by the demo command.
func DemoScenario() *Scenario {
	sc := DefaultScenario()
	sc.EndTime = 8
	sc.Tasks = []*Task{
		NewTask("A", 5, 0, 10).WithDuration(2),
		NewTask("B", 9, 1, 5),
		NewTask("C", 5, 1, 3).WithDuration(2),
		NewTask("D", 1, 2, 9),
	}
	return sc
}

// WriteScenario writes sc to path as YAML.
func WriteScenario(sc *Scenario, path string) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	return nil
}

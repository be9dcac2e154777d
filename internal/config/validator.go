package config

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Backends returns the valid storage.backend values
func Backends() []string {
	return []string{BackendSQLite, BackendFile, BackendMemory}
}

// Views returns the valid ui.start_view values
func Views() []string {
	return []string{ViewToday, ViewAll, ViewFlagged}
}

// Themes returns the valid ui.theme values
func Themes() []string {
	return []string{ThemeTokyoNight, ThemeTokyoDay}
}

// Validate checks the configuration and returns every problem found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(Backends(), c.Storage.Backend) {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Value:   c.Storage.Backend,
			Message: "must be one of " + strings.Join(Backends(), ", "),
		})
	}
	if c.Storage.Backend != BackendMemory && strings.TrimSpace(c.Storage.Dir) == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.dir",
			Value:   c.Storage.Dir,
			Message: "is required for the " + c.Storage.Backend + " backend",
		})
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be debug, info, warn or error",
		})
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file",
			Value:   c.Logging.File,
			Message: `is required, use "-" for stderr`,
		})
	}

	if !slices.Contains(Views(), c.UI.StartView) {
		errs = append(errs, ValidationError{
			Field:   "ui.start_view",
			Value:   c.UI.StartView,
			Message: "must be one of " + strings.Join(Views(), ", "),
		})
	}
	if !slices.Contains(Themes(), c.UI.Theme) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Value:   c.UI.Theme,
			Message: "must be one of " + strings.Join(Themes(), ", "),
		})
	}

	return errs
}

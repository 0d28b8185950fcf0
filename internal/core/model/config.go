package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config contains the durations and cadence used by the PhaseTimer.
type Config struct {
	FocusMinutes            int
	ShortBreakMinutes       int
	LongBreakMinutes        int
	SessionsBeforeLongBreak int
}

// Limit is an inclusive range accepted for a configuration field.
type Limit struct {
	Min int
	Max int
}

// Field limits accepted at the settings boundary.
var (
	FocusLimit      = Limit{Min: 5, Max: 90}
	ShortBreakLimit = Limit{Min: 1, Max: 30}
	LongBreakLimit  = Limit{Min: 5, Max: 60}
	CadenceLimit    = Limit{Min: 1, Max: 12}
)

// DefaultConfig returns the classic 25/5/15 schedule with a long break every fourth session.
func DefaultConfig() Config {
	return Config{
		FocusMinutes:            25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
	}
}

// FocusDuration returns the focus length.
func (config Config) FocusDuration() time.Duration {
	return time.Duration(config.FocusMinutes) * time.Minute
}

// ShortBreakDuration returns the short break length.
func (config Config) ShortBreakDuration() time.Duration {
	return time.Duration(config.ShortBreakMinutes) * time.Minute
}

// LongBreakDuration returns the long break length.
func (config Config) LongBreakDuration() time.Duration {
	return time.Duration(config.LongBreakMinutes) * time.Minute
}

// ValidationError describes a rejected configuration field.
type ValidationError struct {
	Field string
	Value string
	Limit Limit
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("%s must be a whole number between %d and %d (got %q)",
		err.Field, err.Limit.Min, err.Limit.Max, err.Value)
}

// Validate checks every field against its limit and reports the first violation.
func (config Config) Validate() error {
	checks := []struct {
		field string
		value int
		limit Limit
	}{
		{"focus length", config.FocusMinutes, FocusLimit},
		{"short break length", config.ShortBreakMinutes, ShortBreakLimit},
		{"long break length", config.LongBreakMinutes, LongBreakLimit},
		{"sessions before long break", config.SessionsBeforeLongBreak, CadenceLimit},
	}
	for _, check := range checks {
		if check.value < check.limit.Min || check.value > check.limit.Max {
			return &ValidationError{
				Field: check.field,
				Value: strconv.Itoa(check.value),
				Limit: check.limit,
			}
		}
	}
	return nil
}

// ConfigInput holds raw text as typed into a form or passed on the command line.
type ConfigInput struct {
	FocusMinutes            string
	ShortBreakMinutes       string
	LongBreakMinutes        string
	SessionsBeforeLongBreak string
}

// InputFromConfig renders a config back into form text.
func InputFromConfig(config Config) ConfigInput {
	return ConfigInput{
		FocusMinutes:            strconv.Itoa(config.FocusMinutes),
		ShortBreakMinutes:       strconv.Itoa(config.ShortBreakMinutes),
		LongBreakMinutes:        strconv.Itoa(config.LongBreakMinutes),
		SessionsBeforeLongBreak: strconv.Itoa(config.SessionsBeforeLongBreak),
	}
}

// ParseConfig converts raw input into a validated Config.
func ParseConfig(input ConfigInput) (Config, error) {
	var config Config
	fields := []struct {
		field string
		raw   string
		limit Limit
		dest  *int
	}{
		{"focus length", input.FocusMinutes, FocusLimit, &config.FocusMinutes},
		{"short break length", input.ShortBreakMinutes, ShortBreakLimit, &config.ShortBreakMinutes},
		{"long break length", input.LongBreakMinutes, LongBreakLimit, &config.LongBreakMinutes},
		{"sessions before long break", input.SessionsBeforeLongBreak, CadenceLimit, &config.SessionsBeforeLongBreak},
	}
	for _, field := range fields {
		value, err := strconv.Atoi(strings.TrimSpace(field.raw))
		if err != nil {
			return Config{}, &ValidationError{Field: field.field, Value: field.raw, Limit: field.limit}
		}
		*field.dest = value
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError ошибка одного поля конфигурации
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors все найденные ошибки конфигурации
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate проверяет конфигурацию репозитория
func (c *ServerConfig) Validate() error {
	var errs ValidationErrors

	if c.Address == "" {
		errs = append(errs, ValidationError{Field: "address", Message: "must not be empty"})
	}
	if c.DatabasePath == "" {
		errs = append(errs, ValidationError{Field: "database_path", Message: "must not be empty"})
	}
	if c.LiveDir == "" {
		errs = append(errs, ValidationError{Field: "live_dir", Message: "must not be empty"})
	}
	if c.WindowSize < 4 {
		errs = append(errs, ValidationError{Field: "window_size", Message: fmt.Sprintf("must be at least 4, got %d", c.WindowSize)})
	}
	if c.KeepPatches < 0 {
		errs = append(errs, ValidationError{Field: "keep_patches", Message: "must not be negative"})
	}
	if c.MaxPatchSize <= 0 {
		errs = append(errs, ValidationError{Field: "max_patch_size", Message: "must be positive"})
	}
	if c.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "rate_limit", Message: "must not be negative"})
	}
	if c.WatchDebounceMs < 0 {
		errs = append(errs, ValidationError{Field: "watch_debounce_ms", Message: "must not be negative"})
	}
	errs = append(errs, c.Log.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate проверяет конфигурацию зеркала
func (c *MirrorConfig) Validate() error {
	var errs ValidationErrors

	if u, err := url.Parse(c.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{Field: "server_url", Message: fmt.Sprintf("invalid URL %q", c.ServerURL)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{Field: "server_url", Message: "scheme must be http or https"})
	}
	if c.DatabasePath == "" {
		errs = append(errs, ValidationError{Field: "database_path", Message: "must not be empty"})
	}
	if c.Dir == "" {
		errs = append(errs, ValidationError{Field: "dir", Message: "must not be empty"})
	}
	if c.MaxPatchChain <= 0 {
		errs = append(errs, ValidationError{Field: "max_patch_chain", Message: "must be positive"})
	}
	if c.MaxPatchSize <= 0 {
		errs = append(errs, ValidationError{Field: "max_patch_size", Message: "must be positive"})
	}
	if c.RequestTimeoutSec <= 0 {
		errs = append(errs, ValidationError{Field: "request_timeout_sec", Message: "must be positive"})
	}
	errs = append(errs, c.Log.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (l LogConfig) validate() ValidationErrors {
	var errs ValidationErrors
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", l.Level)})
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", l.Format)})
	}
	return errs
}

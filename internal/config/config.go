// Package config загрузка конфигурации репозитория и зеркала
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iudanet/deltamirror/internal/client/mirror"
	"github.com/iudanet/deltamirror/internal/delta"
	"github.com/iudanet/deltamirror/internal/server/repository"
	"gopkg.in/yaml.v3"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "DELTAMIRROR_"

// LogConfig настройки логирования
type LogConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`    // debug, info, warn, error
	Format string `toml:"format" json:"format" yaml:"format"` // text или json
}

// ServerConfig конфигурация репозитория
type ServerConfig struct {
	Log LogConfig `toml:"log" json:"log" yaml:"log"`

	Address      string `toml:"address" json:"address" yaml:"address"`
	DatabasePath string `toml:"database_path" json:"database_path" yaml:"database_path"`
	// LiveDir каталог с живыми файлами, из которых публикуются версии
	LiveDir string `toml:"live_dir" json:"live_dir" yaml:"live_dir"`

	MaxPatchSize    int64 `toml:"max_patch_size" json:"max_patch_size" yaml:"max_patch_size"`
	WindowSize      int   `toml:"window_size" json:"window_size" yaml:"window_size"`
	KeepPatches     int   `toml:"keep_patches" json:"keep_patches" yaml:"keep_patches"`
	RateLimit       int   `toml:"rate_limit" json:"rate_limit" yaml:"rate_limit"` // запросов в минуту на IP, 0 - без ограничения
	WatchDebounceMs int   `toml:"watch_debounce_ms" json:"watch_debounce_ms" yaml:"watch_debounce_ms"`
	ShutdownSec     int   `toml:"shutdown_sec" json:"shutdown_sec" yaml:"shutdown_sec"`

	// Admin включает маршруты register/update/pending
	Admin bool `toml:"admin" json:"admin" yaml:"admin"`
}

// MirrorConfig конфигурация зеркала
type MirrorConfig struct {
	Log LogConfig `toml:"log" json:"log" yaml:"log"`

	ServerURL    string `toml:"server_url" json:"server_url" yaml:"server_url"`
	DatabasePath string `toml:"database_path" json:"database_path" yaml:"database_path"`
	// Dir каталог локальных копий файлов
	Dir string `toml:"dir" json:"dir" yaml:"dir"`

	MaxPatchSize      int64 `toml:"max_patch_size" json:"max_patch_size" yaml:"max_patch_size"`
	MaxPatchChain     int   `toml:"max_patch_chain" json:"max_patch_chain" yaml:"max_patch_chain"`
	RequestTimeoutSec int   `toml:"request_timeout_sec" json:"request_timeout_sec" yaml:"request_timeout_sec"`

	FallbackToFull bool `toml:"fallback_to_full" json:"fallback_to_full" yaml:"fallback_to_full"`
	AutoRepair     bool `toml:"auto_repair" json:"auto_repair" yaml:"auto_repair"`
}

// DefaultServerConfig конфигурация репозитория по умолчанию
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Log:             LogConfig{Level: "info", Format: "text"},
		Address:         ":8080",
		DatabasePath:    "deltamirror-server.db",
		LiveDir:         "live",
		MaxPatchSize:    delta.DefaultMaxDecodedSize,
		WindowSize:      delta.DefaultWindowSize,
		KeepPatches:     repository.DefaultKeepPatches,
		RateLimit:       600,
		WatchDebounceMs: 500,
		ShutdownSec:     10,
	}
}

// DefaultMirrorConfig конфигурация зеркала по умолчанию
func DefaultMirrorConfig() *MirrorConfig {
	return &MirrorConfig{
		Log:               LogConfig{Level: "info", Format: "text"},
		ServerURL:         "http://localhost:8080",
		DatabasePath:      "deltamirror-mirror.db",
		Dir:               "mirror",
		MaxPatchSize:      delta.DefaultMaxDecodedSize,
		MaxPatchChain:     mirror.DefaultMaxPatchChain,
		RequestTimeoutSec: 30,
		FallbackToFull:    true,
	}
}

// LoadServer читает конфигурацию репозитория.
// Пустой path означает значения по умолчанию; затем применяются переменные окружения.
func LoadServer(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// LoadMirror читает конфигурацию зеркала
func LoadMirror(path string) (*MirrorConfig, error) {
	cfg := DefaultMirrorConfig()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// decodeFile декодирует файл поверх значений в v, формат определяется по расширению
func decodeFile(path string, v any) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), v); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}

	return nil
}

// ApplyEnvOverrides применяет переменные окружения DELTAMIRROR_*
func (c *ServerConfig) ApplyEnvOverrides() {
	envString("ADDRESS", &c.Address)
	envString("DATABASE_PATH", &c.DatabasePath)
	envString("LIVE_DIR", &c.LiveDir)
	envInt("KEEP_PATCHES", &c.KeepPatches)
	envInt("RATE_LIMIT", &c.RateLimit)
	envBool("ADMIN", &c.Admin)
	c.Log.applyEnvOverrides()
}

// ApplyEnvOverrides применяет переменные окружения DELTAMIRROR_*
func (c *MirrorConfig) ApplyEnvOverrides() {
	envString("SERVER_URL", &c.ServerURL)
	envString("DATABASE_PATH", &c.DatabasePath)
	envString("MIRROR_DIR", &c.Dir)
	envInt("MAX_PATCH_CHAIN", &c.MaxPatchChain)
	envBool("FALLBACK_TO_FULL", &c.FallbackToFull)
	envBool("AUTO_REPAIR", &c.AutoRepair)
	c.Log.applyEnvOverrides()
}

func (l *LogConfig) applyEnvOverrides() {
	envString("LOG_LEVEL", &l.Level)
	envString("LOG_FORMAT", &l.Format)
}

func envString(key string, dst *string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

// Некорректные числа и флаги в окружении игнорируются
func envInt(key string, dst *int) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

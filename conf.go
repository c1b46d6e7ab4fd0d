package weekgo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreSQLite StoreKind = "sqlite"
)

type Config struct {
	Store        StoreKind
	PlanPath     string
	DatabaseURL  string
	LogLevel     string
	LogPath      string
	ScanInterval time.Duration
	DevMode      bool
}

const (
	KeyStore        = "WEEKGO_STORE"
	KeyPlanPath     = "WEEKGO_PLAN_PATH"
	KeyDatabaseURL  = "WEEKGO_DB_URL"
	KeyLogLevel     = "WEEKGO_LOG_LEVEL"
	KeyLogPath      = "WEEKGO_LOG_PATH"
	KeyScanInterval = "WEEKGO_SCAN_INTERVAL"
	KeyDevMode      = "WEEKGO_DEV_MODE"
)

const (
	DefaultLogLevel     = "WARN"
	DefaultStore        = StoreFile
	defaultScanInterval = "1m"
)

var (
	userHome, _        = os.UserHomeDir()
	DefaultPlanPath    = filepath.Join(userHome, ".weekgo", "plan.yaml")
	DefaultDatabaseURL = filepath.Join(userHome, ".weekgo", "weekgo.db")
	DefaultLogPath     = filepath.Join(userHome, ".weekgo", "weekgo.log")
)

// DefaultConfigPath is where LoadConfig looks when given an empty path.
func DefaultConfigPath() string {
	cfgDir, _ := os.UserConfigDir()
	return filepath.Join(cfgDir, "weekgo", "weekgo.conf")
}

// LoadConfig resolves each setting from the environment, then confFile, then
// the built-in default. A missing confFile is created with the defaults.
func LoadConfig(confFile string) (Config, error) {
	if confFile == "" {
		confFile = DefaultConfigPath()
	}

	fromFile, err := readConfFile(confFile)
	if err != nil {
		return Config{}, err
	}

	get := func(key, def string) string {
		return coalesce(os.Getenv(key), fromFile[key], def)
	}

	conf := Config{
		Store:       StoreKind(get(KeyStore, string(DefaultStore))),
		PlanPath:    get(KeyPlanPath, DefaultPlanPath),
		DatabaseURL: get(KeyDatabaseURL, DefaultDatabaseURL),
		LogLevel:    get(KeyLogLevel, DefaultLogLevel),
		LogPath:     get(KeyLogPath, DefaultLogPath),
	}

	if devMode := get(KeyDevMode, ""); devMode != "" {
		conf.DevMode, err = strconv.ParseBool(devMode)
		if err != nil {
			conf.DevMode = true
		}
	}
	if conf.DevMode {
		conf.LogLevel = "DEBUG"
		conf.PlanPath = filepath.Join(os.TempDir(), "weekgo-dev.yaml")
		conf.DatabaseURL = filepath.Join(os.TempDir(), "weekgo-dev.db")
		conf.LogPath = filepath.Join(os.TempDir(), "weekgo-dev.log")
	}

	switch conf.Store {
	case StoreFile, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("%s=%q: want %q or %q", KeyStore, conf.Store, StoreFile, StoreSQLite)
	}

	interval := get(KeyScanInterval, defaultScanInterval)
	conf.ScanInterval, err = time.ParseDuration(interval)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyScanInterval, err)
	}
	if conf.ScanInterval <= 0 {
		return Config{}, fmt.Errorf("%s=%q: must be positive", KeyScanInterval, interval)
	}

	return conf, nil
}

func readConfFile(confFile string) (map[string]string, error) {
	values, err := godotenv.Read(confFile)
	if err == nil {
		return values, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", confFile, err)
	}

	defaults := map[string]string{
		KeyStore:        string(DefaultStore),
		KeyPlanPath:     DefaultPlanPath,
		KeyDatabaseURL:  DefaultDatabaseURL,
		KeyLogLevel:     DefaultLogLevel,
		KeyLogPath:      DefaultLogPath,
		KeyScanInterval: defaultScanInterval,
	}
	if err := os.MkdirAll(filepath.Dir(confFile), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := godotenv.Write(defaults, confFile); err != nil {
		return nil, fmt.Errorf("write default config %s: %w", confFile, err)
	}
	return defaults, nil
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}

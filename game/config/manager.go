package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configName = "minesweeper"
	envPrefix  = "MINESWEEPER"

	keyBoardSize     = "board_size"
	keyMines         = "mines"
	keyIdleTimeout   = "idle_timeout"
	keySweepInterval = "sweep_interval"
)

// Manager holds the loaded settings
type Manager struct {
	v         *viper.Viper
	configDir string
	settings  Settings
	mu        sync.RWMutex
}

// NewManager loads settings from configDir and the environment. An empty
// configDir skips the file layer; a configDir that does not exist is an error.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		v:         viper.New(),
		configDir: configDir,
	}

	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return m, nil
}

func (m *Manager) load() error {
	defaults := DefaultSettings()
	m.v.SetDefault(keyBoardSize, defaults.BoardSize)
	m.v.SetDefault(keyMines, defaults.Mines)
	m.v.SetDefault(keyIdleTimeout, defaults.IdleTimeout)
	m.v.SetDefault(keySweepInterval, defaults.SweepInterval)

	m.v.SetEnvPrefix(envPrefix)
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	if m.configDir != "" {
		m.v.SetConfigName(configName)
		m.v.AddConfigPath(m.configDir)

		if err := m.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var settings Settings
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsDurationHook(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := m.v.Unmarshal(&settings, hooks); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.settings = settings
	m.mu.Unlock()
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsDurationHook decodes durations from Go duration strings ("30m") or
// from bare numbers, which are read as seconds.
func secondsDurationHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType || from == durationType {
			return data, nil
		}

		value := reflect.ValueOf(data)
		switch from.Kind() {
		case reflect.String:
			s := strings.TrimSpace(value.String())
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return time.Duration(n) * time.Second, nil
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			return d, nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(value.Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(value.Uint()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(value.Float() * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}

// Settings returns the loaded settings
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// ConfigFile returns the path of the config file that was read, or "" when
// settings came from defaults and environment only.
func (m *Manager) ConfigFile() string {
	return m.v.ConfigFileUsed()
}

package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// StoreConfig holds storefront policy knobs that operators tune without a
// redeploy: signup balance grants, catalog price ceilings and key batch caps.
type StoreConfig struct {
	SignupGrantCents int64 `mapstructure:"signupGrantCents"`
	MaxPriceCents    int64 `mapstructure:"maxPriceCents"`
	MaxKeyBatchSize  int   `mapstructure:"maxKeyBatchSize"`
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		SignupGrantCents: 0,
		MaxPriceCents:    100_000, // $1000.00, matches the original price bound
		MaxKeyBatchSize:  100,
	}
}

// StoreConfigHolder serves the current StoreConfig and hot-reloads store.yml.
type StoreConfigHolder struct {
	current atomic.Value // holds StoreConfig
}

func NewStoreConfigHolder() (*StoreConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("store")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/gamevault/config")
	v.AddConfigPath("/etc/gamevault")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GAMEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultStoreConfig()
		v.SetDefault("store.signupGrantCents", defaults.SignupGrantCents)
		v.SetDefault("store.maxPriceCents", defaults.MaxPriceCents)
		v.SetDefault("store.maxKeyBatchSize", defaults.MaxKeyBatchSize)
	}

	var cfg StoreConfig
	if err := v.UnmarshalKey("store", &cfg); err != nil {
		return nil, err
	}
	if err := validateStoreConfig(cfg); err != nil {
		return nil, err
	}

	holder := &StoreConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated StoreConfig
		if err := v.UnmarshalKey("store", &updated); err != nil {
			log.Printf("[store-config] reload failed: %v", err)
			return
		}
		if err := validateStoreConfig(updated); err != nil {
			log.Printf("[store-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[store-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *StoreConfigHolder) Get() StoreConfig {
	return h.current.Load().(StoreConfig)
}

// NewStaticStoreConfigHolder is for tests and tools that need a fixed policy.
func NewStaticStoreConfigHolder(cfg StoreConfig) *StoreConfigHolder {
	holder := &StoreConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateStoreConfig(cfg StoreConfig) error {
	if cfg.SignupGrantCents < 0 {
		return errors.New("store.signupGrantCents cannot be negative")
	}
	if cfg.MaxPriceCents <= 0 {
		return errors.New("store.maxPriceCents must be positive")
	}
	if cfg.MaxKeyBatchSize <= 0 {
		return errors.New("store.maxKeyBatchSize must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AnchorMode selects the base date for due-date extension during
// payment reconciliation.
type AnchorMode string

const (
	// AnchorDueDate always extends from the stored due date, so a lapsed
	// customer pays off the arrears first.
	AnchorDueDate AnchorMode = "due_date"
	// AnchorMaxOfDueAndPayment extends from whichever of the stored due
	// date and the payment date is later.
	AnchorMaxOfDueAndPayment AnchorMode = "max_of_due_and_payment"
)

// BillingConfig holds reconciliation policy knobs loaded from billing.yml.
type BillingConfig struct {
	AnchorMode AnchorMode `mapstructure:"anchorMode"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{AnchorMode: AnchorDueDate}
}

// BillingConfigHolder exposes the current billing policy and hot-reloads
// it when billing.yml changes on disk.
type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder(log *zap.Logger) (*BillingConfigHolder, error) {
	log = log.Named("billing.config")

	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/konekta/config")
	v.AddConfigPath("/etc/konekta")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KONEKTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultBillingConfig()
		v.SetDefault("billing.anchorMode", string(defaults.AnchorMode))
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		updated = updated.withDefaults()
		if err := validateBillingConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// StaticBillingConfig pins a holder to cfg, bypassing billing.yml.
func StaticBillingConfig(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg.withDefaults())
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func (c BillingConfig) withDefaults() BillingConfig {
	if strings.TrimSpace(string(c.AnchorMode)) == "" {
		c.AnchorMode = AnchorDueDate
	}
	return c
}

func validateBillingConfig(cfg BillingConfig) error {
	switch cfg.AnchorMode {
	case AnchorDueDate, AnchorMaxOfDueAndPayment:
		return nil
	default:
		return fmt.Errorf("billing.anchorMode must be %q or %q", AnchorDueDate, AnchorMaxOfDueAndPayment)
	}
}

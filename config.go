package complyflow

import (
	"fmt"

	"github.com/complyflow/complyflow/service/messaging"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON, YAML, environment variables, etc. The zero-value is
// useful; all nested fields inherit their package defaults.
type Config struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Messaging MessagingConfig `json:"messaging" yaml:"messaging"`
}

// StoreConfig selects where compiled images are persisted. When BaseURL is
// empty images live in memory only.
type StoreConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

// MessagingConfig selects the queue backend events travel over.
type MessagingConfig struct {
	Vendor messaging.Vendor `json:"vendor" yaml:"vendor"`

	// QueueBaseURL is the root folder for fs queues; required for the fs
	// vendor.
	QueueBaseURL string `json:"queueBaseURL" yaml:"queueBaseURL"`
}

// DefaultConfig returns a Config populated with the defaults the
// constructors previously hard-coded. Callers may modify the returned struct
// before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Messaging: MessagingConfig{Vendor: messaging.VendorMemory},
	}
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Messaging.Vendor {
	case "", messaging.VendorMemory:
	case messaging.VendorFS:
		if c.Messaging.QueueBaseURL == "" {
			return fmt.Errorf("messaging.queueBaseURL is required for the fs vendor")
		}
	default:
		return fmt.Errorf("unsupported messaging vendor: %v", c.Messaging.Vendor)
	}
	return nil
}

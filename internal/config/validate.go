package config

import (
	"errors"
	"fmt"
)

// Metric names accepted by mlu.metric. Short forms match the column headers
// of the statistics CSV.
var validMetrics = map[string]struct{}{
	"word": {}, "words": {}, "mlu": {},
	"morpheme": {}, "morphemes": {}, "mlum": {},
	"relation": {}, "relations": {}, "mlug": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateMLU(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExtract() error {
	if c.Extract.Workers < 0 {
		return errors.New("extract.workers must not be negative")
	}
	return nil
}

func (c *Config) validateMLU() error {
	if _, ok := validMetrics[c.MLU.Metric]; !ok {
		return fmt.Errorf("mlu.metric: unsupported value %q (use word, morpheme or relation)", c.MLU.Metric)
	}
	if c.MLU.EarlyAgeMonths <= 0 {
		return errors.New("mlu.early_age_months must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtract()
	c.normalizeMLU()
	if err := c.normalizeExport(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtract() {
	exts := make([]string, 0, len(c.Extract.Extensions))
	seen := make(map[string]struct{}, len(c.Extract.Extensions))
	for _, ext := range c.Extract.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = []string{defaultExtension}
	}
	c.Extract.Extensions = exts

	if c.Extract.Workers == 0 {
		c.Extract.Workers = runtime.NumCPU()
	}
}

func (c *Config) normalizeMLU() {
	c.MLU.Metric = strings.ToLower(strings.TrimSpace(c.MLU.Metric))
	if c.MLU.Metric == "" {
		c.MLU.Metric = defaultMetric
	}
}

func (c *Config) normalizeExport() error {
	var err error
	if c.Export.SQLitePath, err = expandPath(strings.TrimSpace(c.Export.SQLitePath)); err != nil {
		return fmt.Errorf("export.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv("BRENTMLU_LOG_LEVEL"); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

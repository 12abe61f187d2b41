package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/parsercache/internal/config"
	"github.com/gerunddev/parsercache/internal/styles"
)

// ConfigInit writes the default configuration file. An existing file is
// left alone unless force is set.
func ConfigInit(out io.Writer, force bool) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(); err != nil {
		return err
	}

	fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Wrote "+path))
	return nil
}

// ConfigShow prints the effective configuration and where it lives
func ConfigShow(out io.Writer, cfg *config.Config) error {
	fmt.Fprintf(out, "%s %s\n", styles.KeyStyle.Render("Config file:"), config.ConfigPath())
	fmt.Fprintf(out, "%s %s\n\n", styles.KeyStyle.Render("Cache file: "), config.CacheFilePath())

	data, err := json.MarshalIndent(struct {
		*config.Config
		Debounce string `json:"debounce"`
	}{cfg, cfg.Debounce.String()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintln(out, string(data))
	return nil
}

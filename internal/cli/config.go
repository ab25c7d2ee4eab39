package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/wordbias/internal/model"
)

const precedence = `  1. CLI flags
  2. Environment variables (WORDBIAS_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)
  3. Config file (~/.wordbias/config.yaml or --config)
  4. Defaults
`

var initPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the wordbias configuration",
	Long:  "Settings are resolved in this order, highest priority first:\n\n" + precedence,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return renderConfig(cmd.OutOrStdout(), cfg, viper.ConfigFileUsed())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := initPath
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("locate home directory: %w", err)
			}
			path = filepath.Join(home, ".wordbias", "config.yaml")
		}

		if err := writeDefaultConfig(path); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Wrote %s\n\n", path)
		fmt.Fprintf(out, "Review it with:  wordbias config show\n")
		return nil
	},
}

// renderConfig prints cfg as YAML with the API key masked
func renderConfig(w io.Writer, cfg *model.Config, source string) error {
	masked := *cfg
	if masked.Tagger.APIKey != "" {
		masked.Tagger.APIKey = "********"
	}

	body, err := yaml.Marshal(&masked)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if source == "" {
		source = "none (defaults)"
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Configuration  (file: %s)\n", source)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	if _, err := w.Write(body); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, "Precedence:\n"+precedence)
	return nil
}

// writeDefaultConfig creates path with the default settings. It refuses to
// replace an existing file.
func writeDefaultConfig(path string) (err error) {
	body, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("config file already exists: %s (delete it first to recreate)", path)
	}
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", cerr)
		}
	}()

	header := "# wordbias configuration\n#\n# Precedence:\n"
	for _, line := range []string{
		"#   flags > WORDBIAS_* environment > this file > defaults",
		"#",
		"# Keep API keys in the environment rather than here:",
		"#   export OPENAI_API_KEY=sk-...",
		"#   export ANTHROPIC_API_KEY=sk-ant-...",
	} {
		header += line + "\n"
	}
	_, err = io.WriteString(f, header+"\n"+string(body))
	return err
}

func init() {
	configInitCmd.Flags().StringVar(&initPath, "path", "", "where to write the file (default: $HOME/.wordbias/config.yaml)")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}

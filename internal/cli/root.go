package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/logging"
	"github.com/ppiankov/wordbias/internal/model"
	"github.com/ppiankov/wordbias/internal/pipeline"
)

// version is set at build time
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wordbias",
	Short: "wordbias - word-level political bias from parliamentary speeches",
	Long: `wordbias estimates how strongly each word is associated with a
speaker's political position.

It runs three stages over a SQLite speech store:
  tokenize   morphological analysis and filtering of every speech
  aggregate  per-speaker (word, tag) frequency profiles
  estimate   TF-IDF weighted regression of positions on word usage

A positive bias score means heavier use of the word goes with a larger
first-dimension coordinate in the position data. What that end of the
scale means politically depends on the position data itself.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wordbias %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.wordbias/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().String("db", "", "SQLite speech store path")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("store_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.wordbias")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match WORDBIAS_* (tagger.base_url -> WORDBIAS_TAGGER_BASE_URL)
	viper.SetEnvPrefix("WORDBIAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("tagger.api_key", "WORDBIAS_TAGGER_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that environment variables
// resolve during Unmarshal
func setDefaults(cfg *model.Config) {
	viper.SetDefault("store_path", cfg.StorePath)
	viper.SetDefault("stopword_path", cfg.StopwordPath)
	viper.SetDefault("positions_path", cfg.PositionsPath)
	viper.SetDefault("output_path", cfg.OutputPath)
	viper.SetDefault("record_limit", cfg.RecordLimit)
	viper.SetDefault("min_word_count", cfg.MinWordCount)
	viper.SetDefault("chunk_size", cfg.ChunkSize)

	viper.SetDefault("tagger.provider", cfg.Tagger.Provider)
	viper.SetDefault("tagger.base_url", cfg.Tagger.BaseURL)
	viper.SetDefault("tagger.model", cfg.Tagger.Model)
	viper.SetDefault("tagger.api_key", cfg.Tagger.APIKey)
	viper.SetDefault("tagger.timeout", cfg.Tagger.Timeout)
	viper.SetDefault("tagger.http_proxy", cfg.Tagger.HTTPProxy)
	viper.SetDefault("tagger.https_proxy", cfg.Tagger.HTTPSProxy)
	viper.SetDefault("tagger.rate", cfg.Tagger.Rate)
	viper.SetDefault("tagger.burst", cfg.Tagger.Burst)
	viper.SetDefault("tagger.cache_enabled", cfg.Tagger.CacheEnabled)
	viper.SetDefault("tagger.cache_dir", cfg.Tagger.CacheDir)
	viper.SetDefault("tagger.cache_ttl", cfg.Tagger.CacheTTL)

	viper.SetDefault("log.level", cfg.Log.Level)
	viper.SetDefault("log.format", cfg.Log.Format)
	viper.SetDefault("log.output", cfg.Log.Output)
}

// loadConfig resolves defaults, config file, environment and then the
// command's own flags, highest priority last
func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Empty persistent flags are bound but unset
	if cfg.StorePath == "" {
		cfg.StorePath = model.DefaultConfig().StorePath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = model.DefaultConfig().Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = model.DefaultConfig().Log.Format
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session bundles what every stage command needs
type session struct {
	cfg      *model.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	ctx      context.Context
	stop     context.CancelFunc
}

// openSession loads config, builds the logger and opens the store.
// Interrupts cancel the returned context.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	p, err := pipeline.NewPipeline(ctx, cfg, logger)
	if err != nil {
		stop()
		_ = logger.Sync()
		return nil, fmt.Errorf("open store %s: %w", cfg.StorePath, err)
	}

	return &session{cfg: cfg, logger: logger, pipeline: p, ctx: ctx, stop: stop}, nil
}

func (s *session) close() {
	if err := s.pipeline.Close(); err != nil {
		s.logger.Warn("close store", zap.Error(err))
	}
	s.stop()
	_ = s.logger.Sync()
}

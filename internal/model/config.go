package model

import "time"

// Config is the complete runtime configuration shared by all stages
type Config struct {
	StorePath     string `yaml:"store_path" mapstructure:"store_path"`
	StopwordPath  string `yaml:"stopword_path" mapstructure:"stopword_path"`
	PositionsPath string `yaml:"positions_path" mapstructure:"positions_path"`
	OutputPath    string `yaml:"output_path" mapstructure:"output_path"`

	RecordLimit  int `yaml:"record_limit" mapstructure:"record_limit"`     // 0 = no limit
	MinWordCount int `yaml:"min_word_count" mapstructure:"min_word_count"` // Global count threshold for the vocabulary
	ChunkSize    int `yaml:"chunk_size" mapstructure:"chunk_size"`         // Speeches read per tokenizer chunk

	Tagger TaggerConfig `yaml:"tagger" mapstructure:"tagger"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// TaggerConfig selects and tunes the morphological tagger
type TaggerConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // remote, openai, anthropic, prose
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"` // empty = provider default
	Model    string        `yaml:"model" mapstructure:"model"`
	APIKey   string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Proxies for HTTP taggers (empty = HTTP_PROXY/HTTPS_PROXY from the environment)
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`

	// Throttling (requests per second; 0 disables)
	Rate  float64 `yaml:"rate" mapstructure:"rate"`
	Burst int     `yaml:"burst" mapstructure:"burst"`

	// Result cache (empty dir disables the disk layer)
	CacheEnabled bool          `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheDir     string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	CacheTTL     time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr or a file path
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		StorePath:     "political_speeches.db",
		StopwordPath:  "analysis/korean_stopwords.txt",
		PositionsPath: "wnominate_results.csv",
		OutputPath:    "word_political_bias_1d.csv",
		RecordLimit:   0,
		MinWordCount:  10,
		ChunkSize:     1000,
		Tagger: TaggerConfig{
			Provider:     "remote",
			Timeout:      60 * time.Second,
			Rate:         0,
			Burst:        1,
			CacheEnabled: true,
			CacheDir:     "",
			CacheTTL:     7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

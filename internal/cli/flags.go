package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ppiankov/wordbias/internal/model"
)

// Stage flags are declared per command and applied to the config only when
// set explicitly, so config file and environment values survive defaults.

func addTokenizeFlags(cmd *cobra.Command) {
	cmd.Flags().String("stopwords", "", "newline-delimited stopword file")
	cmd.Flags().Int("limit", 0, "maximum number of speeches to process (0 = all)")
	cmd.Flags().Int("chunk-size", 0, "speeches read and written per batch")
	cmd.Flags().Bool("retokenize", false, "re-tokenize speeches that already have tokens")
	cmd.Flags().String("tagger", "", "tagger provider (remote, openai, anthropic, prose)")
	cmd.Flags().String("tagger-url", "", "tagger base URL (default depends on the provider)")
	cmd.Flags().String("tagger-model", "", "model name for the openai or anthropic tagger")
	cmd.Flags().Float64("tagger-rate", 0, "maximum tagger calls per second (0 = unlimited)")
	cmd.Flags().Bool("no-cache", false, "disable the tagger result cache")
}

func addAggregateFlags(cmd *cobra.Command) {
	if cmd.Flags().Lookup("limit") == nil {
		cmd.Flags().Int("limit", 0, "maximum speeches per speaker (0 = all)")
	}
}

func addEstimateFlags(cmd *cobra.Command) {
	cmd.Flags().String("wnominate", "", "political position CSV (party,name,coord1D,coord2D)")
	cmd.Flags().Int("min-count", 0, "minimum global word count for the vocabulary")
	cmd.Flags().String("output", "", "bias score CSV output path")
}

// applyFlags copies explicitly set stage flags into cfg
func applyFlags(cmd *cobra.Command, cfg *model.Config) error {
	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		fs := cmd.Flags()
		switch f.Name {
		case "stopwords":
			cfg.StopwordPath, err = fs.GetString(f.Name)
		case "limit":
			cfg.RecordLimit, err = fs.GetInt(f.Name)
		case "chunk-size":
			cfg.ChunkSize, err = fs.GetInt(f.Name)
		case "tagger":
			cfg.Tagger.Provider, err = fs.GetString(f.Name)
		case "tagger-url":
			cfg.Tagger.BaseURL, err = fs.GetString(f.Name)
		case "tagger-model":
			cfg.Tagger.Model, err = fs.GetString(f.Name)
		case "tagger-rate":
			cfg.Tagger.Rate, err = fs.GetFloat64(f.Name)
		case "no-cache":
			var off bool
			off, err = fs.GetBool(f.Name)
			cfg.Tagger.CacheEnabled = !off
		case "wnominate":
			cfg.PositionsPath, err = fs.GetString(f.Name)
		case "min-count":
			cfg.MinWordCount, err = fs.GetInt(f.Name)
		case "output":
			cfg.OutputPath, err = fs.GetString(f.Name)
		}
	})
	return err
}

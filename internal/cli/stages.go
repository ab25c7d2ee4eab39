package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/wordbias/internal/frequency"
	"github.com/ppiankov/wordbias/internal/model"
	"github.com/ppiankov/wordbias/internal/tokenize"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize",
	Short: "Tag, filter and store tokens for every pending speech",
	Long: `Tokenize normalizes each speech, runs the morphological tagger and keeps
nouns, verbs and adjectives (NNG, NNP, VV, VA, VXV, VXA) of at least two
characters that are not stopwords. Tokens are stored on the speech row as a
JSON array of [word, tag] pairs.

Only speeches without tokens are processed unless --retokenize is given.

Example:
  wordbias tokenize --stopwords analysis/korean_stopwords.txt
  wordbias tokenize --tagger openai --tagger-model gpt-4o-mini --limit 100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		retokenize, _ := cmd.Flags().GetBool("retokenize")
		stats, err := s.pipeline.Tokenize(s.ctx, retokenize)
		if err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}
		printTokenizeStats(stats)
		return nil
	},
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Count (word, tag) usage per speaker",
	Long: `Aggregate rebuilds the word frequency table for every speaker that has
tokenized speeches and a row in the position table (see 'positions import').
Each speaker's rows are replaced in a single transaction.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		stats, err := s.pipeline.Aggregate(s.ctx)
		if err != nil {
			return fmt.Errorf("aggregate: %w", err)
		}
		printAggregateStats(stats)
		return nil
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Fit the word bias regression and write ranked scores",
	Long: `Estimate builds the speaker×word usage matrix from the frequency table,
applies TF-IDF weighting, regresses each speaker's coord1D on it and writes
one bias score per word to a CSV ordered by descending magnitude.

Example:
  wordbias estimate --wnominate wnominate_results.csv --min-count 10 --output bias.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		m, err := s.pipeline.Estimate(s.ctx)
		if err != nil {
			return fmt.Errorf("estimate: %w", err)
		}
		printModel(m, s.cfg.OutputPath)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run tokenize, aggregate and estimate in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		retokenize, _ := cmd.Flags().GetBool("retokenize")
		res, err := s.pipeline.Run(s.ctx, retokenize)
		if err != nil {
			return err
		}
		printTokenizeStats(res.Tokenize)
		printAggregateStats(res.Aggregate)
		printModel(res.Model, s.cfg.OutputPath)
		fmt.Fprintf(os.Stderr, "Total time: %s\n", res.Duration.Round(time.Millisecond))
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show a speaker's most frequent words",
	Long: `Top lists a speaker's most used (word, tag) pairs from the frequency table
without running the regression.

Example:
  wordbias top --speaker 홍길동 --top 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		speaker, _ := cmd.Flags().GetString("speaker")
		n, _ := cmd.Flags().GetInt("top")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		words, err := s.pipeline.TopWords(s.ctx, speaker, n)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			return fmt.Errorf("no frequency data for speaker %q", speaker)
		}

		fmt.Printf("Top %d words for %s:\n", n, speaker)
		for i, w := range words {
			fmt.Printf("%4d  %-20s %-4s %8d\n", i+1, w.Word, w.Tag, w.Count)
		}
		return nil
	},
}

func init() {
	addTokenizeFlags(tokenizeCmd)
	addAggregateFlags(aggregateCmd)
	addEstimateFlags(estimateCmd)

	addTokenizeFlags(runCmd)
	addEstimateFlags(runCmd)

	topCmd.Flags().String("speaker", "", "speaker name")
	topCmd.Flags().Int("top", 50, "number of words to show")
	_ = topCmd.MarkFlagRequired("speaker")

	rootCmd.AddCommand(tokenizeCmd, aggregateCmd, estimateCmd, runCmd, topCmd)
}

func printTokenizeStats(st *tokenize.Stats) {
	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "✓ Tokenized %d speeches (%d blank, %d tagger failures)\n", st.Records, st.Blank, st.TagFailures)
	fmt.Fprintf(os.Stderr, "✓ Stored %d tokens in %s\n", st.Tokens, st.Duration.Round(time.Millisecond))
}

func printAggregateStats(st *frequency.Stats) {
	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "✓ Aggregated %d speakers into %d frequency rows\n", st.Speakers, st.Facts)
	if st.Skipped > 0 || st.CorruptBlobs > 0 {
		fmt.Fprintf(os.Stderr, "  %d speakers without tokens, %d unreadable token blobs skipped\n", st.Skipped, st.CorruptBlobs)
	}
}

func printModel(m *model.BiasModel, path string) {
	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "✓ Fitted %d words over %d speakers (R² %.3f, intercept %.4f)\n",
		m.Vocabulary, m.Observations, m.RSquared, m.Intercept)
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)

	show := min(10, len(m.Scores))
	if show > 0 {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Strongest associations (positive = larger coord1D):")
		for _, sc := range m.Scores[:show] {
			fmt.Fprintf(os.Stderr, "  %-20s %+.4f\n", sc.Word, sc.Score)
		}
	}
	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════════════════════════")
}

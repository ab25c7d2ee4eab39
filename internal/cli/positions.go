package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Manage the political position reference table",
}

var positionsImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Replace the stored positions with a CSV export",
	Long: `Import loads a position CSV with party, name, coord1D and coord2D columns
(W-NOMINATE output, for example) into the store. The aggregator only
processes speakers whose name matches an imported row exactly.

Example:
  wordbias positions import wnominate_results.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		n, err := s.pipeline.ImportPositions(s.ctx, args[0])
		if err != nil {
			return fmt.Errorf("import positions: %w", err)
		}
		fmt.Printf("✓ Imported %d member positions from %s\n", n, args[0])
		return nil
	},
}

var positionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the stored positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		positions, err := s.pipeline.Positions(s.ctx)
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			fmt.Println("No positions stored. Run 'wordbias positions import <csv>' first.")
			return nil
		}

		fmt.Printf("%-12s %-16s %10s %10s\n", "PARTY", "NAME", "COORD1D", "COORD2D")
		for _, p := range positions {
			fmt.Printf("%-12s %-16s %10.4f %10.4f\n", p.Party, p.Name, p.Coord1D, p.Coord2D)
		}
		fmt.Printf("\n%d members\n", len(positions))
		return nil
	},
}

func init() {
	positionsCmd.AddCommand(positionsImportCmd, positionsListCmd)
	rootCmd.AddCommand(positionsCmd)
}

package bias

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ppiankov/wordbias/internal/model"
)

// utf8BOM marks the output as UTF-8 for spreadsheet tools
const utf8BOM = "\ufeff"

// WriteCSV writes scores as "word,bias_score" rows in their given order.
// The file is written next to path and renamed into place only after every
// row is flushed, so a failed run never leaves a partial artifact.
func WriteCSV(path string, scores []model.BiasScore) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wordbias-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	w := csv.NewWriter(tmp)
	if err = w.Write([]string{"word", "bias_score"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range scores {
		if err = w.Write([]string{s.Word, strconv.FormatFloat(s.Score, 'g', -1, 64)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

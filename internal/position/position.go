// Package position reads political-position reference data from CSV.
package position

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/model"
)

// ErrNoPositions is returned when a file yields no usable rows
var ErrNoPositions = errors.New("no political positions loaded")

// Column names of the ideal-point export
const (
	colParty   = "party"
	colName    = "name"
	colCoord1D = "coord1D"
	colCoord2D = "coord2D"
)

// Load reads positions from a CSV file
func Load(path string, logger *zap.Logger) ([]model.PoliticalPosition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open positions: %w", err)
	}
	defer func() { _ = f.Close() }()

	positions, err := Read(f, logger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return positions, nil
}

// Read parses positions from CSV. Columns are located by header name, so
// extra columns (rank, standard errors, ...) are ignored. Rows whose coord1D
// is not a finite number are skipped.
func Read(r io.Reader, logger *zap.Logger) ([]model.PoliticalPosition, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoPositions
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		idx[h] = i
	}
	for _, required := range []string{colName, colCoord1D} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var out []model.PoliticalPosition
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		name := strings.TrimSpace(field(rec, idx, colName))
		if name == "" {
			logger.Warn("skipping position row without name", zap.Int("line", line))
			continue
		}
		coord1, err := strconv.ParseFloat(strings.TrimSpace(field(rec, idx, colCoord1D)), 64)
		if err == nil && (math.IsNaN(coord1) || math.IsInf(coord1, 0)) {
			err = errors.New("not a finite number")
		}
		if err != nil {
			logger.Warn("skipping position row with invalid coord1D",
				zap.Int("line", line), zap.String("name", name), zap.Error(err))
			continue
		}
		// coord2D is informational only
		coord2, _ := strconv.ParseFloat(strings.TrimSpace(field(rec, idx, colCoord2D)), 64)

		out = append(out, model.PoliticalPosition{
			Party:   strings.TrimSpace(field(rec, idx, colParty)),
			Name:    name,
			Coord1D: coord1,
			Coord2D: coord2,
		})
	}

	if len(out) == 0 {
		return nil, ErrNoPositions
	}
	return out, nil
}

func field(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

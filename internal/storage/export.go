package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"sort"
	"strconv"
)

// ExportCSVStdout writes named series to stdout as CSV, columns in sorted
// name order after the time axis.
func ExportCSVStdout(cols map[string][]float64, times []float64) error {
	names := sortedNames(cols)

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i := range times {
		row := make([]string, 0, len(names)+1)
		row = append(row, strconv.FormatFloat(times[i], 'f', 6, 64))
		for _, name := range names {
			v := 0.0
			if i < len(cols[name]) {
				v = cols[name][i]
			}
			row = append(row, strconv.FormatFloat(v, 'g', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

type jsonExport struct {
	Meta   *RunMetadata         `json:"meta"`
	Times  []float64            `json:"times"`
	Series map[string][]float64 `json:"series"`
}

// ExportJSONStdout writes a run's metadata and series to stdout as
// indented JSON.
func ExportJSONStdout(meta *RunMetadata, cols map[string][]float64, times []float64) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonExport{Meta: meta, Times: times, Series: cols})
}

func sortedNames(cols map[string][]float64) []string {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

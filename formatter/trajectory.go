package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/jpsvis"
)

// DefaultPrefix is prepended to the input stem to name the trajectory file.
const DefaultPrefix = "jps_"

// TrajectoryExt is the extension of every trajectory file.
const TrajectoryExt = ".txt"

const rowFormat = "%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n"

// OutputFileName derives the trajectory file name from the input path:
// /data/run01.txt becomes jps_run01.txt. An empty prefix means DefaultPrefix.
func OutputFileName(inputPath, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return prefix + stem + TrajectoryExt
}

// WriteTrajectory writes header lines as "# " comments followed by one line
// per row.
func WriteTrajectory(w io.Writer, header []string, rows []jpsvis.Row) error {
	bw := bufio.NewWriter(w)
	for _, line := range header {
		if _, err := fmt.Fprintf(bw, "# %s\n", line); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, rowFormat, r.ID, r.Frame, r.X, r.Y, r.Z, r.A, r.B, r.Angle, r.Color); err != nil {
			return fmt.Errorf("write row %d/%d: %w", r.ID, r.Frame, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush trajectory: %w", err)
	}
	return nil
}

// Package output formats per-frame and per-sequence metric lines, matching
// the <pfr_metric=...>/<avg_metric=...> tags main() prints in
// metrics_calc_lite.cpp.
package output

import (
	"fmt"
	"io"
	"strings"
)

// WriteFrame emits one "<pfr_metric=NAME> v</pfr_metric>" line, holding
// the current frame's value, for every name whose output flag is set. The
// driver calls it once per frame, so a metric's per-frame values appear on
// separate lines; they are not gathered into a single line per metric.
// "APSNR" and "<plane>-APSNR" are skipped: APSNR is a running average by
// construction and has no meaningful per-frame value.
func WriteFrame(w io.Writer, names []string, outputFlags []bool, vals []float64) error {
	for i, name := range names {
		if !outputFlags[i] || name == "APSNR" || strings.HasSuffix(name, "-APSNR") {
			continue
		}
		if _, err := fmt.Fprintf(w, "<pfr_metric=%s> %s</pfr_metric>\n", name, formatValue(vals[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteSequence emits "<avg_metric=NAME> v</avg_metric>" for every name
// with its output flag set, once per sequence.
func WriteSequence(w io.Writer, names []string, outputFlags []bool, avg []float64) error {
	for i, name := range names {
		if !outputFlags[i] {
			continue
		}
		if _, err := fmt.Fprintf(w, "<avg_metric=%s> %s</avg_metric>\n", name, formatValue(avg[i])); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders one number fixed-point, width 8, precision 5,
// matching main()'s printf format string in metrics_calc_lite.cpp.
func formatValue(v float64) string {
	return fmt.Sprintf("%8.5f", v)
}

// FinalizeAverages divides every accumulator by count to get the mean,
// then converts any name containing "PSNR" but not "APSNR" from its
// averaged-MSE accumulator to PSNR via maxErr, mirroring main()'s final
// MSE-to-PSNR conversion pass over the average array in
// metrics_calc_lite.cpp. mseToPSNR is the driver's conversion function,
// passed in rather than imported to avoid a package cycle between output
// and metrics.
func FinalizeAverages(names []string, avg []float64, count int, mseToPSNR func(mse float64) float64) {
	if count <= 0 {
		return
	}
	for i := range avg {
		avg[i] /= float64(count)
	}
	for i, name := range names {
		if strings.Contains(name, "PSNR") && !strings.Contains(name, "APSNR") {
			avg[i] = mseToPSNR(avg[i])
		}
	}
}

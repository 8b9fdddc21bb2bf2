package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteFrameSuppressesAPSNR(t *testing.T) {
	var buf bytes.Buffer
	names := []string{"Y-SSIM", "Y-PSNR", "APSNR", "Y-APSNR"}
	flags := []bool{true, true, true, true}
	vals := []float64{1.0, 1000, 42, 42}
	if err := WriteFrame(&buf, names, flags, vals); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "APSNR") {
		t.Errorf("output should never mention APSNR per-frame: %q", out)
	}
	if !strings.Contains(out, "<pfr_metric=Y-SSIM>") || !strings.Contains(out, "<pfr_metric=Y-PSNR>") {
		t.Errorf("missing expected per-frame lines: %q", out)
	}
}

func TestWriteFrameSkipsUnflagged(t *testing.T) {
	var buf bytes.Buffer
	names := []string{"Y-MSE"}
	flags := []bool{false}
	vals := []float64{1}
	if err := WriteFrame(&buf, names, flags, vals); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for unflagged name, got %q", buf.String())
	}
}

func TestWriteSequenceIncludesAPSNR(t *testing.T) {
	var buf bytes.Buffer
	names := []string{"APSNR"}
	flags := []bool{true}
	avg := []float64{42.5}
	if err := WriteSequence(&buf, names, flags, avg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<avg_metric=APSNR>") {
		t.Errorf("expected APSNR in sequence average output, got %q", buf.String())
	}
}

func TestFinalizeAveragesDividesAndConvertsPSNR(t *testing.T) {
	names := []string{"Y-MSE", "Y-PSNR", "APSNR"}
	avg := []float64{0, 2.0, 40.0}
	FinalizeAverages(names, avg, 2, func(mse float64) float64 {
		if mse == 1.0 {
			return 48.1308
		}
		return -99
	})
	if avg[0] != 0 {
		t.Errorf("Y-MSE avg = %v, want 0", avg[0])
	}
	if avg[1] != 48.1308 {
		t.Errorf("Y-PSNR avg = %v, want 48.1308 (converted from averaged MSE 1.0)", avg[1])
	}
	if avg[2] != 20.0 {
		t.Errorf("APSNR avg = %v, want 20.0 (plain division, no MSE conversion)", avg[2])
	}
}

func TestFinalizeAveragesZeroCountIsNoop(t *testing.T) {
	avg := []float64{5, 10}
	FinalizeAverages([]string{"Y-MSE", "Y-PSNR"}, avg, 0, func(float64) float64 { return -1 })
	if avg[0] != 5 || avg[1] != 10 {
		t.Errorf("avg = %v, want unchanged [5 10]", avg)
	}
}

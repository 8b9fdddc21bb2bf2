package main

import (
	"fmt"
	"strings"

	"github.com/vqmetrics/mclgo/video"
)

// metricTokens maps a CLI metric token to the bits it sets. psnr/apsnr
// also pull in MASK_MSE, per parse_metrics in metrics_calc_lite.cpp
// ("cm |= MASK_PSNR; cm |= MASK_MSE").
var metricTokens = map[string]video.MetricBit{
	"psnr":      video.BitPSNR | video.BitMSE,
	"apsnr":     video.BitAPSNR | video.BitMSE,
	"ssim":      video.BitSSIM,
	"mssim":     video.BitMSSIM,
	"artifacts": video.BitArtifacts,
	"mwdvqm":    video.BitMWDVQM,
	"uqi":       video.BitUQI,
}

// yuvPlaneTokens and rgbPlaneTokens map a plane letter token to its cmps[] slot, following
// either the YUV (y/u/v) or RGB (b/g/r) alphabet depending on which one
// parseMetricPlaneTokens is called with.
var yuvPlaneTokens = map[string]int{"y": 0, "u": 1, "v": 2}
var rgbPlaneTokens = map[string]int{"b": 0, "g": 1, "r": 2}

// parseMetricPlaneTokens implements parse_metrics' two-phase grammar:
// alternating runs of metric tokens (OR'd into a pending mask) and plane
// tokens (OR the pending mask into the named plane's slot, "overall", or
// every slot via "all"), erroring if either run in a pair is empty. rgb
// selects the b/g/r alphabet over y/u/v; numPlanes bounds which indices
// "all" touches (3 normally, or 4 when alpha is requested).
func parseMetricPlaneTokens(tokens []string, rgb bool, numPlanes int) (video.Selection, error) {
	var sel video.Selection
	sel.NumPlanes = numPlanes
	planeAlphabet := yuvPlaneTokens
	if rgb {
		planeAlphabet = rgbPlaneTokens
	}

	i := 0
	for i < len(tokens) {
		var mask video.MetricBit
		metricSeen := false
		for i < len(tokens) {
			bit, ok := metricTokens[strings.ToLower(tokens[i])]
			if !ok {
				break
			}
			mask |= bit
			metricSeen = true
			i++
		}
		if !metricSeen {
			return video.Selection{}, fmt.Errorf("expected a metric token at %q", tokens[i])
		}

		planeSeen := false
		for i < len(tokens) {
			tok := strings.ToLower(tokens[i])
			switch {
			case tok == "overall":
				sel.PlaneMask[video.OverallSlot] |= mask
				planeSeen = true
				i++
			case tok == "all":
				for p := 0; p < numPlanes; p++ {
					sel.PlaneMask[p] |= mask
				}
				sel.PlaneMask[video.OverallSlot] |= mask
				planeSeen = true
				i++
			default:
				idx, ok := planeAlphabet[tok]
				if !ok || idx >= numPlanes {
					goto planesDone
				}
				sel.PlaneMask[idx] |= mask
				planeSeen = true
				i++
			}
		}
	planesDone:
		if !planeSeen {
			return video.Selection{}, fmt.Errorf("expected a plane token after metric run, got %q", tokenAt(tokens, i))
		}
	}
	return sel, nil
}

func tokenAt(tokens []string, i int) string {
	if i >= len(tokens) {
		return "<end of arguments>"
	}
	return tokens[i]
}

// anyBitSet reports whether sel requests at least one metric anywhere,
// per parse_metrics' "all_metrics_mask" check in main() (exit code -2 if
// empty).
func anyBitSet(sel video.Selection) bool {
	for _, m := range sel.PlaneMask {
		if m != 0 {
			return true
		}
	}
	return false
}

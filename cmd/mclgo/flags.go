// Command mclgo is the CLI entrypoint for the video quality metric engine:
// it parses the same flag/token surface metrics_calc_lite.cpp's main()
// does, wires the two raw frame sources and the requested evaluators, and
// drives the comparison.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/vqmetrics/mclgo/driver"
	"github.com/vqmetrics/mclgo/pixfmt"
)

const flagGroupAnnotation = "group"

const (
	groupInput    = "Input"
	groupGeometry = "Geometry"
	groupSchedule = "Schedule"
	groupOutput   = "Output"
)

// cliSettings mirrors main()'s flat local-variable surface in
// metrics_calc_lite.cpp, grouped into one struct instead of individual
// atoi()'d locals.
type cliSettings struct {
	input1, input2 string
	width, height  int

	seqTypes  []string // raw -st tokens, resolved against tag2-omitted fallback in main.go
	bitDepth  int
	rshift1   uint
	rshift2   uint
	btmFirst  bool
	btmFirst1 bool
	btmFirst2 bool
	alpha     bool

	fs, fs1, fs2  []int // [count, first, step], len 0 or 3
	numSeekFrame1 []int // [from, to, num], len 0 or 3
	numSeekFrame2 []int
	nopfm         bool
	distMapPath   string
	help          bool
}

// addFlagToHelpGroup tags a previously-registered flag with the help
// group usage() prints it under, mirroring gometrics/examples/cli.go's
// addFlagToHelpGroup helper exactly.
func addFlagToHelpGroup(fs *pflag.FlagSet, flagName, group string) {
	f := fs.Lookup(flagName)
	if f == nil {
		panic("unknown flag: " + flagName)
	}
	if f.Annotations == nil {
		f.Annotations = map[string][]string{}
	}
	f.Annotations[flagGroupAnnotation] = []string{group}
}

// registerFlags builds the pflag.FlagSet for the engine's flag surface.
// Triples (-fs, -fs1, -fs2, -numseekframe1, -numseekframe2) are NOT
// registered as pflag values since pflag has no 3-arg flag kind; they are
// consumed directly out of os.Args by parseTriples before pflag.Parse
// runs, mirroring how the reference main() advances cur_param by 4 for
// each.
func registerFlags(fs *pflag.FlagSet) *cliSettings {
	s := &cliSettings{bitDepth: 8}

	fs.StringVar(&s.input1, "i1", "", "name of first file to compare")
	addFlagToHelpGroup(fs, "i1", groupInput)
	fs.StringVar(&s.input2, "i2", "", "name of second file to compare")
	addFlagToHelpGroup(fs, "i2", groupInput)

	fs.IntVar(&s.width, "w", 0, "width of sequences in pixels")
	addFlagToHelpGroup(fs, "w", groupGeometry)
	fs.IntVar(&s.height, "h", 0, "height of sequences in pixels")
	addFlagToHelpGroup(fs, "h", groupGeometry)
	fs.IntVar(&s.bitDepth, "bd", 8, "bit depth of sequence pixels (8, 10, 12, 16)")
	addFlagToHelpGroup(fs, "bd", groupGeometry)
	fs.UintVar(&s.rshift1, "rshift1", 0, "shift pixel values right this many bits in the first file")
	addFlagToHelpGroup(fs, "rshift1", groupGeometry)
	fs.UintVar(&s.rshift2, "rshift2", 0, "shift pixel values right this many bits in the second file")
	addFlagToHelpGroup(fs, "rshift2", groupGeometry)
	fs.BoolVar(&s.btmFirst, "btm_first", false, "bottom field first for both interlaced sources")
	addFlagToHelpGroup(fs, "btm_first", groupGeometry)
	fs.BoolVar(&s.btmFirst1, "btm_first1", false, "bottom field first for the first source")
	addFlagToHelpGroup(fs, "btm_first1", groupGeometry)
	fs.BoolVar(&s.btmFirst2, "btm_first2", false, "bottom field first for the second source")
	addFlagToHelpGroup(fs, "btm_first2", groupGeometry)
	fs.BoolVar(&s.alpha, "alpha", false, "include the RGB/AYUV/Y416 alpha plane in the selection")
	addFlagToHelpGroup(fs, "alpha", groupGeometry)

	fs.BoolVar(&s.nopfm, "nopfm", false, "suppress per-frame metric output")
	addFlagToHelpGroup(fs, "nopfm", groupOutput)
	fs.StringVar(&s.distMapPath, "distmap", "", "optional heat-mapped distortion video output path")
	addFlagToHelpGroup(fs, "distmap", groupOutput)

	fs.BoolVarP(&s.help, "help", "?", false, "show this help message")

	return s
}

// parseTriples scans args for the five 3-int-argument flags (-fs, -fs1,
// -fs2, -numseekframe1, -numseekframe2) and the -st flag's 1-or-2-token
// form, removing the consumed tokens from the slice pflag will parse
// next. This mirrors main()'s direct argv[cur_param+N] indexing for
// exactly the flags the original hand-rolls rather than fitting into
// getopt-style single-value parsing.
func parseTriples(args []string, s *cliSettings) ([]string, error) {
	var out []string
	i := 0
	for i < len(args) {
		a := args[i]
		switch a {
		case "-fs", "-fs1", "-fs2", "-numseekframe1", "-numseekframe2":
			if i+3 >= len(args) {
				return nil, fmt.Errorf("%s requires 3 integer arguments", a)
			}
			vals := make([]int, 3)
			for k := 0; k < 3; k++ {
				v, err := strconv.Atoi(args[i+1+k])
				if err != nil {
					return nil, fmt.Errorf("%s: %w", a, err)
				}
				vals[k] = v
			}
			switch a {
			case "-fs":
				s.fs = vals
			case "-fs1":
				s.fs1 = vals
			case "-fs2":
				s.fs2 = vals
			case "-numseekframe1":
				s.numSeekFrame1 = vals
			case "-numseekframe2":
				s.numSeekFrame2 = vals
			}
			i += 4
		case "-st":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-st requires at least 1 argument")
			}
			s.seqTypes = append(s.seqTypes, args[i+1])
			i += 2
			// Only consume a second token if it actually names a pixel
			// format; otherwise it's the start of the metric/plane token
			// run and tag2 falls back to tag1, per parse_fourcc's
			// UNKNOWN-backs-off-without-advancing behavior.
			if i < len(args) {
				if _, err := pixfmt.ParseTag(args[i]); err == nil {
					s.seqTypes = append(s.seqTypes, args[i])
					i++
				}
			}
		default:
			out = append(out, a)
			i++
		}
	}
	return out, nil
}

// buildSchedules resolves the parsed -fs/-fs1/-fs2/-numseekframe* triples
// into driver.SourceSchedule for each source, enforcing the same mutual
// exclusion between the strided and seek forms that main() enforces before
// exiting with its schedule-conflict error code in metrics_calc_lite.cpp.
func buildSchedules(s *cliSettings) (driver.SourceSchedule, driver.SourceSchedule, error) {
	fsSet := len(s.fs) == 3
	fs1Set := len(s.fs1) == 3
	fs2Set := len(s.fs2) == 3
	seek1Set := len(s.numSeekFrame1) == 3
	seek2Set := len(s.numSeekFrame2) == 3

	if (fsSet || fs1Set || fs2Set) && (seek1Set || seek2Set) {
		return driver.SourceSchedule{}, driver.SourceSchedule{}, errScheduleConflict
	}

	strided := func(t []int) driver.SourceSchedule {
		return driver.SourceSchedule{
			Mode:    driver.ModeStrided,
			Strided: driver.StridedSpec{Count: t[0], First: t[1], Step: t[2]},
		}
	}
	seek := func(t []int) driver.SourceSchedule {
		return driver.SourceSchedule{
			Mode: driver.ModeSeek,
			Seek: driver.SeekSpec{From: t[0], To: t[1], Iterations: t[2]},
		}
	}
	defaultStrided := driver.SourceSchedule{
		Mode:    driver.ModeStrided,
		Strided: driver.StridedSpec{Count: 1 << 30, First: 0, Step: 1},
	}

	sched1, sched2 := defaultStrided, defaultStrided
	switch {
	case fsSet:
		sched1, sched2 = strided(s.fs), strided(s.fs)
	case fs1Set || fs2Set:
		if fs1Set {
			sched1 = strided(s.fs1)
		}
		if fs2Set {
			sched2 = strided(s.fs2)
		}
	case seek1Set || seek2Set:
		if seek1Set {
			sched1 = seek(s.numSeekFrame1)
		}
		if seek2Set {
			sched2 = seek(s.numSeekFrame2)
		}
	}
	return sched1, sched2, nil
}

var errScheduleConflict = fmt.Errorf("-fs/-fs1/-fs2 and -numseekframe1/-numseekframe2 are mutually exclusive")

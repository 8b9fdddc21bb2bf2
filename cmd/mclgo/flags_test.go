package main

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestParseTriplesFS(t *testing.T) {
	s := registerFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))
	remaining, err := parseTriples([]string{"-i1", "a.yuv", "-fs", "20", "0", "1", "psnr", "y"}, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.fs) != 3 || s.fs[0] != 20 || s.fs[1] != 0 || s.fs[2] != 1 {
		t.Errorf("fs = %v, want [20 0 1]", s.fs)
	}
	want := []string{"-i1", "a.yuv", "psnr", "y"}
	if len(remaining) != len(want) {
		t.Fatalf("remaining = %v, want %v", remaining, want)
	}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("remaining[%d] = %q, want %q", i, remaining[i], want[i])
		}
	}
}

func TestParseTriplesStSingleTokenDoesNotSwallowMetric(t *testing.T) {
	// Regression: a metric token immediately following a single-argument
	// -st must NOT be consumed as a bogus tag2 candidate.
	s := registerFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))
	remaining, err := parseTriples([]string{"-st", "i420p", "psnr", "y"}, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.seqTypes) != 1 || s.seqTypes[0] != "i420p" {
		t.Errorf("seqTypes = %v, want [i420p]", s.seqTypes)
	}
	want := []string{"psnr", "y"}
	if len(remaining) != len(want) {
		t.Fatalf("remaining = %v, want %v (psnr/y must survive -st parsing)", remaining, want)
	}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("remaining[%d] = %q, want %q", i, remaining[i], want[i])
		}
	}
}

func TestParseTriplesStTwoValidTags(t *testing.T) {
	s := registerFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))
	_, err := parseTriples([]string{"-st", "i420p", "yv12p", "psnr", "y"}, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.seqTypes) != 2 || s.seqTypes[0] != "i420p" || s.seqTypes[1] != "yv12p" {
		t.Errorf("seqTypes = %v, want [i420p yv12p]", s.seqTypes)
	}
}

func TestBuildSchedulesConflict(t *testing.T) {
	s := registerFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))
	s.fs = []int{10, 0, 1}
	s.numSeekFrame1 = []int{5, 2, 0}
	if _, _, err := buildSchedules(s); err == nil {
		t.Error("expected mutual-exclusion error between -fs and -numseekframe1")
	}
}

func TestBuildSchedulesDefault(t *testing.T) {
	s := registerFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))
	sched1, sched2, err := buildSchedules(s)
	if err != nil {
		t.Fatal(err)
	}
	if sched1.Mode != sched2.Mode {
		t.Error("default schedules should agree on mode")
	}
}

func TestBuildSchedulesFS(t *testing.T) {
	s := registerFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))
	s.fs = []int{20, 0, 1}
	sched1, sched2, err := buildSchedules(s)
	if err != nil {
		t.Fatal(err)
	}
	if sched1.Strided.Count != 20 || sched2.Strided.Count != 20 {
		t.Errorf("both schedules should mirror -fs, got %+v %+v", sched1, sched2)
	}
}

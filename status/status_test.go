package status

import "testing"

func TestExitCodeTable(t *testing.T) {
	cases := map[Reason]int{
		ReasonNone:              0,
		ReasonTokenParse:        -1,
		ReasonEmptyMask:         -2,
		ReasonOpenSource1:       -3,
		ReasonOpenSource2:       -4,
		ReasonEmptyFile:         -6,
		ReasonChromaMismatch:    -9,
		ReasonFamilyMismatch:    -10,
		ReasonInterlaceMismatch: -11,
		ReasonAllocFailure:      -13,
		ReasonScheduleConflict:  -14,
	}
	for reason, want := range cases {
		err := Fail(reason, "boom")
		if got := ExitCode(err); got != want {
			t.Errorf("ExitCode(Fail(%v)) = %d, want %d", reason, got, want)
		}
	}
}

func TestExitCodeUnclassified(t *testing.T) {
	if got := ExitCode(New(CodeInternal, "unexpected")); got != -1 {
		t.Errorf("ExitCode(unclassified) = %d, want -1", got)
	}
}

func TestExitCodeNil(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != CodeNone {
		t.Error("CodeOf(nil) should be CodeNone")
	}
	if CodeOf(New(CodeInput, "bad")) != CodeInput {
		t.Error("CodeOf should extract the wrapped Code")
	}
	if CodeOf(errPlain{}) != CodeInternal {
		t.Error("CodeOf should fall back to CodeInternal for foreign errors")
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain" }

package dinit

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDefinitionErrorFormat(t *testing.T) {
	err := &DefinitionError{
		File:   "dinit.d/web",
		Reason: ReasonSyntax,
		Line:   4,
		Err:    fmt.Errorf("malformed line"),
	}
	msg := err.Error()
	for _, want := range []string{"dinit.d/web", ":4", "syntax", "malformed line"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	// Without a file the service name locates the problem.
	err = &DefinitionError{Service: "web", Reason: ReasonMissingField, Err: fmt.Errorf("no command")}
	if !strings.Contains(err.Error(), "web") {
		t.Errorf("Error() = %q, missing service name", err.Error())
	}
}

func TestDefinitionErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("cause")
	err := &DefinitionError{Reason: ReasonIO, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the cause")
	}
}

func TestCyclicDependencyErrorNamesCycle(t *testing.T) {
	err := &CyclicDependencyError{Cycle: []string{"a", "b", "a"}}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestLaunchErrorFormat(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := &LaunchError{Service: "web", Stage: StageExit, ExitCode: 3, Err: cause}
	msg := err.Error()
	if !strings.Contains(msg, "web") || !strings.Contains(msg, "exit code 3") {
		t.Errorf("Error() = %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the cause")
	}

	err = &LaunchError{Service: "web", Stage: StageSpawn, ExitCode: -1, Err: cause}
	if strings.Contains(err.Error(), "exit code") {
		t.Errorf("spawn error mentions an exit code: %q", err.Error())
	}
}

func TestMultiError(t *testing.T) {
	merr := &MultiError{}
	if merr.Err() != nil {
		t.Error("empty MultiError is not nil")
	}

	merr.Add(nil)
	if merr.Err() != nil {
		t.Error("Add(nil) recorded an error")
	}

	first := fmt.Errorf("first")
	merr.Add(first)
	if merr.Err() == nil {
		t.Fatal("Err() = nil after Add")
	}
	if merr.Error() != "first" {
		t.Errorf("single error Error() = %q, want %q", merr.Error(), "first")
	}

	merr.Add(fmt.Errorf("second"))
	msg := merr.Error()
	if !strings.Contains(msg, "2 errors") || !strings.Contains(msg, "second") {
		t.Errorf("Error() = %q", msg)
	}
	if !errors.Is(merr, first) {
		t.Error("errors.Is does not reach an accumulated error")
	}
}

func TestStageAndReasonStrings(t *testing.T) {
	if StageSpawn.String() != "spawn" || StageReady.String() != "ready" || StageExit.String() != "exit" {
		t.Error("LaunchStage strings wrong")
	}
	if ReasonDuplicate.String() != "duplicate" || ReasonIO.String() != "io" {
		t.Error("DefinitionReason strings wrong")
	}
}

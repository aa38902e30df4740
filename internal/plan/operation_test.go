package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/re-cinq/gitline/internal/hostui"
)

type fakeUI struct {
	confirmAnswer bool
	logs          []string
}

func (f *fakeUI) Log(style hostui.Style, message string) { f.logs = append(f.logs, message) }
func (f *fakeUI) Confirm(question string) (bool, error)  { return f.confirmAnswer, nil }
func (f *fakeUI) PresentConflict(ctx context.Context, c hostui.ConflictPresentation) (hostui.Resolution, error) {
	return hostui.Resolution{}, errors.New("not implemented")
}
func (f *fakeUI) PresentConflicts(ctx context.Context, c []hostui.ConflictPresentation) (hostui.Resolution, error) {
	return hostui.Resolution{}, errors.New("not implemented")
}
func (f *fakeUI) RunInBackground(fn func() error) <-chan error {
	ch := make(chan error, 1)
	ch <- fn()
	return ch
}
func (f *fakeUI) Interactive() bool { return false }

func TestPlan_ExecuteStopsOnFailure(t *testing.T) {
	ui := &fakeUI{}
	p := New(ui, false, false)

	ran := []string{}
	p.Add(NewOperation("step one", false, func() (string, error) {
		ran = append(ran, "one")
		return "", nil
	}))
	p.Add(NewOperation("step two fails", true, func() (string, error) {
		ran = append(ran, "two")
		return "", errors.New("boom")
	}))
	p.Add(NewOperation("step three", false, func() (string, error) {
		ran = append(ran, "three")
		return "", nil
	}))

	err := p.Execute()
	if err == nil {
		t.Fatal("expected error from failing step")
	}
	if len(ran) != 2 {
		t.Fatalf("expected execution to stop after step two, ran=%v", ran)
	}
}

func TestPlan_DryRunNeverExecutes(t *testing.T) {
	ui := &fakeUI{}
	p := New(ui, true, true)

	executed := false
	p.Add(NewOperation("would run", true, func() (string, error) {
		executed = true
		return "", nil
	}))

	if err := p.Execute(); err != nil {
		t.Fatalf("dry run should never fail: %v", err)
	}
	if executed {
		t.Fatal("dry run executed a step")
	}
}

func TestPlan_ConfirmDeclined(t *testing.T) {
	ui := &fakeUI{confirmAnswer: false}
	p := New(ui, true, false)
	p.Add(NewOperation("destructive", true, func() (string, error) { return "", nil }))

	err := p.ExecuteWithConfirmation()
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

type fakeRecorder struct {
	recorded []*Operation
}

func (r *fakeRecorder) RecordOperation(op *Operation) { r.recorded = append(r.recorded, op) }

func TestPlan_RecordsEveryExecutedOperation(t *testing.T) {
	ui := &fakeUI{}
	p := New(ui, false, false)
	rec := &fakeRecorder{}
	p.SetRecorder(rec)

	p.Add(NewOperation("step one", false, func() (string, error) { return "", nil }))
	p.Add(NewOperation("step two fails", true, func() (string, error) { return "", errors.New("boom") }))

	if err := p.Execute(); err == nil {
		t.Fatal("expected error from failing step")
	}
	if len(rec.recorded) != 2 {
		t.Fatalf("expected 2 recorded operations, got %d", len(rec.recorded))
	}
	if !rec.recorded[0].Success {
		t.Error("expected first operation recorded as success")
	}
	if rec.recorded[1].Success {
		t.Error("expected second operation recorded as failure")
	}
}

func TestQuickPlan_SkipsPreviewAndConfirm(t *testing.T) {
	ui := &fakeUI{confirmAnswer: false} // would decline if asked
	p := Quick(ui)
	executed := false
	p.Add(NewOperation("op", false, func() (string, error) {
		executed = true
		return "", nil
	}))

	if err := p.ExecuteWithConfirmation(); err != nil {
		t.Fatalf("quick plan should not ask for confirmation: %v", err)
	}
	if !executed {
		t.Fatal("expected quick plan to execute")
	}
}

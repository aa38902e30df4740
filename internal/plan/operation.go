// Package plan implements OperationPlan: an ordered list of atomic git
// steps with a preview/confirm/dry-run/execute lifecycle, so a flow never
// runs a destructive command without the host agreeing to see it first.
package plan

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/re-cinq/gitline/internal/hostui"
)

// Step is the work a single Operation performs: a callback returning the
// step's output, whether it runs git or something else (e.g. a forge API
// call).
type Step func() (output string, err error)

// Operation is one atomic, describable unit in an OperationPlan.
type Operation struct {
	ID          string
	Description string
	Commands    [][]string // argv form, for preview and audit only; Run does the work
	Destructive bool
	Run         Step

	Executed bool
	Success  bool
	Output   string
	Err      error
}

// NewOperation builds an Operation that executes run; commands are the argv
// lines shown for it in previews and are not executed themselves.
func NewOperation(description string, destructive bool, run Step, commands ...[]string) *Operation {
	return &Operation{
		ID:          uuid.NewString(),
		Description: description,
		Commands:    commands,
		Destructive: destructive,
		Run:         run,
	}
}

// CommandPreview renders the operation's commands the way a shell would.
func (op *Operation) CommandPreview() string {
	if op.Run == nil || len(op.Commands) == 0 {
		return ""
	}
	preview := ""
	for i, cmd := range op.Commands {
		if i > 0 {
			preview += " && "
		}
		for j, arg := range cmd {
			if j > 0 {
				preview += " "
			}
			preview += arg
		}
	}
	return preview
}

func (op *Operation) execute() bool {
	out, err := op.Run()
	op.Executed = true
	op.Output = out
	op.Err = err
	op.Success = err == nil
	return op.Success
}

// Recorder observes executed operations, so a caller can keep an audit
// trail without the Plan knowing anything about how it's stored.
type Recorder interface {
	RecordOperation(op *Operation)
}

// Plan is a sequence of Operations executed in order, stopping at the first
// failure (partial failure stops immediately and reports the boundary).
type Plan struct {
	ui          hostui.HostUI
	showPreview bool
	dryRun      bool
	operations  []*Operation
	recorder    Recorder
}

// New creates a Plan. showPreview controls whether Confirm renders the plan
// and asks before executing; dryRun, when true, makes Execute simulate
// every step instead of running it.
func New(ui hostui.HostUI, showPreview, dryRun bool) *Plan {
	return &Plan{ui: ui, showPreview: showPreview, dryRun: dryRun}
}

// SetRecorder attaches a Recorder that is notified after every real
// (non-dry-run) operation execution, success or failure.
func (p *Plan) SetRecorder(r Recorder) { p.recorder = r }

// Add appends op to the plan and returns it.
func (p *Plan) Add(op *Operation) *Operation {
	p.operations = append(p.operations, op)
	return op
}

// Operations returns the plan's steps in execution order.
func (p *Plan) Operations() []*Operation { return p.operations }

// HasDestructive reports whether any queued operation is destructive.
func (p *Plan) HasDestructive() bool {
	for _, op := range p.operations {
		if op.Destructive {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the plan has no queued operations.
func (p *Plan) IsEmpty() bool { return len(p.operations) == 0 }

// Preview logs every queued operation with its command line and a
// destructive/safe summary.
func (p *Plan) Preview() {
	if len(p.operations) == 0 {
		p.ui.Log(hostui.StyleWarn, "no operations planned")
		return
	}

	p.ui.Log(hostui.StyleInfo, "OPERATION PLAN")
	destructiveCount := 0
	for i, op := range p.operations {
		style := hostui.StyleInfo
		marker := "->"
		if op.Destructive {
			style = hostui.StyleWarn
			marker = "!!"
			destructiveCount++
		}
		p.ui.Log(style, fmt.Sprintf("%s %d. %s", marker, i+1, op.Description))
		if preview := op.CommandPreview(); preview != "" {
			p.ui.Log(hostui.StyleDim, "   $ "+preview)
		}
	}

	if destructiveCount > 0 {
		p.ui.Log(hostui.StyleWarn, fmt.Sprintf("%d destructive operation(s) out of %d total", destructiveCount, len(p.operations)))
	} else {
		p.ui.Log(hostui.StyleSuccess, fmt.Sprintf("%d safe operation(s)", len(p.operations)))
	}
}

// Confirm shows the preview (if enabled) and asks the host to proceed.
// A plan with showPreview disabled (quick/expert mode) always proceeds.
func (p *Plan) Confirm() (bool, error) {
	if !p.showPreview || len(p.operations) == 0 {
		return true, nil
	}
	p.Preview()

	question := "Proceed with these operations?"
	if p.HasDestructive() {
		question = "Proceed with these operations? (includes destructive actions)"
	}
	return p.ui.Confirm(question)
}

// Execute runs every operation in order, stopping at the first failure.
// In dry-run mode nothing is actually run; every step is reported as if it
// would execute and Execute always returns nil.
func (p *Plan) Execute() error {
	if len(p.operations) == 0 {
		return nil
	}

	if p.dryRun {
		p.ui.Log(hostui.StyleWarn, "DRY-RUN MODE - simulating operations")
		for i, op := range p.operations {
			p.ui.Log(hostui.StyleInfo, fmt.Sprintf("[%d/%d] would execute: %s", i+1, len(p.operations), op.Description))
			if preview := op.CommandPreview(); preview != "" {
				p.ui.Log(hostui.StyleDim, "   $ "+preview)
			}
		}
		p.ui.Log(hostui.StyleSuccess, "dry-run completed (no operations were executed)")
		return nil
	}

	p.ui.Log(hostui.StyleInfo, fmt.Sprintf("executing %d operation(s)...", len(p.operations)))
	for i, op := range p.operations {
		p.ui.Log(hostui.StyleInfo, fmt.Sprintf("[%d/%d] %s", i+1, len(p.operations), op.Description))
		success := op.execute()
		if p.recorder != nil {
			p.recorder.RecordOperation(op)
		}
		if !success {
			p.ui.Log(hostui.StyleError, fmt.Sprintf("operation failed, stopping: %v", op.Err))
			return fmt.Errorf("operation %q failed: %w", op.Description, op.Err)
		}
		p.ui.Log(hostui.StyleSuccess, "completed")
	}
	return nil
}

// ExecuteWithConfirmation runs Confirm then Execute, short-circuiting with a
// cancellation error if the host declines.
func (p *Plan) ExecuteWithConfirmation() error {
	ok, err := p.Confirm()
	if err != nil {
		return fmt.Errorf("confirm plan: %w", err)
	}
	if !ok {
		p.ui.Log(hostui.StyleWarn, "operation cancelled")
		return fmt.Errorf("plan cancelled by host")
	}
	return p.Execute()
}

// Quick creates a Plan with preview disabled, matching expert/quick mode's
// "no preview, direct execution" posture.
func Quick(ui hostui.HostUI) *Plan {
	return New(ui, false, false)
}

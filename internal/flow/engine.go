// Package flow implements FlowEngine: the state machine that sequences
// gitline's named flows (pull, commit+push, package generation, AUR build,
// revert) into OperationPlans and executes them against a repository.
package flow

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/re-cinq/gitline/internal/auditlog"
	"github.com/re-cinq/gitline/internal/conflict"
	"github.com/re-cinq/gitline/internal/divergence"
	"github.com/re-cinq/gitline/internal/forge"
	"github.com/re-cinq/gitline/internal/gitexec"
	"github.com/re-cinq/gitline/internal/gitprobe"
	"github.com/re-cinq/gitline/internal/hostui"
	"github.com/re-cinq/gitline/internal/plan"
	"github.com/re-cinq/gitline/internal/policy"
	"github.com/re-cinq/gitline/internal/semver"
	"github.com/re-cinq/gitline/internal/tokenstore"
)

// defaultProtectedBranches mirrors the branches a flow refuses to silently
// rewrite without an explicit, louder confirmation.
var defaultProtectedBranches = []string{"main", "master"}

// Option configures an Engine. Use With* functions to build one.
type Option func(*engineOptions)

type engineOptions struct {
	username            string
	remote              string
	repoSlug            string
	protectedBranches   []string
	forgeClient         *forge.Client
	tokenStore          *tokenstore.Store
	organization        string
	versionBumpEnabled  bool
	auditLog            *auditlog.Log
}

// WithUsername overrides the detected OS username used to derive dev-<username>.
func WithUsername(name string) Option {
	return func(o *engineOptions) { o.username = name }
}

// WithRemote sets the git remote name flows operate against (default "origin").
func WithRemote(name string) Option {
	return func(o *engineOptions) { o.remote = name }
}

// WithRepoSlug sets the "owner/name" slug used for forge API calls.
func WithRepoSlug(slug string) Option {
	return func(o *engineOptions) { o.repoSlug = slug }
}

// WithProtectedBranches overrides the set of branches that require extra
// confirmation before a flow commits directly to them.
func WithProtectedBranches(branches []string) Option {
	return func(o *engineOptions) { o.protectedBranches = branches }
}

// WithForgeClient sets the client used to dispatch CI builds and manage PRs.
func WithForgeClient(c *forge.Client) Option {
	return func(o *engineOptions) { o.forgeClient = c }
}

// WithTokenStore sets the store used to resolve the forge token lazily,
// when no ForgeClient was supplied up front.
func WithTokenStore(s *tokenstore.Store) Option {
	return func(o *engineOptions) { o.tokenStore = s }
}

// WithOrganization sets which TokenStore entry to read when lazily building
// a ForgeClient.
func WithOrganization(org string) Option {
	return func(o *engineOptions) { o.organization = org }
}

// WithVersionBump toggles whether Commit+Generate Package calls VersionBumper.
func WithVersionBump(enabled bool) Option {
	return func(o *engineOptions) { o.versionBumpEnabled = enabled }
}

// WithAuditLog attaches an audit log that records every executed operation.
func WithAuditLog(l *auditlog.Log) Option {
	return func(o *engineOptions) { o.auditLog = l }
}

// Engine wires together every domain component a flow needs: git access,
// read-only probing, conflict and divergence resolution, operation
// planning, the active mode policy, and the forge client.
type Engine struct {
	runner gitexec.Runner
	probe  *gitprobe.Probe
	ui     hostui.HostUI
	pol    policy.Policy

	conflicts   *conflict.Resolver
	divergences *divergence.Resolver

	username          string
	remote            string
	repoSlug          string
	protectedBranches []string
	tokens            *tokenstore.Store
	organization      string
	forgeClient       *forge.Client
	versionBumpEnabled bool
	auditLog          *auditlog.Log
}

// New builds an Engine over runner, reporting progress through ui and
// operating under pol. opts supply everything the repository's environment
// determines (remote name, repo slug, forge credentials, username).
func New(runner gitexec.Runner, ui hostui.HostUI, pol policy.Policy, opts ...Option) *Engine {
	o := &engineOptions{
		remote:            "origin",
		protectedBranches: defaultProtectedBranches,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.username == "" {
		o.username = detectUsername()
	}

	return &Engine{
		runner:             runner,
		probe:              gitprobe.New(runner),
		ui:                 ui,
		pol:                pol,
		conflicts:          conflict.New(runner, ui),
		divergences:        divergence.New(runner, ui),
		username:           o.username,
		remote:             o.remote,
		repoSlug:           o.repoSlug,
		protectedBranches:  o.protectedBranches,
		tokens:             o.tokenStore,
		organization:       o.organization,
		forgeClient:        o.forgeClient,
		versionBumpEnabled: o.versionBumpEnabled,
		auditLog:           o.auditLog,
	}
}

// UserBranch returns the dev-<username> branch this engine plans against.
func (e *Engine) UserBranch() string {
	return "dev-" + e.username
}

// detectUsername resolves the OS account name, falling back to $USER when
// the platform lookup is unavailable (containers without /etc/passwd
// entries commonly hit this path).
func detectUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		if i := strings.LastIndex(u.Username, "\\"); i >= 0 {
			return u.Username[i+1:]
		}
		return u.Username
	}
	if env := os.Getenv("USER"); env != "" {
		return env
	}
	return "unknown"
}

func (e *Engine) isProtected(branch string) bool {
	for _, b := range e.protectedBranches {
		if b == branch {
			return true
		}
	}
	return false
}

// newPlan builds a Plan honoring the active policy's preview posture and,
// when an audit log is configured, recording every executed operation
// under flowName.
func (e *Engine) newPlan(flowName string) *plan.Plan {
	var p *plan.Plan
	if !e.pol.ShowPreview {
		p = plan.Quick(e.ui)
	} else {
		p = plan.New(e.ui, true, false)
	}
	if e.auditLog != nil {
		p.SetRecorder(&auditRecorder{log: e.auditLog, repoPath: e.runner.RepoPath(), flow: flowName})
	}
	return p
}

// auditRecorder adapts auditlog.Log to plan.Recorder.
type auditRecorder struct {
	log      *auditlog.Log
	repoPath string
	flow     string
}

func (r *auditRecorder) RecordOperation(op *plan.Operation) {
	outcome := auditlog.OutcomeSucceeded
	detail := ""
	if !op.Success {
		outcome = auditlog.OutcomeFailed
		if op.Err != nil {
			detail = op.Err.Error()
		}
	}
	_ = r.log.Record(auditlog.Entry{
		RepoPath:       r.repoPath,
		Flow:           r.flow,
		OperationLabel: op.Description,
		GitCommand:     op.CommandPreview(),
		Outcome:        outcome,
		Detail:         detail,
	})
}

// resolveForgeClient returns the configured ForgeClient, or lazily builds
// one from the TokenStore. A missing token is logged through HostUI and
// returned as a "setup required" error, which ends the calling flow.
func (e *Engine) resolveForgeClient() (*forge.Client, error) {
	if e.forgeClient != nil {
		return e.forgeClient, nil
	}
	if e.tokens == nil {
		return nil, fmt.Errorf("no forge client or token store configured")
	}
	token, err := e.tokens.Get(e.organization)
	if err != nil {
		return nil, fmt.Errorf("read forge token: %w", err)
	}
	if token == "" {
		e.ui.Log(hostui.StyleWarn, "no forge token configured; run gitline token set to enable remote dispatch")
		return nil, fmt.Errorf("setup required: no forge token for organization %q", e.organization)
	}
	e.forgeClient = forge.New(token)
	return e.forgeClient, nil
}

// stashIfDirty stashes uncommitted work, returning whether a stash was
// actually created (an empty tree produces no stash entry).
func (e *Engine) stashIfDirty() (bool, error) {
	tree, err := e.probe.WorkingTree()
	if err != nil {
		return false, err
	}
	if tree.Clean {
		return false, nil
	}
	return e.runner.StashPush("gitline: preserving uncommitted work")
}

// bumpVersionIfEnabled applies VersionBumper to the repo at path when
// version bumping is enabled, logging the outcome but never failing the
// flow on a bump error.
func (e *Engine) bumpVersionIfEnabled(repoPath, commitMessage string) {
	if !e.versionBumpEnabled {
		return
	}
	newVersion, err := semver.ApplyBump(repoPath, commitMessage, "")
	if err != nil {
		e.ui.Log(hostui.StyleWarn, fmt.Sprintf("version bump skipped: %v", err))
		return
	}
	if newVersion != "" {
		e.ui.Log(hostui.StyleSuccess, "bumped version to "+newVersion)
	}
}

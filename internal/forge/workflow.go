package forge

import (
	"context"
	"fmt"
)

// DispatchPayload is the repository_dispatch client_payload sent to the
// downstream build workflow.
type DispatchPayload struct {
	PackageName string `json:"package_name,omitempty"`
	Branch      string `json:"branch,omitempty"`
	BranchType  string `json:"branch_type"`
	BuildEnv    string `json:"build_env"`
	RepoURL     string `json:"url,omitempty"`
	AURURL      string `json:"aur_url,omitempty"`
	NewBranch   string `json:"new_branch,omitempty"`
	Tmate       bool   `json:"tmate"`
}

// TriggerWorkflow fires a repository_dispatch event against repo. eventType
// is "package-build" for a package payload, or "aur-<package>" for an AUR
// payload (GitHub routes on this to select the matching workflow); the
// package itself travels inside payload.
func (c *Client) TriggerWorkflow(ctx context.Context, repo, eventType string, payload DispatchPayload) error {
	body := map[string]interface{}{
		"event_type":     eventType,
		"client_payload": payload,
	}
	if err := c.post(ctx, fmt.Sprintf("/repos/%s/dispatches", repo), body, nil); err != nil {
		return fmt.Errorf("trigger %s workflow: %w", eventType, err)
	}
	return nil
}

// WorkflowRun mirrors the subset of a GitHub Actions run gitline inspects.
type WorkflowRun struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// ListRunsByStatus returns Actions runs on repo matching status
// ("queued", "in_progress", "completed", ...).
func (c *Client) ListRunsByStatus(ctx context.Context, repo, status string) ([]WorkflowRun, error) {
	var result struct {
		WorkflowRuns []WorkflowRun `json:"workflow_runs"`
	}
	endpoint := fmt.Sprintf("/repos/%s/actions/runs?status=%s", repo, status)
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("list runs with status %s: %w", status, err)
	}
	return result.WorkflowRuns, nil
}

// DeleteRun removes a single Actions run's logs and record.
func (c *Client) DeleteRun(ctx context.Context, repo string, runID int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/repos/%s/actions/runs/%d", repo, runID)); err != nil {
		return fmt.Errorf("delete run %d: %w", runID, err)
	}
	return nil
}

// CleanActionJobs deletes every Actions run on repo matching status and
// returns how many were removed.
func (c *Client) CleanActionJobs(ctx context.Context, repo, status string) (int, error) {
	runs, err := c.ListRunsByStatus(ctx, repo, status)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, r := range runs {
		if err := c.DeleteRun(ctx, repo, r.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

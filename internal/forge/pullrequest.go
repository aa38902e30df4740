package forge

import (
	"context"
	"fmt"
	"time"
)

// PullRequest mirrors the subset of GitHub's pull request resource gitline
// needs to report status and drive auto-merge.
type PullRequest struct {
	Number         int    `json:"number"`
	HTMLURL        string `json:"html_url"`
	State          string `json:"state"`
	Mergeable      *bool  `json:"mergeable"`
	MergeableState string `json:"mergeable_state"`
}

// CreatePullRequest opens a PR from source into target.
func (c *Client) CreatePullRequest(ctx context.Context, repo, source, target, title, body string) (*PullRequest, error) {
	payload := map[string]string{
		"title": title,
		"body":  body,
		"head":  source,
		"base":  target,
	}
	var pr PullRequest
	if err := c.post(ctx, fmt.Sprintf("/repos/%s/pulls", repo), payload, &pr); err != nil {
		return nil, fmt.Errorf("create pull request %s -> %s: %w", source, target, err)
	}
	return &pr, nil
}

// GetPullRequest fetches current PR state, including GitHub's computed
// mergeable/mergeable_state fields.
func (c *Client) GetPullRequest(ctx context.Context, repo string, number int) (*PullRequest, error) {
	var pr PullRequest
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/pulls/%d", repo, number), &pr); err != nil {
		return nil, fmt.Errorf("get pull request #%d: %w", number, err)
	}
	return &pr, nil
}

// MergeResult is returned by GitHub after a successful merge.
type MergeResult struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}

// MergePullRequest merges number using the given merge method
// ("merge", "squash", "rebase").
func (c *Client) MergePullRequest(ctx context.Context, repo string, number int, mergeMethod, commitTitle, commitMessage string) (*MergeResult, error) {
	payload := map[string]string{
		"commit_title":   commitTitle,
		"commit_message": commitMessage,
		"merge_method":   mergeMethod,
	}
	var result MergeResult
	if err := c.put(ctx, fmt.Sprintf("/repos/%s/pulls/%d/merge", repo, number), payload, &result); err != nil {
		return nil, fmt.Errorf("merge pull request #%d: %w", number, err)
	}
	return &result, nil
}

// WaitForMergeable polls number's mergeable_state, which GitHub computes
// asynchronously after the PR is created, up to maxAttempts times with a
// 2-second interval between polls. It returns once the state settles to
// "clean" (ready) or "dirty" (conflicted, caller should stop), or after
// exhausting maxAttempts in any other state (ready is then false).
func (c *Client) WaitForMergeable(ctx context.Context, repo string, number, maxAttempts int) (pr *PullRequest, ready bool, err error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		pr, err = c.GetPullRequest(ctx, repo, number)
		if err != nil {
			return nil, false, err
		}
		switch pr.MergeableState {
		case "clean":
			return pr, true, nil
		case "dirty":
			return pr, false, nil
		}
		if attempt == maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return pr, false, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return pr, false, nil
}

package forge

import (
	"context"
	"fmt"
)

// Branch mirrors the subset of GitHub's branch resource gitline needs.
type Branch struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// GetBranchSHA returns the HEAD SHA of a remote branch.
func (c *Client) GetBranchSHA(ctx context.Context, repo, branch string) (string, error) {
	var b Branch
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/branches/%s", repo, branch), &b); err != nil {
		return "", fmt.Errorf("get branch sha for %s: %w", branch, err)
	}
	return b.Commit.SHA, nil
}

// BranchExists reports whether branch exists on the remote.
func (c *Client) BranchExists(ctx context.Context, repo, branch string) (bool, error) {
	var b Branch
	err := c.get(ctx, fmt.Sprintf("/repos/%s/branches/%s", repo, branch), &b)
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == 404 {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateReference creates a new ref (e.g. "refs/heads/testing") pointed at sha.
func (c *Client) CreateReference(ctx context.Context, repo, ref, sha string) error {
	body := map[string]string{"ref": ref, "sha": sha}
	if err := c.post(ctx, fmt.Sprintf("/repos/%s/git/refs", repo), body, nil); err != nil {
		return fmt.Errorf("create reference %s: %w", ref, err)
	}
	return nil
}

// ListBranches returns the branches of repo from a single page of the
// branches API (at most 100).
func (c *Client) ListBranches(ctx context.Context, repo string) ([]Branch, error) {
	var branches []Branch
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/branches?per_page=100", repo), &branches); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// DeleteTag removes a tag ref from the remote.
func (c *Client) DeleteTag(ctx context.Context, repo, tag string) error {
	if err := c.delete(ctx, fmt.Sprintf("/repos/%s/git/refs/tags/%s", repo, tag)); err != nil {
		return fmt.Errorf("delete tag %s: %w", tag, err)
	}
	return nil
}

// Tag mirrors GitHub's tag resource.
type Tag struct {
	Name string `json:"name"`
}

// ListTags returns every tag on repo.
func (c *Client) ListTags(ctx context.Context, repo string) ([]Tag, error) {
	var tags []Tag
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/tags?per_page=100", repo), &tags); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// CleanAllTags deletes every tag on repo and returns how many were removed.
func (c *Client) CleanAllTags(ctx context.Context, repo string) (int, error) {
	tags, err := c.ListTags(ctx, repo)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, t := range tags {
		if err := c.DeleteTag(ctx, repo, t.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

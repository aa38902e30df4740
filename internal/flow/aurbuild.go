package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/re-cinq/gitline/internal/flowerr"
	"github.com/re-cinq/gitline/internal/forge"
	"github.com/re-cinq/gitline/internal/hostui"
)

// AURBuild dispatches an AUR package build. No local branch is touched;
// the forge workflow clones the AUR package directly.
func (e *Engine) AURBuild(ctx context.Context, pkgName string, tmateEnabled bool) error {
	normalized := normalizeAURPackageName(pkgName)
	if normalized == "" {
		return flowerr.PreconditionFailed("empty AUR package name")
	}

	client, err := e.resolveForgeClient()
	if err != nil {
		return flowerr.AuthError(err.Error())
	}

	payload := forge.DispatchPayload{
		PackageName: normalized,
		AURURL:      fmt.Sprintf("https://aur.archlinux.org/%s.git", normalized),
		BranchType:  string(RepoAUR),
		BuildEnv:    "aur",
		Tmate:       tmateEnabled,
	}
	if err := client.TriggerWorkflow(ctx, e.repoSlug, "aur-"+normalized, payload); err != nil {
		return flowerr.NetworkError("dispatch AUR build", err)
	}

	e.ui.Log(hostui.StyleSuccess, "AUR build dispatched for "+normalized)
	return nil
}

// normalizeAURPackageName strips a leading "aur-" or "aur/" prefix.
func normalizeAURPackageName(pkgName string) string {
	trimmed := strings.TrimSpace(pkgName)
	trimmed = strings.TrimPrefix(trimmed, "aur/")
	trimmed = strings.TrimPrefix(trimmed, "aur-")
	return trimmed
}

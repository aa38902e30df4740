package policy

import "testing"

func TestFor_SafeIsMostConservative(t *testing.T) {
	p := For(ModeSafe)
	if p.AutoResolveConflicts || p.AutoSwitchBranches || p.AutoMerge || p.AutoPull {
		t.Errorf("safe mode should automate nothing: %+v", p)
	}
	if !p.ConfirmDestructive || !p.ShowPreview {
		t.Errorf("safe mode should confirm destructive ops and show previews: %+v", p)
	}
}

func TestFor_ExpertSkipsConfirmation(t *testing.T) {
	p := For(ModeExpert)
	if p.ConfirmDestructive {
		t.Error("expert mode should not confirm destructive operations")
	}
	if p.ShowPreview {
		t.Error("expert mode should not show previews")
	}
	if !p.AutoMerge || !p.AutoPull {
		t.Error("expert mode should automate merge and pull")
	}
}

func TestFor_QuickStillConfirmsDestructive(t *testing.T) {
	p := For(ModeQuick)
	if !p.ConfirmDestructive {
		t.Error("quick mode should still confirm destructive operations, unlike expert")
	}
	if p.ShowPreview {
		t.Error("quick mode should not show previews")
	}
}

func TestParseMode_InvalidReturnsError(t *testing.T) {
	if _, err := ParseMode("yolo"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

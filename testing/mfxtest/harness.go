package mfxtest

import (
	"testing"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// EntryFunc matches a plugin main entry point.
type EntryFunc func(action string, effect entities.MeshEffectHandle, inArgs, outArgs entities.PropertySetHandle) entities.Status

// RunActions sends each action, in order, to entry for the given effect and
// returns the status of every call. Cook actions receive inArgs carrying
// time 0.
func (h *Host) RunActions(entry EntryFunc, effect entities.MeshEffectHandle, actions ...string) []entities.Status {
	statuses := make([]entities.Status, 0, len(actions))
	for _, action := range actions {
		var in entities.PropertySetHandle
		if entities.ParseAction(action) == entities.ActionCook {
			in = h.NewArgs(0)
		}
		statuses = append(statuses, entry(action, effect, in, 0))
	}
	return statuses
}

// AssertBalanced asserts every mesh acquired from h was released.
func AssertBalanced(t *testing.T, h *Host) {
	t.Helper()
	if open := h.OpenMeshes(); open != 0 {
		t.Errorf("expected every mesh to be released, %d still open (acquired %d, released %d)",
			open, h.Acquisitions(), h.Releases())
	}
}

// AssertStatuses asserts a run produced exactly the expected statuses.
func AssertStatuses(t *testing.T, want, got []entities.Status) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("expected %d statuses, got %d: %v", len(want), len(got), got)
		return
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("status %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// CountMethod returns how many times method was called on h.
func CountMethod(h *Host, method string) int {
	n := 0
	for _, m := range h.Methods() {
		if m == method {
			n++
		}
	}
	return n
}

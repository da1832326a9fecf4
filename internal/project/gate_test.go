package project

import (
	"testing"

	"craftforge/internal/api"
)

func TestCanEdit(t *testing.T) {
	t.Parallel()

	active := &api.Project{Status: api.ProjectUretimde}
	done := &api.Project{Status: api.ProjectTamamlandi}
	halted := &api.Project{Status: api.ProjectDurduruldu}

	tests := []struct {
		name    string
		editor  Editor
		project *api.Project
		allowed bool
		reasons []Reason
	}{
		{
			name:    "permitted on active project",
			editor:  Editor{Permissions: []string{PermTasksEdit}},
			project: active,
			allowed: true,
		},
		{
			name:    "admin bypasses permission check",
			editor:  Editor{IsAdmin: true},
			project: active,
			allowed: true,
		},
		{
			name:    "no permission",
			editor:  Editor{},
			project: active,
			reasons: []Reason{ReasonNoPermission},
		},
		{
			name:    "completed project blocks even admin",
			editor:  Editor{IsAdmin: true},
			project: done,
			reasons: []Reason{ReasonProjectClosed},
		},
		{
			name:    "halted project blocks",
			editor:  Editor{Permissions: []string{PermTasksEdit}},
			project: halted,
			reasons: []Reason{ReasonProjectClosed},
		},
		{
			name:    "both reasons reported independently",
			editor:  Editor{},
			project: done,
			reasons: []Reason{ReasonNoPermission, ReasonProjectClosed},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := CanEdit(tt.editor, PermTasksEdit, tt.project)
			if d.Allowed != tt.allowed {
				t.Fatalf("Allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if len(d.Reasons) != len(tt.reasons) {
				t.Fatalf("Reasons = %v, want %v", d.Reasons, tt.reasons)
			}
			for _, r := range tt.reasons {
				if !d.Has(r) {
					t.Fatalf("missing reason %q in %v", r, d.Reasons)
				}
			}
		})
	}
}

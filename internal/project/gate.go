package project

import "craftforge/internal/api"

// Well-known permission keys checked by the detail surface.
const (
	PermTasksEdit      = "tasks.edit"
	PermProjectsEdit   = "projects.edit"
	PermProjectsDelete = "projects.delete"
	PermFilesUpload    = "files.upload"
	PermFilesDelete    = "files.delete"
)

// Reason explains why an edit is blocked. Both conditions are evaluated
// independently so callers can show every applicable explanation on a
// disabled control instead of hiding it.
type Reason string

const (
	ReasonNoPermission  Reason = "no permission"
	ReasonProjectClosed Reason = "project closed"
)

type Decision struct {
	Allowed bool
	Reasons []Reason
}

func (d Decision) Has(r Reason) bool {
	for _, got := range d.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

// Editor is the acting user's effective authorization: admin flag plus the
// permission keys of their role.
type Editor struct {
	IsAdmin     bool
	Permissions []string
}

func (e Editor) Can(key string) bool {
	if e.IsAdmin {
		return true
	}
	for _, p := range e.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

// CanEdit gates a mutating action on the detail surface: the editor needs the
// permission (admins always pass) and the project must still be active.
func CanEdit(e Editor, key string, p *api.Project) Decision {
	d := Decision{Allowed: true}
	if !e.Can(key) {
		d.Allowed = false
		d.Reasons = append(d.Reasons, ReasonNoPermission)
	}
	if p != nil && p.Closed() {
		d.Allowed = false
		d.Reasons = append(d.Reasons, ReasonProjectClosed)
	}
	return d
}

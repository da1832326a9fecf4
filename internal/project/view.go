package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"craftforge/internal/api"
	logx "craftforge/pkg/logx"
)

// ErrRedirect signals that the caller must leave the project surface: the
// backend denied access to the project itself (403). No inline error content
// is rendered for this case.
var ErrRedirect = errors.New("project: access denied")

// ErrDeclined is returned when the confirmer rejects a pending action. No
// request is sent and no state changes.
var ErrDeclined = errors.New("project: action declined")

// ErrNoOpenTask is returned by task-scoped actions when no task is open.
var ErrNoOpenTask = errors.New("project: no open task")

// GateError carries the gate decision for a blocked action so callers can
// render the distinct reasons.
type GateError struct {
	Decision Decision
}

func (e *GateError) Error() string {
	if len(e.Decision.Reasons) == 0 {
		return "project: edit blocked"
	}
	msg := "project: edit blocked:"
	for _, r := range e.Decision.Reasons {
		msg += " " + string(r)
	}
	return msg
}

// Confirmer decides destructive or state-changing actions before any request
// is sent.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmerFunc func(ctx context.Context, prompt string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// API is the slice of the REST client the detail surface drives.
type API interface {
	Project(ctx context.Context, id string) (*api.Project, error)
	ProjectTasks(ctx context.Context, projectID string) ([]api.Task, error)
	ProjectActivities(ctx context.Context, projectID string) ([]api.Activity, error)
	ProjectPayments(ctx context.Context, projectID string) ([]api.Payment, error)
	Users(ctx context.Context) ([]api.User, error)
	Files(ctx context.Context, projectID string) ([]api.File, error)

	UpdateProject(ctx context.Context, id string, upd api.ProjectUpdate) (*api.Project, error)
	UpdateProjectTask(ctx context.Context, projectID, taskID string, upd api.TaskUpdate) (*api.Task, error)
	AddPayment(ctx context.Context, projectID string, req api.PaymentCreate) (*api.Payment, error)
	DeletePayment(ctx context.Context, projectID, paymentID string) error
	AddAssignment(ctx context.Context, projectID string, req api.AssignmentCreate) (*api.Assignment, error)
	DeleteAssignment(ctx context.Context, projectID, assignmentID string) error
	UploadFile(ctx context.Context, req api.UploadRequest) (*api.UploadResult, error)
}

type ViewConfig struct {
	ProjectID string
	API       API
	Editor    Editor
	Confirmer Confirmer
	Logger    logx.Logger
}

// View holds the loaded resource set for one project and coordinates every
// mutation against it. All reads return copies; mutations follow the pattern
// gate, confirm, request, targeted refetch.
type View struct {
	id        string
	api       API
	editor    Editor
	confirmer Confirmer
	log       logx.Logger

	mu         sync.RWMutex
	project    *api.Project
	tasks      []api.Task
	payments   []api.Payment
	activities []api.Activity
	users      []api.User
	files      []api.File

	selectedAreaID string
	openTaskID     string
	noteDraft      string
	draftDirty     bool
}

func NewView(cfg ViewConfig) (*View, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project: id is required")
	}
	if cfg.API == nil {
		return nil, fmt.Errorf("project: api is required")
	}
	return &View{
		id:        cfg.ProjectID,
		api:       cfg.API,
		editor:    cfg.Editor,
		confirmer: cfg.Confirmer,
		log:       cfg.Logger,
	}, nil
}

// Load fetches the whole resource set in parallel. A 403 on the project
// itself yields ErrRedirect; any other project failure is fatal for the load.
// Failures on ancillary resources are logged and leave that slice empty.
func (v *View) Load(ctx context.Context) error {
	var wg sync.WaitGroup
	var projectErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		p, err := v.api.Project(ctx, v.id)
		if err != nil {
			if api.IsForbidden(err) {
				projectErr = ErrRedirect
			} else {
				projectErr = err
			}
			return
		}
		v.mu.Lock()
		v.project = p
		if v.selectedAreaID == "" && len(p.Areas) > 0 {
			v.selectedAreaID = p.Areas[0].ID
		}
		v.mu.Unlock()
	}()

	v.fetchAsync(ctx, &wg, "tasks", v.refreshTasks)
	v.fetchAsync(ctx, &wg, "payments", v.refreshPayments)
	v.fetchAsync(ctx, &wg, "activities", v.refreshActivities)
	v.fetchAsync(ctx, &wg, "users", v.refreshUsers)
	v.fetchAsync(ctx, &wg, "files", v.refreshFiles)

	wg.Wait()
	return projectErr
}

func (v *View) fetchAsync(ctx context.Context, wg *sync.WaitGroup, name string, fn func(context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := fn(ctx); err != nil && !v.log.IsZero() {
			v.log.Warn("fetch failed", logx.String("resource", name), logx.Err(err))
		}
	}()
}

func (v *View) refreshProject(ctx context.Context) error {
	p, err := v.api.Project(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.project = p
	v.mu.Unlock()
	return nil
}

func (v *View) refreshTasks(ctx context.Context) error {
	tasks, err := v.api.ProjectTasks(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.tasks = tasks
	v.mu.Unlock()
	return nil
}

func (v *View) refreshPayments(ctx context.Context) error {
	payments, err := v.api.ProjectPayments(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.payments = payments
	v.mu.Unlock()
	return nil
}

func (v *View) refreshActivities(ctx context.Context) error {
	acts, err := v.api.ProjectActivities(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.activities = acts
	v.mu.Unlock()
	return nil
}

func (v *View) refreshUsers(ctx context.Context) error {
	users, err := v.api.Users(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.users = users
	v.mu.Unlock()
	return nil
}

func (v *View) refreshFiles(ctx context.Context) error {
	files, err := v.api.Files(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.files = files
	v.mu.Unlock()
	return nil
}

// refetch runs the targeted refresh set for a completed mutation in parallel.
// Refresh failures are logged, not returned: the mutation already succeeded.
func (v *View) refetch(ctx context.Context, fns map[string]func(context.Context) error) {
	var wg sync.WaitGroup
	for name, fn := range fns {
		v.fetchAsync(ctx, &wg, name, fn)
	}
	wg.Wait()
}

// ---- accessors ----

func (v *View) Project() *api.Project {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.project == nil {
		return nil
	}
	cp := *v.project
	return &cp
}

func (v *View) Tasks() []api.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]api.Task, len(v.tasks))
	copy(out, v.tasks)
	return out
}

func (v *View) Payments() []api.Payment {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]api.Payment, len(v.payments))
	copy(out, v.payments)
	return out
}

func (v *View) Activities() []api.Activity {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]api.Activity, len(v.activities))
	copy(out, v.activities)
	return out
}

func (v *View) Users() []api.User {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]api.User, len(v.users))
	copy(out, v.users)
	return out
}

func (v *View) Files() []api.File {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]api.File, len(v.files))
	copy(out, v.files)
	return out
}

// Tree derives the task display tree; it is never stored.
func (v *View) Tree() []GroupNode {
	return BuildTree(v.Tasks())
}

// Totals rolls up agreed and collected money for the header.
func (v *View) Totals() Totals {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ProjectTotals(v.project, v.payments)
}

// Gate exposes the edit decision for one permission key against the loaded
// project, for rendering disabled controls with their reasons.
func (v *View) Gate(key string) Decision {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return CanEdit(v.editor, key, v.project)
}

// ---- area selection ----

func (v *View) SelectArea(areaID string) {
	v.mu.Lock()
	v.selectedAreaID = areaID
	v.mu.Unlock()
}

func (v *View) SelectedArea() *api.Area {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.project == nil {
		return nil
	}
	for i := range v.project.Areas {
		if v.project.Areas[i].ID == v.selectedAreaID {
			cp := v.project.Areas[i]
			return &cp
		}
	}
	return nil
}

// AreaTasks filters tasks to the selected area. With no selection, all tasks.
func (v *View) AreaTasks() []api.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.selectedAreaID == "" {
		out := make([]api.Task, len(v.tasks))
		copy(out, v.tasks)
		return out
	}
	var out []api.Task
	for _, t := range v.tasks {
		if t.AreaID == v.selectedAreaID {
			out = append(out, t)
		}
	}
	return out
}

// ---- open task ----

// OpenTask opens the detail drawer for one task. Opening a different task
// discards any unsaved note draft.
func (v *View) OpenTask(taskID string) (*api.Task, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.tasks {
		if v.tasks[i].ID == taskID {
			if v.openTaskID != taskID {
				v.noteDraft = v.tasks[i].Notes
				v.draftDirty = false
			}
			v.openTaskID = taskID
			cp := v.tasks[i]
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("project: task %s not found", taskID)
}

func (v *View) CloseTask() {
	v.mu.Lock()
	v.openTaskID = ""
	v.noteDraft = ""
	v.draftDirty = false
	v.mu.Unlock()
}

func (v *View) SetNoteDraft(s string) {
	v.mu.Lock()
	v.noteDraft = s
	v.draftDirty = true
	v.mu.Unlock()
}

func (v *View) NoteDraft() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.noteDraft
}

func (v *View) openTask() (api.Task, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, t := range v.tasks {
		if t.ID == v.openTaskID {
			return t, true
		}
	}
	return api.Task{}, false
}

// ---- mutations ----

func (v *View) confirm(ctx context.Context, prompt string) error {
	if v.confirmer == nil {
		return nil
	}
	if !v.confirmer.Confirm(ctx, prompt) {
		return ErrDeclined
	}
	return nil
}

func (v *View) gate(key string) error {
	v.mu.RLock()
	d := CanEdit(v.editor, key, v.project)
	v.mu.RUnlock()
	if !d.Allowed {
		return &GateError{Decision: d}
	}
	return nil
}

// SetStatus transitions the project status. The confirmer decides first; on
// success the project and activity log are refetched.
func (v *View) SetStatus(ctx context.Context, status string) error {
	if err := v.gate(PermProjectsEdit); err != nil {
		return err
	}
	if err := v.confirm(ctx, "Proje durumu değiştirilsin mi?"); err != nil {
		return err
	}
	if _, err := v.api.UpdateProject(ctx, v.id, api.ProjectUpdate{Status: &status}); err != nil {
		return err
	}
	v.refetch(ctx, map[string]func(context.Context) error{
		"project":    v.refreshProject,
		"activities": v.refreshActivities,
	})
	return nil
}

// SaveOpenTask saves the open task: new status, the note draft, and an
// optional assignee change. On success tasks, activities and the project
// (progress) are refetched.
func (v *View) SaveOpenTask(ctx context.Context, status string, assignedTo *string) error {
	if err := v.gate(PermTasksEdit); err != nil {
		return err
	}
	task, ok := v.openTask()
	if !ok {
		return ErrNoOpenTask
	}
	if err := v.confirm(ctx, "Görev kaydedilsin mi?"); err != nil {
		return err
	}

	v.mu.RLock()
	notes := v.noteDraft
	v.mu.RUnlock()
	if assignedTo == nil && task.AssignedTo != "" {
		assignedTo = &task.AssignedTo
	}

	upd := api.TaskUpdate{Status: status, Notes: &notes, AssignedTo: assignedTo}
	if _, err := v.api.UpdateProjectTask(ctx, v.id, task.ID, upd); err != nil {
		return err
	}

	v.mu.Lock()
	v.draftDirty = false
	v.mu.Unlock()

	v.refetch(ctx, map[string]func(context.Context) error{
		"tasks":      v.refreshTasks,
		"activities": v.refreshActivities,
		"project":    v.refreshProject,
	})
	return nil
}

// AddPayment records a payment; on success the project, payment list and
// activity log are refetched.
func (v *View) AddPayment(ctx context.Context, req api.PaymentCreate) error {
	if err := v.gate(PermProjectsEdit); err != nil {
		return err
	}
	if req.AreaID == "" {
		return fmt.Errorf("project: payment area is required")
	}
	if _, err := v.api.AddPayment(ctx, v.id, req); err != nil {
		return err
	}
	v.refetch(ctx, map[string]func(context.Context) error{
		"project":    v.refreshProject,
		"payments":   v.refreshPayments,
		"activities": v.refreshActivities,
	})
	return nil
}

// RemovePayment deletes a payment after its own confirm step.
func (v *View) RemovePayment(ctx context.Context, paymentID string) error {
	if err := v.gate(PermProjectsEdit); err != nil {
		return err
	}
	if err := v.confirm(ctx, "Tahsilat silinsin mi?"); err != nil {
		return err
	}
	if err := v.api.DeletePayment(ctx, v.id, paymentID); err != nil {
		return err
	}
	v.refetch(ctx, map[string]func(context.Context) error{
		"project":    v.refreshProject,
		"payments":   v.refreshPayments,
		"activities": v.refreshActivities,
	})
	return nil
}

// Assign adds a project- or area-level staff assignment.
func (v *View) Assign(ctx context.Context, req api.AssignmentCreate) error {
	if err := v.gate(PermProjectsEdit); err != nil {
		return err
	}
	if req.UserID == "" {
		return fmt.Errorf("project: assignment user is required")
	}
	if req.AssignmentType == "area" && (req.AreaID == nil || *req.AreaID == "") {
		return fmt.Errorf("project: area assignment needs an area")
	}
	if _, err := v.api.AddAssignment(ctx, v.id, req); err != nil {
		return err
	}
	v.refetch(ctx, map[string]func(context.Context) error{
		"project":    v.refreshProject,
		"activities": v.refreshActivities,
	})
	return nil
}

// Unassign removes an assignment after its own confirm step.
func (v *View) Unassign(ctx context.Context, assignmentID string) error {
	if err := v.gate(PermProjectsEdit); err != nil {
		return err
	}
	if err := v.confirm(ctx, "Atama kaldırılsın mı?"); err != nil {
		return err
	}
	if err := v.api.DeleteAssignment(ctx, v.id, assignmentID); err != nil {
		return err
	}
	v.refetch(ctx, map[string]func(context.Context) error{
		"project":    v.refreshProject,
		"activities": v.refreshActivities,
	})
	return nil
}

// UploadTaskFile attaches a file to the open task; on success the file list
// and activity log are refetched.
func (v *View) UploadTaskFile(ctx context.Context, fileName, fileType string, content io.Reader) error {
	if err := v.gate(PermFilesUpload); err != nil {
		return err
	}
	task, ok := v.openTask()
	if !ok {
		return ErrNoOpenTask
	}
	req := api.UploadRequest{
		ProjectID: v.id,
		TaskID:    task.ID,
		FileType:  fileType,
		FileName:  fileName,
		Content:   content,
	}
	if _, err := v.api.UploadFile(ctx, req); err != nil {
		return err
	}
	v.refetch(ctx, map[string]func(context.Context) error{
		"files":      v.refreshFiles,
		"activities": v.refreshActivities,
	})
	return nil
}

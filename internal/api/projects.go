package api

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"
)

type ProjectWorkItemCreate struct {
	WorkItemID string `json:"work_item_id"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

type ProjectCreate struct {
	Name            string                  `json:"name"`
	Description     string                  `json:"description,omitempty"`
	CustomerName    string                  `json:"customer_name,omitempty"`
	CustomerPhone   string                  `json:"customer_phone,omitempty"`
	CustomerAddress string                  `json:"customer_address,omitempty"`
	WorkItems       []ProjectWorkItemCreate `json:"work_items"`
	DueDate         string                  `json:"due_date,omitempty"`
}

type ProjectUpdate struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	CustomerName    *string `json:"customer_name,omitempty"`
	CustomerPhone   *string `json:"customer_phone,omitempty"`
	CustomerAddress *string `json:"customer_address,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// TaskUpdate is the full payload for saving a task from the detail drawer.
type TaskUpdate struct {
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

type PaymentCreate struct {
	AreaID        string          `json:"area_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

type AssignmentCreate struct {
	UserID         string  `json:"user_id"`
	AssignmentType string  `json:"assignment_type"`
	AreaID         *string `json:"area_id"`
}

// Projects lists projects, optionally filtered by status.
func (c *Client) Projects(ctx context.Context, status string) ([]Project, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {status}}
	}
	var out []Project
	if err := c.get(ctx, "/projects", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, req ProjectCreate) (*Project, error) {
	var out Project
	if err := c.post(ctx, "/projects", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	var out Project
	if err := c.get(ctx, "/projects/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error) {
	var out Project
	if err := c.put(ctx, "/projects/"+url.PathEscape(id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.del(ctx, "/projects/"+url.PathEscape(id))
}

func (c *Client) ProjectTasks(ctx context.Context, projectID string) ([]Task, error) {
	var out []Task
	if err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProjectTask(ctx context.Context, projectID, taskID string, upd TaskUpdate) (*Task, error) {
	var out Task
	path := "/projects/" + url.PathEscape(projectID) + "/tasks/" + url.PathEscape(taskID)
	if err := c.put(ctx, path, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProjectActivities(ctx context.Context, projectID string) ([]Activity, error) {
	var out []Activity
	if err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/activities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProjectPayments(ctx context.Context, projectID string) ([]Payment, error) {
	var out []Payment
	if err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/payments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddPayment(ctx context.Context, projectID string, req PaymentCreate) (*Payment, error) {
	var out Payment
	if err := c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePayment(ctx context.Context, projectID, paymentID string) error {
	return c.del(ctx, "/projects/"+url.PathEscape(projectID)+"/payments/"+url.PathEscape(paymentID))
}

func (c *Client) AddAssignment(ctx context.Context, projectID string, req AssignmentCreate) (*Assignment, error) {
	var out Assignment
	if err := c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/assignments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, projectID, assignmentID string) error {
	return c.del(ctx, "/projects/"+url.PathEscape(projectID)+"/assignments/"+url.PathEscape(assignmentID))
}

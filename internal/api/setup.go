package api

import (
	"context"
	"net/url"
)

// Tenant, role and catalog resources. These back the workshop setup screens;
// the daemon mostly reads them, but the full write surface is exposed for
// tooling built on this package.

type TenantUpdate struct {
	Name           *string `json:"name,omitempty"`
	City           *string `json:"city,omitempty"`
	District       *string `json:"district,omitempty"`
	Address        *string `json:"address,omitempty"`
	ContactEmail   *string `json:"contact_email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	TaxOffice      *string `json:"tax_office,omitempty"`
	TaxNumber      *string `json:"tax_number,omitempty"`
	LightLogoURL   *string `json:"light_logo_url,omitempty"`
	DarkLogoURL    *string `json:"dark_logo_url,omitempty"`
	SetupCompleted *bool   `json:"setup_completed,omitempty"`
}

func (c *Client) Tenant(ctx context.Context) (*Tenant, error) {
	var out Tenant
	if err := c.get(ctx, "/tenant", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTenant(ctx context.Context, upd TenantUpdate) (*Tenant, error) {
	var out Tenant
	if err := c.put(ctx, "/tenant", upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type RoleCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

type RoleUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := c.get(ctx, "/roles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRole(ctx context.Context, req RoleCreate) (*Role, error) {
	var out Role
	if err := c.post(ctx, "/roles", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRole(ctx context.Context, id string, upd RoleUpdate) (*Role, error) {
	var out Role
	if err := c.put(ctx, "/roles/"+url.PathEscape(id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRole(ctx context.Context, id string) error {
	return c.del(ctx, "/roles/"+url.PathEscape(id))
}

func (c *Client) Permissions(ctx context.Context) ([]Permission, error) {
	var out []Permission
	if err := c.get(ctx, "/permissions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type GroupCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

type GroupUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var out []Group
	if err := c.get(ctx, "/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGroup(ctx context.Context, req GroupCreate) (*Group, error) {
	var out Group
	if err := c.post(ctx, "/groups", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id string, upd GroupUpdate) (*Group, error) {
	var out Group
	if err := c.put(ctx, "/groups/"+url.PathEscape(id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.del(ctx, "/groups/"+url.PathEscape(id))
}

type SubtaskCreate struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

type SubtaskUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

// Subtasks lists subtasks, optionally filtered to one group.
func (c *Client) Subtasks(ctx context.Context, groupID string) ([]Subtask, error) {
	var q url.Values
	if groupID != "" {
		q = url.Values{"group_id": {groupID}}
	}
	var out []Subtask
	if err := c.get(ctx, "/subtasks", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSubtask(ctx context.Context, req SubtaskCreate) (*Subtask, error) {
	var out Subtask
	if err := c.post(ctx, "/subtasks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSubtask(ctx context.Context, id string, upd SubtaskUpdate) (*Subtask, error) {
	var out Subtask
	if err := c.put(ctx, "/subtasks/"+url.PathEscape(id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSubtask(ctx context.Context, id string) error {
	return c.del(ctx, "/subtasks/"+url.PathEscape(id))
}

type WorkItemCreate struct {
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	DefaultSubtaskIDs []string `json:"default_subtask_ids"`
}

type WorkItemUpdate struct {
	Name              *string   `json:"name,omitempty"`
	Description       *string   `json:"description,omitempty"`
	DefaultSubtaskIDs *[]string `json:"default_subtask_ids,omitempty"`
}

func (c *Client) WorkItems(ctx context.Context) ([]WorkItem, error) {
	var out []WorkItem
	if err := c.get(ctx, "/workitems", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateWorkItem(ctx context.Context, req WorkItemCreate) (*WorkItem, error) {
	var out WorkItem
	if err := c.post(ctx, "/workitems", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorkItem(ctx context.Context, id string, upd WorkItemUpdate) (*WorkItem, error) {
	var out WorkItem
	if err := c.put(ctx, "/workitems/"+url.PathEscape(id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWorkItem(ctx context.Context, id string) error {
	return c.del(ctx, "/workitems/"+url.PathEscape(id))
}

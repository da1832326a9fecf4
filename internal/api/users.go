package api

import (
	"context"
	"net/url"
)

type UserCreate struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	RoleID   string `json:"role_id,omitempty"`
	Color    string `json:"color,omitempty"`
}

type UserUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	RoleID   *string `json:"role_id,omitempty"`
	Color    *string `json:"color,omitempty"`
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, req UserCreate) (*User, error) {
	var out User
	if err := c.post(ctx, "/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	var out User
	if err := c.put(ctx, "/users/"+url.PathEscape(id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.del(ctx, "/users/"+url.PathEscape(id))
}

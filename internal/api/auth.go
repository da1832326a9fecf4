package api

import "context"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	TenantName string `json:"tenant_name,omitempty"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Register creates a user (and optionally a tenant) and stores the returned token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.post(ctx, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

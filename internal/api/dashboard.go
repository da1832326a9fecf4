package api

import "context"

func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.get(ctx, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

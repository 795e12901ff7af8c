package api

import (
	"context"

	"github.com/calvinmclean/babyapi"
)

// Client runs moves on a remote API
type Client struct {
	client *babyapi.Client[*Move]
}

func NewClient(addr string) *Client {
	return &Client{client: babyapi.NewClient[*Move](addr, "/moves")}
}

// Move runs a move and returns it once it is complete. A zero rpm keeps the current speed.
func (c *Client) Move(ctx context.Context, steps, rpm int) (*Move, error) {
	resp, err := c.client.Post(ctx, &Move{Steps: steps, RPM: rpm})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Get returns a previously completed move
func (c *Client) Get(ctx context.Context, id string) (*Move, error) {
	resp, err := c.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

package control

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// ErrDaemonUnreachable means nothing answered on the control address.
var ErrDaemonUnreachable = errors.New("daemon is not reachable")

// Client talks to a running daemon's control API.
type Client struct {
	resty *resty.Client
}

// NewClient creates a client for the daemon listening on addr (host:port).
func NewClient(addr string) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL("http://"+addr).
		SetTimeout(5*time.Second).
		SetHeader("User-Agent", "smartfreeze-cli")

	return &Client{resty: restyClient}
}

// Status fetches the daemon state.
func (c *Client) Status(ctx context.Context) (domain.DaemonStatus, error) {
	var status domain.DaemonStatus
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&status).
		SetError(&ErrorResponse{}).
		Get("/status")
	if err := check(resp, err); err != nil {
		return domain.DaemonStatus{}, err
	}
	return status, nil
}

// ToggleEnabled flips monitoring and returns the new value.
func (c *Client) ToggleEnabled(ctx context.Context) (bool, error) {
	var out ToggleResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Post("/toggle")
	if err := check(resp, err); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

// Quit asks the daemon to resume everything and exit.
func (c *Client) Quit(ctx context.Context) error {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetError(&ErrorResponse{}).
		Post("/quit")
	return check(resp, err)
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	if resp.IsError() {
		if e, ok := resp.Error().(*ErrorResponse); ok && e.Error != "" {
			return fmt.Errorf("daemon returned %d: %s", resp.StatusCode(), e.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode())
	}
	return nil
}

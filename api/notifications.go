package api

import (
	"context"

	"github.com/pkg/errors"
)

// ListNotifications returns the user's notification feed, newest first.
func (c *Client) ListNotifications(ctx context.Context) (Page[Notification], error) {
	var page Page[Notification]
	if err := c.get(ctx, "/notifications", nil, &page); err != nil {
		return Page[Notification]{}, errors.Wrap(err, "[Client.ListNotifications]")
	}
	return page, nil
}

// MarkAllNotificationsRead marks the whole feed as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.put(ctx, "/notifications/read-all", nil, struct{}{}, nil); err != nil {
		return errors.Wrap(err, "[Client.MarkAllNotificationsRead]")
	}
	return nil
}

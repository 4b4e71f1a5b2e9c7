package api

import (
	"context"

	"github.com/pkg/errors"
)

// EvictCache drops a named server-side cache (admin only).
func (c *Client) EvictCache(ctx context.Context, cacheName string) error {
	if err := c.delete(ctx, "/admin/cache/"+cacheName, nil); err != nil {
		return errors.Wrap(err, "[Client.EvictCache]")
	}
	return nil
}

package api

import (
	"context"

	"github.com/pkg/errors"
)

// OrderRequest places an order from the current cart contents.
type OrderRequest struct {
	ShippingAddress map[string]string `json:"shippingAddress"`
}

// ListOrders returns the user's order history.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/orders", nil, &orders); err != nil {
		return nil, errors.Wrap(err, "[Client.ListOrders]")
	}
	return orders, nil
}

// CreateOrder checks out the cart.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if err := c.validate.ValidateOrder(req); err != nil {
		return Order{}, errors.Wrap(err, "[Client.CreateOrder]")
	}
	var order Order
	if err := c.post(ctx, "/orders", req, &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.CreateOrder]")
	}
	return order, nil
}

// GetOrder returns one order with its items and current status.
func (c *Client) GetOrder(ctx context.Context, orderID string) (Order, error) {
	var order Order
	if err := c.get(ctx, "/orders/"+orderID, nil, &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.GetOrder]")
	}
	return order, nil
}

// CancelOrder cancels a pending order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (Order, error) {
	var order Order
	if err := c.put(ctx, "/orders/"+orderID+"/cancel", nil, nil, &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.CancelOrder]")
	}
	return order, nil
}

// PayOrder runs the (simulated) payment for an order.
func (c *Client) PayOrder(ctx context.Context, orderID string) (Order, error) {
	var order Order
	if err := c.post(ctx, "/orders/"+orderID+"/pay", nil, &order); err != nil {
		return Order{}, errors.Wrap(err, "[Client.PayOrder]")
	}
	return order, nil
}

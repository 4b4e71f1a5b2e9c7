package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// CartItemRequest adds a product to the cart.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart returns the user's current cart.
func (c *Client) GetCart(ctx context.Context) (Cart, error) {
	var cart Cart
	if err := c.get(ctx, "/cart", nil, &cart); err != nil {
		return Cart{}, errors.Wrap(err, "[Client.GetCart]")
	}
	return cart, nil
}

// ClearCart removes every item from the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.delete(ctx, "/cart", nil); err != nil {
		return errors.Wrap(err, "[Client.ClearCart]")
	}
	return nil
}

// AddCartItem puts a product into the cart, returning the updated cart.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) (Cart, error) {
	req := CartItemRequest{ProductID: productID, Quantity: quantity}
	if err := c.validate.ValidateCartItem(req); err != nil {
		return Cart{}, errors.Wrap(err, "[Client.AddCartItem]")
	}
	var cart Cart
	if err := c.post(ctx, "/cart/items", req, &cart); err != nil {
		return Cart{}, errors.Wrap(err, "[Client.AddCartItem]")
	}
	return cart, nil
}

// UpdateCartItem sets a line's quantity.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (Cart, error) {
	var cart Cart
	query := url.Values{"quantity": []string{strconv.Itoa(quantity)}}
	if err := c.put(ctx, "/cart/items/"+productID, query, nil, &cart); err != nil {
		return Cart{}, errors.Wrap(err, "[Client.UpdateCartItem]")
	}
	return cart, nil
}

// RemoveCartItem deletes a line from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) (Cart, error) {
	var cart Cart
	if err := c.delete(ctx, "/cart/items/"+productID, &cart); err != nil {
		return Cart{}, errors.Wrap(err, "[Client.RemoveCartItem]")
	}
	return cart, nil
}

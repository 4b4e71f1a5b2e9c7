package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// ProductQuery narrows and pages the product listing. Zero values are omitted.
type ProductQuery struct {
	Page     int
	Size     int
	Category string // category slug
	Search   string
}

func (q ProductQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		values.Set("size", strconv.Itoa(q.Size))
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return values
}

// ProductRequest creates or updates a product (admin only).
type ProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	SKU           string  `json:"sku,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	CategoryID    string  `json:"categoryId,omitempty"`
}

// ListProducts returns a page of the catalogue.
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (Page[Product], error) {
	var page Page[Product]
	if err := c.get(ctx, "/products", query.values(), &page); err != nil {
		return Page[Product]{}, errors.Wrap(err, "[Client.ListProducts]")
	}
	return page, nil
}

// GetProduct returns a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (Product, error) {
	var product Product
	if err := c.get(ctx, "/products/"+productID, nil, &product); err != nil {
		return Product{}, errors.Wrap(err, "[Client.GetProduct]")
	}
	return product, nil
}

// CreateProduct adds a product to the catalogue (admin).
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (Product, error) {
	if err := c.validate.ValidateProduct(req); err != nil {
		return Product{}, errors.Wrap(err, "[Client.CreateProduct]")
	}
	var product Product
	if err := c.post(ctx, "/products", req, &product); err != nil {
		return Product{}, errors.Wrap(err, "[Client.CreateProduct]")
	}
	return product, nil
}

// UpdateProduct overwrites a product (admin).
func (c *Client) UpdateProduct(ctx context.Context, productID string, req ProductRequest) (Product, error) {
	if err := c.validate.ValidateProduct(req); err != nil {
		return Product{}, errors.Wrap(err, "[Client.UpdateProduct]")
	}
	var product Product
	if err := c.put(ctx, "/products/"+productID, nil, req, &product); err != nil {
		return Product{}, errors.Wrap(err, "[Client.UpdateProduct]")
	}
	return product, nil
}

// DeleteProduct removes a product from the catalogue (admin).
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if err := c.delete(ctx, "/products/"+productID, nil); err != nil {
		return errors.Wrap(err, "[Client.DeleteProduct]")
	}
	return nil
}

// ListCategories returns all catalogue categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/categories", nil, &categories); err != nil {
		return nil, errors.Wrap(err, "[Client.ListCategories]")
	}
	return categories, nil
}

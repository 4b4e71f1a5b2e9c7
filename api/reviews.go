package api

import (
	"context"

	"github.com/pkg/errors"
)

// ReviewRequest submits a product review.
type ReviewRequest struct {
	Rating  int    `json:"rating"` // 1..5
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ListReviews returns a product's reviews.
func (c *Client) ListReviews(ctx context.Context, productID string) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, "/products/"+productID+"/reviews", nil, &reviews); err != nil {
		return nil, errors.Wrap(err, "[Client.ListReviews]")
	}
	return reviews, nil
}

// ReviewEligibility reports whether the current user may review the product
// (requires a delivered purchase).
func (c *Client) ReviewEligibility(ctx context.Context, productID string) (bool, error) {
	var eligible bool
	if err := c.get(ctx, "/products/"+productID+"/reviews/eligibility", nil, &eligible); err != nil {
		return false, errors.Wrap(err, "[Client.ReviewEligibility]")
	}
	return eligible, nil
}

// CreateReview posts a review for a product.
func (c *Client) CreateReview(ctx context.Context, productID string, req ReviewRequest) (Review, error) {
	if err := c.validate.ValidateReview(req); err != nil {
		return Review{}, errors.Wrap(err, "[Client.CreateReview]")
	}
	var review Review
	if err := c.post(ctx, "/products/"+productID+"/reviews", req, &review); err != nil {
		return Review{}, errors.Wrap(err, "[Client.CreateReview]")
	}
	return review, nil
}

// MarkReviewHelpful increments a review's helpful counter.
func (c *Client) MarkReviewHelpful(ctx context.Context, reviewID string) (Review, error) {
	var review Review
	if err := c.put(ctx, "/reviews/"+reviewID+"/helpful", nil, nil, &review); err != nil {
		return Review{}, errors.Wrap(err, "[Client.MarkReviewHelpful]")
	}
	return review, nil
}

// Package catalog ingests the product catalog export: it builds Product and
// Review records from raw CSV rows, assembles them into ordered batches, and
// persists each batch atomically with conflict-tolerant inserts.
package catalog

import (
	"errors"
	"strings"

	"catalogloader/internal/clean"
	"catalogloader/internal/csvutil"
	"catalogloader/internal/domain"
)

// Column names of the export.
const (
	colProductID          = "product_id"
	colProductName        = "product_name"
	colCategory           = "category"
	colDiscountedPrice    = "discounted_price"
	colActualPrice        = "actual_price"
	colDiscountPercentage = "discount_percentage"
	colRating             = "rating"
	colRatingCount        = "rating_count"
	colAboutProduct       = "about_product"
	colImgLink            = "img_link"
	colProductLink        = "product_link"
	colReviewID           = "review_id"
	colUserID             = "user_id"
	colUserName           = "user_name"
	colReviewTitle        = "review_title"
	colReviewContent      = "review_content"
)

// RowFailure ties one field-level validation error back to the source row.
type RowFailure struct {
	Line      int    `json:"row_ref"`
	ProductID string `json:"product_id,omitempty"`
	Field     string `json:"field"`
	Reason    string `json:"reason"`
}

// RowRecords is the build outcome for a single row. Product is nil when a
// required product field failed; Review is nil when the row carries no
// review_id, a required review field failed, or its product failed. HadReview
// tells those cases apart from a product-only row.
type RowRecords struct {
	Product   *domain.Product
	Review    *domain.Review
	HadReview bool
}

// BuildRow converts one raw row into records. It is a pure transformation:
// field errors are collected rather than short-circuited, so one bad row
// reports every bad cell at once.
func BuildRow(row csvutil.Row, policy clean.Policy) (RowRecords, []RowFailure) {
	var fails []RowFailure
	productID := strings.TrimSpace(row.Value(colProductID))

	fail := func(field, reason string) {
		fails = append(fails, RowFailure{Line: row.Line, ProductID: productID, Field: field, Reason: reason})
	}
	failErr := func(field string, err error) {
		var ve *clean.ValidationError
		if errors.As(err, &ve) {
			fail(ve.Field, ve.Reason)
			return
		}
		fail(field, err.Error())
	}

	p := domain.Product{
		ProductID:   productID,
		ProductName: row.Value(colProductName),
		Category:    row.Value(colCategory),
	}
	productFails := len(fails)
	if p.ProductID == "" {
		fail(colProductID, "missing value")
	}
	if strings.TrimSpace(p.ProductName) == "" {
		fail(colProductName, "missing value")
	}
	if strings.TrimSpace(p.Category) == "" {
		fail(colCategory, "missing value")
	}

	var err error
	if p.DiscountedPrice, err = clean.Price(colDiscountedPrice, row.Value(colDiscountedPrice), policy); err != nil {
		failErr(colDiscountedPrice, err)
	}
	if p.ActualPrice, err = clean.Price(colActualPrice, row.Value(colActualPrice), policy); err != nil {
		failErr(colActualPrice, err)
	}
	if p.DiscountPercentage, err = clean.Percent(colDiscountPercentage, row.Value(colDiscountPercentage), policy); err != nil {
		failErr(colDiscountPercentage, err)
	}
	if p.RatingCount, err = clean.Count(colRatingCount, row.Value(colRatingCount), policy); err != nil {
		failErr(colRatingCount, err)
	}
	p.Rating = clean.Rating(row.Value(colRating))
	p.AboutProduct = optional(row, colAboutProduct)
	p.ImgLink = optional(row, colImgLink)
	p.ProductLink = optional(row, colProductLink)

	out := RowRecords{}
	if len(fails) == productFails {
		out.Product = &p
	}

	if reviewID := strings.TrimSpace(row.Value(colReviewID)); reviewID != "" {
		out.HadReview = true
		rev := domain.Review{
			ReviewID:      reviewID,
			ProductID:     productID,
			UserID:        row.Value(colUserID),
			UserName:      row.Value(colUserName),
			ReviewTitle:   row.Value(colReviewTitle),
			ReviewContent: optional(row, colReviewContent),
		}
		reviewFails := len(fails)
		if strings.TrimSpace(rev.UserID) == "" {
			fail(colUserID, "missing value")
		}
		if strings.TrimSpace(rev.UserName) == "" {
			fail(colUserName, "missing value")
		}
		if strings.TrimSpace(rev.ReviewTitle) == "" {
			fail(colReviewTitle, "missing value")
		}
		// A failed product never reaches the store, so its review would
		// only bounce off the foreign key and roll back every good row in
		// the batch. Exclude it here and report the exclusion; the failure
		// lands in the summary and the skip log like any other.
		switch {
		case out.Product == nil:
			fail(colReviewID, "product row excluded")
		case len(fails) == reviewFails:
			out.Review = &rev
		}
	}

	return out, fails
}

// optional returns nil when the column is absent from the row, empty, or the
// export's "nan" marker; otherwise the cell as written.
func optional(row csvutil.Row, name string) *string {
	s, ok := row.Get(name)
	if !ok {
		return nil
	}
	if t := strings.TrimSpace(s); t == "" || strings.EqualFold(t, "nan") {
		return nil
	}
	return &s
}

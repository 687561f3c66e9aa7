package domain

// Product is the business object for one catalog listing. Numeric fields are
// already normalized; optional fields are pointers so "absent" reaches the
// store as NULL instead of a zero value.
type Product struct {
	ProductID          string
	ProductName        string
	Category           string
	DiscountedPrice    float64
	ActualPrice        float64
	DiscountPercentage int
	Rating             *float64
	RatingCount        int
	AboutProduct       *string
	ImgLink            *string
	ProductLink        *string
}

// Review is the business object for one customer review. ReviewContent is
// optional because some exports drop the column entirely.
type Review struct {
	ReviewID      string
	ProductID     string
	UserID        string
	UserName      string
	ReviewTitle   string
	ReviewContent *string
}

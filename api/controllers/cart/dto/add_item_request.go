package cartdto

import (
	"github.com/shopspring/decimal"

	"github.com/skillnotes/skillnotes-backend/internal/cart"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
)

// AddItemRequest is a product snapshot posted by the storefront.
type AddItemRequest struct {
	ID            cart.ProductID   `json:"id" validate:"required,max=64"`
	Title         string           `json:"title" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=2000"`
	Banner        string           `json:"banner" validate:"omitempty,max=2048"`
	Category      string           `json:"category" validate:"max=100"`
	FileType      string           `json:"fileType" validate:"max=20"`
	Price         decimal.Decimal  `json:"price" validate:"gte=0"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Rating        *float64         `json:"rating,omitempty" validate:"omitempty,gte=0,max=5"`
}

// ToItem converts the request into a cart snapshot.
func (r AddItemRequest) ToItem() (cart.Item, error) {
	if r.OriginalPrice != nil && r.OriginalPrice.IsNegative() {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"originalPrice": "must be greater than or equal to 0"})
	}
	return cart.Item{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Banner:        r.Banner,
		Category:      r.Category,
		FileType:      r.FileType,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Rating:        r.Rating,
	}, nil
}

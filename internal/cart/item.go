package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductID identifies a catalog product. Older storefront payloads carry numeric
// ids, so unmarshalling accepts either a JSON number or a string.
type ProductID string

func (id ProductID) String() string {
	return string(id)
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*id = ProductID(strings.TrimSpace(raw))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*id = ProductID(num.String())
	return nil
}

// Item is a snapshot of a product taken when it was added to the cart.
type Item struct {
	ID            ProductID        `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Banner        string           `json:"banner,omitempty"`
	Category      string           `json:"category,omitempty"`
	FileType      string           `json:"fileType,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Rating        *float64         `json:"rating,omitempty"`
}

func (i Item) clone() Item {
	out := i
	if i.OriginalPrice != nil {
		v := *i.OriginalPrice
		out.OriginalPrice = &v
	}
	if i.Rating != nil {
		v := *i.Rating
		out.Rating = &v
	}
	return out
}

// Savings is the display-only difference between the original and current price.
func (i Item) Savings() decimal.Decimal {
	if i.OriginalPrice == nil || i.OriginalPrice.LessThanOrEqual(i.Price) {
		return decimal.Zero
	}
	return i.OriginalPrice.Sub(i.Price)
}

// Subtotal sums item prices.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item.clone()
	}
	return out
}

func decodeItems(data []byte) ([]Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func encodeItems(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

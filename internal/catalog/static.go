package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/skillnotes/skillnotes-backend/internal/cart"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
)

//go:embed data/products.yaml
var defaultProducts []byte

// Product is a catalog entry as read from the fixture file.
type Product struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Banner        string   `yaml:"banner"`
	Category      string   `yaml:"category"`
	FileType      string   `yaml:"file_type"`
	Price         string   `yaml:"price"`
	OriginalPrice string   `yaml:"original_price"`
	Rating        *float64 `yaml:"rating"`
	Tags          []string `yaml:"tags"`
}

type fixture struct {
	Products []Product `yaml:"products"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

var _ cart.ProductLookup = (*Static)(nil)

// Static is a read-only catalog held in memory.
type Static struct {
	order []cart.ProductID
	items map[cart.ProductID]cart.Item
	tags  map[cart.ProductID][]string
}

// Default returns the catalog bundled with the binary.
func Default() (*Static, error) {
	return Parse(defaultProducts)
}

// Load reads a catalog fixture from path. An empty path yields Default.
func Load(path string) (*Static, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Static, error) {
	var doc fixture
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	s := &Static{
		items: make(map[cart.ProductID]cart.Item, len(doc.Products)),
		tags:  make(map[cart.ProductID][]string, len(doc.Products)),
	}
	for i, p := range doc.Products {
		item, err := p.toItem()
		if err != nil {
			return nil, fmt.Errorf("catalog product %d: %w", i, err)
		}
		if _, dup := s.items[item.ID]; dup {
			return nil, fmt.Errorf("catalog product %d: duplicate id %q", i, item.ID)
		}
		s.order = append(s.order, item.ID)
		s.items[item.ID] = item
		s.tags[item.ID] = p.Tags
	}
	return s, nil
}

func (p Product) toItem() (cart.Item, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return cart.Item{}, fmt.Errorf("id required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return cart.Item{}, fmt.Errorf("title required")
	}
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return cart.Item{}, fmt.Errorf("price %q: %w", p.Price, err)
	}
	if price.IsNegative() {
		return cart.Item{}, fmt.Errorf("price %q must not be negative", p.Price)
	}
	item := cart.Item{
		ID:          cart.ProductID(id),
		Title:       p.Title,
		Description: p.Description,
		Banner:      p.Banner,
		Category:    p.Category,
		FileType:    p.FileType,
		Price:       price,
		Rating:      p.Rating,
	}
	if p.OriginalPrice != "" {
		original, err := decimal.NewFromString(p.OriginalPrice)
		if err != nil {
			return cart.Item{}, fmt.Errorf("original price %q: %w", p.OriginalPrice, err)
		}
		item.OriginalPrice = &original
	}
	return item, nil
}

// GetProduct returns the cart snapshot for id.
func (s *Static) GetProduct(ctx context.Context, id cart.ProductID) (cart.Item, error) {
	item, ok := s.items[cart.ProductID(strings.TrimSpace(id.String()))]
	if !ok {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return copyItem(item), nil
}

// List returns products matching f in catalog order.
func (s *Static) List(ctx context.Context, f Filter) []cart.Item {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]cart.Item, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
			continue
		}
		if f.MinPrice != nil && item.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && item.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if search != "" && !s.matches(id, item, search) {
			continue
		}
		out = append(out, copyItem(item))
	}
	return out
}

func (s *Static) matches(id cart.ProductID, item cart.Item, search string) bool {
	if strings.Contains(strings.ToLower(item.Title), search) ||
		strings.Contains(strings.ToLower(item.Description), search) {
		return true
	}
	for _, tag := range s.tags[id] {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

func copyItem(item cart.Item) cart.Item {
	if item.OriginalPrice != nil {
		v := *item.OriginalPrice
		item.OriginalPrice = &v
	}
	if item.Rating != nil {
		v := *item.Rating
		item.Rating = &v
	}
	return item
}

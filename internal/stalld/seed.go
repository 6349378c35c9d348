package stalld

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	"webstall/internal/model"
)

//go:embed seed.toml
var defaultSeedTOML []byte

// seedFile is the top-level TOML structure of a catalog seed.
type seedFile struct {
	Product []seedProduct `toml:"product"`
}

// seedProduct defines one catalog row. A missing price marks the item
// as priceless.
type seedProduct struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Image       string `toml:"image"`
	Category    string `toml:"category"`
	Price       *int64 `toml:"price"`
}

// parseSeed parses TOML bytes into catalog items, validating the
// minimum each row needs.
func parseSeed(data []byte) ([]model.Item, error) {
	var sf seedFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(sf.Product) == 0 {
		return nil, fmt.Errorf("no products defined in seed")
	}
	items := make([]model.Item, 0, len(sf.Product))
	for i, p := range sf.Product {
		if p.ID == "" {
			return nil, fmt.Errorf("product[%d]: id is required", i)
		}
		if p.Title == "" {
			return nil, fmt.Errorf("product[%d] %q: title is required", i, p.ID)
		}
		cat := model.Category(p.Category)
		if cat == "" {
			cat = model.CategoryOther
		}
		items = append(items, model.Item{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Image:       p.Image,
			Category:    cat,
			Price:       p.Price,
		})
	}
	return items, nil
}

// Seed loads the embedded default catalog into an empty store. A store
// that already has products is left alone.
func Seed(ctx context.Context, store *Store) error {
	n, err := store.ProductCount(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	items, err := parseSeed(defaultSeedTOML)
	if err != nil {
		return err
	}
	for i, it := range items {
		if err := store.InsertProduct(ctx, it, i); err != nil {
			return err
		}
	}
	return nil
}

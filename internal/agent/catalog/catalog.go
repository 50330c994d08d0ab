// Package catalog loads the available menu for a session and renders it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/foodbook/orderbot/internal/agent/model"
	logx "github.com/foodbook/orderbot/pkg/logger"
)

// ErrUnavailable is returned when the source cannot be reached or returns
// rows missing required fields. No menu can be shown without a catalog, so
// callers treat it as fatal for the session being started.
var ErrUnavailable = errors.New("catalog unavailable")

// Column names used by the menu sheet and the menu_items table.
const (
	ColCategory     = "Category"
	ColItemName     = "Item Name"
	ColPrice        = "Price"
	ColAvailability = "Availability"
)

// Record is one raw catalog row, exactly as the source returned it.
type Record struct {
	Category     string
	ItemName     string
	Price        string
	Availability string
}

// Source fetches raw rows. Implementations must honour ctx cancellation.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// LoadAvailable fetches the catalog and keeps rows whose availability is "yes"
// (any case). Any fetch failure or malformed available row yields ErrUnavailable.
func LoadAvailable(ctx context.Context, src Source) (Menu, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrUnavailable)
	}
	rows, err := src.Fetch(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch menu catalog")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	menu := make(Menu, 0, len(rows))
	for i, r := range rows {
		if !strings.EqualFold(strings.TrimSpace(r.Availability), "yes") {
			continue
		}
		item, err := parseRecord(r)
		if err != nil {
			logx.Error().Err(err).Int("row", i).Msg("malformed menu row")
			return nil, fmt.Errorf("%w: row %d: %v", ErrUnavailable, i, err)
		}
		menu = append(menu, item)
	}

	logx.Debug().Int("rows", len(rows)).Int("available", len(menu)).Msg("menu catalog loaded")
	return menu, nil
}

func parseRecord(r Record) (model.MenuItem, error) {
	category := strings.TrimSpace(r.Category)
	name := strings.TrimSpace(r.ItemName)
	if category == "" {
		return model.MenuItem{}, fmt.Errorf("missing %s", ColCategory)
	}
	if name == "" {
		return model.MenuItem{}, fmt.Errorf("missing %s", ColItemName)
	}
	price, err := strconv.Atoi(strings.TrimSpace(r.Price))
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("invalid %s %q", ColPrice, r.Price)
	}
	if price < 0 {
		return model.MenuItem{}, fmt.Errorf("negative %s %d", ColPrice, price)
	}
	if price > model.MaxPrice {
		return model.MenuItem{}, fmt.Errorf("%s %d above %d", ColPrice, price, model.MaxPrice)
	}
	return model.MenuItem{Name: name, Category: category, Price: price, Available: true}, nil
}

// StaticSource serves a fixed set of rows. Useful for demos and tests.
type StaticSource []Record

func (s StaticSource) Fetch(context.Context) ([]Record, error) {
	return append([]Record(nil), s...), nil
}

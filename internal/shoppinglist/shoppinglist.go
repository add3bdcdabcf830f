// Package shoppinglist aggregates the quantified ingredients of every
// recipe in a user's cart into one list, and renders the downloadable
// text form of it.
package shoppinglist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
)

// Item is one aggregated line: the summed amount of a single ingredient
// across all cart recipes.
type Item struct {
	Name            string
	Total           int64
	MeasurementUnit string
}

type Aggregator struct {
	db database.Querier
}

func NewAggregator(db database.Querier) *Aggregator {
	return &Aggregator{db: db}
}

// Compile groups the recipe-ingredient rows of every recipe in the user's
// cart by ingredient identity and sums the amounts, so the same ingredient
// used by several recipes collapses into a single line. An empty cart is
// reported as ErrEmptyCart rather than an empty list.
func (a *Aggregator) Compile(ctx context.Context, userID int64) ([]Item, error) {
	count, err := a.db.CountCartEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting cart entries: %w", err)
	}
	if count == 0 {
		return nil, apperr.ErrEmptyCart
	}

	rows, err := a.db.GetCartIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating cart ingredients: %w", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{
			Name:            row.Name,
			Total:           row.Total,
			MeasurementUnit: row.MeasurementUnit,
		})
	}
	return items, nil
}

// Render produces the downloadable plain-text form: a date header followed
// by numbered `name - amount unit.` lines. The format is fixed; clients
// depend on it byte for byte.
func Render(items []Item, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Дата: %s\n", date.Format("02/01/2006"))
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s - %d %s.\n", i+1, item.Name, item.Total, item.MeasurementUnit)
	}
	return b.String()
}

// Filename names the attachment for a given user.
func Filename(username string) string {
	return username + "_items_to_buy.txt"
}

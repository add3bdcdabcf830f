package shoppinglist

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
)

func TestCompile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	aggregator := NewAggregator(mockDB)

	tests := []struct {
		name      string
		setup     func()
		wantItems []Item
		wantEmpty bool
		wantErr   bool
	}{
		{
			name: "ingredients shared across recipes collapse into one line",
			setup: func() {
				mockDB.EXPECT().
					CountCartEntries(gomock.Any(), int64(7)).
					Return(int64(2), nil)
				mockDB.EXPECT().
					GetCartIngredients(gomock.Any(), int64(7)).
					Return([]database.CartIngredientRow{
						{Name: "Картофель", MeasurementUnit: "г", Total: 700},
						{Name: "Лук", MeasurementUnit: "шт", Total: 3},
					}, nil)
			},
			wantItems: []Item{
				{Name: "Картофель", Total: 700, MeasurementUnit: "г"},
				{Name: "Лук", Total: 3, MeasurementUnit: "шт"},
			},
		},
		{
			name: "empty cart is an error, not an empty list",
			setup: func() {
				mockDB.EXPECT().
					CountCartEntries(gomock.Any(), int64(7)).
					Return(int64(0), nil)
			},
			wantEmpty: true,
		},
		{
			name: "store failure",
			setup: func() {
				mockDB.EXPECT().
					CountCartEntries(gomock.Any(), int64(7)).
					Return(int64(0), errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			items, err := aggregator.Compile(context.Background(), 7)

			if tt.wantEmpty {
				if !errors.Is(err, apperr.ErrEmptyCart) {
					t.Fatalf("expected ErrEmptyCart, got %v", err)
				}
				return
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != len(tt.wantItems) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.wantItems))
			}
			for i, item := range items {
				if item != tt.wantItems[i] {
					t.Errorf("item %d = %+v, want %+v", i, item, tt.wantItems[i])
				}
			}
		})
	}
}

func TestRender(t *testing.T) {
	items := []Item{
		{Name: "Картофель", Total: 700, MeasurementUnit: "г"},
		{Name: "Лук", Total: 3, MeasurementUnit: "шт"},
	}
	date := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	got := Render(items, date)
	want := "Дата: 05/03/2024\n" +
		"1. Картофель - 700 г.\n" +
		"2. Лук - 3 шт.\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	got := Render(nil, date)
	if got != "Дата: 05/03/2024\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("alice"); got != "alice_items_to_buy.txt" {
		t.Errorf("Filename() = %q", got)
	}
}

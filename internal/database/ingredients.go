package database

import "context"

const createIngredient = `INSERT INTO ingredients (name, measurement_unit)
VALUES ($1, $2)
RETURNING id, name, measurement_unit`

type CreateIngredientParams struct {
	Name            string
	MeasurementUnit string
}

func (q *Queries) CreateIngredient(ctx context.Context, arg CreateIngredientParams) (Ingredient, error) {
	row := q.db.QueryRow(ctx, createIngredient, arg.Name, arg.MeasurementUnit)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

const getIngredient = `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	row := q.db.QueryRow(ctx, getIngredient, id)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

// getIngredientsByIDs preserves no particular order; callers index by id.
const getIngredientsByIDs = `SELECT id, name, measurement_unit FROM ingredients
WHERE id = ANY($1::bigint[])`

func (q *Queries) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, getIngredientsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []Ingredient{}
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

const listIngredients = `SELECT id, name, measurement_unit FROM ingredients
WHERE $1 = '' OR name ILIKE $1 || '%'
ORDER BY name`

func (q *Queries) ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients, namePrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []Ingredient{}
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

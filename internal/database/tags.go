package database

import "context"

const createTag = `INSERT INTO tags (name, color, slug)
VALUES ($1, $2, $3)
RETURNING id, name, color, slug`

type CreateTagParams struct {
	Name  string
	Color string
	Slug  string
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	row := q.db.QueryRow(ctx, createTag, arg.Name, arg.Color, arg.Slug)
	var t Tag
	err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	return t, err
}

const getTag = `SELECT id, name, color, slug FROM tags WHERE id = $1`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	row := q.db.QueryRow(ctx, getTag, id)
	var t Tag
	err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	return t, err
}

const getTagsByIDs = `SELECT id, name, color, slug FROM tags WHERE id = ANY($1::bigint[])`

func (q *Queries) GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, getTagsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

const listTags = `SELECT id, name, color, slug FROM tags ORDER BY id`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

package database

import "context"

const createSubscription = `INSERT INTO subscriptions (follower_id, author_id) VALUES ($1, $2)`

type SubscriptionParams struct {
	FollowerID int64
	AuthorID   int64
}

func (q *Queries) CreateSubscription(ctx context.Context, arg SubscriptionParams) error {
	_, err := q.db.Exec(ctx, createSubscription, arg.FollowerID, arg.AuthorID)
	return err
}

const deleteSubscription = `DELETE FROM subscriptions WHERE follower_id = $1 AND author_id = $2`

func (q *Queries) DeleteSubscription(ctx context.Context, arg SubscriptionParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteSubscription, arg.FollowerID, arg.AuthorID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const isSubscribed = `SELECT EXISTS (
	SELECT FROM subscriptions WHERE follower_id = $1 AND author_id = $2
)`

func (q *Queries) IsSubscribed(ctx context.Context, arg SubscriptionParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, isSubscribed, arg.FollowerID, arg.AuthorID).Scan(&exists)
	return exists, err
}

const listSubscribedAuthors = `SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.created_at
FROM users u
JOIN subscriptions s ON s.author_id = u.id
WHERE s.follower_id = $1
ORDER BY u.id
LIMIT $2 OFFSET $3`

type ListSubscribedAuthorsParams struct {
	FollowerID int64
	Limit      int32
	Offset     int32
}

func (q *Queries) ListSubscribedAuthors(ctx context.Context, arg ListSubscribedAuthorsParams) ([]User, error) {
	rows, err := q.db.Query(ctx, listSubscribedAuthors, arg.FollowerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName,
			&u.LastName, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		authors = append(authors, u)
	}
	return authors, rows.Err()
}

const countSubscribedAuthors = `SELECT count(*) FROM subscriptions WHERE follower_id = $1`

func (q *Queries) CountSubscribedAuthors(ctx context.Context, followerID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countSubscribedAuthors, followerID).Scan(&count)
	return count, err
}

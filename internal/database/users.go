package database

import (
	"context"
)

const createUser = `INSERT INTO users (email, username, first_name, last_name, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, username, first_name, last_name, password_hash, created_at`

type CreateUserParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Email, arg.Username, arg.FirstName, arg.LastName, arg.PasswordHash)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName,
		&u.LastName, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByID = `SELECT id, email, username, first_name, last_name, password_hash, created_at
FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName,
		&u.LastName, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `SELECT id, email, username, first_name, last_name, password_hash, created_at
FROM users WHERE lower(email) = lower($1)`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName,
		&u.LastName, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const listUsers = `SELECT id, email, username, first_name, last_name, password_hash, created_at
FROM users ORDER BY id LIMIT $1 OFFSET $2`

type ListUsersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName,
			&u.LastName, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const countUsers = `SELECT count(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countUsers).Scan(&count)
	return count, err
}

const updateUserPassword = `UPDATE users SET password_hash = $2 WHERE id = $1`

type UpdateUserPasswordParams struct {
	ID           int64
	PasswordHash string
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.Exec(ctx, updateUserPassword, arg.ID, arg.PasswordHash)
	return err
}

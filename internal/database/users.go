package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shareit/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := db.q.Rebind(`INSERT INTO users (name, email) VALUES (?, ?) RETURNING id`)
	if err := sqlx.GetContext(ctx, db.q, &user.ID, query, user.Name, user.Email); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if cached, ok := db.users.Get(id); ok {
		return &cached, nil
	}

	var user models.User
	query := db.q.Rebind(`SELECT id, name, email FROM users WHERE id = ?`)
	if err := sqlx.GetContext(ctx, db.q, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", notFound(err))
	}

	// Rows read inside a transaction are cached once it commits.
	if db.readUsers != nil {
		*db.readUsers = append(*db.readUsers, user)
	} else {
		db.users.Add(id, user)
	}
	return &user, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := sqlx.SelectContext(ctx, db.q, &users, `SELECT id, name, email FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := db.q.Rebind(`UPDATE users SET name = ?, email = ? WHERE id = ?`)
	result, err := db.q.ExecContext(ctx, query, user.Name, user.Email, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	db.markUserDirty(user.ID)

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. Deleting a missing user is not an error.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	query := db.q.Rebind(`DELETE FROM users WHERE id = ?`)
	if _, err := db.q.ExecContext(ctx, query, id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferencedByRow
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	db.markUserDirty(id)
	return nil
}

func (db *DB) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := db.q.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`)
	if err := sqlx.GetContext(ctx, db.q, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/authkit/authkit-go/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// usersSchema creates the users table. The unique index on email is what makes
// Insert atomic across concurrent registrations.
const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id            CHAR(26)     NOT NULL PRIMARY KEY,
		email         VARCHAR(320) NOT NULL,
		password_hash VARCHAR(72)  NOT NULL,
		created_at    DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_users_email (email)
	)`

// MySQLUserStore handles user persistence in MySQL.
type MySQLUserStore struct {
	db *sql.DB
}

// NewMySQLUserStore creates a new MySQLUserStore.
func NewMySQLUserStore(db *sql.DB) *MySQLUserStore {
	return &MySQLUserStore{db: db}
}

// EnsureSchema creates the users table if it does not exist.
func (r *MySQLUserStore) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, usersSchema)
	return err
}

// Insert stores a new user. The email is lowercased before it is written.
func (r *MySQLUserStore) Insert(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`

	user.Email = NormalizeEmail(user.Email)
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by their email address.
func (r *MySQLUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, NormalizeEmail(email)))
}

// FindByID retrieves a user by their ID.
func (r *MySQLUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// List retrieves all users ordered by id, which sorts by creation time.
func (r *MySQLUserStore) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (r *MySQLUserStore) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

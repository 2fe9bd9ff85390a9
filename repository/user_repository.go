package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"crimesafenet/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = fmt.Errorf("email already registered")

// Create inserts a new user. The role is fixed at creation; there is no
// update path for it.
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, location, phone)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Location,
		user.Phone,
	)
	if err != nil {
		// MySQL error 1062: duplicate entry for the unique email index.
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}

	user.ID = userID
	return nil
}

// GetByEmail retrieves a user by email, or nil if absent.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`WHERE email = ?`, email)
}

// GetByID retrieves a user by ID, or nil if absent.
func (r *UserRepository) GetByID(userID int64) (*models.User, error) {
	return r.getOne(`WHERE id = ?`, userID)
}

func (r *UserRepository) getOne(where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, location, phone, verified, created_at, updated_at
		FROM users ` + where + ` LIMIT 1`

	user := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Location,
		&user.Phone,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Exists reports whether a user with the given ID is registered.
func (r *UserRepository) Exists(userID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

package service

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimesafenet/models"
	"crimesafenet/repository"
	"crimesafenet/utils"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAuthService(repository.NewUserRepository(db), testSecret, 720), mock
}

func userRows(t *testing.T, id int64, email, password string, role models.Role) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role", "location", "phone",
		"verified", "created_at", "updated_at",
	}).AddRow(id, "Alice", email, hash, string(role), nil, nil, false, now, now)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("Alice", "alice@example.com", sqlmock.AnyArg(), "citizen", nil, nil).
			WillReturnResult(sqlmock.NewResult(3, 1))

		resp, err := svc.Register(&models.RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret1",
			Role:     "citizen",
		})
		require.NoError(t, err)
		assert.Equal(t, "Registration successful", resp.Message)
		assert.Equal(t, int64(3), resp.User.ID)
		assert.Equal(t, models.RoleCitizen, resp.User.Role)
		assert.NotEmpty(t, resp.Token)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShortPassword", func(t *testing.T) {
		svc, mock := newAuthService(t)

		_, err := svc.Register(&models.RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "abc",
			Role:     "citizen",
		})
		assert.True(t, errors.Is(err, ErrValidation))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownRole", func(t *testing.T) {
		svc, mock := newAuthService(t)

		_, err := svc.Register(&models.RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret1",
			Role:     "admin",
		})
		assert.True(t, errors.Is(err, ErrValidation))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(fmt.Errorf("Error 1062: Duplicate entry 'alice@example.com' for key 'users.email'"))

		_, err := svc.Register(&models.RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret1",
			Role:     "citizen",
		})
		assert.True(t, errors.Is(err, ErrDuplicateEmail))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash")).
			WithArgs("alice@example.com").
			WillReturnRows(userRows(t, 3, "alice@example.com", "secret1", models.RoleOfficer))

		resp, err := svc.Login(&models.LoginRequest{Email: "alice@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "Login successful", resp.Message)

		// The token carries the identity claims the middleware reads back.
		token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, float64(3), claims["id"])
		assert.Equal(t, "alice@example.com", claims["email"])
		assert.Equal(t, "officer", claims["role"])

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash")).
			WithArgs("alice@example.com").
			WillReturnRows(userRows(t, 3, "alice@example.com", "secret1", models.RoleCitizen))

		_, err := svc.Login(&models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash")).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

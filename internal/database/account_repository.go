package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// AccountRepository handles database operations for the accounts table
type AccountRepository struct {
	db DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new portal account
func (r *AccountRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, full_name, roles, status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at, updated_at
	`

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Status == "" {
		account.Status = models.AccountStatusActive
	}
	if len(account.Roles) == 0 {
		account.Roles = models.StringArray{models.RoleUser}
	}

	err := r.db.QueryRow(
		query,
		account.ID, account.Email, account.PasswordHash, account.FullName, account.Roles, account.Status,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, full_name, roles, status,
			   last_login_at, created_at, updated_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`

	return r.scanAccount(r.db.QueryRow(query, email))
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(accountID uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, full_name, roles, status,
			   last_login_at, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	return r.scanAccount(r.db.QueryRow(query, accountID))
}

// AddRole appends a role to the account's role set if absent
func (r *AccountRepository) AddRole(accountID uuid.UUID, role string) error {
	query := `
		UPDATE accounts
		SET roles = array_append(roles, $2), updated_at = NOW()
		WHERE id = $1
		  AND NOT ($2 = ANY(roles))
	`

	// Zero rows affected is fine: the account already holds the role
	if _, err := r.db.Exec(query, accountID, role); err != nil {
		return fmt.Errorf("failed to add account role: %w", err)
	}

	return nil
}

// TouchLastLogin records a successful sign-in
func (r *AccountRepository) TouchLastLogin(accountID uuid.UUID) error {
	query := `
		UPDATE accounts
		SET last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(query, accountID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// scanAccount scans a single account
func (r *AccountRepository) scanAccount(row scanner) (*models.Account, error) {
	account := &models.Account{}
	var lastLogin sql.NullTime

	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.FullName, &account.Roles, &account.Status,
		&lastLogin, &account.CreatedAt, &account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	if lastLogin.Valid {
		account.LastLoginAt = &lastLogin.Time
	}

	return account, nil
}

package sqlstore

import (
	"context"
	"fmt"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

const userColumns = `id, email, password_hash, name, bio, is_active, is_superuser, created_on`

// userRepository implements repository.UserRepository.
type userRepository struct {
	s *Store
}

// NewUserRepository creates a new user repository.
func NewUserRepository(s *Store) repository.UserRepository {
	return &userRepository{s: s}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var createdOn timeScanner

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Bio,
		&user.IsActive,
		&user.IsSuperuser,
		&createdOn,
	)
	if err != nil {
		return nil, err
	}

	user.CreatedOn = createdOn.t
	return user, nil
}

// activeFilter appends the is_active condition for filtered scopes.
func activeFilter(where string, args []any, scope repository.Scope) (string, []any) {
	if !scope.Filtered() {
		return where, args
	}
	if where == "" {
		return "WHERE is_active = ?", append(args, true)
	}
	return where + " AND is_active = ?", append(args, true)
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, name, bio, is_active, is_superuser, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.s.queryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Bio,
		user.IsActive,
		user.IsSuperuser,
		user.CreatedOn.UTC(),
	).Scan(&user.ID)

	if err != nil {
		if r.s.isUniqueViolation(err) {
			return domain.NewDomainError(domain.ErrEmailTaken, "unique constraint rejected insert", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64, scope repository.Scope) (*domain.User, error) {
	where, args := activeFilter("WHERE id = ?", []any{id}, scope)

	user, err := scanUser(r.s.queryRow(ctx, `SELECT `+userColumns+` FROM users `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string, scope repository.Scope) (*domain.User, error) {
	where, args := activeFilter("WHERE email = ?", []any{email}, scope)

	user, err := scanUser(r.s.queryRow(ctx, `SELECT `+userColumns+` FROM users `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// ExistsByEmail checks if a user with the given email exists.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.s.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// Update updates an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = ?, password_hash = ?, name = ?, bio = ?, is_active = ?, is_superuser = ?
		WHERE id = ?
	`

	result, err := r.s.exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Bio,
		user.IsActive,
		user.IsSuperuser,
		user.ID,
	)
	if err != nil {
		if r.s.isUniqueViolation(err) {
			return domain.NewDomainError(domain.ErrEmailTaken, "unique constraint rejected update", user.Email)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// SoftDelete marks a user inactive.
func (r *userRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.s.exec(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, false, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// List returns users with pagination.
func (r *userRepository) List(ctx context.Context, scope repository.Scope, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	where, args := activeFilter("", nil, scope)

	var total int64
	if err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.s.query(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, opts.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return &repository.ListResult[domain.User]{
		Items:  users,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)

package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
	"webservicepoc/src/infra/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UsersStore persists accounts created by the OAuth2 login.
type UsersStore interface {
	FindByEmail(ctx context.Context, email string) (entities.User, error)
	Save(ctx context.Context, user entities.User) (entities.User, error)
}

var usersColumns = strings.Join(postgres.UsersTable.ColumnNames(), ", ")

type UsersRepository struct {
	pool *pgxpool.Pool
}

func NewUsersRepository(pool *pgxpool.Pool) *UsersRepository {
	return &UsersRepository{pool: pool}
}

func (r *UsersRepository) FindByEmail(ctx context.Context, email string) (entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, usersColumns)

	var user entities.User
	var picture *string
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&picture,
		&user.Role,
		&user.CreatedDate,
		&user.ModifiedDate,
	)
	if postgres.IsNoRows(err) {
		return entities.User{}, fmt.Errorf("UsersRepository.FindByEmail - %s: %w", email, domain.ErrUserNotFound)
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("UsersRepository.FindByEmail - failed to query: %w", err)
	}

	user.Picture = postgres.StringOrEmpty(picture)
	return user, nil
}

// Save inserts a new account or, for an existing id, rewrites the profile
// and role.
func (r *UsersRepository) Save(ctx context.Context, user entities.User) (entities.User, error) {
	if err := user.Validate(); err != nil {
		return entities.User{}, err
	}

	if user.ID == 0 {
		query := `
			INSERT INTO users (name, email, picture, role)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_date, modified_date`

		err := r.pool.QueryRow(ctx, query, user.Name, user.Email, postgres.NullString(user.Picture), user.Role).
			Scan(&user.ID, &user.CreatedDate, &user.ModifiedDate)
		if postgres.IsUniqueViolation(err) {
			return entities.User{}, fmt.Errorf("UsersRepository.Save - email %s already registered: %w", user.Email, domain.ErrValidation)
		}
		if err != nil {
			return entities.User{}, fmt.Errorf("UsersRepository.Save - failed to insert: %w", err)
		}
		return user, nil
	}

	query := `
		UPDATE users
		SET name = $2, picture = $3, role = $4, modified_date = NOW()
		WHERE id = $1
		RETURNING created_date, modified_date`

	err := r.pool.QueryRow(ctx, query, user.ID, user.Name, postgres.NullString(user.Picture), user.Role).
		Scan(&user.CreatedDate, &user.ModifiedDate)
	if postgres.IsNoRows(err) {
		return entities.User{}, fmt.Errorf("UsersRepository.Save - id=%d: %w", user.ID, domain.ErrUserNotFound)
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("UsersRepository.Save - failed to update %d: %w", user.ID, err)
	}

	return user, nil
}

// MemoryUsersRepository is the in-process UsersStore.
type MemoryUsersRepository struct {
	mu      sync.RWMutex
	byEmail map[string]entities.User
	nextID  int64
}

func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{byEmail: make(map[string]entities.User)}
}

func (r *MemoryUsersRepository) FindByEmail(ctx context.Context, email string) (entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return entities.User{}, fmt.Errorf("MemoryUsersRepository.FindByEmail - %s: %w", email, domain.ErrUserNotFound)
	}
	return user, nil
}

func (r *MemoryUsersRepository) Save(ctx context.Context, user entities.User) (entities.User, error) {
	if err := user.Validate(); err != nil {
		return entities.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, exists := r.byEmail[user.Email]

	if user.ID == 0 {
		if exists {
			return entities.User{}, fmt.Errorf("MemoryUsersRepository.Save - email %s already registered: %w", user.Email, domain.ErrValidation)
		}
		r.nextID++
		user.ID = r.nextID
		user.BaseTime = entities.BaseTime{}
		user.Touch(now)
		r.byEmail[user.Email] = user
		return user, nil
	}

	if !exists || existing.ID != user.ID {
		return entities.User{}, fmt.Errorf("MemoryUsersRepository.Save - id=%d: %w", user.ID, domain.ErrUserNotFound)
	}

	user.BaseTime = existing.BaseTime
	user.Touch(now)
	r.byEmail[user.Email] = user
	return user, nil
}

var (
	_ UsersStore = (*UsersRepository)(nil)
	_ UsersStore = (*MemoryUsersRepository)(nil)
)

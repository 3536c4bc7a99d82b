package manager

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
)

// UserManager handles central-domain accounts.
type UserManager struct {
	repo repo.Repo
}

func NewUserManager(repo repo.Repo) *UserManager {
	return &UserManager{repo: repo}
}

// Register creates a central account with a bcrypt password hash.
func (m *UserManager) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Wrap(ErrHashingPassword, err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}

	err = m.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a central login. Unknown emails and wrong passwords
// return the same error so the endpoint does not leak which emails exist.
func (m *UserManager) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user := &model.User{}

	found, err := m.repo.First(ctx, user, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.EmailField, email))))
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	return user, nil
}

// GetUser loads a central account by ID.
func (m *UserManager) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user := &model.User{}

	found, err := m.repo.First(ctx, user, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, userID))))
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, repo.ErrNotFound
	}

	return user, nil
}

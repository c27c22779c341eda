package service

import (
	"context"
	"errors"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/middleware"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  repo.User
	jwtSecret []byte
}

func NewAuthService(repos *repo.Repositories, jwtSecret []byte) *AuthService {
	return &AuthService{
		userRepo:  repos.User,
		jwtSecret: jwtSecret,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *entity.UserOutputModel, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	id, err := s.userRepo.CreateUser(ctx, &entity.CreateUserInput{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repo_errors.ErrEmailTaken) {
			return "", nil, ErrEmailTaken
		}

		return "", nil, err
	}

	user, err := s.userRepo.GetUserById(ctx, id.String())
	if err != nil {
		return "", nil, err
	}

	token, err := middleware.NewToken(user.Id.String(), user.Name, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, mapUser(user), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.UserOutputModel, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := middleware.NewToken(user.Id.String(), user.Name, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, mapUser(user), nil
}

func (s *AuthService) GetUserById(ctx context.Context, userId string) (*entity.UserOutputModel, error) {
	user, err := s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return mapUser(user), nil
}

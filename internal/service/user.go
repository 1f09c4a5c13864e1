package service

import (
	"context"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *service) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	_, err := s.repo.FindUserByUsername(ctx, req.Username)
	if err == nil {
		return nil, NewValidationError("username", "a user with that username already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    req.Username,
		Password:    hash,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Region:      req.Region,
		IsDriver:    req.IsDriver,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
		IsActive:    true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	s.log.WithField("username", user.Username).Info("User created")
	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, id uint, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Username != nil && *req.Username != user.Username {
		_, err := s.repo.FindUserByUsername(ctx, *req.Username)
		if err == nil {
			return nil, NewValidationError("username", "a user with that username already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		user.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Region != nil {
		user.Region = *req.Region
	}
	if req.IsDriver != nil {
		user.IsDriver = *req.IsDriver
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if deactivate(user) {
		return s.repo.UpdateUser(ctx, user)
	}
	return nil
}

func (s *service) ListDrivers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListDrivers(ctx)
}

func (s *service) SearchEmployees(ctx context.Context, params repository.EmployeeSearchParams) ([]*models.User, int, error) {
	users, total, err := s.repo.SearchEmployees(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return users, repository.TotalPages(total, params.PageSize), nil
}

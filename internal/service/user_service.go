package service

import (
	"context"
	"errors"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/pkg"
	"Orbit_Social/internal/repository/mysql"
	"Orbit_Social/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errs.Validation("username, email and password required")
	ErrUsernameTaken      = errs.Conflict("username already exists")
	ErrEmailTaken         = errs.Conflict("email already exists")
	ErrInvalidCredentials = errs.Validation("invalid username or password")
	ErrOldPasswordWrong   = errs.Validation("old password is incorrect")
)

// ProfileUpdate carries the optional fields of a profile update.
type ProfileUpdate struct {
	Username          *string
	Email             *string
	Bio               *string
	ProfilePictureURL *string
	IsPrivate         *bool
}

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	emailSvc *EmailService
}

func NewUserService(repo *mysql.UserRepository, rUser *redis.UserRepository, emailSvc *EmailService) *UserService {
	return &UserService{repo: repo, rUser: rUser, emailSvc: emailSvc}
}

// Register creates an account after the email verification code checks out.
func (s *UserService) Register(ctx context.Context, username, email, password, code string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.emailSvc.VerifyCode(ScopeRegister, email, code); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, mysql.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mysql.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login accepts a username or an email. On success the access token is
// pinned in redis, invalidating any prior session.
func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, *model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, mysql.ErrUserNotFound) {
		user, err = s.repo.FindByEmail(ctx, username)
	}
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := pkg.GeneratePair(user.ID, user.Username)
	if err != nil {
		return nil, nil, err
	}
	if err := s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

func (s *UserService) Logout(userID uint64) error {
	return s.rUser.DeleteUserToken(userID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword requires the old password and drops the active session.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return ErrOldPasswordWrong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	return s.Logout(userID)
}

// ResetPassword sets a new password after verifying the reset code that was
// mailed out.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if _, err := s.emailSvc.VerifyCode(ScopeReset, email, code); err != nil {
		return err
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *UserService) GetUser(ctx context.Context, userID uint64) (*model.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// UpdateProfile applies the provided fields, re-checking username/email
// uniqueness when they change.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, update ProfileUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil && *update.Username != user.Username {
		if *update.Username == "" {
			return nil, ErrMissingFields
		}
		if _, err := s.repo.FindByUsername(ctx, *update.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, mysql.ErrUserNotFound) {
			return nil, err
		}
		user.Username = *update.Username
	}
	if update.Email != nil && *update.Email != user.Email {
		if *update.Email == "" {
			return nil, ErrMissingFields
		}
		if _, err := s.repo.FindByEmail(ctx, *update.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, mysql.ErrUserNotFound) {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.ProfilePictureURL != nil {
		user.ProfilePictureURL = *update.ProfilePictureURL
	}
	if update.IsPrivate != nil {
		user.IsPrivate = *update.IsPrivate
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything referencing it, then drops
// the session.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.rUser.DeleteUserToken(userID)
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/address"
	"github.com/example/goshop/internal/datamodels/user"
	applog "github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/repository"
	"github.com/example/goshop/internal/validation"
)

// PasswordHasher 和 TokenIssuer 由 auth.Service 实现
type PasswordHasher interface {
	HashPassword(pw string) (string, error)
	VerifyPassword(hash, pw string) bool
}

type TokenIssuer interface {
	IssueToken(userID, email string) (string, error)
}

type Authenticator interface {
	PasswordHasher
	TokenIssuer
}

// UserService 用户与收货地址
type UserService struct {
	store  repository.Store
	auth   Authenticator
	logger *zap.Logger
}

func NewUserService(store repository.Store, auth Authenticator, logger *zap.Logger) *UserService {
	logger = applog.OrNop(logger)
	return &UserService{store: store, auth: auth, logger: logger}
}

// NewUser 注册参数
type NewUser struct {
	FullName string    `validate:"required"`
	Email    string    `validate:"required,email"`
	Password string    `validate:"required,password"`
	Role     user.Role `validate:"omitempty,oneof=admin user"`
}

// CreateUser 校验邮箱与密码后创建用户，角色缺省为 user
func (s *UserService) CreateUser(ctx context.Context, in NewUser) (*user.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = user.RoleUser
	}

	if _, err := s.store.Users().GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflictf("email %s already registered", in.Email)
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		FullName: in.FullName,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

// AuthenticateUser 校验凭据并签发 token
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return "", nil, apperr.Unauthorizedf("invalid email or password")
		}
		return "", nil, err
	}
	if !s.auth.VerifyPassword(u.Password, password) {
		return "", nil, apperr.Unauthorizedf("invalid email or password")
	}
	token, err := s.auth.IssueToken(u.ID, u.Email)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*user.User, error) {
	return s.store.Users().List(ctx, offset, limit)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

// UpdateUser 传入的字段覆盖原值，邮箱和密码按注册规则校验
func (s *UserService) UpdateUser(ctx context.Context, id string, upd user.Update) (*user.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return nil, apperr.InvalidInputf("full_name must not be empty")
		}
		u.FullName = name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if err := validation.Email(email); err != nil {
			return nil, err
		}
		if email != u.Email {
			if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
				return nil, apperr.Conflictf("email %s already registered", email)
			} else if !apperr.IsKind(err, apperr.NotFound) {
				return nil, err
			}
		}
		u.Email = email
	}
	if upd.Password != nil {
		if err := validation.Password(*upd.Password); err != nil {
			return nil, err
		}
		hash, err := s.auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser 返回被删除的用户
func (s *UserService) DeleteUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetUserAddresses(ctx context.Context, userID string) ([]*address.Address, error) {
	return s.store.Addresses().ListByUser(ctx, userID)
}

// NewAddress 新建地址，全部字段必填
type NewAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

func (s *UserService) CreateAddress(ctx context.Context, ownerID string, in NewAddress) (*address.Address, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.store.Users().GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	a := &address.Address{
		UserID:     ownerID,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
	}
	if err := s.store.Addresses().Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAddress 地址不存在或不属于 ownerID 时返回 NotFound
func (s *UserService) UpdateAddress(ctx context.Context, id, ownerID string, upd address.Update) (*address.Address, error) {
	a, err := s.store.Addresses().GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	upd.Apply(a)
	if err := s.store.Addresses().Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *UserService) DeleteAddress(ctx context.Context, id, ownerID string) (*address.Address, error) {
	a, err := s.store.Addresses().GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Addresses().Delete(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return a, nil
}

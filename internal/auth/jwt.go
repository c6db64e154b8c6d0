package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/config"
	applog "github.com/example/goshop/internal/logger"
)

const issuer = "goshop"

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service 密码哈希与 JWT 签发校验
type Service struct {
	secret []byte
	ttl    time.Duration
	cache  *TokenCache
	logger *zap.Logger
	now    func() time.Time
}

// NewService cache 可以为 nil
func NewService(cfg config.JWTConfig, cache *TokenCache, logger *zap.Logger) *Service {
	logger = applog.OrNop(logger)
	return &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL(),
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// HashPassword bcrypt 哈希
func (s *Service) HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword 校验明文与哈希是否匹配
func (s *Service) VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// IssueToken 签发 HS256 token
func (s *Service) IssueToken(userID, email string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken 先查缓存，未命中再校验签名
func (s *Service) ParseToken(ctx context.Context, tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, apperr.Unauthorizedf("missing token")
	}
	if revoked, err := s.cache.Revoked(ctx, tokenStr); err != nil {
		s.logger.Warn("token revocation check failed", zap.Error(err))
	} else if revoked {
		return nil, apperr.Unauthorizedf("token revoked")
	}
	if claims, ok, err := s.cache.Get(ctx, tokenStr); err != nil {
		s.logger.Warn("token cache get failed", zap.Error(err))
	} else if ok {
		return claims, nil
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.Unauthorized, err, "token expired")
		}
		return nil, apperr.Wrap(apperr.Unauthorized, err, "invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperr.Unauthorizedf("invalid token claims")
	}

	if err := s.cache.Set(ctx, tokenStr, claims); err != nil {
		s.logger.Warn("token cache set failed", zap.Error(err))
	}
	return claims, nil
}

// RevokeToken 注销 token，未配置 Redis 时 token 仍然有效直到过期
func (s *Service) RevokeToken(ctx context.Context, tokenStr string) error {
	claims, err := s.ParseToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if err := s.cache.Revoke(ctx, tokenStr, claims); err != nil {
		return apperr.Wrap(apperr.Internal, err, "revoke token")
	}
	s.logger.Info("token revoked", zap.String("user_id", claims.UserID))
	return nil
}

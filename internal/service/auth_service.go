package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/wpshift/membership_go_server/config"
	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("用户名或密码错误")

// 管理端 token 中的固定用户 ID，管理员账号在配置里而不在库里
const adminUserID = 1

type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// Login 管理员登录，校验通过返回 JWT token
func (s *AuthService) Login(username, password string) (*dto.LoginResponse, error) {
	if username != s.cfg.Admin.Username {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(adminUserID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: s.cfg.JWT.ExpireHours * 3600,
	}, nil
}

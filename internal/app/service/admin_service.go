package service

import (
	"errors"

	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/belugagoods/storefront-backend/pkg/util"
)

var (
	ErrAdminDisabled        = errors.New("admin login is disabled")
	ErrInvalidAdminPassword = errors.New("invalid admin password")
)

type AdminLoginInput struct {
	Password string `json:"password" binding:"required"`
}

type AdminService interface {
	Enabled() bool
	VerifyPassword(password string) error
}

type adminService struct {
	password string
}

// NewAdminService gates the admin panel behind one configured password. An
// empty password turns the password login off.
func NewAdminService(password string) AdminService {
	return &adminService{password: password}
}

func (s *adminService) Enabled() bool {
	return s.password != ""
}

func (s *adminService) VerifyPassword(password string) error {
	if !s.Enabled() {
		return ErrAdminDisabled
	}
	if !util.SecretEqual(s.password, password) {
		logger.Warn("Admin login rejected")
		return ErrInvalidAdminPassword
	}
	return nil
}

package service

import (
	"strings"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
)

type InquiryInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

type InquiryService interface {
	Submit(input InquiryInput) (*model.Inquiry, error)
}

type inquiryService struct {
	repo repository.InquiryRepository
}

func NewInquiryService(repo repository.InquiryRepository) InquiryService {
	return &inquiryService{repo: repo}
}

func (s *inquiryService) Submit(input InquiryInput) (*model.Inquiry, error) {
	inquiry := &model.Inquiry{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  model.InquiryStatusOpen,
	}
	if err := s.repo.Create(inquiry); err != nil {
		return nil, err
	}

	logger.Info("Inquiry received", map[string]interface{}{
		"inquiry_id": inquiry.ID,
	})
	return inquiry, nil
}

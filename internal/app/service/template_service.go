package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
)

var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateUnavailable  = errors.New("template file is not available for download")
	ErrInvalidTemplateBadge = errors.New("template status must be HOT, NEW or empty")
)

// URLSigner issues time-limited download links for stored files.
type URLSigner interface {
	PresignDownload(ctx context.Context, key string) (string, error)
}

type TemplateInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	TitleKo     string `json:"title_ko" binding:"required,max=200"`
	Description string `json:"description"`
	Format      string `json:"format" binding:"required,oneof=PNG PSD AI PDF SVG png psd ai pdf svg"`
	FileKey     string `json:"file_key" binding:"required,max=500"`
	PreviewURL  string `json:"preview_url" binding:"omitempty,url"`
	Status      string `json:"status"`
}

type DownloadLink struct {
	URL       string `json:"url"`
	Downloads int    `json:"downloads"`
}

type TemplateService interface {
	ListTemplates(status string) ([]model.BelugaTemplate, error)
	GetTemplate(id uint) (*model.BelugaTemplate, error)
	CreateTemplate(input TemplateInput) (*model.BelugaTemplate, error)
	Download(ctx context.Context, id uint) (*DownloadLink, error)
	RefreshStatuses(hotCount int, newWindow time.Duration) (int64, error)
}

type templateService struct {
	repo   repository.TemplateRepository
	signer URLSigner
	now    func() time.Time
}

// NewTemplateService builds the catalog service. Without a signer templates
// can be browsed but not downloaded.
func NewTemplateService(repo repository.TemplateRepository, signer URLSigner) TemplateService {
	return &templateService{repo: repo, signer: signer, now: time.Now}
}

func (s *templateService) ListTemplates(status string) ([]model.BelugaTemplate, error) {
	var filter *model.TemplateStatus
	if strings.TrimSpace(status) != "" {
		st, err := model.ParseTemplateStatus(status)
		if err != nil {
			return nil, ErrInvalidTemplateBadge
		}
		filter = &st
	}

	templates, err := s.repo.FindAll(filter)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []model.BelugaTemplate{}
	}
	return templates, nil
}

func (s *templateService) GetTemplate(id uint) (*model.BelugaTemplate, error) {
	tmpl, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFoundAs(err, ErrTemplateNotFound)
	}
	return tmpl, nil
}

func (s *templateService) CreateTemplate(input TemplateInput) (*model.BelugaTemplate, error) {
	status, err := model.ParseTemplateStatus(input.Status)
	if err != nil {
		return nil, ErrInvalidTemplateBadge
	}

	tmpl := &model.BelugaTemplate{
		Title:       strings.TrimSpace(input.Title),
		TitleKo:     strings.TrimSpace(input.TitleKo),
		Description: input.Description,
		Format:      strings.ToUpper(input.Format),
		FileKey:     input.FileKey,
		PreviewURL:  input.PreviewURL,
		Status:      status,
	}
	if err := s.repo.Create(tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Download signs a link first and only then counts the download, so a
// signing failure leaves the counter alone.
func (s *templateService) Download(ctx context.Context, id uint) (*DownloadLink, error) {
	tmpl, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	if s.signer == nil || tmpl.FileKey == "" {
		return nil, ErrTemplateUnavailable
	}

	url, err := s.signer.PresignDownload(ctx, tmpl.FileKey)
	if err != nil {
		logger.Error("Failed to sign template download", err, map[string]interface{}{
			"template_id": id,
		})
		return nil, err
	}
	if err := s.repo.IncrementDownloads(id); err != nil {
		return nil, notFoundAs(err, ErrTemplateNotFound)
	}

	return &DownloadLink{URL: url, Downloads: tmpl.Downloads + 1}, nil
}

func (s *templateService) RefreshStatuses(hotCount int, newWindow time.Duration) (int64, error) {
	tagged, err := s.repo.RefreshStatuses(hotCount, s.now().Add(-newWindow))
	if err != nil {
		return 0, err
	}
	logger.Info("Template statuses refreshed", map[string]interface{}{
		"tagged":    tagged,
		"hot_count": hotCount,
	})
	return tagged, nil
}

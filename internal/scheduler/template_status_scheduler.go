package scheduler

import (
	"github.com/belugagoods/storefront-backend/config"
	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TemplateStatusScheduler 템플릿 HOT/NEW 배지 자동 갱신 스케줄러
type TemplateStatusScheduler struct {
	cron            *cron.Cron
	templateService service.TemplateService
	cfg             config.SchedulerConfig
}

// NewTemplateStatusScheduler 템플릿 배지 스케줄러 생성
func NewTemplateStatusScheduler(templateService service.TemplateService, cfg config.SchedulerConfig) *TemplateStatusScheduler {
	return &TemplateStatusScheduler{
		cron:            cron.New(),
		templateService: templateService,
		cfg:             cfg,
	}
}

// RunOnce 배지를 한 번 갱신
func (s *TemplateStatusScheduler) RunOnce() {
	logger.Info("Starting scheduled template status refresh", nil)

	tagged, err := s.templateService.RefreshStatuses(s.cfg.HotTemplateCount, s.cfg.NewTemplateWindow)
	if err != nil {
		logger.Error("Failed to refresh template statuses from scheduler", err)
		return
	}

	logger.Info("Refreshed template statuses", map[string]interface{}{
		"tagged": tagged,
	})
}

// Start 스케줄러 시작
func (s *TemplateStatusScheduler) Start() error {
	// 기본값 "0 9 * * *" = 매일 9시 0분
	_, err := s.cron.AddFunc(s.cfg.TemplateStatusSpec, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for template status refresh", err, map[string]interface{}{
			"spec": s.cfg.TemplateStatusSpec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Template status scheduler started", map[string]interface{}{
		"spec": s.cfg.TemplateStatusSpec,
	})

	return nil
}

// Stop 스케줄러 중지
func (s *TemplateStatusScheduler) Stop() {
	logger.Info("Stopping template status scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Template status scheduler stopped", nil)
}

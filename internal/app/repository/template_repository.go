package repository

import (
	"time"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	FindAll(status *model.TemplateStatus) ([]model.BelugaTemplate, error)
	FindByID(id uint) (*model.BelugaTemplate, error)
	Create(tmpl *model.BelugaTemplate) error
	IncrementDownloads(id uint) error
	RefreshStatuses(hotCount int, newSince time.Time) (int64, error)
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) FindAll(status *model.TemplateStatus) ([]model.BelugaTemplate, error) {
	query := r.db.Model(&model.BelugaTemplate{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var templates []model.BelugaTemplate
	if err := query.Order("downloads DESC").Order("id ASC").Find(&templates).Error; err != nil {
		logger.Error("Failed to list templates", err)
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) FindByID(id uint) (*model.BelugaTemplate, error) {
	var tmpl model.BelugaTemplate
	if err := r.db.First(&tmpl, id).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *templateRepository) Create(tmpl *model.BelugaTemplate) error {
	if err := r.db.Create(tmpl).Error; err != nil {
		logger.Error("Failed to create template", err, map[string]interface{}{
			"title": tmpl.Title,
		})
		return err
	}
	return nil
}

func (r *templateRepository) IncrementDownloads(id uint) error {
	res := r.db.Model(&model.BelugaTemplate{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if res.Error != nil {
		logger.Error("Failed to increment template downloads", res.Error, map[string]interface{}{
			"template_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RefreshStatuses recomputes badges: the hotCount most downloaded templates
// are HOT, templates created after newSince are NEW, the rest have none.
// HOT wins over NEW. Returns the number of templates tagged.
func (r *templateRepository) RefreshStatuses(hotCount int, newSince time.Time) (int64, error) {
	var tagged int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.BelugaTemplate{}).
			Where("status <> ?", model.TemplateStatusNone).
			UpdateColumn("status", model.TemplateStatusNone).Error; err != nil {
			return err
		}

		var hotIDs []uint
		if hotCount > 0 {
			if err := tx.Model(&model.BelugaTemplate{}).
				Where("downloads > 0").
				Order("downloads DESC").Order("id ASC").
				Limit(hotCount).
				Pluck("id", &hotIDs).Error; err != nil {
				return err
			}
		}
		if len(hotIDs) > 0 {
			res := tx.Model(&model.BelugaTemplate{}).
				Where("id IN ?", hotIDs).
				UpdateColumn("status", model.TemplateStatusHot)
			if res.Error != nil {
				return res.Error
			}
			tagged += res.RowsAffected
		}

		newQuery := tx.Model(&model.BelugaTemplate{}).Where("created_at >= ?", newSince)
		if len(hotIDs) > 0 {
			newQuery = newQuery.Where("id NOT IN ?", hotIDs)
		}
		res := newQuery.UpdateColumn("status", model.TemplateStatusNew)
		if res.Error != nil {
			return res.Error
		}
		tagged += res.RowsAffected
		return nil
	})
	if err != nil {
		logger.Error("Failed to refresh template statuses", err)
		return 0, err
	}
	return tagged, nil
}

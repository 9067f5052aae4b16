package service

import (
	"errors"
	"strings"
	"unicode"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrInvalidSlug         = errors.New("slug must contain at least one letter or digit")
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	NameKo      string `json:"name_ko" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"max=100"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type SubcategoryInput struct {
	Name      string `json:"name" binding:"required,max=100"`
	NameKo    string `json:"name_ko" binding:"required,max=100"`
	Slug      string `json:"slug" binding:"max=100"`
	SortOrder int    `json:"sort_order"`
}

type CategoryService interface {
	ListCategories(includeInactive bool) ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	CreateCategory(input CategoryInput) (*model.Category, error)
	CreateSubcategory(categoryID uint, input SubcategoryInput) (*model.Subcategory, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(includeInactive bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(includeInactive)
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.Category, error) {
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(input.Name)
	}
	if slug == "" {
		return nil, ErrInvalidSlug
	}

	category := &model.Category{
		Name:        strings.TrimSpace(input.Name),
		NameKo:      strings.TrimSpace(input.NameKo),
		Slug:        slug,
		Description: input.Description,
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        slug,
	})
	return category, nil
}

func (s *categoryService) CreateSubcategory(categoryID uint, input SubcategoryInput) (*model.Subcategory, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return nil, err
	}

	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(input.Name)
	}
	if slug == "" {
		return nil, ErrInvalidSlug
	}

	sub := &model.Subcategory{
		CategoryID: categoryID,
		Name:       strings.TrimSpace(input.Name),
		NameKo:     strings.TrimSpace(input.NameKo),
		Slug:       slug,
		SortOrder:  input.SortOrder,
	}
	if err := s.categoryRepo.CreateSubcategory(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Slugify lowercases s, strips accents and joins runs of letters and digits
// with single hyphens. Hangul is dropped, so Korean-only names need an
// explicit slug.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

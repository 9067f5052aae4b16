package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const productSheetName = "Products"

var productSheetHeader = []string{
	"name", "name_ko", "description", "description_ko", "base_price",
	"category_slug", "subcategory_slug", "image_url", "is_featured",
}

var ErrEmptySheet = errors.New("no product rows found in sheet")

type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ProductSheet moves the catalog in and out of XLSX workbooks, one product
// per row under a fixed header.
type ProductSheet struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductSheet(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductSheet {
	return &ProductSheet{productRepo: productRepo, categoryRepo: categoryRepo}
}

func (s *ProductSheet) Export(w io.Writer) error {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), productSheetName); err != nil {
		return err
	}
	header := make([]interface{}, len(productSheetHeader))
	for i, h := range productSheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(productSheetName, "A1", &header); err != nil {
		return err
	}

	for i, p := range products {
		categorySlug, subcategorySlug := "", ""
		if p.Category != nil {
			categorySlug = p.Category.Slug
		}
		if p.Subcategory != nil {
			subcategorySlug = p.Subcategory.Slug
		}
		row := []interface{}{
			p.Name, p.NameKo, p.Description, p.DescriptionKo, p.BasePrice.String(),
			categorySlug, subcategorySlug, p.ImageURL, p.IsFeatured,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(productSheetName, cell, &row); err != nil {
			return err
		}
	}

	logger.Info("Products exported to XLSX", map[string]interface{}{
		"count": len(products),
	})
	return f.Write(w)
}

// Import creates a product per valid row. Rows with a missing name, a bad
// price or an unknown category are skipped and reported.
func (s *ProductSheet) Import(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	result := &ImportResult{}
	categories := map[string]*model.Category{}
	skip := func(line int, reason string) {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", line, reason))
	}

	// 첫 행은 헤더
	for i, row := range rows[1:] {
		line := i + 2
		for len(row) < len(productSheetHeader) {
			row = append(row, "")
		}
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}

		name, nameKo := row[0], row[1]
		if name == "" {
			skip(line, "name is required")
			continue
		}
		if nameKo == "" {
			nameKo = name
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(row[4], ",", ""))
		if err != nil || price.IsNegative() {
			skip(line, fmt.Sprintf("invalid price %q", row[4]))
			continue
		}

		category, ok := categories[row[5]]
		if !ok {
			category, err = s.categoryBySlug(row[5])
			if err != nil {
				skip(line, fmt.Sprintf("unknown category %q", row[5]))
				continue
			}
			categories[row[5]] = category
		}

		var subcategoryID *uint
		if row[6] != "" {
			for _, sub := range category.Subcategories {
				if sub.Slug == row[6] {
					id := sub.ID
					subcategoryID = &id
					break
				}
			}
			if subcategoryID == nil {
				skip(line, fmt.Sprintf("unknown subcategory %q", row[6]))
				continue
			}
		}

		product := &model.Product{
			Name:          name,
			NameKo:        nameKo,
			Description:   row[2],
			DescriptionKo: row[3],
			BasePrice:     price.Round(2),
			CategoryID:    category.ID,
			SubcategoryID: subcategoryID,
			ImageURL:      row[7],
			IsFeatured:    cast.ToBool(row[8]),
		}
		if err := s.productRepo.Create(product); err != nil {
			skip(line, err.Error())
			continue
		}
		result.Created++
	}

	logger.Info("Products imported from XLSX", map[string]interface{}{
		"created": result.Created,
		"skipped": result.Skipped,
	})
	return result, nil
}

func (s *ProductSheet) categoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return s.categoryRepo.FindByID(category.ID)
}

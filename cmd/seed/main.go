package main

import (
	"fmt"
	"log"
	"os"

	"github.com/belugagoods/storefront-backend/config"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/belugagoods/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <products.xlsx>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// 카테고리가 있어야 상품 행을 매핑할 수 있음
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := countRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Product rows to import: %d\n", rows)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	sheet := service.NewProductSheet(
		repository.NewProductRepository(db.GetDB()),
		repository.NewCategoryRepository(db.GetDB()),
	)
	result, err := sheet.Import(file)
	if err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed!")
	fmt.Printf("Created: %d, skipped: %d\n", result.Created, result.Skipped)
	for _, msg := range result.Errors {
		fmt.Printf("  - %s\n", msg)
	}
}

// countRows returns the number of data rows under the header.
func countRows(filePath string) (int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return 0, fmt.Errorf("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

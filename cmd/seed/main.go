package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chengtian/temple-backend/config"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/app/service"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/chengtian/temple-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const usage = `Usage:
  go run cmd/seed/main.go products <xlsx_file_path>   import the product catalog
  go run cmd/seed/main.go hash-password <password>    print an ADMIN_PASSWORD_HASH value`

// 상품 시트 컬럼 순서: 名稱, 分類, 價格, 描述, 圖片, 上架, 捐款, 規格
const (
	colName = iota
	colCategory
	colPrice
	colDescription
	colImage
	colActive
	colDonation
	colVariants
	productColumns
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 3 {
		log.Fatal(usage)
	}

	switch os.Args[1] {
	case "products":
		importProducts(os.Args[2])
	case "hash-password":
		hash, err := util.HashPassword(os.Args[2])
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		fmt.Println(hash)
	default:
		log.Fatal(usage)
	}
}

func importProducts(filePath string) {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatal("DATABASE_URL is required for the product import")
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// DB 연결
	database, err := db.Open(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productService := service.NewProductService(repository.NewProductRepository(database))

	imported := 0
	for _, input := range products {
		if _, err := productService.CreateProduct(input); err != nil {
			fmt.Printf("  skipped %q: %v\n", input.Name, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

func readProductsFromXLSX(filePath string) ([]service.ProductInput, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []service.ProductInput
	seen := make(map[string]bool)
	skippedCount := 0

	// 첫 행은 헤더
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		input, err := parseProductRow(row)
		if err != nil {
			fmt.Printf("  row %d skipped: %v\n", i+1, err)
			skippedCount++
			continue
		}
		if seen[input.Name] {
			skippedCount++
			continue
		}
		seen[input.Name] = true
		products = append(products, input)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

// parseProductRow reads one sheet row. Trailing empty cells may be missing.
func parseProductRow(row []string) (service.ProductInput, error) {
	cells := make([]string, productColumns)
	for i := 0; i < len(row) && i < productColumns; i++ {
		cells[i] = strings.TrimSpace(row[i])
	}

	if cells[colName] == "" {
		return service.ProductInput{}, fmt.Errorf("name is empty")
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(cells[colPrice], ",", ""))
	if err != nil || price.IsNegative() {
		return service.ProductInput{}, fmt.Errorf("invalid price %q", cells[colPrice])
	}

	active := true
	if cells[colActive] != "" {
		active = parseFlag(cells[colActive])
	}

	var variants []string
	for _, v := range strings.FieldsFunc(cells[colVariants], func(r rune) bool {
		return r == '、' || r == ',' || r == '，'
	}) {
		if v = strings.TrimSpace(v); v != "" {
			variants = append(variants, v)
		}
	}

	return service.ProductInput{
		Name:        cells[colName],
		Category:    cells[colCategory],
		Price:       price,
		Description: cells[colDescription],
		Image:       cells[colImage],
		IsActive:    &active,
		IsDonation:  parseFlag(cells[colDonation]),
		Variants:    variants,
	}, nil
}

// parseFlag accepts 是/否 as well as the usual boolean spellings.
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "是", "y", "yes", "v", "✓":
		return true
	}
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

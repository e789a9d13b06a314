package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/carvanta/carvanta-backend/config"
	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/db"
)

// Expected columns: Name, Brand, Model, Year, Price, KmDriven, FuelType,
// Transmission, OwnerCount, Condition, Description, Features (comma
// separated). First row is the header.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	carRepo := repository.NewCarRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	cars, skipped, err := readCarsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total listings to import: %d (skipped %d invalid rows)\n", len(cars), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 100
	if err := carRepo.BulkCreate(cars, batchSize); err != nil {
		log.Fatal("Failed to bulk create listings:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total listings imported: %d\n", len(cars))
}

func readCarsFromXLSX(filePath string) ([]model.Car, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("no data rows found in XLSX file")
	}

	var cars []model.Car
	skipped := 0

	for i, row := range rows[1:] {
		car, ok := parseCarRow(row)
		if !ok {
			fmt.Printf("Skipping row %d: missing required fields\n", i+2)
			skipped++
			continue
		}
		cars = append(cars, car)
	}

	return cars, skipped, nil
}

func parseCarRow(row []string) (model.Car, bool) {
	get := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	name := get(0)
	brand := get(1)
	carModel := get(2)
	year, _ := strconv.Atoi(get(3))
	price, _ := strconv.ParseFloat(get(4), 64)

	if name == "" || brand == "" || carModel == "" || year == 0 || price == 0 {
		return model.Car{}, false
	}

	kmDriven, _ := strconv.Atoi(get(5))
	ownerCount, _ := strconv.Atoi(get(8))

	condition := model.CarCondition(get(9))
	switch condition {
	case model.ConditionNew, model.ConditionUsed, model.ConditionCertified:
	default:
		condition = model.ConditionUsed
	}

	var features []string
	for _, part := range strings.Split(get(11), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}

	return model.Car{
		Name:         name,
		Brand:        brand,
		Model:        carModel,
		Year:         year,
		Price:        price,
		KmDriven:     kmDriven,
		FuelType:     get(6),
		Transmission: get(7),
		OwnerCount:   ownerCount,
		Condition:    condition,
		Description:  get(10),
		Features:     features,
	}, true
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"codefit/internal/config"
	"codefit/internal/database"
	"codefit/internal/repository"
	"codefit/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: codefit_YYYYMMDD_HHMMSS.json)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize store
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	exportService := service.NewExportService(
		repository.NewActivityRepository(db),
		repository.NewCommitRepository(db),
		repository.NewWellnessRepository(db),
		service.NewClock(),
	)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(exportService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(exportService, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(exportService *service.ExportService, outputPath string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("codefit_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	if err := exportService.Export(outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fileInfo, _ := os.Stat(outputPath)
	log.Printf("Export complete! File size: %.2f KB", float64(fileInfo.Size())/1024)
}

func handleImport(exportService *service.ExportService, inputPath string) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if err := exportService.Import(inputPath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("Usage: export <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export  Write all local wellness data to a JSON file")
	fmt.Println("  import  Restore wellness data from a JSON file")
	fmt.Println()
	fmt.Println("Run 'export <command> -h' for command flags")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"eterna_server/config"
	"eterna_server/database"
	"eterna_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
)

const usage = `usage: tools <command> [flags]

commands:
  import-excel  -file crawled_products.xlsx [-sheet name]
  create-admin  -email admin@example.com -password secret
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}
	logger := config.InitializeLogger()

	var err error
	switch os.Args[1] {
	case "import-excel":
		err = importExcel(logger, os.Args[2:])
	case "create-admin":
		err = createAdmin(logger, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Fatal("Command failed", gecho.Field("command", os.Args[1]), gecho.Field("error", err))
	}
}

func openServices(logger *gecho.Logger) (*services.ServiceManager, error) {
	if err := database.Initialize(); err != nil {
		return nil, err
	}
	return services.NewServiceManager(logger, config.GetConfig(), database.GetInstance()), nil
}

func importExcel(logger *gecho.Logger, args []string) error {
	fs := flag.NewFlagSet("import-excel", flag.ExitOnError)
	file := fs.String("file", "crawled_products.xlsx", "spreadsheet to import")
	sheet := fs.String("sheet", "", "sheet name, defaults to the first sheet")
	if err := fs.Parse(args); err != nil {
		return err
	}

	book, err := excelize.OpenFile(*file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *file, err)
	}
	defer book.Close()

	name := *sheet
	if name == "" {
		name = book.GetSheetName(0)
	}

	rows, err := book.GetRows(name)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		logger.Warn("Sheet is empty", gecho.Field("sheet", name))
		return nil
	}
	logger.Info("Read spreadsheet", gecho.Field("file", *file), gecho.Field("sheet", name), gecho.Field("rows", len(rows)-1))

	sm, err := openServices(logger)
	if err != nil {
		return err
	}
	defer database.CloseInstance()
	defer sm.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := sm.ImportService.ImportRows(ctx, rows[0], rows[1:])
	if err != nil {
		return err
	}

	fmt.Printf("imported %d products, skipped %d rows\n", result.Imported, result.Skipped)
	return nil
}

func createAdmin(logger *gecho.Logger, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password, at least 8 characters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sm, err := openServices(logger)
	if err != nil {
		return err
	}
	defer database.CloseInstance()
	defer sm.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	user, err := sm.AuthService.CreateAdmin(ctx, *email, *password)
	if err != nil {
		return err
	}

	fmt.Printf("admin ready: %s (%s)\n", user.Email, user.Id)
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/sversluys/walleto/internal/catalog"
	catalogStore "github.com/sversluys/walleto/internal/catalog/store"
	"github.com/sversluys/walleto/internal/config"
	"github.com/sversluys/walleto/internal/database"
	"github.com/sversluys/walleto/internal/export"
	walletoHttp "github.com/sversluys/walleto/internal/http"
	catalogHandler "github.com/sversluys/walleto/internal/http/catalog"
	exportHandler "github.com/sversluys/walleto/internal/http/export"
	importHandler "github.com/sversluys/walleto/internal/http/importcsv"
	walletHandler "github.com/sversluys/walleto/internal/http/wallet"
	"github.com/sversluys/walleto/internal/importer"
	"github.com/sversluys/walleto/internal/wallet"
	walletStore "github.com/sversluys/walleto/internal/wallet/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		walletService  = wallet.NewService(walletStore.New(db))
		catalogService = catalog.NewService(catalogStore.New(db))
		importService  = importer.NewService()
		exportService  = export.NewService(walletService)
	)

	var (
		walletH  = walletHandler.NewHandler(walletService)
		catalogH = catalogHandler.NewHandler(catalogService)
		importH  = importHandler.NewHandler(importService, walletService)
		exportH  = exportHandler.NewHandler(exportService)
	)

	router := walletoHttp.New(walletH, catalogH, importH, exportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

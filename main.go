package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/harvestfolio/src/config"
	"github.com/username/harvestfolio/src/database"
	"github.com/username/harvestfolio/src/handlers"
	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/processors"
	"github.com/username/harvestfolio/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	mode := flag.String("mode", "interactive", "Run mode: 'api' to run as a web server, 'interactive' to process one account on the terminal, 'load' to bulk-load a CSV into the database.")
	accountID := flag.String("account-id", "", "Account ID for interactive mode.")
	csvPath := flag.String("csv", "", "CSV file path for load mode.")
	flag.Parse()

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Harvestfolio starting...", "mode", *mode)

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing services...")
	reportCache := cache.New(config.Cfg.ReportCacheTTL, 2*config.Cfg.ReportCacheTTL)
	transactionSource := services.NewTransactionSource(database.DB)
	priceService := services.NewPriceService(config.Cfg.PriceHTTPTimeout, config.Cfg.PriceCacheTTL)
	reportService := services.NewReportService(
		transactionSource, priceService,
		processors.NewLotTracker(), processors.NewHarvestEvaluator(),
		reportCache,
	)
	importService := services.NewImportService(database.DB, reportService)

	switch *mode {
	case "api":
		runServer(reportService, importService)
	case "interactive":
		runInteractive(reportService, *accountID)
	case "load":
		runLoad(importService, *csvPath)
	default:
		stdlog.Fatalf("Unknown mode %q: expected 'api', 'interactive' or 'load'", *mode)
	}
}

func runServer(reportService services.ReportService, importService services.ImportService) {
	reportHandler := handlers.NewReportHandler(reportService)
	uploadHandler := handlers.NewUploadHandler(importService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/process-account", reportHandler.HandleProcessAccount)
	apiRouter.HandleFunc("POST /api/upload", uploadHandler.HandleUpload)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Harvestfolio backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}

func runInteractive(reportService services.ReportService, accountID string) {
	if accountID == "" {
		fmt.Print("Enter the Account ID: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			accountID = strings.TrimSpace(scanner.Text())
		}
	}

	report, err := reportService.ProcessAccount(accountID)
	if err != nil {
		stdlog.Fatalf("Failed to process account %q: %v", accountID, err)
	}

	if len(report) == 0 {
		fmt.Printf("No surviving lots for account %s.\n", accountID)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tSTOCK\tSHARES\tPURCHASED\tBUY PRICE\tCURRENT\tGAIN/LOSS\tEXCLUDED\tHARVEST")
	for _, row := range report {
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			row.AccountID, row.StockTicker, row.NumberOfSharesOnHand, row.PurchaseDate,
			row.PurchasePrice, row.CurrentStockPrice, row.PotentialLossGain,
			row.ExcludedDueToDate, row.RecommendForHarvest)
	}
	w.Flush()
}

func runLoad(importService services.ImportService, csvPath string) {
	if csvPath == "" {
		stdlog.Fatal("load mode requires --csv with the path of the CSV file to load")
	}

	file, err := os.Open(csvPath)
	if err != nil {
		stdlog.Fatalf("Failed to open CSV file %s: %v", csvPath, err)
	}
	defer file.Close()

	rowCount, err := importService.LoadCSV(file)
	if err != nil {
		stdlog.Fatalf("Failed to load CSV file %s: %v", csvPath, err)
	}
	fmt.Printf("Loaded %d rows from %s into the stocks table.\n", rowCount, csvPath)
}

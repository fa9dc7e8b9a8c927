package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Port          string
		AdminPassword string
	}
	Sheets struct {
		SpreadsheetID string
		APIKey        string
		OrdersTab     string
		ProductsTab   string
		// Fallback worksheet located by numeric gid, not by name: tab names
		// are operator-renameable, gids are not.
		ProductsFallbackGID int64
		LocksTab            string
		SettingsTab         string
		DirectoryTab        string
	}
	Pricing struct {
		AdminFeePHP       float64
		FallbackRate      float64
		ExchangeRateURL   string
		VialsPerFeeUnit   int
		MaxKitsPerProduct int
	}
	Telegram struct {
		BotToken    string
		AdminChatID int64
	}
	Uploads struct {
		DriveToken    string
		DriveFolderID string
		ImgHostAPIKey string
	}
}

// Load reads configuration from a .env file (if present) and the
// environment. Only the spreadsheet ID is strictly required.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.AdminPassword = getEnv("ADMIN_PASSWORD", "")

	cfg.Sheets.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is required")
	}
	cfg.Sheets.APIKey = os.Getenv("SHEETS_API_KEY")
	cfg.Sheets.OrdersTab = getEnv("ORDERS_TAB", "PepHaul Entry")
	cfg.Sheets.ProductsTab = getEnv("PRODUCTS_TAB", "Products")
	cfg.Sheets.ProductsFallbackGID = getEnvInt64("PRODUCTS_FALLBACK_GID", 0)
	cfg.Sheets.LocksTab = getEnv("LOCKS_TAB", "Product Locks")
	cfg.Sheets.SettingsTab = getEnv("SETTINGS_TAB", "Settings")
	cfg.Sheets.DirectoryTab = getEnv("DIRECTORY_TAB", "Telegram Directory")

	cfg.Pricing.AdminFeePHP = getEnvFloat("ADMIN_FEE_PHP", 300)
	cfg.Pricing.FallbackRate = getEnvFloat("FALLBACK_EXCHANGE_RATE", 59.20)
	cfg.Pricing.ExchangeRateURL = getEnv("EXCHANGE_RATE_URL", "https://api.exchangerate-api.com/v4/latest/USD")
	cfg.Pricing.VialsPerFeeUnit = int(getEnvInt64("VIALS_PER_FEE_UNIT", 50))
	cfg.Pricing.MaxKitsPerProduct = int(getEnvInt64("MAX_KITS_PER_PRODUCT", 100))

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.AdminChatID = getEnvInt64("TELEGRAM_ADMIN_CHAT_ID", 0)

	cfg.Uploads.DriveToken = os.Getenv("DRIVE_TOKEN")
	cfg.Uploads.DriveFolderID = os.Getenv("PAYMENT_DRIVE_FOLDER_ID")
	cfg.Uploads.ImgHostAPIKey = os.Getenv("IMG_HOST_API_KEY")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

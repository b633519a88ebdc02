package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// DefaultTargetCities are the Turkish cities the heatmap is built for.
var DefaultTargetCities = []string{
	"Ankara", "Istanbul", "Izmir", "Bursa", "Adana",
	"Konya", "Antalya", "Mersin", "Eskisehir", "Kocaeli",
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL       string
	TargetCities  []string
	LookbackYears int
	CurrentYear   int

	RequestTimeoutMs int
	CooldownMs       int
	FetchMode        string
	ChromeBin        string
	UserAgent        string

	CSVOutputPath  string
	XLSXOutputPath string
	HeatmapPath    string
	MetricsFile    string

	SentryDSN         string
	SentryEnvironment string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:       getEnv("COL_BASE_URL", "https://www.numbeo.com/cost-of-living/rankings.jsp"),
		TargetCities:  getEnvList("COL_TARGET_CITIES", DefaultTargetCities),
		LookbackYears: getEnvInt("COL_LOOKBACK_YEARS", 4),
		CurrentYear:   getEnvInt("COL_CURRENT_YEAR", 0),

		RequestTimeoutMs: getEnvInt("REQUEST_TIMEOUT_MS", 10000),
		CooldownMs:       getEnvInt("COOLDOWN_MS", 1000),
		FetchMode:        strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		ChromeBin:        getEnv("CHROME_BIN", ""),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/cost_of_living.csv"),
		XLSXOutputPath: getEnv("XLSX_OUTPUT_PATH", "./output/cost_of_living.xlsx"),
		HeatmapPath:    getEnv("HEATMAP_PATH", "./output/cost_of_living_heatmap.png"),
		MetricsFile:    getEnv("METRICS_FILE", ""),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),
	}
}

// Year returns the newest year to query.
func (c *Config) Year() int {
	if c.CurrentYear > 0 {
		return c.CurrentYear
	}
	return time.Now().Year()
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

// getEnvList splits a comma separated value. Blank items are dropped.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		out := make([]string, len(fallback))
		copy(out, fallback)
		return out
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

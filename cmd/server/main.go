package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"financial-health/backend/internal/api"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found")
	}

	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.Fatalf("create data directory: %v", err)
	}

	cfg := api.Config{
		DBPath:      filepath.Join(dataDir, "financial_health.db"),
		ArtifactDir: baseDir,
	}

	if override := strings.TrimSpace(os.Getenv("FINHEALTH_DB_PATH")); override != "" {
		cfg.DBPath = override
	}
	if override := strings.TrimSpace(os.Getenv("FINHEALTH_ARTIFACT_DIR")); override != "" {
		cfg.ArtifactDir = override
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TOLERATE_STORE_FAILURE")), "true") {
		cfg.TolerateStoreFailure = true
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	defer server.Close()

	router := server.Router()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	logrus.Infof("starting financial health backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bearcart-analytics/internal/infrastructure/config"
	"bearcart-analytics/internal/infrastructure/logger"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	migrationsPath := flag.String("dir", "db/migrations", "path to migrations directory")
	flag.Parse()

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		logrus.Fatalf("load config failed: %v", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("init logger failed: %v", err)
	}

	if cfg.DB.DSN == "" {
		log.Fatal("db.dsn is not set; nothing to migrate")
	}

	files, err := migrationFiles(*migrationsPath)
	if err != nil {
		log.WithError(err).Fatal("read migrations failed")
	}

	db, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("open database failed")
	}
	defer db.Close()

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			log.WithError(err).WithField("file", f).Fatal("read migration failed")
		}
		log.WithField("file", filepath.Base(f)).Info("applying migration")
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			log.WithError(err).WithField("file", filepath.Base(f)).Fatal("migration failed")
		}
	}

	fmt.Println("migrations applied")
}

// migrationFiles 回傳目錄下依檔名排序的 .sql 檔。
func migrationFiles(dir string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations path: %w", err)
	}
	if _, err := os.Stat(absDir); err != nil {
		return nil, fmt.Errorf("migrations directory: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(absDir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .sql migrations in %s", absDir)
	}
	sort.Strings(files)
	return files, nil
}

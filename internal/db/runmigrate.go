package db

import (
	"log"
	"os"
)

// RunMigrations applies the SQL migrations without opening a gorm session.
// Used by the -migrate-only flag so deploys can migrate before serving.
func RunMigrations() error {
	dsn := NormalizeDSN(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		return nil
	}
	if os.Getenv("MIGRATIONS") == "" {
		log.Println("MIGRATIONS env not set; skipping sql migrations (AutoMigrate path used at app start).")
		return nil
	}
	log.Println("Running explicit SQL migrations...")
	return runSQLMigrations(dsn)
}

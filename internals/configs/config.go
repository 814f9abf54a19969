package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// School adalah identitas yang dicetak di header kuitansi & laporan.
type School struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}

var (
	SchoolInfo          School
	SchoolTimezone      string
	SnapshotRefreshCron string
	CorsAllowOrigins    string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env file not found, using system ENV")
		} else {
			log.Println("[INFO] .env file loaded")
		}
	} else {
		log.Println("[INFO] Running in Railway, using system ENV")
	}

	SchoolInfo = School{
		Name:    GetEnv("SCHOOL_NAME", "Vivek Vikas Mission School"),
		Address: GetEnv("SCHOOL_ADDRESS", "KHIRI • KOTULPUR • BANKURA • PIN - 722141"),
		Phone:   GetEnv("SCHOOL_PHONE", ""),
	}
	SchoolTimezone = GetEnv("SCHOOL_TIMEZONE", "Asia/Kolkata")
	SnapshotRefreshCron = GetEnv("SNAPSHOT_REFRESH_CRON", "@every 5m")
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000, http://localhost:5173")

	if strings.TrimSpace(SchoolInfo.Phone) == "" {
		log.Println("[WARN] SCHOOL_PHONE belum diset, header kuitansi tanpa nomor telepon")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// SchoolLocation resolves SCHOOL_TIMEZONE, falling back to UTC.
func SchoolLocation() *time.Location {
	tz := SchoolTimezone
	if tz == "" {
		tz = GetEnv("SCHOOL_TIMEZONE", "Asia/Kolkata")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("[WARN] invalid SCHOOL_TIMEZONE %q: %v (fallback UTC)", tz, err)
		return time.UTC
	}
	return loc
}

// =======================
// DATABASE CONNECTOR
// =======================

// OpenDB membuka koneksi sesuai DB_DRIVER (postgres | sqlite).
func OpenDB(gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: NewGormLogger()}
	}
	switch strings.ToLower(GetEnv("DB_DRIVER", "postgres")) {
	case "sqlite":
		path := GetEnv("SQLITE_PATH", "fees.db")
		return gorm.Open(sqlite.Open(path), gormCfg)
	default:
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  PostgresDSN(),
			PreferSimpleProtocol: true, // PgBouncer friendly
		}), gormCfg)
	}
}

func PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=feedesk&options=-c statement_timeout=3000",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

func InitSeederDB() *gorm.DB {
	db, err := OpenDB(&gorm.Config{Logger: NewGormLogger()})
	if err != nil {
		log.Fatalf("[ERROR] database (seeder) connection failed: %v", err)
	}
	log.Println("[INFO] Database (seeder) connected.")
	return db
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if strings.EqualFold(GetEnv("DB_LOG_QUERIES"), "true") {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && err != gorm.ErrRecordNotFound && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

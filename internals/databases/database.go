package database

import (
	"log"
	"time"

	"gorm.io/gorm"

	"feedesk_backend/internals/configs"
	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	studentModel "feedesk_backend/internals/features/fees/students/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("[INFO] Connecting to database...")

	db, err := configs.OpenDB(nil)
	if err != nil {
		log.Fatalf("[ERROR] database connection failed: %v", err)
	}
	DB = db
	log.Println("[INFO] DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

// Migrate membuat/menyesuaikan tabel students & payments.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&studentModel.Student{}, &paymentModel.Payment{}); err != nil {
		return err
	}
	// roll no. unik hanya di antara siswa aktif (partial index: postgres & sqlite)
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_students_active_code_key
		ON students (student_code_key) WHERE student_is_deleted = false`).Error
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

package seeds

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"feedesk_backend/internals/seeds/legacy"
)

// RunAllSeeds mengimpor <dir>/students.json lalu <dir>/payments.json (opsional).
func RunAllSeeds(db *gorm.DB, dir string) error {
	ids, _, err := legacy.SeedStudentsFromJSON(db, filepath.Join(dir, "students.json"))
	if err != nil {
		return err
	}

	paymentsFile := filepath.Join(dir, "payments.json")
	if _, err := os.Stat(paymentsFile); errors.Is(err, os.ErrNotExist) {
		log.Printf("[SEED] %s tidak ada, lewati payments", paymentsFile)
		return nil
	}
	_, err = legacy.SeedPaymentsFromJSON(db, paymentsFile, ids)
	return err
}

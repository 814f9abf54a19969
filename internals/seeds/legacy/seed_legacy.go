// Package legacy mengimpor export JSON lama (dokumen gaya mongo) ke tabel students & payments.
package legacy

import (
	"encoding/json"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feedesk_backend/internals/constants"
	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	studentDTO "feedesk_backend/internals/features/fees/students/dto"
	studentModel "feedesk_backend/internals/features/fees/students/model"
	helper "feedesk_backend/internals/helpers"
)

// IDMap: _id lama → student_id baru.
type IDMap map[string]uuid.UUID

type Result struct {
	Inserted int
	Skipped  int
}

/* =========================================================
   STUDENTS
========================================================= */

// SeedStudentsFromJSON membaca array dokumen siswa lama. Siswa yang roll no.-nya
// sudah aktif di DB tidak diinsert ulang, tapi _id-nya tetap dipetakan.
func SeedStudentsFromJSON(db *gorm.DB, filePath string) (IDMap, Result, error) {
	log.Println("[SEED] membaca file:", filePath)
	var res Result

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, res, errors.Wrap(err, "read students file")
	}
	var docs []studentDTO.LegacyStudent
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, res, errors.Wrap(err, "decode students file")
	}

	v := helper.NewValidator()
	ids := make(IDMap, len(docs))

	for i, doc := range docs {
		req := doc.ToCreate()
		if err := v.Struct(req); err != nil {
			log.Printf("[SEED] siswa #%d (%s) dilewati: %v", i, doc.ID, helper.ValidationMessages(err))
			res.Skipped++
			continue
		}

		key := studentModel.CodeKey(req.StudentCode)
		if !doc.IsDeleted {
			var existing studentModel.Student
			err := db.Where("student_code_key = ? AND student_is_deleted = ?", key, false).First(&existing).Error
			if err == nil {
				ids[string(doc.ID)] = existing.StudentID
				log.Printf("[SEED] roll no. %s sudah ada, lewati", req.StudentCode)
				res.Skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return ids, res, errors.Wrap(err, "lookup student")
			}
		}

		m := req.ToModel()
		m.StudentIsDeleted = doc.IsDeleted
		if doc.CreatedAt.Time != nil {
			m.StudentCreatedAt = *doc.CreatedAt.Time
		}
		if err := db.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				log.Printf("[SEED] roll no. %s bentrok, lewati", req.StudentCode)
				res.Skipped++
				continue
			}
			return ids, res, errors.Wrapf(err, "insert student %s", req.StudentCode)
		}
		if doc.ID != "" {
			ids[string(doc.ID)] = m.StudentID
		}
		res.Inserted++
	}

	log.Printf("[SEED] students: %d inserted, %d skipped", res.Inserted, res.Skipped)
	return ids, res, nil
}

/* =========================================================
   PAYMENTS
========================================================= */

type LegacyPayment struct {
	ID          studentDTO.LegacyOID  `json:"_id"`
	StudentID   studentDTO.LegacyOID  `json:"studentId"`
	Month       string                `json:"month"`
	Year        int                   `json:"year"`
	Status      string                `json:"status"`
	PaymentMode string                `json:"paymentMode"`
	Amount      float64               `json:"amount"`
	PaidAt      studentDTO.LegacyTime `json:"paidAt"`
	CreatedAt   studentDTO.LegacyTime `json:"createdAt"`
}

// SeedPaymentsFromJSON mengimpor payments lama. Data lama bisa punya duplikat
// (student, month, year); yang paling baru (createdAt) yang disimpan, sisanya diabaikan
// lewat ON CONFLICT DO NOTHING pada uq_payment_student_month_year.
func SeedPaymentsFromJSON(db *gorm.DB, filePath string, ids IDMap) (Result, error) {
	log.Println("[SEED] membaca file:", filePath)
	var res Result

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return res, errors.Wrap(err, "read payments file")
	}
	var docs []LegacyPayment
	if err := json.Unmarshal(raw, &docs); err != nil {
		return res, errors.Wrap(err, "decode payments file")
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return createdAt(docs[i]).After(createdAt(docs[j]))
	})

	for _, doc := range docs {
		sid, ok := ids[string(doc.StudentID)]
		if !ok {
			log.Printf("[SEED] payment %s: siswa %s tidak dikenal, lewati", doc.ID, doc.StudentID)
			res.Skipped++
			continue
		}
		p, err := doc.toModel(sid)
		if err != nil {
			log.Printf("[SEED] payment %s dilewati: %v", doc.ID, err)
			res.Skipped++
			continue
		}

		tx := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
		if tx.Error != nil {
			return res, errors.Wrapf(tx.Error, "insert payment %s", doc.ID)
		}
		if tx.RowsAffected == 0 {
			res.Skipped++
			continue
		}
		res.Inserted++
	}

	log.Printf("[SEED] payments: %d inserted, %d skipped", res.Inserted, res.Skipped)
	return res, nil
}

func createdAt(p LegacyPayment) time.Time {
	if p.CreatedAt.Time != nil {
		return *p.CreatedAt.Time
	}
	return time.Time{}
}

func (doc LegacyPayment) toModel(sid uuid.UUID) (paymentModel.Payment, error) {
	month, err := constants.ParseMonth(doc.Month)
	if err != nil {
		return paymentModel.Payment{}, err
	}
	if doc.Year <= 0 {
		return paymentModel.Payment{}, errors.Errorf("invalid year %d", doc.Year)
	}
	if doc.Amount < 0 {
		return paymentModel.Payment{}, errors.Errorf("negative amount %v", doc.Amount)
	}

	status := paymentModel.PaymentStatus(strings.ToUpper(strings.TrimSpace(doc.Status)))
	if status == "" {
		status = paymentModel.PaymentStatusUnpaid
	}
	if !status.Valid() {
		return paymentModel.Payment{}, errors.Errorf("invalid status %q", doc.Status)
	}

	p := paymentModel.Payment{
		PaymentStudentID: sid,
		PaymentMonth:     month,
		PaymentYear:      doc.Year,
		PaymentAmount:    int64(doc.Amount),
	}
	if doc.CreatedAt.Time != nil {
		p.PaymentCreatedAt = *doc.CreatedAt.Time
	}

	var mode *paymentModel.PaymentMode
	if m := paymentModel.PaymentMode(strings.ToUpper(strings.TrimSpace(doc.PaymentMode))); m.Valid() {
		mode = &m
	}
	paidAt := p.PaymentCreatedAt
	if doc.PaidAt.Time != nil {
		paidAt = *doc.PaidAt.Time
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	p.SetStatus(status, mode, paidAt)
	return p, nil
}

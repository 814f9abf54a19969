// file: internals/features/fees/store/store.go
package store

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"feedesk_backend/internals/constants"
	paymentModel "feedesk_backend/internals/features/fees/payments/model"
	"feedesk_backend/internals/features/fees/reconciliation"
	studentModel "feedesk_backend/internals/features/fees/students/model"
	helper "feedesk_backend/internals/helpers"
)

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrDuplicateStudentCode = errors.New("student code already exists")
	ErrPaymentNotFound      = errors.New("payment not found")
)

var nowFunc = time.Now

// Store memegang snapshot students + payments (read-mostly) dan semua mutasi.
// Snapshot yang sudah dipublish tidak pernah diubah; Refresh menggantinya utuh.
type Store struct {
	db *gorm.DB

	// refreshMu menyerialkan Refresh (load + publish), supaya refresh lama
	// tidak menimpa snapshot yang dimuat setelah sebuah write.
	refreshMu sync.Mutex

	mu    sync.RWMutex
	snap  Snapshot
	stale bool
	// gen naik tiap Invalidate; refresh yang mulai sebelum itu tidak boleh menghapus stale.
	gen uint64
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, stale: true}
}

func (s *Store) DB() *gorm.DB { return s.db }

// =========================================================
// SNAPSHOT
// =========================================================

type Snapshot struct {
	// Active students, in insertion order.
	Students []studentModel.Student
	// Payments per student, newest first.
	Payments reconciliation.PaymentsByStudent
	TakenAt  time.Time
}

// Student looks up an active student in the snapshot.
func (sn Snapshot) Student(id uuid.UUID) (studentModel.Student, bool) {
	for _, st := range sn.Students {
		if st.StudentID == id {
			return st, true
		}
	}
	return studentModel.Student{}, false
}

// Filter applies the search predicate, keeping order.
func (sn Snapshot) Filter(q string) []studentModel.Student {
	if strings.TrimSpace(q) == "" {
		return sn.Students
	}
	out := make([]studentModel.Student, 0, len(sn.Students))
	for i := range sn.Students {
		if sn.Students[i].Matches(q) {
			out = append(out, sn.Students[i])
		}
	}
	return out
}

// clone is a deep copy; callers may mutate the result freely.
func (sn Snapshot) clone() Snapshot {
	out := Snapshot{
		Students: make([]studentModel.Student, len(sn.Students)),
		Payments: make(reconciliation.PaymentsByStudent, len(sn.Payments)),
		TakenAt:  sn.TakenAt,
	}
	for i := range sn.Students {
		out.Students[i] = sn.Students[i].Clone()
	}
	for k, v := range sn.Payments {
		rows := make([]paymentModel.Payment, len(v))
		for i := range v {
			rows[i] = v[i].Clone()
		}
		out.Payments[k] = rows
	}
	return out
}

// Snapshot mengembalikan salinan snapshot; kalau stale, refresh dulu.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	stale := s.stale
	snap := s.snap
	s.mu.RUnlock()

	if stale {
		if err := s.Refresh(ctx); err != nil {
			return Snapshot{}, err
		}
		s.mu.RLock()
		snap = s.snap
		s.mu.RUnlock()
	}
	return snap.clone(), nil
}

// Refresh reloads active students and their payments from the database.
func (s *Store) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	var students []studentModel.Student
	if err := s.db.WithContext(ctx).
		Where("student_is_deleted = ?", false).
		Order("student_created_at ASC").
		Order("student_id ASC").
		Find(&students).Error; err != nil {
		return errors.Wrap(err, "load students")
	}

	payments := make(reconciliation.PaymentsByStudent, len(students))
	if len(students) > 0 {
		ids := make([]uuid.UUID, 0, len(students))
		for _, st := range students {
			ids = append(ids, st.StudentID)
		}
		var rows []paymentModel.Payment
		if err := s.db.WithContext(ctx).
			Where("payment_student_id IN ?", ids).
			Order("payment_created_at DESC").
			Order("payment_id ASC").
			Find(&rows).Error; err != nil {
			return errors.Wrap(err, "load payments")
		}
		for _, p := range rows {
			payments[p.PaymentStudentID] = append(payments[p.PaymentStudentID], p)
		}
	}

	s.mu.Lock()
	s.snap = Snapshot{Students: students, Payments: payments, TakenAt: nowFunc()}
	s.stale = s.gen != gen
	s.mu.Unlock()
	return nil
}

// SnapshotTakenAt: kapan snapshot terakhir dimuat (zero kalau belum pernah).
func (s *Store) SnapshotTakenAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.TakenAt
}

// Invalidate menandai snapshot basi; Snapshot() berikutnya akan reload.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.gen++
	s.mu.Unlock()
}

func (s *Store) afterMutation(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("[SNAPSHOT] refresh after mutation failed: %v", err)
		s.Invalidate()
	}
}

// =========================================================
// STUDENTS
// =========================================================

func (s *Store) CreateStudent(ctx context.Context, st *studentModel.Student) error {
	st.StudentCodeKey = studentModel.CodeKey(st.StudentCode)
	st.StudentIsDeleted = false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&studentModel.Student{}).
			Where("student_code_key = ? AND student_is_deleted = ?", st.StudentCodeKey, false).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateStudentCode
		}
		return tx.Create(st).Error
	})
	switch {
	case errors.Is(err, ErrDuplicateStudentCode):
		return errors.Wrapf(ErrDuplicateStudentCode, "code %q", st.StudentCode)
	case helper.IsUniqueViolation(err):
		return errors.Wrapf(ErrDuplicateStudentCode, "code %q", st.StudentCode)
	case err != nil:
		return errors.Wrap(err, "create student")
	}
	s.afterMutation(ctx)
	return nil
}

// GetStudent reads an active student straight from the database.
func (s *Store) GetStudent(ctx context.Context, id uuid.UUID) (studentModel.Student, error) {
	var st studentModel.Student
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND student_is_deleted = ?", id, false).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return st, ErrStudentNotFound
	}
	if err != nil {
		return st, errors.Wrap(err, "get student")
	}
	return st, nil
}

// UpdateStudent applies fn to an active student and saves it.
func (s *Store) UpdateStudent(ctx context.Context, id uuid.UUID, fn func(*studentModel.Student)) (studentModel.Student, error) {
	var st studentModel.Student
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ? AND student_is_deleted = ?", id, false).First(&st).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}
		fn(&st)
		return tx.Save(&st).Error
	})
	if errors.Is(err, ErrStudentNotFound) {
		return st, ErrStudentNotFound
	}
	if err != nil {
		return st, errors.Wrap(err, "update student")
	}
	s.afterMutation(ctx)
	return st, nil
}

// DeleteStudent is a soft delete; payment history stays.
func (s *Store) DeleteStudent(ctx context.Context, id uuid.UUID) (studentModel.Student, error) {
	var st studentModel.Student
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).First(&st).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}
		st.StudentIsDeleted = true
		return tx.Model(&st).Updates(map[string]any{
			"student_is_deleted": true,
			"student_updated_at": nowFunc(),
		}).Error
	})
	if errors.Is(err, ErrStudentNotFound) {
		return st, ErrStudentNotFound
	}
	if err != nil {
		return st, errors.Wrap(err, "delete student")
	}
	s.afterMutation(ctx)
	return st, nil
}

// =========================================================
// PAYMENTS
// =========================================================

// ListPayments returns every payment of a student (deleted students included), newest first.
func (s *Store) ListPayments(ctx context.Context, studentID uuid.UUID) ([]paymentModel.Payment, error) {
	var out []paymentModel.Payment
	if err := s.db.WithContext(ctx).
		Where("payment_student_id = ?", studentID).
		Order("payment_created_at DESC").
		Order("payment_id ASC").
		Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list payments")
	}
	return out, nil
}

type UpsertPayment struct {
	StudentID uuid.UUID
	Month     constants.Month
	Year      int
	Amount    int64
	Status    paymentModel.PaymentStatus
	Mode      *paymentModel.PaymentMode
	Note      *string
}

// UpsertPayment menulis record untuk (student, month, year): update kalau ada, create kalau belum.
func (s *Store) UpsertPayment(ctx context.Context, in UpsertPayment) (paymentModel.Payment, error) {
	if _, err := s.GetStudent(ctx, in.StudentID); err != nil {
		return paymentModel.Payment{}, err
	}
	if in.Status == "" {
		in.Status = paymentModel.PaymentStatusPaid
	}

	p, err := s.upsertOnce(ctx, in)
	if helper.IsUniqueViolation(err) {
		// insert konkuren untuk key yang sama; baris sudah ada sekarang → jalur update
		p, err = s.upsertOnce(ctx, in)
	}
	if err != nil {
		return p, errors.Wrap(err, "upsert payment")
	}
	s.afterMutation(ctx)
	return p, nil
}

func (s *Store) upsertOnce(ctx context.Context, in UpsertPayment) (paymentModel.Payment, error) {
	var p paymentModel.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("payment_student_id = ? AND payment_month = ? AND payment_year = ?",
			in.StudentID, in.Month, in.Year).
			First(&p).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		found := err == nil
		if !found {
			p = paymentModel.Payment{
				PaymentStudentID: in.StudentID,
				PaymentMonth:     in.Month,
				PaymentYear:      in.Year,
			}
		}
		p.PaymentAmount = in.Amount
		p.SetStatus(in.Status, in.Mode, nowFunc())
		if in.Note != nil {
			if p.PaymentMeta == nil {
				p.PaymentMeta = map[string]interface{}{}
			}
			p.PaymentMeta["note"] = *in.Note
		}
		if found {
			return tx.Save(&p).Error
		}
		return tx.Create(&p).Error
	})
	return p, err
}

// TogglePayment membalik PAID↔UNPAID pada record yang sudah ada.
func (s *Store) TogglePayment(ctx context.Context, studentID uuid.UUID, month constants.Month, year int, mode *paymentModel.PaymentMode) (paymentModel.Payment, error) {
	var p paymentModel.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_student_id = ? AND payment_month = ? AND payment_year = ?",
			studentID, month, year).
			First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		next := paymentModel.PaymentStatusPaid
		if p.IsPaid() {
			next = paymentModel.PaymentStatusUnpaid
		}
		p.SetStatus(next, mode, nowFunc())
		// Save menulis kolom nil juga (paid_at, mode)
		return tx.Save(&p).Error
	})
	if errors.Is(err, ErrPaymentNotFound) {
		return p, ErrPaymentNotFound
	}
	if err != nil {
		return p, errors.Wrap(err, "toggle payment")
	}
	s.afterMutation(ctx)
	return p, nil
}

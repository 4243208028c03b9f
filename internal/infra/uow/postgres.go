package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, &pgTx{db: pgxTx}); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = fn(ctx, &pgTx{db: pgxTx})
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	if errs.IsRetryable(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	db repository.Querier

	// Lazy-initialized repositories
	appointmentRepo  shared.AppointmentRepository
	prescriptionRepo shared.PrescriptionRepository
	examinationRepo  shared.ExaminationRepository
	paymentRepo      shared.PaymentRepository
	rechargeRepo     shared.RechargeRepository
	scheduleRepo     shared.ScheduleRepository
	medicineRepo     shared.MedicineRepository
	patientRepo      shared.PatientRepository
	recordRepo       shared.MedicalRecordRepository
	doctorRepo       shared.DoctorRepository
	departmentRepo   shared.DepartmentRepository
	examItemRepo     shared.ExamItemRepository
	adminRepo        shared.AdminRepository
}

func (t *pgTx) Appointments() shared.AppointmentRepository {
	if t.appointmentRepo == nil {
		t.appointmentRepo = repository.NewAppointmentRepository(t.db)
	}
	return t.appointmentRepo
}

func (t *pgTx) Prescriptions() shared.PrescriptionRepository {
	if t.prescriptionRepo == nil {
		t.prescriptionRepo = repository.NewPrescriptionRepository(t.db)
	}
	return t.prescriptionRepo
}

func (t *pgTx) Examinations() shared.ExaminationRepository {
	if t.examinationRepo == nil {
		t.examinationRepo = repository.NewExaminationRepository(t.db)
	}
	return t.examinationRepo
}

func (t *pgTx) Payments() shared.PaymentRepository {
	if t.paymentRepo == nil {
		t.paymentRepo = repository.NewPaymentRepository(t.db)
	}
	return t.paymentRepo
}

func (t *pgTx) Recharges() shared.RechargeRepository {
	if t.rechargeRepo == nil {
		t.rechargeRepo = repository.NewRechargeRepository(t.db)
	}
	return t.rechargeRepo
}

func (t *pgTx) Schedules() shared.ScheduleRepository {
	if t.scheduleRepo == nil {
		t.scheduleRepo = repository.NewScheduleRepository(t.db)
	}
	return t.scheduleRepo
}

func (t *pgTx) Medicines() shared.MedicineRepository {
	if t.medicineRepo == nil {
		t.medicineRepo = repository.NewMedicineRepository(t.db)
	}
	return t.medicineRepo
}

func (t *pgTx) Patients() shared.PatientRepository {
	if t.patientRepo == nil {
		t.patientRepo = repository.NewPatientRepository(t.db)
	}
	return t.patientRepo
}

func (t *pgTx) Records() shared.MedicalRecordRepository {
	if t.recordRepo == nil {
		t.recordRepo = repository.NewMedicalRecordRepository(t.db)
	}
	return t.recordRepo
}

func (t *pgTx) Doctors() shared.DoctorRepository {
	if t.doctorRepo == nil {
		t.doctorRepo = repository.NewDoctorRepository(t.db)
	}
	return t.doctorRepo
}

func (t *pgTx) Departments() shared.DepartmentRepository {
	if t.departmentRepo == nil {
		t.departmentRepo = repository.NewDepartmentRepository(t.db)
	}
	return t.departmentRepo
}

func (t *pgTx) ExamItems() shared.ExamItemRepository {
	if t.examItemRepo == nil {
		t.examItemRepo = repository.NewExamItemRepository(t.db)
	}
	return t.examItemRepo
}

func (t *pgTx) Admins() shared.AdminRepository {
	if t.adminRepo == nil {
		t.adminRepo = repository.NewAdminRepository(t.db)
	}
	return t.adminRepo
}

package uow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/domain/account"
	"hospital-ops/internal/domain/capacity"
	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/infra"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

func (s *memState) claimRefNo(no string, id uuid.UUID) error {
	if _, exists := s.refNos[no]; exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "reference number already exists", nil)
	}
	s.refNos[no] = id
	return nil
}

func (s *memState) claimUsername(name string, id uuid.UUID) error {
	if _, exists := s.usernames[name]; exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "username already exists", nil)
	}
	s.usernames[name] = id
	return nil
}

// --- appointments ---

type memAppointments struct{ st *memState }

func (r *memAppointments) Create(_ context.Context, a *shared.Appointment) error {
	if err := r.st.claimRefNo(a.AppointmentNo, a.ID); err != nil {
		return err
	}
	// Mirrors the uq_appointments_live partial unique index.
	for _, existing := range r.st.appointments {
		if existing.PatientID == a.PatientID && existing.ScheduleID == a.ScheduleID &&
			(existing.Status == reservation.AppointmentPending || existing.Status == reservation.AppointmentVisited) {
			return errs.ErrAlreadyReserved
		}
	}
	r.st.appointments[a.ID] = *a
	return nil
}

func (r *memAppointments) FindByID(_ context.Context, id uuid.UUID) (*shared.Appointment, error) {
	a, ok := r.st.appointments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &a, nil
}

func (r *memAppointments) UpdateStatus(_ context.Context, id uuid.UUID, from, to reservation.Status) error {
	a, ok := r.st.appointments[id]
	if !ok {
		return errs.ErrNotFound
	}
	if a.Status != from {
		return errs.ErrInvalidTransition
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	r.st.appointments[id] = a
	return nil
}

func (r *memAppointments) SetPaid(_ context.Context, id uuid.UUID) error {
	a, ok := r.st.appointments[id]
	if !ok {
		return errs.ErrNotFound
	}
	a.IsPaid = true
	r.st.appointments[id] = a
	return nil
}

func (r *memAppointments) HasLive(_ context.Context, patientID, scheduleID uuid.UUID) (bool, error) {
	for _, a := range r.st.appointments {
		if a.PatientID == patientID && a.ScheduleID == scheduleID &&
			(a.Status == reservation.AppointmentPending || a.Status == reservation.AppointmentVisited) {
			return true, nil
		}
	}
	return false, nil
}

// --- prescriptions ---

type memPrescriptions struct{ st *memState }

func (r *memPrescriptions) Create(_ context.Context, p *shared.Prescription) error {
	if err := r.st.claimRefNo(p.PrescriptionNo, p.ID); err != nil {
		return err
	}
	cp := *p
	cp.Items = append([]shared.PrescriptionItem(nil), p.Items...)
	r.st.prescriptions[p.ID] = cp
	return nil
}

func (r *memPrescriptions) FindByID(_ context.Context, id uuid.UUID) (*shared.Prescription, error) {
	p, ok := r.st.prescriptions[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	p.Items = append([]shared.PrescriptionItem(nil), p.Items...)
	return &p, nil
}

func (r *memPrescriptions) UpdateStatus(_ context.Context, id uuid.UUID, from, to reservation.Status) error {
	p, ok := r.st.prescriptions[id]
	if !ok {
		return errs.ErrNotFound
	}
	if p.Status != from {
		return errs.ErrInvalidTransition
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	r.st.prescriptions[id] = p
	return nil
}

func (r *memPrescriptions) SetPaid(_ context.Context, id uuid.UUID) error {
	p, ok := r.st.prescriptions[id]
	if !ok {
		return errs.ErrNotFound
	}
	p.IsPaid = true
	r.st.prescriptions[id] = p
	return nil
}

// --- examinations ---

type memExaminations struct{ st *memState }

func (r *memExaminations) Create(_ context.Context, e *shared.Examination) error {
	if err := r.st.claimRefNo(e.ExamNo, e.ID); err != nil {
		return err
	}
	ce := *e
	ce.Items = append([]shared.ExaminationItem(nil), e.Items...)
	r.st.examinations[e.ID] = ce
	return nil
}

func (r *memExaminations) FindByID(_ context.Context, id uuid.UUID) (*shared.Examination, error) {
	e, ok := r.st.examinations[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	e.Items = append([]shared.ExaminationItem(nil), e.Items...)
	return &e, nil
}

func (r *memExaminations) UpdateStatus(_ context.Context, id uuid.UUID, from, to reservation.Status) error {
	e, ok := r.st.examinations[id]
	if !ok {
		return errs.ErrNotFound
	}
	if e.Status != from {
		return errs.ErrInvalidTransition
	}
	e.Status = to
	e.UpdatedAt = time.Now()
	r.st.examinations[id] = e
	return nil
}

func (r *memExaminations) SetPaid(_ context.Context, id uuid.UUID) error {
	e, ok := r.st.examinations[id]
	if !ok {
		return errs.ErrNotFound
	}
	e.IsPaid = true
	r.st.examinations[id] = e
	return nil
}

func (r *memExaminations) SetReportAt(_ context.Context, id uuid.UUID, at time.Time) error {
	e, ok := r.st.examinations[id]
	if !ok {
		return errs.ErrNotFound
	}
	e.ReportAt = &at
	r.st.examinations[id] = e
	return nil
}

func (r *memExaminations) RecordItemResult(_ context.Context, examinationID, itemID uuid.UUID, result string, checkedAt time.Time) error {
	e, ok := r.st.examinations[examinationID]
	if !ok {
		return errs.ErrNotFound
	}
	items := append([]shared.ExaminationItem(nil), e.Items...)
	for i := range items {
		if items[i].ID == itemID {
			items[i].Result = result
			items[i].Status = reservation.ExamItemChecked
			at := checkedAt
			items[i].CheckedAt = &at
			e.Items = items
			r.st.examinations[examinationID] = e
			return nil
		}
	}
	return errs.ErrNotFound
}

func (r *memExaminations) CountUnchecked(_ context.Context, examinationID uuid.UUID) (int64, error) {
	e, ok := r.st.examinations[examinationID]
	if !ok {
		return 0, errs.ErrNotFound
	}
	var n int64
	for _, it := range e.Items {
		if it.Status == reservation.ExamItemUnchecked {
			n++
		}
	}
	return n, nil
}

// --- payments ---

type memPayments struct{ st *memState }

func (r *memPayments) Create(_ context.Context, p *shared.Payment) error {
	if err := r.st.claimRefNo(p.PaymentNo, p.ID); err != nil {
		return err
	}
	r.st.payments[p.ID] = *p
	return nil
}

func (r *memPayments) FindByID(_ context.Context, id uuid.UUID) (*shared.Payment, error) {
	p, ok := r.st.payments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (r *memPayments) Settle(_ context.Context, id uuid.UUID, method reservation.PayMethod, at time.Time) error {
	p, ok := r.st.payments[id]
	if !ok {
		return errs.ErrNotFound
	}
	if p.Status != reservation.PaymentPending {
		return errs.ErrInvalidTransition
	}
	p.Status = reservation.PaymentSettled
	p.PayMethod = method
	paidAt := at
	p.PaidAt = &paidAt
	r.st.payments[id] = p
	return nil
}

func (r *memPayments) UpdateStatus(_ context.Context, id uuid.UUID, from, to reservation.Status) error {
	p, ok := r.st.payments[id]
	if !ok {
		return errs.ErrNotFound
	}
	if p.Status != from {
		return errs.ErrInvalidTransition
	}
	p.Status = to
	r.st.payments[id] = p
	return nil
}

// --- recharges ---

type memRecharges struct{ st *memState }

func (r *memRecharges) Create(_ context.Context, rec *shared.Recharge) error {
	if err := r.st.claimRefNo(rec.RechargeNo, rec.ID); err != nil {
		return err
	}
	r.st.recharges[rec.ID] = *rec
	return nil
}

func (r *memRecharges) FindByID(_ context.Context, id uuid.UUID) (*shared.Recharge, error) {
	rec, ok := r.st.recharges[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &rec, nil
}

func (r *memRecharges) Settle(_ context.Context, id uuid.UUID, method reservation.PayMethod, at time.Time) error {
	rec, ok := r.st.recharges[id]
	if !ok {
		return errs.ErrNotFound
	}
	if rec.Status != reservation.RechargePending {
		return errs.ErrInvalidTransition
	}
	rec.Status = reservation.RechargeSettled
	rec.PayMethod = method
	settledAt := at
	rec.SettledAt = &settledAt
	r.st.recharges[id] = rec
	return nil
}

func (r *memRecharges) UpdateStatus(_ context.Context, id uuid.UUID, from, to reservation.Status) error {
	rec, ok := r.st.recharges[id]
	if !ok {
		return errs.ErrNotFound
	}
	if rec.Status != from {
		return errs.ErrInvalidTransition
	}
	rec.Status = to
	r.st.recharges[id] = rec
	return nil
}

// --- schedules (slot capacity ledger) ---

type memSchedules struct{ st *memState }

func (r *memSchedules) Create(_ context.Context, s *shared.Schedule) error {
	r.st.schedules[s.ID] = *s
	return nil
}

func (r *memSchedules) FindByID(_ context.Context, id uuid.UUID) (*shared.Schedule, error) {
	s, ok := r.st.schedules[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &s, nil
}

func (r *memSchedules) Reserve(_ context.Context, id uuid.UUID) (int32, error) {
	s, ok := r.st.schedules[id]
	if !ok {
		return 0, errs.ErrNotFound
	}
	slot := capacity.Slot{ID: s.ID, Limit: s.MaxPatients, Booked: s.BookedCount, Active: s.Active}
	queueNo, err := slot.Reserve()
	if err != nil {
		return 0, err
	}
	s.BookedCount = slot.Booked
	r.st.schedules[id] = s
	return queueNo, nil
}

func (r *memSchedules) Release(_ context.Context, id uuid.UUID) error {
	s, ok := r.st.schedules[id]
	if !ok {
		return errs.ErrNotFound
	}
	slot := capacity.Slot{ID: s.ID, Limit: s.MaxPatients, Booked: s.BookedCount, Active: s.Active}
	if err := slot.Release(); err != nil {
		return err
	}
	s.BookedCount = slot.Booked
	r.st.schedules[id] = s
	return nil
}

func (r *memSchedules) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	s, ok := r.st.schedules[id]
	if !ok {
		return errs.ErrNotFound
	}
	if !active && s.BookedCount > 0 {
		return errs.ErrScheduleHasBookings
	}
	s.Active = active
	r.st.schedules[id] = s
	return nil
}

// --- medicines (stock capacity ledger) ---

type memMedicines struct{ st *memState }

func (r *memMedicines) Create(_ context.Context, m *shared.Medicine) error {
	r.st.medicines[m.ID] = *m
	return nil
}

func (r *memMedicines) FindByID(_ context.Context, id uuid.UUID) (*shared.Medicine, error) {
	m, ok := r.st.medicines[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &m, nil
}

func (r *memMedicines) FindByIDs(_ context.Context, ids []uuid.UUID) ([]shared.Medicine, error) {
	out := make([]shared.Medicine, 0, len(ids))
	for _, id := range ids {
		m, ok := r.st.medicines[id]
		if !ok {
			return nil, errs.ErrNotFound
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memMedicines) Consume(_ context.Context, id uuid.UUID, qty int64) error {
	m, ok := r.st.medicines[id]
	if !ok {
		return errs.ErrNotFound
	}
	stock := capacity.Stock{ID: m.ID, Available: m.Stock}
	if err := stock.Consume(qty); err != nil {
		return err
	}
	m.Stock = stock.Available
	r.st.medicines[id] = m
	return nil
}

func (r *memMedicines) Restore(_ context.Context, id uuid.UUID, qty int64) error {
	m, ok := r.st.medicines[id]
	if !ok {
		return errs.ErrNotFound
	}
	stock := capacity.Stock{ID: m.ID, Available: m.Stock}
	if err := stock.Restore(qty); err != nil {
		return err
	}
	m.Stock = stock.Available
	r.st.medicines[id] = m
	return nil
}

// --- patients (balance ledger) ---

type memPatients struct{ st *memState }

func (r *memPatients) Create(_ context.Context, p *shared.Patient) error {
	if err := r.st.claimUsername(p.Username, p.ID); err != nil {
		return err
	}
	if err := r.st.claimRefNo(p.MedicalCardNo, p.ID); err != nil {
		return err
	}
	r.st.patients[p.ID] = *p
	return nil
}

func (r *memPatients) FindByID(_ context.Context, id uuid.UUID) (*shared.Patient, error) {
	p, ok := r.st.patients[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (r *memPatients) FindByUsername(_ context.Context, username string) (*shared.Patient, error) {
	for _, p := range r.st.patients {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *memPatients) Debit(_ context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	p, ok := r.st.patients[id]
	if !ok {
		return decimal.Zero, errs.ErrNotFound
	}
	acct := account.Account{PatientID: p.ID, Balance: p.Balance}
	newBalance, err := acct.Debit(amount)
	if err != nil {
		return p.Balance, err
	}
	p.Balance = newBalance
	r.st.patients[id] = p
	return newBalance, nil
}

func (r *memPatients) Credit(_ context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	p, ok := r.st.patients[id]
	if !ok {
		return decimal.Zero, errs.ErrNotFound
	}
	acct := account.Account{PatientID: p.ID, Balance: p.Balance}
	newBalance, err := acct.Credit(amount)
	if err != nil {
		return p.Balance, err
	}
	p.Balance = newBalance
	r.st.patients[id] = p
	return newBalance, nil
}

// --- medical records ---

type memRecords struct{ st *memState }

func (r *memRecords) Create(_ context.Context, rec *shared.MedicalRecord) error {
	r.st.records[rec.ID] = *rec
	return nil
}

func (r *memRecords) FindByID(_ context.Context, id uuid.UUID) (*shared.MedicalRecord, error) {
	rec, ok := r.st.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &rec, nil
}

func (r *memRecords) Update(_ context.Context, id uuid.UUID, diagnosis, advice string) error {
	rec, ok := r.st.records[id]
	if !ok {
		return errs.ErrNotFound
	}
	rec.Diagnosis = diagnosis
	rec.Advice = advice
	rec.UpdatedAt = time.Now()
	r.st.records[id] = rec
	return nil
}

// --- catalog ---

type memDoctors struct{ st *memState }

func (r *memDoctors) Create(_ context.Context, d *shared.Doctor) error {
	if err := r.st.claimUsername(d.Username, d.ID); err != nil {
		return err
	}
	r.st.doctors[d.ID] = *d
	return nil
}

func (r *memDoctors) FindByID(_ context.Context, id uuid.UUID) (*shared.Doctor, error) {
	d, ok := r.st.doctors[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &d, nil
}

func (r *memDoctors) FindByUsername(_ context.Context, username string) (*shared.Doctor, error) {
	for _, d := range r.st.doctors {
		if d.Username == username {
			return &d, nil
		}
	}
	return nil, errs.ErrNotFound
}

type memDepartments struct{ st *memState }

func (r *memDepartments) Create(_ context.Context, d *shared.Department) error {
	r.st.departments[d.ID] = *d
	return nil
}

func (r *memDepartments) FindByID(_ context.Context, id uuid.UUID) (*shared.Department, error) {
	d, ok := r.st.departments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &d, nil
}

type memExamItems struct{ st *memState }

func (r *memExamItems) Create(_ context.Context, def *shared.ExamItemDef) error {
	r.st.examItems[def.ID] = *def
	return nil
}

func (r *memExamItems) FindByIDs(_ context.Context, ids []uuid.UUID) ([]shared.ExamItemDef, error) {
	out := make([]shared.ExamItemDef, 0, len(ids))
	for _, id := range ids {
		def, ok := r.st.examItems[id]
		if !ok {
			return nil, errs.ErrNotFound
		}
		out = append(out, def)
	}
	return out, nil
}

type memAdmins struct{ st *memState }

func (r *memAdmins) Create(_ context.Context, a *shared.Admin) error {
	if err := r.st.claimUsername(a.Username, a.ID); err != nil {
		return err
	}
	r.st.admins[a.ID] = *a
	return nil
}

func (r *memAdmins) FindByUsername(_ context.Context, username string) (*shared.Admin, error) {
	for _, a := range r.st.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, errs.ErrNotFound
}

package uow

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"hospital-ops/internal/usecase/shared"
)

// MemoryUoW runs the engine against an in-process store. One mutex serializes
// atomic units, which gives the same total order per resource that the
// Postgres row locks give; rollback is by snapshot. Used by the unit tests and
// by DB_DRIVER=memory for local development.
type MemoryUoW struct {
	mu sync.Mutex
	st *memState
}

type memState struct {
	appointments  map[uuid.UUID]shared.Appointment
	prescriptions map[uuid.UUID]shared.Prescription
	examinations  map[uuid.UUID]shared.Examination
	payments      map[uuid.UUID]shared.Payment
	recharges     map[uuid.UUID]shared.Recharge
	schedules     map[uuid.UUID]shared.Schedule
	medicines     map[uuid.UUID]shared.Medicine
	patients      map[uuid.UUID]shared.Patient
	records       map[uuid.UUID]shared.MedicalRecord
	doctors       map[uuid.UUID]shared.Doctor
	departments   map[uuid.UUID]shared.Department
	examItems     map[uuid.UUID]shared.ExamItemDef
	admins        map[uuid.UUID]shared.Admin

	// Unique reference-number indexes; Create fails DUPLICATE_KEY on a hit so
	// callers exercise their regenerate-and-retry path.
	refNos    map[string]uuid.UUID
	usernames map[string]uuid.UUID
}

func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{st: newMemState()}
}

func newMemState() *memState {
	return &memState{
		appointments:  make(map[uuid.UUID]shared.Appointment),
		prescriptions: make(map[uuid.UUID]shared.Prescription),
		examinations:  make(map[uuid.UUID]shared.Examination),
		payments:      make(map[uuid.UUID]shared.Payment),
		recharges:     make(map[uuid.UUID]shared.Recharge),
		schedules:     make(map[uuid.UUID]shared.Schedule),
		medicines:     make(map[uuid.UUID]shared.Medicine),
		patients:      make(map[uuid.UUID]shared.Patient),
		records:       make(map[uuid.UUID]shared.MedicalRecord),
		doctors:       make(map[uuid.UUID]shared.Doctor),
		departments:   make(map[uuid.UUID]shared.Department),
		examItems:     make(map[uuid.UUID]shared.ExamItemDef),
		admins:        make(map[uuid.UUID]shared.Admin),
		refNos:        make(map[string]uuid.UUID),
		usernames:     make(map[string]uuid.UUID),
	}
}

func (u *MemoryUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := u.st.clone()
	tx := &memTx{st: u.st}
	if err := fn(ctx, tx); err != nil {
		u.st = snapshot
		return err
	}
	return nil
}

func (u *MemoryUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	// Hand the reader a private copy so stray writes cannot leak out.
	tx := &memTx{st: u.st.clone()}
	return fn(ctx, tx)
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.prescriptions {
		v.Items = append([]shared.PrescriptionItem(nil), v.Items...)
		c.prescriptions[k] = v
	}
	for k, v := range s.examinations {
		v.Items = append([]shared.ExaminationItem(nil), v.Items...)
		c.examinations[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.recharges {
		c.recharges[k] = v
	}
	for k, v := range s.schedules {
		c.schedules[k] = v
	}
	for k, v := range s.medicines {
		c.medicines[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	for k, v := range s.doctors {
		c.doctors[k] = v
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.examItems {
		c.examItems[k] = v
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	for k, v := range s.refNos {
		c.refNos[k] = v
	}
	for k, v := range s.usernames {
		c.usernames[k] = v
	}
	return c
}

type memTx struct {
	st *memState
}

func (t *memTx) Appointments() shared.AppointmentRepository   { return &memAppointments{st: t.st} }
func (t *memTx) Prescriptions() shared.PrescriptionRepository { return &memPrescriptions{st: t.st} }
func (t *memTx) Examinations() shared.ExaminationRepository   { return &memExaminations{st: t.st} }
func (t *memTx) Payments() shared.PaymentRepository           { return &memPayments{st: t.st} }
func (t *memTx) Recharges() shared.RechargeRepository         { return &memRecharges{st: t.st} }
func (t *memTx) Schedules() shared.ScheduleRepository         { return &memSchedules{st: t.st} }
func (t *memTx) Medicines() shared.MedicineRepository         { return &memMedicines{st: t.st} }
func (t *memTx) Patients() shared.PatientRepository           { return &memPatients{st: t.st} }
func (t *memTx) Records() shared.MedicalRecordRepository      { return &memRecords{st: t.st} }
func (t *memTx) Doctors() shared.DoctorRepository             { return &memDoctors{st: t.st} }
func (t *memTx) Departments() shared.DepartmentRepository     { return &memDepartments{st: t.st} }
func (t *memTx) ExamItems() shared.ExamItemRepository         { return &memExamItems{st: t.st} }
func (t *memTx) Admins() shared.AdminRepository               { return &memAdmins{st: t.st} }

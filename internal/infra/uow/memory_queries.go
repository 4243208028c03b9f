package uow

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/queries"
	"hospital-ops/internal/usecase/shared"
)

// Memory-backed read stores. They read the same state the MemoryUoW mutates,
// under the same mutex, so a listing never observes a half-applied unit.
// One store per query port, mirroring the Postgres readstore package.

func snapshot(ctx context.Context, u *MemoryUoW) (*memState, error) {
	var st *memState
	err := u.WithinReadOnly(ctx, func(_ context.Context, tx shared.Tx) error {
		st = tx.(*memTx).st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func paginate[T any](items []T, page queries.Page) []T {
	page = page.Normalize()
	start := int(page.Offset())
	if start >= len(items) {
		return nil
	}
	end := start + int(page.Limit())
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortByCreatedAtDesc[T any](items []T, createdAt func(T) time.Time, id func(T) uuid.UUID) {
	sort.Slice(items, func(i, j int) bool {
		if !createdAt(items[i]).Equal(createdAt(items[j])) {
			return createdAt(items[i]).After(createdAt(items[j]))
		}
		return id(items[i]).String() < id(items[j]).String()
	})
}

// --- schedules ---

type MemoryScheduleQueries struct{ uow *MemoryUoW }

func NewMemoryScheduleQueries(u *MemoryUoW) *MemoryScheduleQueries {
	return &MemoryScheduleQueries{uow: u}
}

func scheduleView(st *memState, s shared.Schedule) *queries.ScheduleView {
	v := &queries.ScheduleView{
		ID:           s.ID,
		DoctorID:     s.DoctorID,
		DepartmentID: s.DepartmentID,
		VisitDate:    s.VisitDate,
		TimeSlot:     s.TimeSlot,
		Fee:          s.Fee,
		MaxPatients:  s.MaxPatients,
		BookedCount:  s.BookedCount,
		Available:    s.MaxPatients - s.BookedCount,
		Active:       s.Active,
	}
	if d, ok := st.doctors[s.DoctorID]; ok {
		v.DoctorName = d.Name
	}
	if dep, ok := st.departments[s.DepartmentID]; ok {
		v.DepartmentName = dep.Name
	}
	return v
}

func (q *MemoryScheduleQueries) FindByID(ctx context.Context, id uuid.UUID) (*queries.ScheduleView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	s, ok := st.schedules[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return scheduleView(st, s), nil
}

func (q *MemoryScheduleQueries) List(ctx context.Context, departmentID *uuid.UUID, visitDate *time.Time, page queries.Page) ([]*queries.ScheduleView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.ScheduleView
	for _, s := range st.schedules {
		if departmentID != nil && s.DepartmentID != *departmentID {
			continue
		}
		if visitDate != nil && !s.VisitDate.Equal(*visitDate) {
			continue
		}
		out = append(out, scheduleView(st, s))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].VisitDate.Equal(out[j].VisitDate) {
			return out[i].VisitDate.Before(out[j].VisitDate)
		}
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return paginate(out, page), nil
}

var _ queries.ScheduleQueries = (*MemoryScheduleQueries)(nil)

// --- appointments ---

type MemoryAppointmentQueries struct{ uow *MemoryUoW }

func NewMemoryAppointmentQueries(u *MemoryUoW) *MemoryAppointmentQueries {
	return &MemoryAppointmentQueries{uow: u}
}

func appointmentView(st *memState, a shared.Appointment) *queries.AppointmentView {
	v := &queries.AppointmentView{
		ID:            a.ID,
		AppointmentNo: a.AppointmentNo,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		DepartmentID:  a.DepartmentID,
		ScheduleID:    a.ScheduleID,
		VisitDate:     a.VisitDate,
		TimeSlot:      a.TimeSlot,
		Fee:           a.Fee,
		QueueNo:       a.QueueNo,
		Status:        int16(a.Status),
		IsPaid:        a.IsPaid,
		CreatedAt:     a.CreatedAt,
	}
	if p, ok := st.patients[a.PatientID]; ok {
		v.PatientName = p.Name
	}
	if d, ok := st.doctors[a.DoctorID]; ok {
		v.DoctorName = d.Name
	}
	return v
}

func (q *MemoryAppointmentQueries) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	a, ok := st.appointments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return appointmentView(st, a), nil
}

func (q *MemoryAppointmentQueries) list(ctx context.Context, match func(shared.Appointment) bool, page queries.Page) ([]*queries.AppointmentView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.AppointmentView
	for _, a := range st.appointments {
		if match(a) {
			out = append(out, appointmentView(st, a))
		}
	}
	sortByCreatedAtDesc(out,
		func(v *queries.AppointmentView) time.Time { return v.CreatedAt },
		func(v *queries.AppointmentView) uuid.UUID { return v.ID })
	return paginate(out, page), nil
}

func (q *MemoryAppointmentQueries) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.AppointmentView, error) {
	return q.list(ctx, func(a shared.Appointment) bool { return a.PatientID == patientID }, page)
}

func (q *MemoryAppointmentQueries) ListByDoctor(ctx context.Context, doctorID uuid.UUID, page queries.Page) ([]*queries.AppointmentView, error) {
	return q.list(ctx, func(a shared.Appointment) bool { return a.DoctorID == doctorID }, page)
}

var _ queries.AppointmentQueries = (*MemoryAppointmentQueries)(nil)

// --- prescriptions ---

type MemoryPrescriptionQueries struct{ uow *MemoryUoW }

func NewMemoryPrescriptionQueries(u *MemoryUoW) *MemoryPrescriptionQueries {
	return &MemoryPrescriptionQueries{uow: u}
}

func prescriptionView(st *memState, p shared.Prescription) *queries.PrescriptionView {
	v := &queries.PrescriptionView{
		ID:             p.ID,
		PrescriptionNo: p.PrescriptionNo,
		PatientID:      p.PatientID,
		DoctorID:       p.DoctorID,
		TotalAmount:    p.TotalAmount,
		Status:         int16(p.Status),
		IsPaid:         p.IsPaid,
		CreatedAt:      p.CreatedAt,
	}
	if d, ok := st.doctors[p.DoctorID]; ok {
		v.DoctorName = d.Name
	}
	for _, it := range p.Items {
		iv := queries.PrescriptionItemView{
			ID:         it.ID,
			MedicineID: it.MedicineID,
			Quantity:   it.Quantity,
			Dosage:     it.Dosage,
			UnitPrice:  it.UnitPrice,
			Subtotal:   it.Subtotal,
		}
		if m, ok := st.medicines[it.MedicineID]; ok {
			iv.MedicineName = m.Name
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

func (q *MemoryPrescriptionQueries) FindByID(ctx context.Context, id uuid.UUID) (*queries.PrescriptionView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	p, ok := st.prescriptions[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return prescriptionView(st, p), nil
}

func (q *MemoryPrescriptionQueries) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.PrescriptionView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.PrescriptionView
	for _, p := range st.prescriptions {
		if p.PatientID == patientID {
			out = append(out, prescriptionView(st, p))
		}
	}
	sortByCreatedAtDesc(out,
		func(v *queries.PrescriptionView) time.Time { return v.CreatedAt },
		func(v *queries.PrescriptionView) uuid.UUID { return v.ID })
	return paginate(out, page), nil
}

var _ queries.PrescriptionQueries = (*MemoryPrescriptionQueries)(nil)

// --- examinations ---

type MemoryExaminationQueries struct{ uow *MemoryUoW }

func NewMemoryExaminationQueries(u *MemoryUoW) *MemoryExaminationQueries {
	return &MemoryExaminationQueries{uow: u}
}

func examinationView(st *memState, e shared.Examination) *queries.ExaminationView {
	v := &queries.ExaminationView{
		ID:          e.ID,
		ExamNo:      e.ExamNo,
		PatientID:   e.PatientID,
		DoctorID:    e.DoctorID,
		ExamDate:    e.ExamDate,
		TotalAmount: e.TotalAmount,
		Status:      int16(e.Status),
		IsPaid:      e.IsPaid,
		ReportAt:    e.ReportAt,
		CreatedAt:   e.CreatedAt,
	}
	for _, it := range e.Items {
		iv := queries.ExaminationItemView{
			ID:         it.ID,
			ExamItemID: it.ExamItemID,
			Result:     it.Result,
			Status:     int16(it.Status),
			CheckedAt:  it.CheckedAt,
		}
		if def, ok := st.examItems[it.ExamItemID]; ok {
			iv.ItemName = def.Name
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

func (q *MemoryExaminationQueries) FindByID(ctx context.Context, id uuid.UUID) (*queries.ExaminationView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	e, ok := st.examinations[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return examinationView(st, e), nil
}

func (q *MemoryExaminationQueries) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.ExaminationView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.ExaminationView
	for _, e := range st.examinations {
		if e.PatientID == patientID {
			out = append(out, examinationView(st, e))
		}
	}
	sortByCreatedAtDesc(out,
		func(v *queries.ExaminationView) time.Time { return v.CreatedAt },
		func(v *queries.ExaminationView) uuid.UUID { return v.ID })
	return paginate(out, page), nil
}

var _ queries.ExaminationQueries = (*MemoryExaminationQueries)(nil)

// --- payments and recharges ---

type MemoryPaymentQueries struct{ uow *MemoryUoW }

func NewMemoryPaymentQueries(u *MemoryUoW) *MemoryPaymentQueries {
	return &MemoryPaymentQueries{uow: u}
}

func paymentView(p shared.Payment) *queries.PaymentView {
	return &queries.PaymentView{
		ID:        p.ID,
		PaymentNo: p.PaymentNo,
		PatientID: p.PatientID,
		Type:      int16(p.Type),
		RefID:     p.RefID,
		Amount:    p.Amount,
		PayMethod: int16(p.PayMethod),
		Status:    int16(p.Status),
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}

func rechargeView(rec shared.Recharge) *queries.RechargeView {
	return &queries.RechargeView{
		ID:         rec.ID,
		RechargeNo: rec.RechargeNo,
		PatientID:  rec.PatientID,
		Amount:     rec.Amount,
		PayMethod:  int16(rec.PayMethod),
		Status:     int16(rec.Status),
		SettledAt:  rec.SettledAt,
		CreatedAt:  rec.CreatedAt,
	}
}

func (q *MemoryPaymentQueries) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	p, ok := st.payments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return paymentView(p), nil
}

func (q *MemoryPaymentQueries) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.PaymentView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.PaymentView
	for _, p := range st.payments {
		if p.PatientID == patientID {
			out = append(out, paymentView(p))
		}
	}
	sortByCreatedAtDesc(out,
		func(v *queries.PaymentView) time.Time { return v.CreatedAt },
		func(v *queries.PaymentView) uuid.UUID { return v.ID })
	return paginate(out, page), nil
}

func (q *MemoryPaymentQueries) FindRechargeByID(ctx context.Context, id uuid.UUID) (*queries.RechargeView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	rec, ok := st.recharges[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return rechargeView(rec), nil
}

func (q *MemoryPaymentQueries) ListRechargesByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.RechargeView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.RechargeView
	for _, rec := range st.recharges {
		if rec.PatientID == patientID {
			out = append(out, rechargeView(rec))
		}
	}
	sortByCreatedAtDesc(out,
		func(v *queries.RechargeView) time.Time { return v.CreatedAt },
		func(v *queries.RechargeView) uuid.UUID { return v.ID })
	return paginate(out, page), nil
}

var _ queries.PaymentQueries = (*MemoryPaymentQueries)(nil)

// --- patients ---

type MemoryPatientQueries struct{ uow *MemoryUoW }

func NewMemoryPatientQueries(u *MemoryUoW) *MemoryPatientQueries {
	return &MemoryPatientQueries{uow: u}
}

func (q *MemoryPatientQueries) Balance(ctx context.Context, patientID uuid.UUID) (*queries.BalanceView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	p, ok := st.patients[patientID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &queries.BalanceView{PatientID: p.ID, Balance: p.Balance}, nil
}

var _ queries.PatientQueries = (*MemoryPatientQueries)(nil)

// --- catalog ---

type MemoryCatalogQueries struct{ uow *MemoryUoW }

func NewMemoryCatalogQueries(u *MemoryUoW) *MemoryCatalogQueries {
	return &MemoryCatalogQueries{uow: u}
}

func (q *MemoryCatalogQueries) ListDepartments(ctx context.Context, page queries.Page) ([]*queries.DepartmentView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.DepartmentView
	for _, d := range st.departments {
		out = append(out, &queries.DepartmentView{ID: d.ID, Name: d.Name, Description: d.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, page), nil
}

func (q *MemoryCatalogQueries) ListDoctors(ctx context.Context, departmentID *uuid.UUID, page queries.Page) ([]*queries.DoctorView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.DoctorView
	for _, d := range st.doctors {
		if departmentID != nil && d.DepartmentID != *departmentID {
			continue
		}
		v := &queries.DoctorView{
			ID:           d.ID,
			Name:         d.Name,
			Title:        d.Title,
			DepartmentID: d.DepartmentID,
			Active:       d.Active,
		}
		if dep, ok := st.departments[d.DepartmentID]; ok {
			v.DepartmentName = dep.Name
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return paginate(out, page), nil
}

func (q *MemoryCatalogQueries) ListMedicines(ctx context.Context, page queries.Page) ([]*queries.MedicineView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.MedicineView
	for _, m := range st.medicines {
		out = append(out, &queries.MedicineView{
			ID:     m.ID,
			Name:   m.Name,
			Spec:   m.Spec,
			Unit:   m.Unit,
			Price:  m.Price,
			Stock:  m.Stock,
			Active: m.Active,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return paginate(out, page), nil
}

func (q *MemoryCatalogQueries) ListExamItems(ctx context.Context, page queries.Page) ([]*queries.ExamItemView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.ExamItemView
	for _, def := range st.examItems {
		out = append(out, &queries.ExamItemView{
			ID:          def.ID,
			Name:        def.Name,
			Price:       def.Price,
			Description: def.Description,
			Active:      def.Active,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return paginate(out, page), nil
}

var _ queries.CatalogQueries = (*MemoryCatalogQueries)(nil)

// --- medical records ---

type MemoryMedicalRecordQueries struct{ uow *MemoryUoW }

func NewMemoryMedicalRecordQueries(u *MemoryUoW) *MemoryMedicalRecordQueries {
	return &MemoryMedicalRecordQueries{uow: u}
}

func recordView(st *memState, rec shared.MedicalRecord) *queries.MedicalRecordView {
	v := &queries.MedicalRecordView{
		ID:            rec.ID,
		AppointmentID: rec.AppointmentID,
		PatientID:     rec.PatientID,
		DoctorID:      rec.DoctorID,
		Diagnosis:     rec.Diagnosis,
		Advice:        rec.Advice,
		CreatedAt:     rec.CreatedAt,
	}
	if d, ok := st.doctors[rec.DoctorID]; ok {
		v.DoctorName = d.Name
	}
	return v
}

func (q *MemoryMedicalRecordQueries) FindByID(ctx context.Context, id uuid.UUID) (*queries.MedicalRecordView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}
	rec, ok := st.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return recordView(st, rec), nil
}

func (q *MemoryMedicalRecordQueries) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.MedicalRecordView, error) {
	st, err := snapshot(ctx, q.uow)
	if err != nil {
		return nil, err
	}

	var out []*queries.MedicalRecordView
	for _, rec := range st.records {
		if rec.PatientID == patientID {
			out = append(out, recordView(st, rec))
		}
	}
	sortByCreatedAtDesc(out,
		func(v *queries.MedicalRecordView) time.Time { return v.CreatedAt },
		func(v *queries.MedicalRecordView) uuid.UUID { return v.ID })
	return paginate(out, page), nil
}

var _ queries.MedicalRecordQueries = (*MemoryMedicalRecordQueries)(nil)

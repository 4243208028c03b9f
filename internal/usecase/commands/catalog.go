package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/pkg/password"
	"hospital-ops/internal/usecase/shared"
)

type CreateDoctorInput struct {
	Username     string
	Password     string
	Name         string
	Title        string
	DepartmentID uuid.UUID
}

type CreateScheduleInput struct {
	DoctorID    uuid.UUID
	VisitDate   time.Time
	TimeSlot    string
	Fee         decimal.Decimal
	MaxPatients int32
}

type CreateMedicineInput struct {
	Name  string
	Spec  string
	Unit  string
	Price decimal.Decimal
	Stock int64
}

type CreateExamItemInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
}

// CatalogCommands is the admin surface: reference data plus the stock and
// schedule mutations that feed the capacity ledger.
type CatalogCommands interface {
	CreateDepartment(ctx context.Context, name, description string, actor shared.Actor) (*shared.Department, error)
	CreateDoctor(ctx context.Context, in CreateDoctorInput, actor shared.Actor) (*shared.Doctor, error)
	CreateSchedule(ctx context.Context, in CreateScheduleInput, actor shared.Actor) (*shared.Schedule, error)
	SetScheduleActive(ctx context.Context, id uuid.UUID, active bool, actor shared.Actor) error
	CreateMedicine(ctx context.Context, in CreateMedicineInput, actor shared.Actor) (*shared.Medicine, error)
	RestockMedicine(ctx context.Context, id uuid.UUID, qty int64, actor shared.Actor) error
	CreateExamItem(ctx context.Context, in CreateExamItemInput, actor shared.Actor) (*shared.ExamItemDef, error)
}

type catalogCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCatalogCommands(uow shared.UnitOfWork, clock clock.Clock) CatalogCommands {
	return &catalogCommandsImpl{uow: uow, clock: clock}
}

func (c *catalogCommandsImpl) CreateDepartment(ctx context.Context, name, description string, actor shared.Actor) (*shared.Department, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	d := &shared.Department{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   c.clock.Now(),
	}
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Departments().Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (c *catalogCommandsImpl) CreateDoctor(ctx context.Context, in CreateDoctorInput, actor shared.Actor) (*shared.Doctor, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	d := &shared.Doctor{
		ID:           uuid.New(),
		Username:     in.Username,
		PasswordHash: hash,
		Name:         in.Name,
		Title:        in.Title,
		DepartmentID: in.DepartmentID,
		Active:       true,
		CreatedAt:    c.clock.Now(),
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Departments().FindByID(ctx, in.DepartmentID); err != nil {
			return err
		}
		return tx.Doctors().Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// CreateSchedule creates the slot together with its capacity resource: the
// row IS the resource, so creation can never leave one without the other.
func (c *catalogCommandsImpl) CreateSchedule(ctx context.Context, in CreateScheduleInput, actor shared.Actor) (*shared.Schedule, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if in.MaxPatients <= 0 || in.Fee.Sign() < 0 {
		return nil, errs.ErrInvalidAmount
	}

	var created *shared.Schedule
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		doc, err := tx.Doctors().FindByID(ctx, in.DoctorID)
		if err != nil {
			return err
		}
		if !doc.Active {
			return errs.ErrInactive
		}

		s := &shared.Schedule{
			ID:           uuid.New(),
			DoctorID:     doc.ID,
			DepartmentID: doc.DepartmentID,
			VisitDate:    in.VisitDate,
			TimeSlot:     in.TimeSlot,
			Fee:          in.Fee,
			MaxPatients:  in.MaxPatients,
			BookedCount:  0,
			Active:       true,
			CreatedAt:    c.clock.Now(),
		}
		if err := tx.Schedules().Create(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetScheduleActive refuses to close a slot that still carries live bookings.
func (c *catalogCommandsImpl) SetScheduleActive(ctx context.Context, id uuid.UUID, active bool, actor shared.Actor) error {
	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Schedules().SetActive(ctx, id, active)
	})
}

func (c *catalogCommandsImpl) CreateMedicine(ctx context.Context, in CreateMedicineInput, actor shared.Actor) (*shared.Medicine, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if in.Stock < 0 || in.Price.Sign() < 0 {
		return nil, errs.ErrInvalidAmount
	}

	m := &shared.Medicine{
		ID:        uuid.New(),
		Name:      in.Name,
		Spec:      in.Spec,
		Unit:      in.Unit,
		Price:     in.Price,
		Stock:     in.Stock,
		Active:    true,
		CreatedAt: c.clock.Now(),
	}
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Medicines().Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RestockMedicine routes stock adjustments through the same ledger operation
// prescriptions use, keeping stock >= 0 a single enforced invariant.
func (c *catalogCommandsImpl) RestockMedicine(ctx context.Context, id uuid.UUID, qty int64, actor shared.Actor) error {
	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}
	if qty == 0 {
		return errs.ErrInvalidAmount
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if qty > 0 {
			return tx.Medicines().Restore(ctx, id, qty)
		}
		return tx.Medicines().Consume(ctx, id, -qty)
	})
}

func (c *catalogCommandsImpl) CreateExamItem(ctx context.Context, in CreateExamItemInput, actor shared.Actor) (*shared.ExamItemDef, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if in.Price.Sign() < 0 {
		return nil, errs.ErrInvalidAmount
	}

	def := &shared.ExamItemDef{
		ID:          uuid.New(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Active:      true,
		CreatedAt:   c.clock.Now(),
	}
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.ExamItems().Create(ctx, def)
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

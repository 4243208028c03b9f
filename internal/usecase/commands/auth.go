package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/domain/user"
	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/pkg/jwt"
	"hospital-ops/internal/pkg/password"
	"hospital-ops/internal/pkg/refno"
	"hospital-ops/internal/usecase/shared"
)

var ErrInvalidCredentials = errs.New("invalid username or password")

type RegisterPatientInput struct {
	Username string
	Password string
	Name     string
	Phone    string
}

type LoginResult struct {
	Token string
	ID    uuid.UUID
	Role  user.Role
	Name  string
}

type AuthCommands interface {
	RegisterPatient(ctx context.Context, in RegisterPatientInput) (*shared.Patient, error)
	Login(ctx context.Context, username, pass string, role user.Role) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow   shared.UnitOfWork
	jwt   *jwt.Service
	clock clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service, clock clock.Clock) AuthCommands {
	return &authCommandsImpl{uow: uow, jwt: jwtService, clock: clock}
}

// RegisterPatient creates the account with a zero balance and a fresh medical
// card number. Card collisions regenerate like any other reference number.
func (c *authCommandsImpl) RegisterPatient(ctx context.Context, in RegisterPatientInput) (*shared.Patient, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var created *shared.Patient
	err = withRefNoRetry(refno.MaxAttempts, func() error {
		cardNo := refno.NewMedicalCard(c.clock.Now())

		return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			p := &shared.Patient{
				ID:            uuid.New(),
				Username:      in.Username,
				PasswordHash:  hash,
				Name:          in.Name,
				Phone:         in.Phone,
				MedicalCardNo: cardNo,
				Balance:       decimal.Zero,
				CreatedAt:     c.clock.Now(),
			}
			if err := tx.Patients().Create(ctx, p); err != nil {
				return err
			}
			created = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *authCommandsImpl) Login(ctx context.Context, username, pass string, role user.Role) (*LoginResult, error) {
	if !role.IsValid() {
		return nil, ErrInvalidCredentials
	}

	var id uuid.UUID
	var hash, name string

	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		switch role {
		case user.RoleAdmin:
			a, err := tx.Admins().FindByUsername(ctx, username)
			if err != nil {
				return err
			}
			id, hash, name = a.ID, a.PasswordHash, a.Name
		case user.RoleDoctor:
			d, err := tx.Doctors().FindByUsername(ctx, username)
			if err != nil {
				return err
			}
			if !d.Active {
				return errs.ErrInactive
			}
			id, hash, name = d.ID, d.PasswordHash, d.Name
		default:
			p, err := tx.Patients().FindByUsername(ctx, username)
			if err != nil {
				return err
			}
			id, hash, name = p.ID, p.PasswordHash, p.Name
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.Compare(hash, pass); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := c.jwt.GenerateToken(id, role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ID: id, Role: role, Name: name}, nil
}

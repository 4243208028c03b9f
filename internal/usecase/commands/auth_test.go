//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/domain/user"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/pkg/password"
	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/shared"
)

func TestRegisterPatient(t *testing.T) {
	t.Run("new patient starts with a card number and zero balance", func(t *testing.T) {
		e := newEnv(t)

		p, err := e.auth.RegisterPatient(context.Background(), commands.RegisterPatientInput{
			Username: "zhang.wei",
			Password: "s3cret-pass",
			Name:     "Zhang Wei",
			Phone:    "13800001111",
		})
		require.NoError(t, err)

		assert.Regexp(t, `^YK\d{14}$`, p.MedicalCardNo)
		assert.True(t, p.Balance.IsZero())
		assert.NotEqual(t, "s3cret-pass", p.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		e := newEnv(t)
		in := commands.RegisterPatientInput{Username: "taken", Password: "pw123456", Name: "A", Phone: "1"}

		_, err := e.auth.RegisterPatient(context.Background(), in)
		require.NoError(t, err)

		_, err = e.auth.RegisterPatient(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	register := func(t *testing.T, e *env, username, pass string) *shared.Patient {
		t.Helper()
		p, err := e.auth.RegisterPatient(context.Background(), commands.RegisterPatientInput{
			Username: username, Password: pass, Name: "Test Patient", Phone: "13800001111",
		})
		require.NoError(t, err)
		return p
	}

	t.Run("register then login round trip", func(t *testing.T) {
		e := newEnv(t)
		p := register(t, e, "li.na", "correct-horse")

		result, err := e.auth.Login(context.Background(), "li.na", "correct-horse", user.RolePatient)
		require.NoError(t, err)

		assert.Equal(t, p.ID, result.ID)
		assert.Equal(t, user.RolePatient, result.Role)
		assert.Equal(t, "Test Patient", result.Name)

		claims, err := e.jwt.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, p.ID, claims.UserID)
		assert.Equal(t, user.RolePatient.String(), claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		e := newEnv(t)
		register(t, e, "li.na", "correct-horse")

		_, err := e.auth.Login(context.Background(), "li.na", "battery-staple", user.RolePatient)
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown username looks like a bad password", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.auth.Login(context.Background(), "nobody", "whatever", user.RolePatient)
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("invalid role", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.auth.Login(context.Background(), "li.na", "correct-horse", user.Role("nurse"))
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("a patient account cannot login as admin", func(t *testing.T) {
		e := newEnv(t)
		register(t, e, "li.na", "correct-horse")

		_, err := e.auth.Login(context.Background(), "li.na", "correct-horse", user.RoleAdmin)
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("active doctor logs in", func(t *testing.T) {
		e := newEnv(t)
		admin := adminActor()
		dept, err := e.catalog.CreateDepartment(context.Background(), "Cardiology", "", admin)
		require.NoError(t, err)

		doc, err := e.catalog.CreateDoctor(context.Background(), commands.CreateDoctorInput{
			Username:     "dr.chen",
			Password:     "rounds-at-7",
			Name:         "Chen Ming",
			Title:        "Attending",
			DepartmentID: dept.ID,
		}, admin)
		require.NoError(t, err)

		result, err := e.auth.Login(context.Background(), "dr.chen", "rounds-at-7", user.RoleDoctor)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, result.ID)
		assert.Equal(t, user.RoleDoctor, result.Role)
	})

	t.Run("deactivated doctor cannot login", func(t *testing.T) {
		e := newEnv(t)
		hash, err := password.Hash("rounds-at-7")
		require.NoError(t, err)

		e.within(t, func(ctx context.Context, tx shared.Tx) error {
			dept := &shared.Department{ID: uuid.New(), Name: "Cardiology"}
			if err := tx.Departments().Create(ctx, dept); err != nil {
				return err
			}
			return tx.Doctors().Create(ctx, &shared.Doctor{
				ID:           uuid.New(),
				Username:     "dr.retired",
				PasswordHash: hash,
				Name:         "Retired Doctor",
				Title:        "Attending",
				DepartmentID: dept.ID,
				Active:       false,
				CreatedAt:    e.clk.Now(),
			})
		})

		_, err = e.auth.Login(context.Background(), "dr.retired", "rounds-at-7", user.RoleDoctor)
		assert.ErrorIs(t, err, errs.ErrInactive)
	})
}

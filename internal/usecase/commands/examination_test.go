//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

// orderExam creates a two-item examination and returns it with its item IDs.
func orderExam(t *testing.T, e *env, doctor, patient shared.Actor) *shared.Examination {
	t.Helper()
	cbc := e.seedExamItem(t, "Complete Blood Count", "12.00")
	xray := e.seedExamItem(t, "Chest X-Ray", "48.00")
	exam, err := e.examinations.CreateExamination(context.Background(), patient.ID, []uuid.UUID{cbc, xray}, doctor)
	require.NoError(t, err)
	return exam
}

// payExam settles an examination from the patient's balance.
func payExam(t *testing.T, e *env, examID uuid.UUID, patient shared.Actor) {
	t.Helper()
	p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForExamination, examID, patient)
	require.NoError(t, err)
	_, err = e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
	require.NoError(t, err)
}

func TestCreateExamination(t *testing.T) {
	t.Run("totals the item prices and starts every item unchecked", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")

		exam := orderExam(t, e, doctor, patient)

		assert.Regexp(t, `^TJ\d{12}$`, exam.ExamNo)
		assert.Equal(t, reservation.ExaminationPendingPayment, exam.Status)
		assert.True(t, exam.TotalAmount.Equal(dec("60.00")))
		require.Len(t, exam.Items, 2)
		for _, it := range exam.Items {
			assert.Equal(t, reservation.ExamItemUnchecked, it.Status)
			assert.Empty(t, it.Result)
		}

		// What the store holds matches what the caller got back.
		e.withinRead(t, func(ctx context.Context, tx shared.Tx) {
			got, err := tx.Examinations().FindByID(ctx, exam.ID)
			require.NoError(t, err)
			if diff := cmp.Diff(exam.Items, got.Items); diff != "" {
				t.Errorf("Items mismatch (-want +got):\n%s", diff)
			}
		})
	})

	t.Run("only doctors order examinations", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")
		item := e.seedExamItem(t, "Urinalysis", "8.00")

		_, err := e.examinations.CreateExamination(context.Background(), patient.ID, []uuid.UUID{item}, patient)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		_, err = e.examinations.CreateExamination(context.Background(), patient.ID, []uuid.UUID{item}, adminActor())
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unknown patient", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		item := e.seedExamItem(t, "Urinalysis", "8.00")

		_, err := e.examinations.CreateExamination(context.Background(), uuid.New(), []uuid.UUID{item}, doctor)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("empty item list", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")

		_, err := e.examinations.CreateExamination(context.Background(), patient.ID, nil, doctor)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("unknown exam item", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")

		_, err := e.examinations.CreateExamination(context.Background(), patient.ID, []uuid.UUID{uuid.New()}, doctor)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestRecordExamResult(t *testing.T) {
	t.Run("first result moves a paid examination into progress", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		exam := orderExam(t, e, doctor, patient)
		payExam(t, e, exam.ID, patient)

		err := e.examinations.RecordExamResult(context.Background(), exam.ID, exam.Items[0].ID, "WBC 6.2, within range", doctor)
		require.NoError(t, err)

		e.withinRead(t, func(ctx context.Context, tx shared.Tx) {
			got, err := tx.Examinations().FindByID(ctx, exam.ID)
			require.NoError(t, err)
			assert.Equal(t, reservation.ExaminationInProgress, got.Status)
			assert.Equal(t, reservation.ExamItemChecked, got.Items[0].Status)
			assert.Equal(t, "WBC 6.2, within range", got.Items[0].Result)
			require.NotNil(t, got.Items[0].CheckedAt)
			assert.Equal(t, reservation.ExamItemUnchecked, got.Items[1].Status)
		})
	})

	t.Run("unpaid examination rejects results", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		exam := orderExam(t, e, doctor, patient)

		err := e.examinations.RecordExamResult(context.Background(), exam.ID, exam.Items[0].ID, "result", doctor)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("patients cannot record results", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		exam := orderExam(t, e, doctor, patient)
		payExam(t, e, exam.ID, patient)

		err := e.examinations.RecordExamResult(context.Background(), exam.ID, exam.Items[0].ID, "result", patient)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unknown item under a known examination", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		exam := orderExam(t, e, doctor, patient)
		payExam(t, e, exam.ID, patient)

		err := e.examinations.RecordExamResult(context.Background(), exam.ID, uuid.New(), "result", doctor)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestCompleteExamination(t *testing.T) {
	t.Run("completes once every item is checked", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		exam := orderExam(t, e, doctor, patient)
		payExam(t, e, exam.ID, patient)

		require.NoError(t, e.examinations.RecordExamResult(context.Background(), exam.ID, exam.Items[0].ID, "normal", doctor))
		require.NoError(t, e.examinations.RecordExamResult(context.Background(), exam.ID, exam.Items[1].ID, "no abnormality seen", doctor))

		// The report goes out some time after the last result came in.
		checkedAt := e.clk.Now()
		e.clk.Advance(45 * time.Minute)
		require.NoError(t, e.examinations.CompleteExamination(context.Background(), exam.ID, doctor))

		e.withinRead(t, func(ctx context.Context, tx shared.Tx) {
			got, err := tx.Examinations().FindByID(ctx, exam.ID)
			require.NoError(t, err)
			assert.Equal(t, reservation.ExaminationCompleted, got.Status)
			require.NotNil(t, got.ReportAt)
			assert.Equal(t, checkedAt.Add(45*time.Minute), *got.ReportAt)
			require.NotNil(t, got.Items[1].CheckedAt)
			assert.Equal(t, checkedAt, *got.Items[1].CheckedAt)
		})
	})

	t.Run("unchecked items block completion", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		exam := orderExam(t, e, doctor, patient)
		payExam(t, e, exam.ID, patient)

		require.NoError(t, e.examinations.RecordExamResult(context.Background(), exam.ID, exam.Items[0].ID, "normal", doctor))

		err := e.examinations.CompleteExamination(context.Background(), exam.ID, doctor)
		assert.ErrorIs(t, err, errs.ErrIncompleteChildren)
	})

	t.Run("cannot complete before any result is in", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		exam := orderExam(t, e, doctor, patient)
		payExam(t, e, exam.ID, patient)

		// Paid-pending has no edge to completed; it must pass through
		// in-progress first.
		err := e.examinations.CompleteExamination(context.Background(), exam.ID, doctor)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestCancelExamination(t *testing.T) {
	t.Run("patient cancels their own pending examination", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		exam := orderExam(t, e, doctor, patient)

		require.NoError(t, e.examinations.CancelExamination(context.Background(), exam.ID, patient))

		e.withinRead(t, func(ctx context.Context, tx shared.Tx) {
			got, err := tx.Examinations().FindByID(ctx, exam.ID)
			require.NoError(t, err)
			assert.Equal(t, reservation.ExaminationCancelled, got.Status)
		})
	})

	t.Run("another patient cannot cancel it", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		other := e.seedPatient(t, "0")
		exam := orderExam(t, e, doctor, patient)

		err := e.examinations.CancelExamination(context.Background(), exam.ID, other)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("in-progress examinations cannot be cancelled", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		exam := orderExam(t, e, doctor, patient)
		payExam(t, e, exam.ID, patient)
		require.NoError(t, e.examinations.RecordExamResult(context.Background(), exam.ID, exam.Items[0].ID, "normal", doctor))

		err := e.examinations.CancelExamination(context.Background(), exam.ID, doctor)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

package reservation

// Kind is the closed set of reservation lifecycles the engine drives.
// Each kind has its own transition table; the tables are data, the generic
// Transition function is the only behavior.
type Kind string

const (
	KindAppointment  Kind = "appointment"
	KindPrescription Kind = "prescription"
	KindExamination  Kind = "examination"
	KindPayment      Kind = "payment"
	KindRecharge     Kind = "recharge"
)

func (k Kind) String() string {
	return string(k)
}

// Status values keep the numeric codes the front ends already speak.
type Status int16

// Appointment: pending -> visited | cancelled.
const (
	AppointmentPending   Status = 0
	AppointmentVisited   Status = 1
	AppointmentCancelled Status = 2
)

// Prescription: unpaid -> paid -> dispensed, unpaid -> cancelled.
// Once money or stock is committed the prescription can no longer be cancelled.
const (
	PrescriptionUnpaid    Status = 0
	PrescriptionPaid      Status = 1
	PrescriptionDispensed Status = 2
	PrescriptionCancelled Status = 3
)

// Examination: pending payment -> paid pending -> in progress -> completed,
// {pending payment, paid pending} -> cancelled.
const (
	ExaminationPendingPayment Status = 0
	ExaminationPaidPending    Status = 1
	ExaminationInProgress     Status = 2
	ExaminationCompleted      Status = 3
	ExaminationCancelled      Status = 4
)

// Payment and recharge: pending -> settled | cancelled.
const (
	PaymentPending   Status = 0
	PaymentSettled   Status = 1
	PaymentCancelled Status = 2
)

const (
	RechargePending   Status = 0
	RechargeSettled   Status = 1
	RechargeCancelled Status = 2
)

// Examination item check state.
const (
	ExamItemUnchecked Status = 0
	ExamItemChecked   Status = 1
)

// PayMethod is how a payment or recharge was funded. Only the balance method
// touches the Balance Ledger; card/wechat/alipay settle externally.
type PayMethod int16

const (
	PayMethodNone    PayMethod = 0
	PayMethodBalance PayMethod = 1
	PayMethodWechat  PayMethod = 2
	PayMethodAlipay  PayMethod = 3
)

func (m PayMethod) IsBalance() bool {
	return m == PayMethodBalance
}

func (m PayMethod) IsValid() bool {
	return m >= PayMethodBalance && m <= PayMethodAlipay
}

// PaymentType identifies what record a payment funds.
type PaymentType int16

const (
	PaymentForAppointment  PaymentType = 1
	PaymentForPrescription PaymentType = 2
	PaymentForExamination  PaymentType = 3
)

// FundedKind maps a payment type to the reservation kind it funds.
func (t PaymentType) FundedKind() (Kind, bool) {
	switch t {
	case PaymentForAppointment:
		return KindAppointment, true
	case PaymentForPrescription:
		return KindPrescription, true
	case PaymentForExamination:
		return KindExamination, true
	default:
		return "", false
	}
}

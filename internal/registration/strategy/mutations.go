package strategy

import (
	"context"
	"maps"

	"eventreg/internal/registration/models"
	dErrors "eventreg/pkg/domain-errors"
)

//go:generate mockgen -source=mutations.go -destination=mocks/backend-mocks.go -package=mocks Backend

// Backend is the status-changing surface of the registration service.
type Backend interface {
	CreateRegistration(ctx context.Context, payload Payload) (Result, error)
	UpdateRegistration(ctx context.Context, email string, payload Payload) (Result, error)
	CreatePayment(ctx context.Context, payload Payload) (Result, error)
}

// Payload is the caller supplied request body. The strategy adds identity and
// status keys and passes everything else through untouched.
type Payload map[string]any

// Result is what a status-changing call returns.
type Result struct {
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// Op names a mutation for errors, metrics and audit events.
type Op string

const (
	OpRegForFree        Op = "reg_for_free"
	OpRegForFreeApp     Op = "reg_for_free_app"
	OpRegForPaid        Op = "reg_for_paid"
	OpRegForPaidApp     Op = "reg_for_paid_app"
	OpConfirmAttendance Op = "confirm_attendance"
	OpConfirmAndPay     Op = "confirm_and_pay"
)

const paymentTypeEvent = "Event"

// RegForFree registers the user for a free event.
func RegForFree(ctx context.Context, b Backend, s State, payload Payload) error {
	body := s.payload(payload)
	body["registrationStatus"] = models.StatusRegistered
	if _, err := b.CreateRegistration(ctx, body); err != nil {
		return &MutationError{Op: OpRegForFree, Kind: s.Kind, Err: err}
	}
	return nil
}

// RegForFreeApp submits an application for a free, application-based event.
// The legacy model has no applications and registers directly.
func RegForFreeApp(ctx context.Context, b Backend, s State, payload Payload) error {
	body := s.payload(payload)
	body["registrationStatus"] = models.StatusRegistered
	if s.Kind == KindCurrent {
		body["applicationStatus"] = models.ApplicationStatusReviewing
	}
	if _, err := b.CreateRegistration(ctx, body); err != nil {
		return &MutationError{Op: OpRegForFreeApp, Kind: s.Kind, Err: err}
	}
	return nil
}

// RegForPaid starts a paid registration and returns the checkout URL.
func RegForPaid(ctx context.Context, b Backend, s State, payload Payload) (string, error) {
	return regForPaid(ctx, b, s, payload, OpRegForPaid)
}

// RegForPaidApp submits an application for a paid, application-based event.
// Under the current model payment happens after acceptance, so the returned URL
// is usually empty; the legacy model takes payment immediately.
func RegForPaidApp(ctx context.Context, b Backend, s State, payload Payload) (string, error) {
	if s.Kind == KindLegacy {
		return regForPaid(ctx, b, s, payload, OpRegForPaidApp)
	}
	body := s.payload(payload)
	body["registrationStatus"] = models.StatusRegistered
	body["applicationStatus"] = models.ApplicationStatusReviewing
	res, err := b.CreateRegistration(ctx, body)
	if err != nil {
		return "", &MutationError{Op: OpRegForPaidApp, Kind: s.Kind, Err: err}
	}
	return res.PaymentURL, nil
}

func regForPaid(ctx context.Context, b Backend, s State, payload Payload, op Op) (string, error) {
	if s.Kind == KindLegacy {
		// legacy checkout needs an incomplete registration to attach the payment to
		body := s.payload(payload)
		body["registrationStatus"] = models.StatusIncomplete
		if _, err := b.CreateRegistration(ctx, body); err != nil {
			return "", &MutationError{Op: op, Kind: s.Kind, Err: err}
		}
	}
	body := s.payload(payload)
	body["paymentType"] = paymentTypeEvent
	res, err := b.CreatePayment(ctx, body)
	if err != nil {
		return "", &MutationError{Op: op, Kind: s.Kind, Err: err}
	}
	return res.PaymentURL, nil
}

// ConfirmAttendance confirms a free acceptance.
func ConfirmAttendance(ctx context.Context, b Backend, s State, payload Payload) error {
	if err := s.requireConfirmable(OpConfirmAttendance); err != nil {
		return err
	}
	body := s.payload(payload)
	body["registrationStatus"] = models.StatusAcceptedComplete
	if _, err := b.UpdateRegistration(ctx, s.UserEmail, body); err != nil {
		return &MutationError{Op: OpConfirmAttendance, Kind: s.Kind, Err: err}
	}
	return nil
}

// ConfirmAndPay confirms an acceptance that still owes payment. target is the
// status the backend applies once payment succeeds.
func ConfirmAndPay(ctx context.Context, b Backend, s State, target models.Status, payload Payload) (string, error) {
	if err := s.requireConfirmable(OpConfirmAndPay); err != nil {
		return "", err
	}
	if !target.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid target status: "+string(target))
	}
	body := s.payload(payload)
	body["paymentType"] = paymentTypeEvent
	body["registrationStatus"] = target
	res, err := b.CreatePayment(ctx, body)
	if err != nil {
		return "", &MutationError{Op: OpConfirmAndPay, Kind: s.Kind, Err: err}
	}
	return res.PaymentURL, nil
}

func (s State) requireConfirmable(op Op) error {
	if s.Kind == KindLegacy {
		return dErrors.New(dErrors.CodeUnsupported, string(op)+" is not supported by the legacy status model")
	}
	if !s.Exists() {
		return dErrors.New(dErrors.CodeNotFound, "registration not found")
	}
	return nil
}

// payload copies the caller's payload and pins the identity keys.
func (s State) payload(in Payload) Payload {
	out := make(Payload, len(in)+5)
	maps.Copy(out, in)
	out["email"] = s.UserEmail
	out["eventID"] = s.Event.ID
	out["year"] = s.Event.Year
	return out
}

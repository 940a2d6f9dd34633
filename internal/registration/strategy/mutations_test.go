package strategy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"eventreg/internal/registration/models"
	"eventreg/internal/registration/strategy"
	"eventreg/internal/registration/strategy/mocks"
	dErrors "eventreg/pkg/domain-errors"
)

type MutationSuite struct {
	suite.Suite
	ctx     context.Context
	backend *mocks.MockBackend
}

func TestMutationSuite(t *testing.T) {
	suite.Run(t, new(MutationSuite))
}

func (s *MutationSuite) SetupTest() {
	s.ctx = context.Background()
	ctrl := gomock.NewController(s.T())
	s.backend = mocks.NewMockBackend(ctrl)
}

// capture records the payload a backend call received.
func capture(dst *strategy.Payload, res strategy.Result) func(context.Context, strategy.Payload) (strategy.Result, error) {
	return func(_ context.Context, p strategy.Payload) (strategy.Result, error) {
		*dst = p
		return res, nil
	}
}

func (s *MutationSuite) TestRegForFree() {
	s.Run("pins identity and passes caller fields through", func() {
		var sent strategy.Payload
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).DoAndReturn(capture(&sent, strategy.Result{}))

		st := strategy.New(strategy.KindCurrent, evt1, ada.Email, ada, nil)
		err := strategy.RegForFree(s.ctx, s.backend, st, strategy.Payload{
			"basicInformation": map[string]any{"faculty": "Science"},
			"email":            "someone-else@example.com",
		})

		s.Require().NoError(err)
		s.Equal(ada.Email, sent["email"])
		s.Equal("evt1", sent["eventID"])
		s.Equal(2024, sent["year"])
		s.Equal(models.StatusRegistered, sent["registrationStatus"])
		s.Contains(sent, "basicInformation")
	})

	s.Run("backend failure becomes a mutation error", func() {
		cause := errors.New("503 from backend")
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).Return(strategy.Result{}, cause)

		st := strategy.New(strategy.KindLegacy, evt1, ada.Email, ada, nil)
		err := strategy.RegForFree(s.ctx, s.backend, st, nil)

		var mErr *strategy.MutationError
		s.Require().ErrorAs(err, &mErr)
		s.Equal(strategy.OpRegForFree, mErr.Op)
		s.Equal(strategy.KindLegacy, mErr.Kind)
		s.ErrorIs(err, cause)
	})
}

func (s *MutationSuite) TestRegForFreeApp() {
	s.Run("current model marks the application for review", func() {
		var sent strategy.Payload
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).DoAndReturn(capture(&sent, strategy.Result{}))

		st := strategy.New(strategy.KindCurrent, evt1, ada.Email, ada, nil)
		s.Require().NoError(strategy.RegForFreeApp(s.ctx, s.backend, st, nil))
		s.Equal(models.ApplicationStatusReviewing, sent["applicationStatus"])
	})

	s.Run("legacy model registers directly", func() {
		var sent strategy.Payload
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).DoAndReturn(capture(&sent, strategy.Result{}))

		st := strategy.New(strategy.KindLegacy, evt1, ada.Email, ada, nil)
		s.Require().NoError(strategy.RegForFreeApp(s.ctx, s.backend, st, nil))
		s.NotContains(sent, "applicationStatus")
		s.Equal(models.StatusRegistered, sent["registrationStatus"])
	})
}

func (s *MutationSuite) TestRegForPaid() {
	s.Run("current model goes straight to checkout", func() {
		var sent strategy.Payload
		s.backend.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(capture(&sent, strategy.Result{PaymentURL: "https://pay.example/abc"}))

		st := strategy.New(strategy.KindCurrent, evt1, ada.Email, ada, nil)
		url, err := strategy.RegForPaid(s.ctx, s.backend, st, nil)

		s.Require().NoError(err)
		s.Equal("https://pay.example/abc", url)
		s.Equal("Event", sent["paymentType"])
	})

	s.Run("legacy model creates an incomplete registration first", func() {
		var created strategy.Payload
		gomock.InOrder(
			s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).DoAndReturn(capture(&created, strategy.Result{})),
			s.backend.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(strategy.Result{PaymentURL: "https://pay.example/legacy"}, nil),
		)

		st := strategy.New(strategy.KindLegacy, evt1, ada.Email, ada, nil)
		url, err := strategy.RegForPaid(s.ctx, s.backend, st, nil)

		s.Require().NoError(err)
		s.Equal("https://pay.example/legacy", url)
		s.Equal(models.StatusIncomplete, created["registrationStatus"])
	})

	s.Run("legacy model stops when the registration fails", func() {
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).Return(strategy.Result{}, errors.New("boom"))

		st := strategy.New(strategy.KindLegacy, evt1, ada.Email, ada, nil)
		url, err := strategy.RegForPaid(s.ctx, s.backend, st, nil)

		s.Empty(url)
		var mErr *strategy.MutationError
		s.Require().ErrorAs(err, &mErr)
		s.Equal(strategy.OpRegForPaid, mErr.Op)
	})
}

func (s *MutationSuite) TestRegForPaidApp() {
	s.Run("current model surfaces the backend url unchanged", func() {
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).Return(strategy.Result{PaymentURL: "u"}, nil)

		st := strategy.New(strategy.KindCurrent, evt1, ada.Email, ada, nil)
		url, err := strategy.RegForPaidApp(s.ctx, s.backend, st, nil)
		s.Require().NoError(err)
		s.Equal("u", url)
	})

	s.Run("current model without url returns empty", func() {
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).Return(strategy.Result{}, nil)

		st := strategy.New(strategy.KindCurrent, evt1, ada.Email, ada, nil)
		url, err := strategy.RegForPaidApp(s.ctx, s.backend, st, nil)
		s.Require().NoError(err)
		s.Empty(url)
	})

	s.Run("legacy model takes payment immediately", func() {
		s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).Return(strategy.Result{}, nil)
		s.backend.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(strategy.Result{PaymentURL: "p"}, nil)

		st := strategy.New(strategy.KindLegacy, evt1, ada.Email, ada, nil)
		url, err := strategy.RegForPaidApp(s.ctx, s.backend, st, nil)
		s.Require().NoError(err)
		s.Equal("p", url)
	})
}

func (s *MutationSuite) TestConfirmAttendance() {
	s.Run("updates the user's registration", func() {
		s.backend.EXPECT().UpdateRegistration(gomock.Any(), ada.Email, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, p strategy.Payload) (strategy.Result, error) {
				s.Equal(models.StatusAcceptedComplete, p["registrationStatus"])
				return strategy.Result{}, nil
			})

		s.Require().NoError(strategy.ConfirmAttendance(s.ctx, s.backend, stateFor(strategy.KindCurrent, models.StatusAcceptedPending), nil))
	})

	s.Run("missing record is not found", func() {
		st := strategy.New(strategy.KindCurrent, evt3, ada.Email, ada, nil)
		err := strategy.ConfirmAttendance(s.ctx, s.backend, st, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("legacy model does not support confirmation", func() {
		err := strategy.ConfirmAttendance(s.ctx, s.backend, stateFor(strategy.KindLegacy, models.StatusAccepted), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeUnsupported))
	})
}

func (s *MutationSuite) TestConfirmAndPay() {
	s.Run("sends the target status and returns the url", func() {
		var sent strategy.Payload
		s.backend.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(capture(&sent, strategy.Result{PaymentURL: "https://pay.example/x"}))

		url, err := strategy.ConfirmAndPay(s.ctx, s.backend, stateFor(strategy.KindCurrent, models.StatusAccepted), models.StatusAcceptedComplete, nil)
		s.Require().NoError(err)
		s.Equal("https://pay.example/x", url)
		s.Equal(models.StatusAcceptedComplete, sent["registrationStatus"])
	})

	s.Run("rejects unknown target statuses", func() {
		_, err := strategy.ConfirmAndPay(s.ctx, s.backend, stateFor(strategy.KindCurrent, models.StatusAccepted), models.Status("paid"), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("propagates backend failures", func() {
		s.backend.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(strategy.Result{}, errors.New("stripe down"))

		_, err := strategy.ConfirmAndPay(s.ctx, s.backend, stateFor(strategy.KindCurrent, models.StatusAccepted), models.StatusAcceptedComplete, nil)
		var mErr *strategy.MutationError
		s.Require().ErrorAs(err, &mErr)
		s.Equal(strategy.OpConfirmAndPay, mErr.Op)
	})
}

func TestLoadErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := &strategy.LoadError{Email: "a@b.c", Err: cause}
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "a@b.c")
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"eventreg/internal/platform/logger"
	"eventreg/internal/platform/metrics"
	"eventreg/internal/platform/middleware"
	"eventreg/internal/registration/client/mocks"
	"eventreg/internal/registration/models"
	"eventreg/internal/registration/strategy"
	dErrors "eventreg/pkg/domain-errors"
	audit "eventreg/pkg/platform/audit"
	"eventreg/pkg/platform/audit/publisher"
	"eventreg/pkg/platform/audit/store/memory"
	"eventreg/pkg/platform/sentinel"
	"eventreg/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	backend *mocks.MockBackend
	store   *memory.InMemoryStore
	metrics *metrics.Metrics
	service *Service
	event   models.Event
	user    models.User
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.backend = mocks.NewMockBackend(s.ctrl)
	s.store = memory.NewInMemoryStore()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.service = New(s.backend,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithAuditPublisher(publisher.NewPublisher(s.store)),
	)
	s.event = models.Event{ID: "evt1", Year: 2024}
	s.user = models.User{ID: "u1", Email: "ada@example.com"}
}

func (s *ServiceSuite) load(records ...models.Record) strategy.State {
	s.backend.EXPECT().ListByEmail(gomock.Any(), "ada@example.com").Return(records, nil).Times(1)
	st, err := s.service.Load(context.Background(), s.event, "ada@example.com", s.user)
	s.Require().NoError(err)
	return st
}

// =============================================================================
// Load
// =============================================================================

func (s *ServiceSuite) TestLoad() {
	s.Run("selects the record for the event key", func() {
		st := s.load(
			models.Record{Email: "ada@example.com", EventKey: "evt1;2023", RegistrationStatus: models.StatusCheckedIn},
			models.Record{Email: "ada@example.com", EventKey: "evt1;2024", RegistrationStatus: models.StatusWaitlisted},
		)
		s.True(st.Exists())
		s.Equal(strategy.KindCurrent, st.Kind)
		s.True(strategy.IsWaitlisted(st))
		s.False(strategy.IsCheckedIn(st))
	})

	s.Run("no matching record is not an error", func() {
		st := s.load(models.Record{Email: "ada@example.com", EventKey: "evt2;2024"})
		s.False(st.Exists())
		status, ok := st.RegistrationStatus()
		s.False(ok)
		s.Empty(status)
	})

	s.Run("legacy events select the legacy variant", func() {
		s.event.StatusModel = models.StatusModelLegacy
		defer func() { s.event.StatusModel = "" }()
		st := s.load()
		s.Equal(strategy.KindLegacy, st.Kind)
	})

	s.Run("configured default applies to events without a model", func() {
		svc := New(s.backend, WithDefaultStatusModel(models.StatusModelLegacy))
		s.backend.EXPECT().ListByEmail(gomock.Any(), "ada@example.com").Return(nil, nil)
		st, err := svc.Load(context.Background(), s.event, "ada@example.com", s.user)
		s.Require().NoError(err)
		s.Equal(strategy.KindLegacy, st.Kind)
	})

	s.Run("backend failure is a load error", func() {
		boom := errors.New("connection refused")
		s.backend.EXPECT().ListByEmail(gomock.Any(), "ada@example.com").Return(nil, boom)

		_, err := s.service.Load(context.Background(), s.event, "ada@example.com", s.user)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		var loadErr *strategy.LoadError
		s.Require().ErrorAs(err, &loadErr)
		s.Equal("ada@example.com", loadErr.Email)
		s.ErrorIs(err, boom)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RegistrationLoads.WithLabelValues("error")))
	})

	s.Run("blank email is rejected without a backend call", func() {
		_, err := s.service.Load(context.Background(), s.event, "  ", s.user)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestLoadIsRepeatable() {
	records := []models.Record{
		{Email: "ada@example.com", EventKey: "evt1;2024", RegistrationStatus: models.StatusAccepted},
		{Email: "ada@example.com", EventKey: "evt2;2024", RegistrationStatus: models.StatusWaitlisted},
	}
	s.backend.EXPECT().ListByEmail(gomock.Any(), "ada@example.com").Return(records, nil).Times(4)

	loadTwice := func(event models.Event) (strategy.Snapshot, strategy.Snapshot) {
		first, err := s.service.Load(context.Background(), event, "ada@example.com", s.user)
		s.Require().NoError(err)
		second, err := s.service.Load(context.Background(), event, "ada@example.com", s.user)
		s.Require().NoError(err)
		return strategy.Describe(first), strategy.Describe(second)
	}

	s.Run("registered event", func() {
		first, second := loadTwice(models.Event{ID: "evt1", Year: 2024})
		s.Equal(first, second)
		s.True(first.Exists)
		s.Require().NotNil(first.RegistrationStatus)
		s.Equal(models.StatusAccepted, *first.RegistrationStatus)
		s.True(first.NeedsPayment)
		s.False(first.IsWaitlisted)
	})

	s.Run("event without a registration", func() {
		first, second := loadTwice(models.Event{ID: "evt3", Year: 2024})
		s.Equal(first, second)
		s.False(first.Exists)
		s.Nil(first.RegistrationStatus)
		s.Nil(first.ApplicationStatus)
		s.False(first.NeedsPayment)
		s.False(first.NeedsConfirmation)
		s.False(first.IsWaitlisted)
		s.False(first.IsCheckedIn)
		s.False(first.IsConfirmed)
	})
}

func (s *ServiceSuite) TestEvent() {
	s.Run("fills missing key fields", func() {
		s.backend.EXPECT().GetEvent(gomock.Any(), "evt1", 2024).Return(models.Event{Capacity: 10}, nil)
		event, err := s.service.Event(context.Background(), "evt1", 2024)
		s.Require().NoError(err)
		s.Equal("evt1;2024", event.Key())
	})

	s.Run("unknown event is not found", func() {
		s.backend.EXPECT().GetEvent(gomock.Any(), "nope", 2024).Return(models.Event{}, sentinel.ErrNotFound)
		_, err := s.service.Event(context.Background(), "nope", 2024)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Mutations
// =============================================================================

func (s *ServiceSuite) TestRegisterFreeEmitsAudit() {
	st := s.load()
	s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).Return(strategy.Result{}, nil)

	now := time.Date(2024, 9, 1, 9, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = middleware.WithClaims(ctx, middleware.JWTClaims{Email: "exec@example.com", Admin: true})
	url, err := s.service.Register(ctx, st, ModeFree, strategy.Payload{})
	s.Require().NoError(err)
	s.Empty(url)

	events, err := s.store.ListByEmail(context.Background(), "ada@example.com")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionRegisteredFree, events[0].Action)
	s.Equal("evt1;2024", events[0].EventKey)
	s.Equal("exec@example.com", events[0].ActorEmail)
	s.Equal(now, events[0].Timestamp)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Mutations.WithLabelValues("reg_for_free", "current", "ok")))
}

func (s *ServiceSuite) TestRegisterPaidReturnsURL() {
	st := s.load()
	s.backend.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(strategy.Result{PaymentURL: "https://pay.example/x"}, nil)

	url, err := s.service.Register(context.Background(), st, ModePaid, nil)
	s.Require().NoError(err)
	s.Equal("https://pay.example/x", url)
}

func (s *ServiceSuite) TestMutationErrorTranslation() {
	cases := []struct {
		name string
		err  error
		code dErrors.Code
	}{
		{"unavailable", sentinel.ErrUnavailable, dErrors.CodeUnavailable},
		{"rejected", sentinel.ErrRejected, dErrors.CodeConflict},
		{"not found", sentinel.ErrNotFound, dErrors.CodeNotFound},
		{"unknown", errors.New("boom"), dErrors.CodeUnavailable},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			st := s.load()
			s.backend.EXPECT().CreateRegistration(gomock.Any(), gomock.Any()).Return(strategy.Result{}, tc.err)

			err := s.service.RegisterFreeApp(context.Background(), st, nil)
			s.True(dErrors.HasCode(err, tc.code), "got %v", err)
			var mutErr *strategy.MutationError
			s.Require().ErrorAs(err, &mutErr)
			s.Equal(strategy.OpRegForFreeApp, mutErr.Op)
		})
	}

	events, err := s.store.ListRecent(context.Background(), 10)
	s.Require().NoError(err)
	s.Empty(events, "failed mutations are not audited")
}

func (s *ServiceSuite) TestConfirmRequiresRecord() {
	st := s.load()
	err := s.service.ConfirmAttendance(context.Background(), st, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestConfirmUnsupportedUnderLegacy() {
	s.event.StatusModel = models.StatusModelLegacy
	st := s.load(models.Record{Email: "ada@example.com", EventKey: "evt1;2024", RegistrationStatus: models.StatusAccepted})

	_, err := s.service.ConfirmAndPay(context.Background(), st, models.StatusAcceptedComplete, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeUnsupported))
}

func (s *ServiceSuite) TestConfirmAndPayAuditsTarget() {
	st := s.load(models.Record{Email: "ada@example.com", EventKey: "evt1;2024", RegistrationStatus: models.StatusAccepted})
	s.backend.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(strategy.Result{PaymentURL: "u"}, nil)

	url, err := s.service.ConfirmAndPay(context.Background(), st, models.StatusAcceptedComplete, nil)
	s.Require().NoError(err)
	s.Equal("u", url)

	events, err := s.store.ListByEmail(context.Background(), "ada@example.com")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(models.StatusAcceptedComplete), events[0].TargetStatus)
	s.Empty(events[0].ActorEmail)
}

func (s *ServiceSuite) TestModes() {
	s.Run("parse", func() {
		m, err := ParseMode("paid_app")
		s.Require().NoError(err)
		s.Equal(ModePaidApp, m)

		_, err = ParseMode("vip")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("derive from event", func() {
		paid := models.Event{Pricing: models.Pricing{Members: 0, NonMembers: 10}}
		s.Equal(ModeFree, ModeFor(paid, models.User{IsMember: true}))
		s.Equal(ModePaid, ModeFor(paid, models.User{}))
		paid.IsApplicationBased = true
		s.Equal(ModeFreeApp, ModeFor(paid, models.User{IsMember: true}))
		s.Equal(ModePaidApp, ModeFor(paid, models.User{}))
	})
}

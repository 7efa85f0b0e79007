package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"courier/internal/platform/events"
	"courier/internal/subscription/models"
	"courier/internal/subscription/store"
	dErrors "courier/pkg/domain-errors"
)

const testBaseURL = "https://newsletter.example.com"

// fakeEmailSender records sends and can be told to fail.
type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	fail error
}

type sentEmail struct {
	to       string
	subject  string
	htmlBody string
	textBody string
}

func (f *fakeEmailSender) Send(_ context.Context, to models.EmailAddress, subject, htmlBody, textBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentEmail{to: to.String(), subject: subject, htmlBody: htmlBody, textBody: textBody})
	return nil
}

func (f *fakeEmailSender) calls() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmail{}, f.sent...)
}

// fakeCache is an in-process TokenCache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]uuid.UUID
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]uuid.UUID)}
}

func (f *fakeCache) Get(_ context.Context, token models.SubscriptionToken) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return uuid.UUID{}, false, f.getErr
	}
	id, ok := f.entries[token.String()]
	return id, ok, nil
}

func (f *fakeCache) Set(_ context.Context, token models.SubscriptionToken, subscriberID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[token.String()] = subscriberID
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() {}

func (f *fakePublisher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event{}, f.events...)
}

type SubscribeSuite struct {
	suite.Suite
	ctx    context.Context
	store  *store.InMemory
	emails *fakeEmailSender
	pub    *fakePublisher
	svc    *Service
}

func TestSubscribeSuite(t *testing.T) {
	suite.Run(t, new(SubscribeSuite))
}

func (s *SubscribeSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.emails = &fakeEmailSender{}
	s.pub = &fakePublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = New(s.store, s.store, s.emails, logger, testBaseURL,
		WithEventPublisher(s.pub),
	)
}

func (s *SubscribeSuite) TestSubscribePersistsAndNotifies() {
	err := s.svc.Subscribe(s.ctx, "ursula@example.com", "Ursula")
	s.Require().NoError(err)

	subscribers, tokens := s.store.Count()
	s.Equal(1, subscribers, "exactly one subscriber row")
	s.Equal(1, tokens, "exactly one token row")

	calls := s.emails.calls()
	s.Require().Len(calls, 1)
	s.Equal("ursula@example.com", calls[0].to)
	s.Equal("Welcome to our newsletter!", calls[0].subject)
	s.Contains(calls[0].htmlBody, testBaseURL+"/subscriptions/confirm?token=")
	s.Contains(calls[0].textBody, testBaseURL+"/subscriptions/confirm?token=")

	published := s.pub.published()
	s.Require().Len(published, 1)
	s.Equal(events.TypeSubscriptionCreated, published[0].Type)
}

func (s *SubscribeSuite) TestSubscriberStartsPending() {
	s.Require().NoError(s.svc.Subscribe(s.ctx, "ursula@example.com", "Ursula"))

	published := s.pub.published()
	s.Require().Len(published, 1)
	sub, ok := s.store.Subscriber(published[0].SubscriberID)
	s.Require().True(ok)
	s.Equal(models.StatusPendingConfirmation, sub.Status)
	s.Equal("Ursula", sub.Name.String())
}

func (s *SubscribeSuite) TestSubscribeRejectsInvalidEmail() {
	for _, raw := range []string{"", "namemail.com", "@mail.com"} {
		err := s.svc.Subscribe(s.ctx, raw, "Ursula")
		s.Require().Error(err, "email %q", raw)
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	}

	subscribers, _ := s.store.Count()
	s.Zero(subscribers, "validation failures must not touch storage")
	s.Empty(s.emails.calls())
}

func (s *SubscribeSuite) TestSubscribeRejectsInvalidName() {
	err := s.svc.Subscribe(s.ctx, "ursula@example.com", "Ursula<script>")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *SubscribeSuite) TestStorageFailureRollsBackEverything() {
	s.store.FailStoreToken = errors.New("disk full")

	err := s.svc.Subscribe(s.ctx, "ursula@example.com", "Ursula")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInternal))

	subscribers, tokens := s.store.Count()
	s.Zero(subscribers, "no subscriber row may survive the rollback")
	s.Zero(tokens)
	s.Empty(s.emails.calls(), "no email without a committed subscriber")
}

func (s *SubscribeSuite) TestEmailFailureStillPersistsSubscriber() {
	s.emails.fail = errors.New("provider unreachable")

	err := s.svc.Subscribe(s.ctx, "ursula@example.com", "Ursula")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotification))
	s.Contains(err.Error(), "provider unreachable")

	// Accepted inconsistency window: commit happened before the send.
	subscribers, tokens := s.store.Count()
	s.Equal(1, subscribers)
	s.Equal(1, tokens)
}

func (s *SubscribeSuite) TestDuplicateEmailsCreateIndependentSubscribers() {
	s.Require().NoError(s.svc.Subscribe(s.ctx, "ursula@example.com", "Ursula"))
	s.Require().NoError(s.svc.Subscribe(s.ctx, "ursula@example.com", "Ursula"))

	subscribers, tokens := s.store.Count()
	s.Equal(2, subscribers)
	s.Equal(2, tokens)
}

func (s *SubscribeSuite) TestConcurrentSubscriptionsAreIndependent() {
	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "user" + strings.Repeat("x", i%3) + "@example.com"
			errs[i] = s.svc.Subscribe(s.ctx, email, "User")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	subscribers, tokens := s.store.Count()
	s.Equal(n, subscribers)
	s.Equal(n, tokens)
}

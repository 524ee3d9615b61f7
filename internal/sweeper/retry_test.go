package sweeper_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/parentshield/notifier/internal/logger"
	"github.com/parentshield/notifier/internal/mocks"
	"github.com/parentshield/notifier/internal/store"
	"github.com/parentshield/notifier/internal/store/schema"
	"github.com/parentshield/notifier/internal/sweeper"
	"github.com/parentshield/notifier/internal/webhook"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testSweeperMocks contains all the mocks needed for testing the retry sweeper
type testSweeperMocks struct {
	ctrl   *gomock.Controller
	store  *mocks.MockStore
	client *mocks.MockHTTPClient
	clock  *mocks.MockClock
}

func setupSweeperTest(t *testing.T) (sweeper.Sweeper, *testSweeperMocks) {
	ctrl := gomock.NewController(t)
	m := &testSweeperMocks{
		ctrl:   ctrl,
		store:  mocks.NewMockStore(ctrl),
		client: mocks.NewMockHTTPClient(ctrl),
		clock:  mocks.NewMockClock(ctrl),
	}

	attempter := webhook.NewAttempter(m.store, m.client, m.clock, time.Second)
	s := sweeper.NewRetrySweeper(&sweeper.RetrySweeperConfig{
		BatchSize:      10,
		WorkerPoolSize: 4,
		PollInterval:   10 * time.Millisecond,
	}, m.store, attempter, m.clock)

	return s, m
}

func dueDelivery(id, subscriptionID string, attempts int) *schema.WebhookDelivery {
	status := 500
	past := time.Now().Add(-time.Minute)
	return &schema.WebhookDelivery{
		ID:             id,
		SubscriptionID: subscriptionID,
		EventID:        "01JG8XAMPLE1234567890123456",
		EventType:      "alert.created",
		Payload:        datatypes.JSON(`{"alert_id":"123","event":"alert.created"}`),
		ResponseStatus: &status,
		Attempts:       attempts,
		MaxAttempts:    3,
		NextRetryAt:    &past,
	}
}

func TestRetrySweeperReattemptsDueDeliveries(t *testing.T) {
	s, m := setupSweeperTest(t)
	defer m.ctrl.Finish()

	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	sub := &schema.WebhookSubscription{
		ID:       "11111111-1111-1111-1111-111111111111",
		OwnerID:  "22222222-2222-2222-2222-222222222222",
		URL:      "https://example.com/hooks",
		Secret:   "s3cret",
		Events:   datatypes.JSON(`["alert.created"]`),
		IsActive: true,
	}
	delivery := dueDelivery("33333333-3333-3333-3333-333333333333", sub.ID, 1)

	m.clock.EXPECT().Now().Return(now).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()
	m.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		return time.After(5 * time.Millisecond)
	}).AnyTimes()

	first := true
	m.store.EXPECT().
		GetDueDeliveries(gomock.Any(), gomock.Any(), 10).
		DoAndReturn(func(context.Context, time.Time, int) ([]*schema.WebhookDelivery, error) {
			if first {
				first = false
				return []*schema.WebhookDelivery{delivery}, nil
			}
			return nil, nil
		}).MinTimes(1)
	m.store.EXPECT().
		GetSubscription(gomock.Any(), sub.ID).
		Return(sub, nil)
	m.client.EXPECT().
		PostWithHeaders(gomock.Any(), sub.URL, gomock.Any(), []byte(delivery.Payload)).
		DoAndReturn(func(_ context.Context, _ string, headers map[string]string, _ []byte) (*http.Response, error) {
			// Second attempt carries the retry-count header
			assert.Equal(t, "2", headers[webhook.HeaderRetry])
			return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("ok"))}, nil
		})

	var mu sync.Mutex
	var persisted *store.DeliveryOutcome
	done := make(chan struct{})
	m.store.EXPECT().
		UpdateDeliveryOutcome(gomock.Any(), delivery.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, outcome store.DeliveryOutcome) error {
			mu.Lock()
			persisted = &outcome
			mu.Unlock()
			close(done)
			return nil
		})

	go func() {
		_ = s.Start(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not re-attempt the due delivery")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, persisted)
	assert.Equal(t, 2, persisted.Attempts)
	require.NotNil(t, persisted.DeliveredAt)
	assert.Nil(t, persisted.NextRetryAt)
}

func TestRetrySweeperAbandonsOrphanedDeliveries(t *testing.T) {
	s, m := setupSweeperTest(t)
	defer m.ctrl.Finish()

	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	delivery := dueDelivery("44444444-4444-4444-4444-444444444444", "99999999-9999-9999-9999-999999999999", 1)

	m.clock.EXPECT().Now().Return(now).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()
	m.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		return time.After(5 * time.Millisecond)
	}).AnyTimes()

	first := true
	m.store.EXPECT().
		GetDueDeliveries(gomock.Any(), gomock.Any(), 10).
		DoAndReturn(func(context.Context, time.Time, int) ([]*schema.WebhookDelivery, error) {
			if first {
				first = false
				return []*schema.WebhookDelivery{delivery}, nil
			}
			return nil, nil
		}).MinTimes(1)

	// Subscription was deleted after the retry was scheduled
	m.store.EXPECT().
		GetSubscription(gomock.Any(), delivery.SubscriptionID).
		Return(nil, nil)

	var mu sync.Mutex
	var persisted *store.DeliveryOutcome
	done := make(chan struct{})
	m.store.EXPECT().
		UpdateDeliveryOutcome(gomock.Any(), delivery.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, outcome store.DeliveryOutcome) error {
			mu.Lock()
			persisted = &outcome
			mu.Unlock()
			close(done)
			return nil
		})

	go func() {
		_ = s.Start(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not abandon the orphaned delivery")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, persisted)
	assert.Nil(t, persisted.NextRetryAt)
	assert.Nil(t, persisted.DeliveredAt)
	assert.Contains(t, persisted.ErrorMessage, "no longer exists")
	// The last recorded response survives for the audit trail
	require.NotNil(t, persisted.ResponseStatus)
	assert.Equal(t, 500, *persisted.ResponseStatus)
}

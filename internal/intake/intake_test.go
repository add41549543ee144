package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/designdesk/designdesk/internal/blob"
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/designdesk/designdesk/internal/rewards"
	"github.com/designdesk/designdesk/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	storage.Storage

	mu          sync.Mutex
	requests    map[string]entities.DesignRequest
	attachments map[string][]entities.Attachment
	xp          map[string]int
	failXP      bool
	alerts      []entities.SystemAlert
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:    make(map[string]entities.DesignRequest),
		attachments: make(map[string][]entities.Attachment),
		xp:          make(map[string]int),
	}
}

func (s *fakeStore) id() string {
	s.nextID++
	return fmt.Sprintf("id-%d", s.nextID)
}

func (s *fakeStore) CreateRequest(_ context.Context, request entities.DesignRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requestID := s.id()
	request.ID = requestID
	s.requests[requestID] = request

	return requestID, nil
}

func (s *fakeStore) GetRequestByID(_ context.Context, requestID string) (entities.DesignRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return entities.DesignRequest{}, storage.ErrNoRows
	}

	return request, nil
}

func (s *fakeStore) CreateAttachment(_ context.Context, attachment entities.Attachment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attachment.ID = s.id()
	s.attachments[attachment.RequestID] = append(s.attachments[attachment.RequestID], attachment)

	return attachment.ID, nil
}

func (s *fakeStore) AddUserXP(_ context.Context, userID string, points int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failXP {
		return 0, errors.New("xp update failed")
	}

	s.xp[userID] += points

	return s.xp[userID], nil
}

func (s *fakeStore) CreateAlert(_ context.Context, alert entities.SystemAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = append(s.alerts, alert)

	return nil
}

type storeNotifier struct {
	store *fakeStore
}

func (n storeNotifier) Notify(ctx context.Context, alert entities.SystemAlert) {
	n.store.CreateAlert(ctx, alert)
}

type fakeUploader struct {
	failNames map[string]struct{}
}

func (u *fakeUploader) Upload(_ context.Context, key string, _ string, _ []byte) (string, error) {
	parts := strings.SplitN(key, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("malformed key %q", key)
	}

	return "https://blob.test/storage/v1/files/" + key, nil
}

type failingUploader struct {
	fail map[string]struct{}
	seen map[string]string
	mu   sync.Mutex
}

func (u *failingUploader) Upload(_ context.Context, key string, mimeType string, _ []byte) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.seen == nil {
		u.seen = make(map[string]string)
	}
	u.seen[key] = mimeType

	if _, ok := u.fail[mimeType]; ok {
		return "", errors.New("blob storage rejected upload")
	}

	return "https://blob.test/storage/v1/files/" + key, nil
}

func newTestService(store *fakeStore, uploader blob.Uploader) *Service {
	return NewService(store, uploader, rewards.NewService(store), storeNotifier{store: store})
}

func TestSubmitDerivesPriorityAndPrice(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, &fakeUploader{})

	request, events, err := service.Submit(context.Background(), "U1", Submission{
		Category:    "design",
		Title:       "Acme Logo",
		Description: "A bold logo for Acme",
		Style:       "modern",
		Timeline:    "rush",
		Budget:      "150-300",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.PriorityHigh, request.Priority)
	assert.True(t, decimal.NewFromInt(225).Equal(request.Price), "price: %s", request.Price)
	assert.Equal(t, entities.RequestStatusSubmitted, request.Status)

	outcome := service.Drain(context.Background(), events)

	assert.Equal(t, rewards.SubmissionPoints, outcome.XPAwarded)
	assert.Equal(t, 10, store.xp["U1"])
}

func TestSubmitValidation(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, &fakeUploader{})

	tests := []struct {
		name       string
		submission Submission
	}{
		{
			name:       "empty title",
			submission: Submission{Category: "design", Description: "d", Style: "modern"},
		},
		{
			name:       "empty description",
			submission: Submission{Category: "design", Title: "t", Style: "modern"},
		},
		{
			name:       "empty style",
			submission: Submission{Category: "design", Title: "t", Description: "d"},
		},
		{
			name:       "unknown category",
			submission: Submission{Category: "sculpture", Title: "t", Description: "d", Style: "modern"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Submit(context.Background(), "U1", tt.submission)

			var validationErr *apperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Empty(t, store.requests)
		})
	}
}

func TestSubmitUploadsFilesAfterRequestExists(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, &fakeUploader{})

	request, events, err := service.Submit(context.Background(), "U1", Submission{
		Category:    "website",
		Title:       "Landing page",
		Description: "Marketing site",
		Style:       "minimalist",
		Timeline:    "standard",
		Budget:      "300-500",
		Files: []File{
			{Name: "brief.pdf", MimeType: "application/pdf", Size: 3, Data: []byte("pdf")},
			{Name: "moodboard.png", MimeType: "image/png", Size: 3, Data: []byte("png")},
		},
	})
	require.NoError(t, err)

	outcome := service.Drain(context.Background(), events)

	require.Len(t, outcome.Attachments, 2)
	assert.Empty(t, outcome.UploadFailures)

	for _, attachment := range outcome.Attachments {
		assert.Equal(t, request.ID, attachment.RequestID)
		assert.Contains(t, attachment.URL, request.ID, "blob key must be namespaced by the request id")
	}
}

func TestAttachPartialFailure(t *testing.T) {
	store := newFakeStore()
	uploader := &failingUploader{fail: map[string]struct{}{"image/gif": {}}}
	service := newTestService(store, uploader)

	requestID, err := store.CreateRequest(context.Background(), entities.DesignRequest{
		Title: "t", Description: "d", Category: "design", Style: "modern",
		Priority: entities.PriorityMedium, Status: entities.RequestStatusSubmitted, UserID: "U1",
	})
	require.NoError(t, err)

	attachments, failures, err := service.AttachToRequest(context.Background(), requestID, "U1", []File{
		{Name: "a.png", MimeType: "image/png", Size: 1, Data: []byte("a")},
		{Name: "b.gif", MimeType: "image/gif", Size: 1, Data: []byte("b")},
		{Name: "c.jpg", MimeType: "image/jpeg", Size: 1, Data: []byte("c")},
	})
	require.NoError(t, err)

	assert.Len(t, attachments, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, "b.gif", failures[0].Name)

	var uploadErr *apperrors.UploadError
	require.ErrorAs(t, failures[0].Err, &uploadErr)

	assert.Len(t, store.attachments[requestID], 2)
}

func TestAttachToUnknownRequest(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, &fakeUploader{})

	_, _, err := service.AttachToRequest(context.Background(), "missing", "U1", []File{
		{Name: "a.png", MimeType: "image/png", Size: 1, Data: []byte("a")},
	})

	var notFoundErr *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestRewardFailureDoesNotFailSubmission(t *testing.T) {
	store := newFakeStore()
	store.failXP = true
	service := newTestService(store, &fakeUploader{})

	_, events, err := service.Submit(context.Background(), "U1", Submission{
		Category:    "photoshop",
		Title:       "Retouching",
		Description: "Photo cleanup",
		Style:       "professional",
		Timeline:    "flexible",
		Budget:      "50-150",
	})
	require.NoError(t, err)

	outcome := service.Drain(context.Background(), events)

	assert.Zero(t, outcome.XPAwarded)
	assert.Zero(t, store.xp["U1"])
}

func TestSubmitNotifiesOnSuccess(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, &fakeUploader{})

	_, events, err := service.Submit(context.Background(), "U1", Submission{
		Category:    "3d",
		Title:       "Product render",
		Description: "Hero shot",
		Style:       "artistic",
		Timeline:    "large",
		Budget:      "500+",
	})
	require.NoError(t, err)

	service.Drain(context.Background(), events)

	require.Len(t, store.alerts, 1)
	assert.Equal(t, "U1", store.alerts[0].UserID)
	assert.Equal(t, entities.AlertTypeSuccess, store.alerts[0].Type)
}

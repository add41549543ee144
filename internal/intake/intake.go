// Package intake implements project submission: validation, derivation of
// priority and price from the form's timeline/budget choices, persistence of
// the request, and the best-effort side effects (file association, XP
// reward) that follow it.
package intake

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/designdesk/designdesk/internal/blob"
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/designdesk/designdesk/internal/notifier"
	"github.com/designdesk/designdesk/internal/rewards"
	"github.com/designdesk/designdesk/internal/services/pricing"
	"github.com/designdesk/designdesk/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var allowedCategories = map[string]struct{}{
	"photoshop": {},
	"3d":        {},
	"design":    {},
	"website":   {},
}

type File struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

type Submission struct {
	Category    string
	Title       string
	Description string
	Style       string
	Timeline    string
	Budget      string
	Files       []File
}

type EventKind string

const (
	EventFilesPending  EventKind = "FilesPending"
	EventRewardPending EventKind = "RewardPending"
)

// Event is a side effect the submission still owes. Submit returns the list
// instead of running the effects inline; Drain executes them best-effort so
// partial failures stay visible to callers and tests.
type Event struct {
	Kind      EventKind
	RequestID string
	OwnerID   string
	Files     []File
	Points    int
}

type UploadFailure struct {
	Name string
	Err  error
}

type DrainOutcome struct {
	Attachments    []entities.Attachment
	UploadFailures []UploadFailure
	XPAwarded      int
}

type Service struct {
	storage  storage.Storage
	uploader blob.Uploader
	rewards  *rewards.Service
	notifier notifier.Notifier
}

func NewService(storage storage.Storage, uploader blob.Uploader, rewards *rewards.Service, notifier notifier.Notifier) *Service {
	return &Service{
		storage:  storage,
		uploader: uploader,
		rewards:  rewards,
		notifier: notifier,
	}
}

// Submit validates and persists the request, then returns the pending side
// effects. The request row must exist before any of them run because blob
// keys are namespaced by its id.
func (s *Service) Submit(ctx context.Context, ownerID string, submission Submission) (entities.DesignRequest, []Event, error) {
	if err := validateSubmission(submission); err != nil {
		return entities.DesignRequest{}, nil, err
	}

	request := entities.DesignRequest{
		Title:       submission.Title,
		Description: submission.Description,
		Category:    submission.Category,
		Style:       submission.Style,
		Priority:    pricing.PriorityForTimeline(submission.Timeline),
		Price:       pricing.PriceForBudget(submission.Budget),
		Status:      entities.RequestStatusSubmitted,
		UserID:      ownerID,
	}

	requestID, err := s.storage.CreateRequest(ctx, request)
	if err != nil {
		return entities.DesignRequest{}, nil, fmt.Errorf("error create design request: %w", err)
	}

	request.ID = requestID

	events := []Event{
		{Kind: EventRewardPending, RequestID: requestID, OwnerID: ownerID, Points: rewards.SubmissionPoints},
	}

	if len(submission.Files) > 0 {
		events = append(events, Event{
			Kind:      EventFilesPending,
			RequestID: requestID,
			OwnerID:   ownerID,
			Files:     submission.Files,
		})
	}

	return request, events, nil
}

// Drain runs the pending side effects. None of them can fail the
// submission: upload failures are collected per file and a reward failure
// is logged and swallowed.
func (s *Service) Drain(ctx context.Context, events []Event) DrainOutcome {
	var outcome DrainOutcome

	if len(events) == 0 {
		return outcome
	}

	for _, event := range events {
		switch event.Kind {
		case EventFilesPending:
			attachments, failures := s.Attach(ctx, event.RequestID, event.OwnerID, event.Files)
			outcome.Attachments = append(outcome.Attachments, attachments...)
			outcome.UploadFailures = append(outcome.UploadFailures, failures...)
		case EventRewardPending:
			if _, err := s.rewards.Grant(ctx, event.OwnerID, event.Points); err != nil {
				zap.L().Info("error grant submission reward", zap.Error(err), zap.String("UserID", event.OwnerID))

				continue
			}

			outcome.XPAwarded += event.Points
		}
	}

	s.notifier.Notify(ctx, entities.SystemAlert{
		UserID:  ownerOf(events),
		Type:    entities.AlertTypeSuccess,
		Title:   "Project submitted",
		Message: fmt.Sprintf("Your project request was submitted. You earned %d XP!", outcome.XPAwarded),
		Source:  entities.AlertSourceProject,
	})

	return outcome
}

// Attach uploads the files concurrently and records an attachment row for
// each successful upload. One file's failure never aborts its siblings and
// the ordering of results is unspecified.
func (s *Service) Attach(ctx context.Context, requestID string, uploaderID string, files []File) ([]entities.Attachment, []UploadFailure) {
	var (
		mu          sync.Mutex
		attachments []entities.Attachment
		failures    []UploadFailure
	)

	eg, ctx := errgroup.WithContext(ctx)

	for _, file := range files {
		file := file
		eg.Go(func() error {
			attachment, err := s.attachOne(ctx, requestID, uploaderID, file)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				zap.L().Info("error attach file", zap.Error(err), zap.String("RequestID", requestID))

				failures = append(failures, UploadFailure{Name: file.Name, Err: err})
				return nil
			}

			attachments = append(attachments, attachment)
			return nil
		})
	}

	eg.Wait()

	return attachments, failures
}

func (s *Service) attachOne(ctx context.Context, requestID string, uploaderID string, file File) (entities.Attachment, error) {
	key := blobKey(requestID, file.Name)

	url, err := s.uploader.Upload(ctx, key, file.MimeType, file.Data)
	if err != nil {
		return entities.Attachment{}, &apperrors.UploadError{File: file.Name, Err: err}
	}

	attachment := entities.Attachment{
		RequestID:  requestID,
		Name:       file.Name,
		URL:        url,
		Size:       file.Size,
		MimeType:   file.MimeType,
		UploadedBy: uploaderID,
	}

	attachmentID, err := s.storage.CreateAttachment(ctx, attachment)
	if err != nil {
		return entities.Attachment{}, &apperrors.UploadError{File: file.Name, Err: err}
	}

	attachment.ID = attachmentID

	return attachment, nil
}

// AttachToRequest is the standalone attach operation: it verifies the owning
// request exists before fanning out.
func (s *Service) AttachToRequest(ctx context.Context, requestID string, uploaderID string, files []File) ([]entities.Attachment, []UploadFailure, error) {
	if _, err := s.storage.GetRequestByID(ctx, requestID); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, nil, &apperrors.NotFoundError{Entity: "design request", ID: requestID}
		}

		return nil, nil, err
	}

	attachments, failures := s.Attach(ctx, requestID, uploaderID, files)

	return attachments, failures, nil
}

func validateSubmission(submission Submission) error {
	if submission.Title == "" {
		return apperrors.NewValidationError("title", "must not be empty")
	}

	if submission.Description == "" {
		return apperrors.NewValidationError("description", "must not be empty")
	}

	if submission.Style == "" {
		return apperrors.NewValidationError("style", "must not be empty")
	}

	if _, ok := allowedCategories[submission.Category]; !ok {
		return apperrors.NewValidationError("category", fmt.Sprintf("unknown project type %q", submission.Category))
	}

	return nil
}

func blobKey(requestID string, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))

	return fmt.Sprintf("%s/%s%s", requestID, uuid.NewString(), ext)
}

func ownerOf(events []Event) string {
	for _, event := range events {
		if event.OwnerID != "" {
			return event.OwnerID
		}
	}

	return ""
}

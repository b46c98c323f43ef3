package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
)

type notificationJob struct {
	phone   string
	message string
}

// NotifierService delivers in-app notifications through a single background
// worker fed by a buffered queue. Callers never wait on persistence and never
// see a delivery failure.
type NotifierService struct {
	notificationRepo portsrepo.NotificationRepository
	logger           *slog.Logger

	queue     chan notificationJob
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewNotifierService creates the notifier and starts its worker.
func NewNotifierService(notificationRepo portsrepo.NotificationRepository, logger *slog.Logger, queueSize int) *NotifierService {
	if queueSize <= 0 {
		queueSize = 256
	}
	s := &NotifierService{
		notificationRepo: notificationRepo,
		logger:           logger,
		queue:            make(chan notificationJob, queueSize),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Ensure NotifierService implements the portssvc.NotifierSvcFacade interface
var _ portssvc.NotifierSvcFacade = (*NotifierService)(nil)

func (s *NotifierService) run() {
	defer s.wg.Done()
	for job := range s.queue {
		s.deliver(job)
	}
}

func (s *NotifierService) deliver(job notificationJob) {
	// The originating request may be long gone; delivery runs on its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n := domain.Notification{
		NotificationID: uuid.NewString(),
		Phone:          job.phone,
		Message:        job.message,
		Read:           false,
		CreatedAt:      time.Now(),
	}
	if err := s.notificationRepo.SaveNotification(ctx, n); err != nil {
		s.logger.Error("Failed to persist notification", slog.String("error", err.Error()), slog.String("phone", job.phone))
	}
}

// Notify enqueues a message for a phone number. When the queue is full the
// message is dropped and logged rather than blocking the mutation path.
func (s *NotifierService) Notify(phone string, message string) {
	select {
	case s.queue <- notificationJob{phone: phone, message: message}:
	default:
		s.logger.Warn("Notification queue full, dropping message", slog.String("phone", phone))
	}
}

// ListNotifications retrieves notifications for a phone, newest first.
func (s *NotifierService) ListNotifications(ctx context.Context, phone string) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.FindNotificationsByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", phone, err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read.
func (s *NotifierService) MarkRead(ctx context.Context, notificationID string) error {
	if err := s.notificationRepo.MarkNotificationRead(ctx, notificationID); err != nil {
		return err
	}
	return nil
}

// Close stops the worker after draining whatever is already queued.
func (s *NotifierService) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

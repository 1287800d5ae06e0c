package service

import (
	"context"
	"sync"
	"time"

	"social-backend/internal/common"
	"social-backend/internal/model"
	"social-backend/internal/push"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DispatcherOptions tunes the delivery queue and the outbox sweeper
type DispatcherOptions struct {
	QueueSize     int
	Workers       int
	SweepInterval time.Duration
	SweepBatch    int64
	MaxAttempts   int
	Retries       int
	Backoff       time.Duration
}

func DefaultDispatcherOptions() DispatcherOptions {
	return DispatcherOptions{
		QueueSize:     256,
		Workers:       4,
		SweepInterval: 30 * time.Second,
		SweepBatch:    100,
		MaxAttempts:   5,
		Retries:       3,
		Backoff:       200 * time.Millisecond,
	}
}

type delivery struct {
	channel      string
	event        string
	data         interface{}
	notification *model.Notification
}

// NotificationService persists notifications and pushes them, together with message events,
// through an asynchronous queue. Undelivered notifications stay in the outbox until the
// sweeper hands them to a worker again.
type NotificationService struct {
	repo      interfaces.NotificationRepository
	userRepo  interfaces.UserRepository
	publisher push.Publisher
	opts      DispatcherOptions
	queue     chan *delivery

	inflightMu sync.Mutex
	inflight   map[primitive.ObjectID]struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNotificationService(repo interfaces.NotificationRepository, userRepo interfaces.UserRepository, publisher push.Publisher, opts DispatcherOptions) *NotificationService {
	return &NotificationService{
		repo:      repo,
		userRepo:  userRepo,
		publisher: publisher,
		opts:      opts,
		queue:     make(chan *delivery, opts.QueueSize),
		inflight:  make(map[primitive.ObjectID]struct{}),
	}
}

// Start launches the delivery workers and the outbox sweeper
func (s *NotificationService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	s.wg.Add(1)
	go s.sweeper(ctx)

	util.Logger.Info("notification dispatcher started",
		zap.Int("workers", s.opts.Workers),
		zap.Duration("sweep_interval", s.opts.SweepInterval))
}

// Stop halts the workers and waits for in-progress deliveries to return
func (s *NotificationService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	util.Logger.Info("notification dispatcher stopped")
}

// Notify stores n and queues it for delivery on the recipient's channel
func (s *NotificationService) Notify(ctx context.Context, n *model.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return dbError("failed to create notification", err)
	}

	stored := *n
	s.enqueueNotification(&stored)
	return nil
}

// Publish queues a transient event; it is dropped if the queue is full
func (s *NotificationService) Publish(channel, event string, data interface{}) {
	select {
	case s.queue <- &delivery{channel: channel, event: event, data: data}:
	default:
		util.Logger.Warn("push queue full, dropping event", zap.String("channel", channel), zap.String("event", event))
	}
}

// List returns the recipient's notifications newest first with senders populated
func (s *NotificationService) List(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, dbError("failed to list notifications", err)
	}

	senders := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		senders = append(senders, n.SenderID)
	}
	byID, err := summariesByID(ctx, s.userRepo, senders)
	if err != nil {
		return nil, dbError("failed to load senders", err)
	}
	for _, n := range notifications {
		n.Sender = byID[n.SenderID]
	}
	return notifications, nil
}

// UnreadCount returns how many of the recipient's notifications are unread. Nothing marks
// notifications read yet, so this equals the total stored for the recipient.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, dbError("failed to count notifications", err)
	}
	return count, nil
}

// Sweep re-queues outbox entries older than one sweep interval that still have attempts left
func (s *NotificationService) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.opts.SweepInterval)
	pending, err := s.repo.ListUndelivered(ctx, cutoff, s.opts.MaxAttempts, s.opts.SweepBatch)
	if err != nil {
		util.Logger.Error("failed to scan notification outbox", zap.Error(err))
		return
	}
	for _, n := range pending {
		s.enqueueNotification(n)
	}
	if len(pending) > 0 {
		util.Logger.Info("re-queued undelivered notifications", zap.Int("count", len(pending)))
	}
}

func (s *NotificationService) enqueueNotification(n *model.Notification) {
	s.inflightMu.Lock()
	if _, busy := s.inflight[n.ID]; busy {
		s.inflightMu.Unlock()
		return
	}
	s.inflight[n.ID] = struct{}{}
	s.inflightMu.Unlock()

	d := &delivery{
		channel:      push.UserChannel(n.RecipientID.Hex()),
		event:        push.EventNotification,
		notification: n,
	}
	select {
	case s.queue <- d:
	default:
		s.release(n.ID)
		util.Logger.Warn("push queue full, notification left in outbox", zap.String("notification_id", n.ID.Hex()))
	}
}

func (s *NotificationService) release(id primitive.ObjectID) {
	s.inflightMu.Lock()
	delete(s.inflight, id)
	s.inflightMu.Unlock()
}

func (s *NotificationService) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.queue:
			s.deliver(ctx, d)
		}
	}
}

func (s *NotificationService) sweeper(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *NotificationService) deliver(ctx context.Context, d *delivery) {
	data := d.data
	n := d.notification
	if n != nil {
		defer s.release(n.ID)
		if err := s.repo.IncrementAttempts(ctx, n.ID); err != nil {
			util.Logger.Error("failed to count delivery attempt", zap.String("notification_id", n.ID.Hex()), zap.Error(err))
		}
		data = s.withSender(ctx, n)
	}

	err := common.WithRetry(ctx, func() error {
		return s.publisher.Trigger(d.channel, d.event, data)
	}, s.opts.Retries, s.opts.Backoff)
	if err != nil {
		util.Logger.Warn("push delivery failed",
			zap.String("channel", d.channel),
			zap.String("event", d.event),
			zap.Error(err))
		return
	}

	if n != nil {
		if err := s.repo.MarkDelivered(ctx, n.ID, time.Now()); err != nil {
			util.Logger.Error("failed to mark notification delivered", zap.String("notification_id", n.ID.Hex()), zap.Error(err))
		}
	}
}

func (s *NotificationService) withSender(ctx context.Context, n *model.Notification) *model.Notification {
	payload := *n
	sender, err := s.userRepo.FindByID(ctx, n.SenderID)
	if err != nil {
		util.Logger.Warn("failed to load notification sender", zap.String("sender_id", n.SenderID.Hex()), zap.Error(err))
	}
	if sender != nil {
		payload.Sender = sender.Summary()
	}
	return &payload
}

type NotificationServiceInterface interface {
	List(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
}

var (
	_ NotificationServiceInterface = (*NotificationService)(nil)
	_ Notifier                     = (*NotificationService)(nil)
	_ EventPublisher               = (*NotificationService)(nil)
)

// Package notifications stores per-user notifications and fans them out to the
// event broker and email on a bounded worker pool.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"homescout-backend/internal/application/emails"
	"homescout-backend/internal/domain"

	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("Notification not found")

const (
	defaultWorkers  = 4
	dispatchTimeout = 10 * time.Second
	listLimit       = 50
)

// Publisher sends an encoded event to the broker.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, []byte) error { return nil }

// Event is the message published for every notification.
type Event struct {
	ID        uint      `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	DB        *gorm.DB
	Publisher Publisher
	Emails    emails.Sender // optional
	pool      *workerpool.WorkerPool

	mu     sync.RWMutex
	closed bool
}

func NewService(db *gorm.DB, pub Publisher, sender emails.Sender, workers int) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{DB: db, Publisher: pub, Emails: sender, pool: workerpool.New(workers)}
}

// Notify stores n and queues its delivery. Delivery failures are logged only.
// After Close the notification is still stored but not delivered.
func (s *Service) Notify(ctx context.Context, n *domain.Notification) error {
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		return err
	}
	stored := *n
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		log.Warn().Uint("notification_id", stored.ID).Msg("notification stored after shutdown, not delivered")
		return nil
	}
	s.pool.Submit(func() { s.dispatch(stored) })
	return nil
}

func (s *Service) dispatch(n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	logger := log.With().Uint("notification_id", n.ID).Str("type", n.Type).Logger()

	body, err := json.Marshal(Event{
		ID: n.ID, UserID: n.UserID, Type: n.Type, Title: n.Title,
		Body: n.Body, Reference: n.Reference, CreatedAt: n.CreatedAt,
	})
	if err == nil {
		err = s.Publisher.Publish(ctx, body)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("notification publish failed")
	}

	if s.Emails == nil {
		return
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Select("email", "fullname").Where("user_id = ?", n.UserID).First(&u).Error; err != nil {
		logger.Warn().Err(err).Msg("notification recipient lookup failed")
		return
	}
	first := u.Fullname
	if f := strings.Fields(u.Fullname); len(f) > 0 {
		first = f[0]
	}
	if err := s.Emails.SendNotification(ctx, u.Email, first, n.Title, n.Body); err != nil {
		logger.Warn().Err(err).Msg("notification email failed")
	}
}

// List returns the newest notifications for the user.
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var out []domain.Notification
	if err := q.Order(`"createdAt" DESC`).Order("id DESC").Limit(listLimit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, userID uuid.UUID, id uint) error {
	var n domain.Notification
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.ReadAt != nil {
		return nil
	}
	return s.DB.WithContext(ctx).Model(&n).Update("read_at", time.Now()).Error
}

// MarkAllRead returns how many notifications changed.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())
	return res.RowsAffected, res.Error
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	return n, err
}

// Close waits for queued deliveries to finish. Later Notify calls only store.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pool.StopWait()
}

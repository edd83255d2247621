package service

import (
	"context"
	"errors"
	"time"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/internal/repository"
	pkglog "github.com/MuhammadYassa/WatchMate/pkg/log"
	"github.com/MuhammadYassa/WatchMate/pkg/metrics"
	"github.com/MuhammadYassa/WatchMate/pkg/pubsub"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// socialGraphService implements SocialGraphService.
type socialGraphService struct {
	store     repository.Store
	publisher pubsub.Publisher
	now       func() time.Time
}

// Option configures the service.
type Option func(*socialGraphService)

// WithPublisher sets the publisher relationship events are sent to.
func WithPublisher(p pubsub.Publisher) Option {
	return func(s *socialGraphService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the time source used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *socialGraphService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSocialGraphService creates a new SocialGraphService instance.
func NewSocialGraphService(store repository.Store, opts ...Option) SocialGraphService {
	s := &socialGraphService{
		store:     store,
		publisher: pubsub.NopPublisher{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClampPage bounds a page request to a non-negative page and a size in 1..MaxPageSize.
// A zero size selects DefaultPageSize.
func ClampPage(p domain.PageRequest) domain.PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	switch {
	case p.Size == 0:
		p.Size = DefaultPageSize
	case p.Size < 1:
		p.Size = 1
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

func newPage[T any](items []T, page domain.PageRequest, total int64) *domain.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &domain.Page[T]{Items: items, Page: page.Page, Size: page.Size, Total: total}
}

// lookupUser resolves a user through repo, mapping a miss to ErrUserNotFound.
func lookupUser(ctx context.Context, repo repository.UserRepository, id string) (*domain.User, error) {
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// lockPair loads actorID and targetID with their rows locked for the rest of the
// transaction, so follow, block and accept on the same pair run one after another.
// Either user missing is ErrUserNotFound.
func lockPair(ctx context.Context, repo repository.UserRepository, actorID, targetID string) (actor, target *domain.User, err error) {
	users, err := repo.LockForUpdate(ctx, actorID, targetID)
	if err != nil {
		return nil, nil, err
	}
	for _, u := range users {
		switch u.ID {
		case actorID:
			actor = u
		case targetID:
			target = u
		}
	}
	if actor == nil || target == nil {
		return nil, nil, ErrUserNotFound
	}
	return actor, target, nil
}

// publish sends an event after the state change has committed. Failures are logged only.
func (s *socialGraphService) publish(ctx context.Context, eventType, key string, payload interface{}) {
	l := pkglog.Ctx(ctx)

	evt, err := pubsub.NewEvent(eventType, key, payload)
	if err != nil {
		l.Warn().Err(err).Str("event_type", eventType).Msg("failed to build social event")
		return
	}
	if err := s.publisher.Publish(ctx, pubsub.ChannelSocialEvents, evt); err != nil {
		l.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish social event")
	}
}

// observe records the outcome of a mutating action that began at start.
func observe(action string, start time.Time, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case isDomainError(err):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	metrics.RecordSocialAction(action, result, time.Since(start))
}

// Ensure interface is satisfied at compile time.
var _ SocialGraphService = (*socialGraphService)(nil)

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/realtime"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

// ErrEmptyMessage rejects blank or whitespace-only message bodies.
var ErrEmptyMessage = errors.New("message body must not be empty")

// MessageService is the per-lease thread: append-only log, seq-ordered
// reads, read markers, and realtime fan-out of new messages.
type MessageService interface {
	Send(ctx context.Context, caller Principal, leaseID, body string) (*domain.MessageWithSender, error)
	// Fetch returns the thread ordered by seq ascending; afterSeq > 0
	// returns only newer messages so reconnecting clients merge instead of
	// re-reading everything.
	Fetch(ctx context.Context, caller Principal, leaseID string, afterSeq int64) ([]*domain.MessageWithSender, error)
	MarkRead(ctx context.Context, caller Principal, leaseID string) error
	UnreadCount(ctx context.Context, caller Principal, leaseID string) (int, error)
	// Subscribe opens a live event stream for the lease thread.
	Subscribe(ctx context.Context, caller Principal, leaseID string) (<-chan realtime.Event, func(), error)
}

type messageService struct {
	messages repository.MessagesRepository
	leases   repository.LeasesRepository
	profiles repository.ProfilesRepository
	bus      realtime.Bus
	logger   *zap.Logger
}

func NewMessageService(
	messages repository.MessagesRepository,
	leases repository.LeasesRepository,
	profiles repository.ProfilesRepository,
	bus realtime.Bus,
	logger *zap.Logger,
) MessageService {
	return &messageService{
		messages: messages,
		leases:   leases,
		profiles: profiles,
		bus:      bus,
		logger:   logger,
	}
}

// authorize loads the lease and checks the caller is a party to it.
func (s *messageService) authorize(ctx context.Context, caller Principal, leaseID string) (*domain.Lease, error) {
	lease, err := s.leases.GetLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if !leaseParty(lease, caller) {
		return nil, ErrForbidden
	}
	return lease, nil
}

func (s *messageService) Send(ctx context.Context, caller Principal, leaseID, body string) (*domain.MessageWithSender, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.authorize(ctx, caller, leaseID); err != nil {
		return nil, err
	}

	m := &domain.Message{
		LeaseID:  leaseID,
		SenderID: caller.UserID,
		Body:     body,
	}
	if err := s.messages.InsertMessage(ctx, m); err != nil {
		s.logger.Error("message insert failed",
			zap.String("lease_id", leaseID), zap.Error(err))
		return nil, err
	}

	senderName := caller.Email
	if p, err := s.profiles.GetProfile(ctx, caller.UserID); err == nil {
		senderName = p.DisplayName()
	}
	out := &domain.MessageWithSender{Message: *m, SenderName: senderName}

	// Publish after commit. Subscribers merge by (id, seq); a lost event is
	// recovered by the next afterSeq fetch, so publish failure is logged,
	// not surfaced.
	ev, err := realtime.NewEvent(realtime.EventMessageCreated, out)
	if err == nil {
		err = s.bus.Publish(ctx, realtime.LeaseMessagesTopic(leaseID), ev)
	}
	if err != nil {
		s.logger.Warn("message event publish failed",
			zap.String("lease_id", leaseID), zap.Error(err))
	}

	return out, nil
}

func (s *messageService) Fetch(ctx context.Context, caller Principal, leaseID string, afterSeq int64) ([]*domain.MessageWithSender, error) {
	if _, err := s.authorize(ctx, caller, leaseID); err != nil {
		return nil, err
	}
	return s.messages.ListByLease(ctx, leaseID, afterSeq)
}

func (s *messageService) MarkRead(ctx context.Context, caller Principal, leaseID string) error {
	if _, err := s.authorize(ctx, caller, leaseID); err != nil {
		return err
	}
	return s.messages.MarkRead(ctx, leaseID, caller.UserID)
}

func (s *messageService) UnreadCount(ctx context.Context, caller Principal, leaseID string) (int, error) {
	if _, err := s.authorize(ctx, caller, leaseID); err != nil {
		return 0, err
	}
	return s.messages.UnreadCount(ctx, leaseID, caller.UserID)
}

func (s *messageService) Subscribe(ctx context.Context, caller Principal, leaseID string) (<-chan realtime.Event, func(), error) {
	if _, err := s.authorize(ctx, caller, leaseID); err != nil {
		return nil, nil, err
	}
	ch, cancel, err := s.bus.Subscribe(ctx, realtime.LeaseMessagesTopic(leaseID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open live thread: %w", err)
	}
	return ch, cancel, nil
}

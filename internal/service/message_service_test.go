package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/realtime"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

type messageFixture struct {
	landlord Principal
	tenant   Principal
	leaseID  string
	svc      MessageService
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	ctx := context.Background()

	profiles := repository.NewMemoryProfilesRepository()
	landlordID, err := profiles.CreateProfile(ctx, &domain.Profile{
		Email: "alex@example.com", FirstName: "Alex", LastName: "Landlord", Role: domain.RoleLandlord,
	})
	require.NoError(t, err)
	tenantID, err := profiles.CreateProfile(ctx, &domain.Profile{
		Email: "jordan@example.com", FirstName: "Jordan", LastName: "Baker", Role: domain.RoleTenant,
	})
	require.NoError(t, err)

	properties := repository.NewMemoryPropertiesRepository()
	propertyID, err := properties.CreateProperty(ctx, &domain.Property{
		LandlordID: landlordID, Title: "Maple Duplex", Address: "12 Maple St", City: "Halifax", MonthlyRent: 1800,
	})
	require.NoError(t, err)

	notifications := repository.NewMemoryNotificationsRepository()
	leases := repository.NewMemoryLeasesRepository(properties, notifications)
	leaseID, err := leases.CreateLease(ctx, &domain.Lease{
		PropertyID:     propertyID,
		LandlordID:     landlordID,
		TenantID:       nullString(tenantID),
		TenantName:     "Jordan Baker",
		MonthlyRent:    1800,
		LeaseStartDate: time.Now(),
		LeaseEndDate:   time.Now().AddDate(1, 0, 0),
		Status:         domain.LeaseStatusActive,
	}, nil, nil)
	require.NoError(t, err)

	messages := repository.NewMemoryMessagesRepository(profiles)
	svc := NewMessageService(messages, leases, profiles, realtime.NewMemoryBus(), zap.NewNop())

	return &messageFixture{
		landlord: Principal{UserID: landlordID, Email: "alex@example.com", Role: domain.RoleLandlord},
		tenant:   Principal{UserID: tenantID, Email: "jordan@example.com", Role: domain.RoleTenant},
		leaseID:  leaseID,
		svc:      svc,
	}
}

func TestSendMessageRejectsBlank(t *testing.T) {
	f := newMessageFixture(t)
	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.Send(context.Background(), f.landlord, f.leaseID, body)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
}

func TestSendMessageRequiresParty(t *testing.T) {
	f := newMessageFixture(t)
	stranger := Principal{UserID: "stranger", Role: domain.RoleTenant}
	_, err := f.svc.Send(context.Background(), stranger, f.leaseID, "hello")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Fetch(context.Background(), stranger, f.leaseID, 0)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestMessageThreadSeqOrder(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	first, err := f.svc.Send(ctx, f.landlord, f.leaseID, "Welcome in!")
	require.NoError(t, err)
	second, err := f.svc.Send(ctx, f.tenant, f.leaseID, "Thanks, moving Saturday")
	require.NoError(t, err)
	third, err := f.svc.Send(ctx, f.landlord, f.leaseID, "Keys are in the lockbox")
	require.NoError(t, err)

	assert.Less(t, first.Seq, second.Seq)
	assert.Less(t, second.Seq, third.Seq)

	items, err := f.svc.Fetch(ctx, f.tenant, f.leaseID, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i].Seq, items[i-1].Seq)
	}
	assert.Equal(t, "Alex Landlord", items[0].SenderName)

	// afterSeq returns only the tail.
	tail, err := f.svc.Fetch(ctx, f.tenant, f.leaseID, first.Seq)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, second.Seq, tail[0].Seq)
}

func TestMessageUnreadCounts(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.landlord, f.leaseID, "Rent is due Friday")
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.landlord, f.leaseID, "Also the inspection is Monday")
	require.NoError(t, err)

	// Own messages never count as unread for the sender.
	count, err := f.svc.UnreadCount(ctx, f.landlord, f.leaseID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = f.svc.UnreadCount(ctx, f.tenant, f.leaseID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, f.svc.MarkRead(ctx, f.tenant, f.leaseID))

	count, err = f.svc.UnreadCount(ctx, f.tenant, f.leaseID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// MarkRead is idempotent.
	require.NoError(t, f.svc.MarkRead(ctx, f.tenant, f.leaseID))
}

func TestMessageSubscribeReceivesEvents(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	events, cancel, err := f.svc.Subscribe(ctx, f.tenant, f.leaseID)
	require.NoError(t, err)
	defer cancel()

	sent, err := f.svc.Send(ctx, f.landlord, f.leaseID, "Anyone home?")
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, realtime.EventMessageCreated, ev.Type)
		assert.Contains(t, string(ev.Payload), sent.MessageID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

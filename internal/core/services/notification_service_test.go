package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/core/services"
	"github.com/SscSPs/club_tab_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu      sync.Mutex
	failFor map[int64]bool
	sent    map[int64]string
}

func newFakeSender(failFor ...int64) *fakeSender {
	s := &fakeSender{failFor: map[int64]bool{}, sent: map[int64]string{}}
	for _, id := range failFor {
		s.failFor[id] = true
	}
	return s
}

func (s *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[chatID] {
		return errors.New("chat not found")
	}
	s.sent[chatID] = text
	return nil
}

func saveTemplate(t *testing.T, store *memory.Store, event domain.EventType, text string, active bool) {
	t.Helper()
	created, err := store.SaveTemplateIfMissing(context.Background(), domain.MessageTemplate{
		TemplateID: string(event),
		EventType:  event,
		Template:   text,
		IsActive:   active,
		CreatedAt:  fixtureNow,
		UpdatedAt:  fixtureNow,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestNotify_RendersActiveTemplate(t *testing.T) {
	store := memory.NewStore()
	saveTemplate(t, store, domain.EventPaymentApproved, "Hi {user}, {amount} received. Balance: {balance}", true)
	sender := newFakeSender()
	svc := services.NewNotificationService(store, sender, 2)

	member := domain.Member{MemberID: "m1", TelegramID: 11, FirstName: "Eero"}
	ok := svc.Notify(context.Background(), domain.EventPaymentApproved, member, map[string]string{
		"user": "Eero", "amount": "4.00", "balance": "-6.00",
	})
	assert.True(t, ok)
	assert.Equal(t, "Hi Eero, 4.00 received. Balance: -6.00", sender.sent[11])
}

func TestNotify_SkipsMissingOrInactiveTemplates(t *testing.T) {
	store := memory.NewStore()
	saveTemplate(t, store, domain.EventUserPromoted, "You are an admin now, {user}", false)
	sender := newFakeSender()
	svc := services.NewNotificationService(store, sender, 2)
	member := domain.Member{MemberID: "m1", TelegramID: 11, FirstName: "Eero"}

	assert.False(t, svc.Notify(context.Background(), domain.EventUserPromoted, member, map[string]string{"user": "Eero"}))
	assert.False(t, svc.Notify(context.Background(), domain.EventUserDemoted, member, map[string]string{"user": "Eero"}))
	assert.Empty(t, sender.sent)
}

func TestNotify_MissingVariableIsNotSent(t *testing.T) {
	store := memory.NewStore()
	saveTemplate(t, store, domain.EventUserApproved, "Welcome {user}!", true)
	sender := newFakeSender()
	svc := services.NewNotificationService(store, sender, 1)

	ok := svc.Notify(context.Background(), domain.EventUserApproved, domain.Member{TelegramID: 11}, nil)
	assert.False(t, ok)
	assert.Empty(t, sender.sent)
}

func TestNotifyMany_CountsDeliveredMessages(t *testing.T) {
	store := memory.NewStore()
	saveTemplate(t, store, domain.EventFiscalPeriodClosed, "{user}, you owe {amount}", true)
	sender := newFakeSender(2)
	svc := services.NewNotificationService(store, sender, 2)

	targets := []domain.NotificationTarget{
		{Member: domain.Member{MemberID: "a", TelegramID: 1}, Vars: map[string]string{"user": "Aino", "amount": "5.00"}},
		{Member: domain.Member{MemberID: "b", TelegramID: 2}, Vars: map[string]string{"user": "Eero", "amount": "1.00"}},
		{Member: domain.Member{MemberID: "c", TelegramID: 3}, Vars: map[string]string{"user": "Kaisa", "amount": "9.50"}},
	}
	sent := svc.NotifyMany(context.Background(), domain.EventFiscalPeriodClosed, targets)

	assert.Equal(t, 2, sent, "one failed send does not stop the others")
	assert.Equal(t, "Aino, you owe 5.00", sender.sent[1])
	assert.Equal(t, "Kaisa, you owe 9.50", sender.sent[3])
	assert.Zero(t, svc.NotifyMany(context.Background(), domain.EventFiscalPeriodClosed, nil))
	assert.Zero(t, svc.NotifyMany(context.Background(), domain.EventUserDemoted, targets))
}

package store

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/user"
)

// PendingNotifications returns the un-notified entries of the session user.
func (s *Store) PendingNotifications() ([]calendar.Entry, error) {
	usr, ok := s.CurrentUser()
	if !ok {
		return []calendar.Entry{}, nil
	}
	return s.entrySvc.Pending(usr.ID)
}

// SendPushNotifications flags every un-notified entry of the session user as notified, then asks the gateway
// to deliver a single notification listing them. It returns the number of entries notified.
// Gateway failures are logged: the flags are not rolled back.
func (s *Store) SendPushNotifications(ctx context.Context) (int, error) {
	usr, ok := s.CurrentUser()
	if !ok {
		return 0, nil
	}

	entries, err := s.entrySvc.MarkNotified(usr.ID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	s.events.publish(Event{Kind: EntriesNotified, UserID: usr.ID, Count: len(entries)})

	n := NewNotification(usr, entries)
	if err := s.gateway.Schedule(ctx, n); err != nil {
		s.logger.Error(fmt.Sprintf("scheduling notification: %v", err), err, usr)
	}
	return len(entries), nil
}

// NewNotification coalesces entries into a single notification addressed to usr.
func NewNotification(usr user.User, entries []calendar.Entry) core.Notification {
	title := fmt.Sprintf("You have %d new calendar entries", len(entries))
	if len(entries) == 1 {
		title = "You have 1 new calendar entry"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s - %s", e.Day, e.Time, e.Description))
	}
	return core.Notification{
		To:    mail.Address{Name: usr.FullName(), Address: usr.Email},
		Title: title,
		Lines: lines,
		Sound: true,
	}
}

package core

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

// ErrPermissionDenied is returned by a NotificationGateway when the platform refused notification permissions.
// Its message is the alert shown to the user.
var ErrPermissionDenied = errors.New("Failed to get push token for push notification!")

// Channel importance levels
const (
	ImportanceMin     = 1
	ImportanceLow     = 2
	ImportanceDefault = 3
	ImportanceHigh    = 4
	ImportanceMax     = 5
)

const PlatformAndroid = "android"

type (
	// Channel is an Android notification channel.
	Channel struct {
		ID               string
		Name             string
		Importance       int
		VibrationPattern []int // milliseconds
		LightColor       string
	}

	Notification struct {
		To    mail.Address
		Title string
		Lines []string
		Sound bool
	}

	// NotificationGateway is any platform service that can deliver notifications to a user.
	NotificationGateway interface {
		// RequestPermission asks the platform for permission and returns a delivery token.
		// It is safe to call more than once.
		RequestPermission(ctx context.Context) (string, error)
		// SetupChannel registers the delivery channel on platforms that need one.
		SetupChannel(ctx context.Context, ch Channel) error
		// Schedule enqueues the notification for delivery after the gateway's delay.
		// It does not wait for the delivery.
		Schedule(ctx context.Context, n Notification) error
	}
)

// DefaultChannel returns the channel registered at startup.
func DefaultChannel() Channel {
	return Channel{
		ID:               "default",
		Name:             "default",
		Importance:       ImportanceMax,
		VibrationPattern: []int{0, 250, 250, 250},
		LightColor:       "#FF231F7C",
	}
}

func (n Notification) Body() string { return strings.Join(n.Lines, "\n") }

func (n Notification) HasRecipient() bool { return n.To.Address != "" }
func (n Notification) HasContent() bool   { return n.Title != "" || len(n.Lines) > 0 }

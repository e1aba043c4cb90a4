package notifsvc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/onestop/core"
)

const permissionGranted = "granted"

type consoleGateway struct {
	platform      string
	granted       bool
	delay         time.Duration
	logger        core.Logger
	disableOutput bool

	mu       sync.Mutex
	token    string
	denied   bool
	channels []core.Channel
	sent     []core.Notification
}

var _ core.NotificationGateway = (*consoleGateway)(nil)

// NewConsoleGateway returns a gateway that prints the notifications instead of delivering them.
// Permission is simulated from the configuration.
func NewConsoleGateway(conf *core.Config, logger core.Logger) *consoleGateway {
	return &consoleGateway{
		platform: conf.Notification.Platform,
		granted:  conf.Notification.Permission == permissionGranted,
		delay:    conf.Notification.Delay,
		logger:   logger,
	}
}

func (gw *consoleGateway) RequestPermission(_ context.Context) (string, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if !gw.granted {
		gw.denied = true
		return "", core.ErrPermissionDenied
	}
	if gw.token == "" {
		gw.token = "ConsolePushToken[" + uuid.New().String() + "]"
	}
	return gw.token, nil
}

func (gw *consoleGateway) SetupChannel(_ context.Context, ch core.Channel) error {
	if gw.platform != core.PlatformAndroid {
		return nil
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()

	for i, c := range gw.channels {
		if c.ID == ch.ID {
			gw.channels[i] = ch
			return nil
		}
	}
	gw.channels = append(gw.channels, ch)
	return nil
}

func (gw *consoleGateway) Schedule(_ context.Context, n core.Notification) error {
	if !gw.accepts(n) {
		return nil
	}
	time.AfterFunc(gw.delay, func() { gw.deliver(n) })
	return nil
}

// accepts reports whether n can be delivered: permission not denied, with a recipient and content.
func (gw *consoleGateway) accepts(n core.Notification) bool {
	gw.mu.Lock()
	denied := gw.denied
	gw.mu.Unlock()
	return !denied && n.HasRecipient() && n.HasContent()
}

func (gw *consoleGateway) deliver(n core.Notification) {
	if !gw.disableOutput {
		gw.logger.Info(gw.render(n))
	}
	gw.mu.Lock()
	gw.sent = append(gw.sent, n)
	gw.mu.Unlock()
}

func (gw *consoleGateway) render(n core.Notification) string {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "Notification to: %s\n", n.To.String())
	_, _ = fmt.Fprintf(body, "Date: %s\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Title: %s\n", n.Title)
	_, _ = fmt.Fprintf(body, "Sound: %t\n\n", n.Sound)
	_, _ = fmt.Fprint(body, n.Body())
	return body.String()
}

// Sent returns the delivered notifications.
func (gw *consoleGateway) Sent() []core.Notification {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	sent := make([]core.Notification, len(gw.sent))
	copy(sent, gw.sent)
	return sent
}

// Channels returns the registered channels.
func (gw *consoleGateway) Channels() []core.Channel {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	channels := make([]core.Channel, len(gw.channels))
	copy(channels, gw.channels)
	return channels
}

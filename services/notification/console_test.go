package notifsvc

import (
	"context"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/testutil"
)

func newNotification() core.Notification {
	return core.Notification{
		To:    mail.Address{Name: "Alice Smith", Address: "alice@example.com"},
		Title: "You have 1 new calendar entry",
		Lines: []string{"2024-10-29 10:00 AM - SWEN 444 class canceled"},
		Sound: true,
	}
}

func TestConsoleGateway_RequestPermission(t *testing.T) {
	ctx := context.Background()
	conf := testutil.NewConfig()

	t.Run("granted", func(t *testing.T) {
		conf.Notification.Permission = "granted"
		gw := NewConsoleGateway(conf, testutil.NewLogger(conf))

		token, err := gw.RequestPermission(ctx)
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, "ConsolePushToken["))

		again, err := gw.RequestPermission(ctx)
		assert.NoError(t, err)
		assert.Equal(t, token, again)
	})

	t.Run("denied", func(t *testing.T) {
		conf.Notification.Permission = "denied"
		gw := NewConsoleGateway(conf, testutil.NewLogger(conf))

		token, err := gw.RequestPermission(ctx)
		assert.Equal(t, core.ErrPermissionDenied, err)
		assert.Empty(t, token)

		assert.NoError(t, gw.Schedule(ctx, newNotification()))
		time.Sleep(20 * time.Millisecond)
		assert.Empty(t, gw.Sent())
	})
}

func TestConsoleGateway_SetupChannel(t *testing.T) {
	ctx := context.Background()
	conf := testutil.NewConfig()

	t.Run("android", func(t *testing.T) {
		gw := NewConsoleGateway(conf, testutil.NewLogger(conf))
		ch := core.DefaultChannel()
		assert.NoError(t, gw.SetupChannel(ctx, ch))

		ch.Importance = core.ImportanceLow
		assert.NoError(t, gw.SetupChannel(ctx, ch))
		assert.Equal(t, []core.Channel{ch}, gw.Channels())
	})

	t.Run("other platforms", func(t *testing.T) {
		conf.Notification.Platform = "ios"
		gw := NewConsoleGateway(conf, testutil.NewLogger(conf))
		assert.NoError(t, gw.SetupChannel(ctx, core.DefaultChannel()))
		assert.Empty(t, gw.Channels())
	})
}

func TestConsoleGateway_Schedule(t *testing.T) {
	ctx := context.Background()
	conf := testutil.NewConfig()
	gw := NewConsoleGateway(conf, testutil.NewLogger(conf))

	n := newNotification()
	assert.NoError(t, gw.Schedule(ctx, n))
	assert.Eventually(t, func() bool { return len(gw.Sent()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, n, gw.Sent()[0])

	// nothing to deliver
	assert.NoError(t, gw.Schedule(ctx, core.Notification{To: n.To}))
	assert.NoError(t, gw.Schedule(ctx, core.Notification{Title: "lol"}))
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, gw.Sent(), 1)
}

func TestConsoleGateway_render(t *testing.T) {
	conf := testutil.NewConfig()
	gw := NewConsoleGateway(conf, testutil.NewLogger(conf))

	out := gw.render(newNotification())
	assert.Contains(t, out, `Notification to: "Alice Smith" <alice@example.com>`)
	assert.Contains(t, out, "Title: You have 1 new calendar entry")
	assert.Contains(t, out, "Sound: true")
	assert.True(t, strings.HasSuffix(out, "2024-10-29 10:00 AM - SWEN 444 class canceled"))
}

func TestNewGateway(t *testing.T) {
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)

	conf.Notification.Gateway = "console"
	_, ok := NewGateway(conf, logger).(*consoleGateway)
	assert.True(t, ok)

	conf.Notification.Gateway = "sendgrid"
	_, ok = NewGateway(conf, logger).(*sendgridGateway)
	assert.True(t, ok)
}

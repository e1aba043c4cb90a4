// Package notifsvc delivers calendar entry notifications through a core.NotificationGateway.
package notifsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/store"
)

// NewGateway returns the gateway selected by conf.
func NewGateway(conf *core.Config, logger core.Logger) core.NotificationGateway {
	switch conf.Notification.Gateway {
	case "sendgrid":
		return NewSendgridGateway(conf, logger)
	default:
		return NewConsoleGateway(conf, logger)
	}
}

// Notifier sends pending notifications whenever the entries or the session user change,
// and periodically through a cron sweep.
type Notifier struct {
	store    *store.Store
	gateway  core.NotificationGateway
	logger   core.Logger
	platform string
	sweep    string

	mu          sync.Mutex
	ctx         context.Context
	cron        *cron.Cron
	unsubscribe func()
}

func NewNotifier(st *store.Store, gw core.NotificationGateway, logger core.Logger, conf *core.Config) *Notifier {
	return &Notifier{
		store:    st,
		gateway:  gw,
		logger:   logger,
		platform: conf.Notification.Platform,
		sweep:    conf.Notification.Sweep,
	}
}

// Start sets up the gateway, subscribes to the store and runs a first pass.
// A permission denial is logged and does not prevent the notifier from starting.
func (n *Notifier) Start(ctx context.Context) error {
	started, err := n.start(ctx)
	if err != nil || !started {
		return err
	}
	n.notify("start")
	return nil
}

func (n *Notifier) start(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.unsubscribe != nil {
		return false, nil
	}

	if _, err := n.gateway.RequestPermission(ctx); err != nil {
		if !errors.Is(err, core.ErrPermissionDenied) {
			return false, errors.Wrap(err, "requesting notification permission")
		}
		n.logger.Warn(err.Error())
	}
	if n.platform == core.PlatformAndroid {
		if err := n.gateway.SetupChannel(ctx, core.DefaultChannel()); err != nil {
			n.logger.Warn(err.Error(), err)
		}
	}

	if n.sweep != "" {
		c := cron.New()
		if _, err := c.AddFunc(n.sweep, func() { n.notify("sweep") }); err != nil {
			return false, errors.Wrapf(err, "parsing notification sweep %q", n.sweep)
		}
		n.cron = c
	}

	n.ctx = ctx
	n.unsubscribe = n.store.Subscribe(n.handle)
	if n.cron != nil {
		n.cron.Start()
	}
	return true, nil
}

// Stop unsubscribes from the store and waits for a running sweep to end.
func (n *Notifier) Stop() {
	n.mu.Lock()
	unsubscribe, c := n.unsubscribe, n.cron
	n.unsubscribe, n.cron = nil, nil
	n.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if c != nil {
		<-c.Stop().Done()
	}
}

func (n *Notifier) handle(evt store.Event) {
	switch {
	case evt.Kind == store.EntriesNotified:
		return
	case evt.Kind.IsEntryChange(), evt.Kind == store.SessionChanged:
		n.notify(evt.Kind.String())
	}
}

func (n *Notifier) notify(reason string) {
	ctx := n.context()
	count, err := n.store.SendPushNotifications(ctx)
	if err != nil {
		n.logger.Error(fmt.Sprintf("sending push notifications (%s): %v", reason, err), err)
		return
	}
	if count > 0 {
		n.logger.Debug(fmt.Sprintf("notified %d calendar entries (%s)", count, reason))
	}
}

func (n *Notifier) context() context.Context {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ctx == nil {
		return context.Background()
	}
	return n.ctx
}

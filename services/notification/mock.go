package notifsvc

import (
	"context"
	"sync"

	"github.com/trezcool/onestop/core"
)

type GatewayMock struct {
	consoleGateway

	// ScheduleErr is returned by Schedule when set.
	ScheduleErr error

	callsMu            sync.Mutex
	permissionRequests int
	scheduleCalls      int
}

var _ core.NotificationGateway = (*GatewayMock)(nil)

// NewGatewayMock returns a console gateway delivering synchronously, without output.
func NewGatewayMock(granted bool) *GatewayMock {
	return &GatewayMock{
		consoleGateway: consoleGateway{
			platform:      core.PlatformAndroid,
			granted:       granted,
			disableOutput: true,
		},
	}
}

func (gw *GatewayMock) RequestPermission(ctx context.Context) (string, error) {
	gw.callsMu.Lock()
	gw.permissionRequests++
	gw.callsMu.Unlock()
	return gw.consoleGateway.RequestPermission(ctx)
}

func (gw *GatewayMock) Schedule(_ context.Context, n core.Notification) error {
	gw.callsMu.Lock()
	gw.scheduleCalls++
	gw.callsMu.Unlock()

	if gw.ScheduleErr != nil {
		return gw.ScheduleErr
	}
	if gw.accepts(n) {
		// run synchronously
		gw.deliver(n)
	}
	return nil
}

func (gw *GatewayMock) PermissionRequests() int {
	gw.callsMu.Lock()
	defer gw.callsMu.Unlock()
	return gw.permissionRequests
}

func (gw *GatewayMock) ScheduleCalls() int {
	gw.callsMu.Lock()
	defer gw.callsMu.Unlock()
	return gw.scheduleCalls
}

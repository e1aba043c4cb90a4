package notifsvc

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/onestop/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"

	htmlTmpl = template.Must(template.New("notification").Parse(
		`<h3>{{.Title}}</h3><ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul>`,
	))
)

// sendgridGateway delivers notifications as emails to the session user.
type sendgridGateway struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	delay      time.Duration
	logger     core.Logger
}

var _ core.NotificationGateway = (*sendgridGateway)(nil)

func NewSendgridGateway(conf *core.Config, logger core.Logger) *sendgridGateway {
	from := conf.DefaultFromEmail()
	return &sendgridGateway{
		key:        conf.SendgridApiKey,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + conf.AppName + "] ",
		delay:      conf.Notification.Delay,
		logger:     logger,
	}
}

// RequestPermission is granted iff an API key is configured.
func (gw sendgridGateway) RequestPermission(_ context.Context) (string, error) {
	if gw.key == "" {
		return "", core.ErrPermissionDenied
	}
	return gw.from.Address, nil
}

// SetupChannel is a no-op: emails have no channel.
func (gw sendgridGateway) SetupChannel(_ context.Context, _ core.Channel) error { return nil }

func (gw sendgridGateway) Schedule(_ context.Context, n core.Notification) error {
	if gw.key == "" || !n.HasRecipient() || !n.HasContent() {
		return nil
	}
	msg, err := gw.prepare(n)
	if err != nil {
		return err
	}
	time.AfterFunc(gw.delay, func() { gw.send(msg) })
	return nil
}

func (gw sendgridGateway) prepare(n core.Notification) (*sgmail.SGMailV3, error) {
	var html bytes.Buffer
	if err := htmlTmpl.Execute(&html, n); err != nil {
		return nil, err
	}

	p := sgmail.NewPersonalization()
	p.Subject = gw.subjPrefix + n.Title
	p.AddTos(sgmail.NewEmail(n.To.Name, n.To.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(gw.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", n.Body()),
		sgmail.NewContent("text/html", html.String()),
	)
	return m, nil
}

func (gw sendgridGateway) send(msg *sgmail.SGMailV3) {
	req := sendgrid.GetRequest(gw.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(msg)

	res, err := sendgrid.API(req)
	if err != nil {
		gw.logger.Error(fmt.Sprintf("sending notification: %v", err), err)
	} else if res.StatusCode >= http.StatusBadRequest {
		gw.logger.Error(fmt.Sprintf("sending notification - status: %d - Body: %s", res.StatusCode, res.Body))
	}
}

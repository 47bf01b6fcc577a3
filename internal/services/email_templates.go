package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net"
	"net/url"
)

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>Thanks for signing up. Confirm your email address by opening the link below:</p>
<p><a href="{{.Link}}">Confirm my email</a></p>
<p>The link expires in {{.TTL}}.</p>
</body>
</html>
`))

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. Choose a new one here:</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>If you did not ask for this, ignore this email. The link expires in {{.TTL}}.</p>
</body>
</html>
`))

// Paths placed in emailed links. ConfirmEmailPath is served by this API; ResetPasswordPath
// is the site page that collects the new password and calls the update-password endpoint.
const (
	ConfirmEmailPath  = "/person/confirm"
	ResetPasswordPath = "/update_password"
)

type emailData struct {
	Name string
	Link string
	TTL  string
}

// siteLink builds http://host:port/path?token=raw.
func siteLink(host, port, path, token string) string {
	u := url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort(host, port),
		Path:     path,
		RawQuery: url.Values{"token": {token}}.Encode(),
	}
	return u.String()
}

func render(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

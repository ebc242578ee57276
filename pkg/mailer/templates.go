package mailer

import (
	"bytes"
	"fmt"
	html "html/template"
	"text/template"
)

var welcomeText = template.Must(template.New("welcome_text").Parse(
	`Hi {{.FullName}},

Welcome to {{.AppName}}! Your channel @{{.Username}} is ready.
Upload your first video whenever you like.
`))

var welcomeHTML = html.Must(html.New("welcome_html").Parse(
	`<p>Hi {{.FullName}},</p>
<p>Welcome to <strong>{{.AppName}}</strong>! Your channel <strong>@{{.Username}}</strong> is ready.</p>
<p>Upload your first video whenever you like.</p>
`))

// Render produces subject, text, and HTML bodies for a templated job.
func Render(tmpl string, data map[string]any) (subject, text, htmlBody string, err error) {
	switch tmpl {
	case TemplateWelcome:
		appName := fmt.Sprintf("%v", data["AppName"])
		var tb, hb bytes.Buffer
		if err = welcomeText.Execute(&tb, data); err != nil {
			return
		}
		if err = welcomeHTML.Execute(&hb, data); err != nil {
			return
		}
		return "Welcome to " + appName, tb.String(), hb.String(), nil
	default:
		err = fmt.Errorf("unknown email template %q", tmpl)
		return
	}
}

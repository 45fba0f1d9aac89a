package notification

import (
	"bytes"
	htmltmpl "html/template"
)

var otpEmailTmpl = htmltmpl.Must(htmltmpl.New("otp").Parse(`
<p>Hello{{if .Name}} {{.Name}}{{end}},</p>
<p>Your Edurise verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.Code}}</p>
<p>The code expires in {{.TTLMinutes}} minutes. If you did not request it, you can ignore this email.</p>
`))

var accountStatusTmpl = htmltmpl.Must(htmltmpl.New("status").Parse(`
<p>Hello {{.Name}},</p>
<p>{{.Message}}</p>
<p>— The Edurise team</p>
`))

// OTPEmail builds the email content carrying a one-time verification code.
func OTPEmail(name, code string, ttlMinutes int) Content {
	var buf bytes.Buffer
	_ = otpEmailTmpl.Execute(&buf, struct {
		Name       string
		Code       string
		TTLMinutes int
	}{name, code, ttlMinutes})
	return Content{
		EmailSubject:  "Your Edurise verification code",
		EmailHTMLBody: buf.String(),
	}
}

// AccountStatusEmail builds a moderation notice (approve/reject/block/unblock).
func AccountStatusEmail(name, message string) Content {
	var buf bytes.Buffer
	_ = accountStatusTmpl.Execute(&buf, struct {
		Name    string
		Message string
	}{name, message})
	return Content{
		EmailSubject:  "Your Edurise account status has changed",
		EmailHTMLBody: buf.String(),
	}
}

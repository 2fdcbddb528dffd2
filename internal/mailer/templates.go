package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"dtmapi/internal/models"
)

type templateData struct {
	LogoURL string
	Email   string
	Token   string
	Link    string
}

var (
	verifyAccountTmpl = template.Must(template.New("verifyAccount").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <div style="max-width: 560px; margin: 0 auto; padding: 24px;">
    <img src="{{.LogoURL}}" alt="DTM" style="height: 48px;">
    <h2>ยืนยันบัญชีผู้ใช้งาน</h2>
    <p>เรียน {{.Email}}</p>
    <p>กรุณากดปุ่มด้านล่างเพื่อยืนยันบัญชีผู้ใช้งานของท่าน</p>
    <p><a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background: #1a73e8; color: #fff; text-decoration: none; border-radius: 4px;">ยืนยันบัญชี</a></p>
    <p style="font-size: 12px; color: #888;">หากปุ่มไม่ทำงาน กรุณาเปิดลิงก์นี้: {{.Link}}</p>
  </div>
</body>
</html>`))

	forgotPasswordTmpl = template.Must(template.New("forgotPassword").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <div style="max-width: 560px; margin: 0 auto; padding: 24px;">
    <img src="{{.LogoURL}}" alt="DTM" style="height: 48px;">
    <h2>ตั้งรหัสผ่านใหม่</h2>
    <p>เรียน {{.Email}}</p>
    <p>เราได้รับคำขอเปลี่ยนรหัสผ่านสำหรับบัญชีของท่าน กรุณากดปุ่มด้านล่างเพื่อตั้งรหัสผ่านใหม่</p>
    <p><a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background: #1a73e8; color: #fff; text-decoration: none; border-radius: 4px;">ตั้งรหัสผ่านใหม่</a></p>
    <p style="font-size: 12px; color: #888;">หากท่านไม่ได้ร้องขอ สามารถละเว้นอีเมลฉบับนี้ได้</p>
  </div>
</body>
</html>`))
)

// subjects per email type.
var subjects = map[models.EmailType]string{
	models.EmailVerifyAccount:  "การยืนยันบัญชีผู้ใช้งาน",
	models.EmailForgotPassword: "ลืมรหัสผ่าน",
}

func render(typ models.EmailType, data templateData) (string, error) {
	var tmpl *template.Template
	switch typ {
	case models.EmailVerifyAccount:
		tmpl = verifyAccountTmpl
	case models.EmailForgotPassword:
		tmpl = forgotPasswordTmpl
	default:
		return "", fmt.Errorf("unknown email type %q", typ)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", typ, err)
	}
	return buf.String(), nil
}

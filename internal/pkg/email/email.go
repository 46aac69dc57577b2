package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/wpshift/membership_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendMembershipGranted 发送会员开通通知
func (s *Service) SendMembershipGranted(to, planName string, expiresAt string) error {
	subject := "会员已开通 - 会员服务中心"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">会员已开通</h2>
        <p>您好，</p>
        <p>您的会员已成功开通：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            <p style="margin: 5px 0;"><strong>套餐：</strong>%s</p>
            <p style="margin: 5px 0;"><strong>有效期至：</strong>%s</p>
        </div>
        <p>感谢您的支持，祝您使用愉快！</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, planName, expiresAt)

	return s.sendHTML(to, subject, body)
}

// SendMembershipExpired 发送会员到期通知
func (s *Service) SendMembershipExpired(to, planName string) error {
	subject := "会员已到期 - 会员服务中心"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">会员已到期</h2>
        <p>您好，</p>
        <p>您的会员套餐「%s」已于近日到期。</p>
        <p>续费后即可继续享受会员权益。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, planName)

	return s.sendHTML(to, subject, body)
}

// SendMembershipExtended 发送会员延期通知
func (s *Service) SendMembershipExtended(to, planName string, expiresAt string) error {
	subject := "会员已延期 - 会员服务中心"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">会员已延期</h2>
        <p>您好，</p>
        <p>您的会员套餐「%s」已延期，新的有效期至：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 18px; font-weight: bold; margin: 20px 0;">
            %s
        </div>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, planName, expiresAt)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}

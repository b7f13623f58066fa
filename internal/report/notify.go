// =============================================================================
// notify.go - 取得エラーのメール通知
// =============================================================================
//
// フェッチャーが失敗マーカーに落ちた日の朝に気付けるよう、Gmail SMTPで
// 通知メールを送ります。EMAIL_FROM / EMAIL_PASSWORD / EMAIL_TO の3つが
// 揃っているときだけ有効で、未設定なら何もしない。
//
// 通知はあくまで付随機能。送信に失敗しても日報の作成自体は失敗させない。
//
// 【注意】EMAIL_PASSWORDは通常のGmailパスワードではなくアプリパスワード。
//
// =============================================================================
package report

import (
	"fmt"
	"log"
	"math"
	"net/smtp"
	"strings"
	"time"
)

// MailNotifier は取得エラーをGmail SMTPで通知する
type MailNotifier struct {
	from     string
	password string
	to       []string
	smtpHost string
	smtpPort string
}

// NewMailNotifier はMailNotifierを作成する。
// 送信先はカンマ区切りで複数指定できる。
func NewMailNotifier(from, password, to string) (*MailNotifier, error) {
	if from == "" {
		return nil, fmt.Errorf("EMAIL_FROM is required")
	}
	if password == "" {
		return nil, fmt.Errorf("EMAIL_PASSWORD is required (use Gmail App Password)")
	}
	if to == "" {
		return nil, fmt.Errorf("EMAIL_TO is required")
	}

	toList := strings.Split(to, ",")
	for i, addr := range toList {
		toList[i] = strings.TrimSpace(addr)
	}

	return &MailNotifier{
		from:     from,
		password: password,
		to:       toList,
		smtpHost: "smtp.gmail.com",
		smtpPort: "587",
	}, nil
}

// NotifyFetchFailures は失敗したソース名の一覧を通知する。
// 送信エラーはログに出すだけで、呼び出し元には返さない。
func (n *MailNotifier) NotifyFetchFailures(dateLabel string, sources []string) {
	subject := fmt.Sprintf("[maki-daily-report] %d source(s) failed - %s", len(sources), dateLabel)

	var body strings.Builder
	body.WriteString(fmt.Sprintf("%s の日報作成で一部ソースの取得に失敗しました。\n\n", dateLabel))
	for _, s := range sources {
		body.WriteString("  - " + s + "\n")
	}
	body.WriteString("\n該当セクションは「" + FailureText + "」になっています。詳細はCloudWatchログを参照。\n")
	body.WriteString(fmt.Sprintf("Timestamp: %s\n", time.Now().In(jst).Format(time.RFC3339)))

	msg := n.buildMessage(subject, body.String())
	if err := n.sendWithRetry(msg); err != nil {
		log.Printf("Notify: failed to send error notification: %v", err)
		return
	}
	log.Println("Notify: error notification email sent")
}

// buildMessage はRFC 5322準拠のプレーンテキストメッセージを構築する
func (n *MailNotifier) buildMessage(subject, body string) []byte {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", n.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(n.to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}

// sendWithRetry は指数バックオフ（2秒→4秒→8秒）でリトライしながら送信する
func (n *MailNotifier) sendWithRetry(msg []byte) error {
	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			wait := time.Duration(math.Pow(2, float64(i))) * time.Second
			log.Printf("Notify: retrying email send in %v...", wait)
			time.Sleep(wait)
		}

		if err := n.send(msg); err == nil {
			return nil
		} else {
			lastErr = err
			log.Printf("Notify: email send failed (attempt %d/%d): %v", i+1, maxRetries, err)
		}
	}
	return fmt.Errorf("failed to send email after %d retries: %w", maxRetries, lastErr)
}

// send はGmail SMTP（TLS、ポート587）でメールを送信する
func (n *MailNotifier) send(msg []byte) error {
	auth := smtp.PlainAuth("", n.from, n.password, n.smtpHost)
	addr := n.smtpHost + ":" + n.smtpPort
	if err := smtp.SendMail(addr, auth, n.from, n.to, msg); err != nil {
		return fmt.Errorf("SMTP send failed: %w (check EMAIL_PASSWORD is a Gmail App Password)", err)
	}
	return nil
}

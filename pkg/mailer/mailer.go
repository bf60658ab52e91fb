package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// Mailer 体检报告邮件发送器（SMTP over TLS）
type Mailer struct {
	smtpHost string
	smtpPort int
	sender   string
	receiver string
	password string
	tmpl     *template.Template
}

// NewMailer 创建邮件发送器
func NewMailer(smtpHost string, smtpPort int, sender, receiver, password string) (*Mailer, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template failed: %w", err)
	}
	return &Mailer{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		sender:   sender,
		receiver: receiver,
		password: password,
		tmpl:     tmpl,
	}, nil
}

// Enabled 是否可发送（未配置密码则跳过）
func (m *Mailer) Enabled() bool {
	return m.password != "" && m.sender != "" && m.receiver != ""
}

// SendReport 发送体检报告邮件
// 无问题的体检不发送，避免噪音
func (m *Mailer) SendReport(run *model.CheckRun) error {
	if !m.Enabled() {
		return nil
	}
	if run.TotalIssues == 0 {
		return nil
	}

	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, run); err != nil {
		return fmt.Errorf("render report failed: %w", err)
	}

	subject := fmt.Sprintf("商品體檢報告 %s：%d 個商品有問題（共 %d 項）",
		run.CheckTime, run.ProductsWithIssues, run.TotalIssues)

	return m.send(subject, body.String())
}

// send 通过 TLS 直连 SMTP 发送 HTML 邮件
func (m *Mailer) send(subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.smtpHost, m.smtpPort)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.smtpHost})
	if err != nil {
		return fmt.Errorf("smtp tls dial failed: %w", err)
	}

	cli, err := smtp.NewClient(conn, m.smtpHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client failed: %w", err)
	}
	defer cli.Close()

	auth := smtp.PlainAuth("", m.sender, m.password, m.smtpHost)
	if err := cli.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := cli.Mail(m.sender); err != nil {
		return fmt.Errorf("smtp mail failed: %w", err)
	}
	if err := cli.Rcpt(m.receiver); err != nil {
		return fmt.Errorf("smtp rcpt failed: %w", err)
	}

	w, err := cli.Data()
	if err != nil {
		return fmt.Errorf("smtp data failed: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.sender, m.receiver, subject, htmlBody)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data failed: %w", err)
	}

	return cli.Quit()
}

const reportTemplate = `<html>
<body style="font-family: sans-serif;">
<h2>商品體檢報告</h2>
<p>檢查時間：{{.CheckTime}}</p>
<table border="0" cellpadding="4">
  <tr><td>商品總數</td><td>{{.TotalProducts}}</td></tr>
  <tr><td>有問題商品</td><td>{{.ProductsWithIssues}}</td></tr>
  <tr><td>問題總數</td><td>{{.TotalIssues}}</td></tr>
</table>

<h3>問題分類統計</h3>
<table border="1" cellpadding="4" style="border-collapse: collapse;">
  <tr><th>分類</th><th>數量</th></tr>
  {{range $category, $count := .CategoryCounts}}
  <tr><td>{{$category}}</td><td>{{$count}}</td></tr>
  {{end}}
</table>

<h3>問題明細</h3>
{{range .Products}}
<h4>{{.Title}}（ID: {{.ProductID}}）</h4>
<ul>
  {{range .Findings}}
  <li><b>[{{.Category}}]</b> {{.Message}}{{if .Detail}}（{{.Detail}}）{{end}}</li>
  {{end}}
</ul>
{{end}}
</body>
</html>`

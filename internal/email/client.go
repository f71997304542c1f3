package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"
)

type Client struct {
	resend   *resend.Client
	from     string
	fromName string
}

func NewClient(apiKey, from, fromName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("email api key is required")
	}
	if from == "" {
		from = "noreply@example.com"
	}
	if fromName == "" {
		fromName = "Marketplace"
	}
	return &Client{resend: resend.NewClient(apiKey), from: from, fromName: fromName}, nil
}

func (c *Client) send(to, subject, html string) error {
	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.from),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := c.resend.Emails.Send(req); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (c *Client) SendTwoFactorCode(to, name, code string) error {
	html := fmt.Sprintf(
		`<p>%s，你好：</p><p>本次登录验证码：<strong>%s</strong></p><p>验证码短时间内有效，请勿转发给他人。</p>`,
		name, code,
	)
	return c.send(to, "登录验证码", html)
}

func (c *Client) SendPayoutHoldNotice(to, storeName, payoutID, reason string) error {
	html := fmt.Sprintf(
		`<p>%s：</p><p>你的一笔结算（%s）已被暂缓，原因：%s。</p><p>如有疑问请联系平台客服。</p>`,
		storeName, payoutID, reason,
	)
	return c.send(to, "结算暂缓通知", html)
}

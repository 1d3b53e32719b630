package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// 템플릿 종류
const (
	KindOrderCreated        = "order_created"
	KindOrderPaid           = "order_paid"
	KindDonationCertificate = "donation_certificate"
	KindOrderShipped        = "order_shipped"
	KindOrderCancelled      = "order_cancelled"
	KindOrderExpired        = "order_expired"
	KindFeedbackApproved    = "feedback_approved"
	KindFeedbackSent        = "feedback_sent"
	KindFeedbackRejected    = "feedback_rejected"
)

// SiteInfo is rendered into every message.
type SiteInfo struct {
	Name            string
	BankName        string
	BankCode        string
	BankAccount     string
	BankAccountName string
}

// Composer renders notification emails. Customer-supplied text is escaped.
type Composer struct {
	site SiteInfo
	loc  *time.Location
	tmpl *template.Template
}

func NewComposer(site SiteInfo, loc *time.Location) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	c := &Composer{site: site, loc: loc}
	c.tmpl = template.Must(template.New("mail").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixedBank(0) },
		"date":  c.formatDate,
	}).Parse(mailTemplates))
	return c
}

func (c *Composer) formatDate(t interface{}) string {
	switch v := t.(type) {
	case time.Time:
		return v.In(c.loc).Format("2006/01/02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.In(c.loc).Format("2006/01/02")
	}
	return ""
}

type mailData struct {
	Site     SiteInfo
	Order    *model.Order
	Feedback *model.Feedback
}

func (c *Composer) render(kind, to, subject string, data mailData) (Message, error) {
	data.Site = c.site
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, kind, data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s: %w", kind, err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("【%s】%s", c.site.Name, subject),
		HTML:    buf.String(),
		Kind:    kind,
	}, nil
}

func (c *Composer) OrderCreated(o *model.Order) (Message, error) {
	return c.render(KindOrderCreated, o.Customer.Email, "訂單成立通知 "+o.OrderID, mailData{Order: o})
}

// OrderPaid renders the certificate of thanks for donations and a payment
// confirmation for shop orders.
func (c *Composer) OrderPaid(o *model.Order) (Message, error) {
	if o.IsDonation() {
		return c.render(KindDonationCertificate, o.Customer.Email, "功德芳名感謝狀", mailData{Order: o})
	}
	return c.render(KindOrderPaid, o.Customer.Email, "付款確認通知 "+o.OrderID, mailData{Order: o})
}

func (c *Composer) OrderShipped(o *model.Order) (Message, error) {
	return c.render(KindOrderShipped, o.Customer.Email, "商品出貨通知 "+o.OrderID, mailData{Order: o})
}

func (c *Composer) OrderCancelled(o *model.Order) (Message, error) {
	return c.render(KindOrderCancelled, o.Customer.Email, "訂單取消通知 "+o.OrderID, mailData{Order: o})
}

func (c *Composer) OrderExpired(o *model.Order) (Message, error) {
	return c.render(KindOrderExpired, o.Customer.Email, "訂單逾期取消通知 "+o.OrderID, mailData{Order: o})
}

// ForOrderStatus picks the message matching the order's current state.
func (c *Composer) ForOrderStatus(o *model.Order) (Message, error) {
	switch o.Status {
	case model.OrderStatusPaid:
		return c.OrderPaid(o)
	case model.OrderStatusShipped:
		return c.OrderShipped(o)
	default:
		return c.OrderCreated(o)
	}
}

func (c *Composer) FeedbackApproved(f *model.Feedback) (Message, error) {
	return c.render(KindFeedbackApproved, f.Email, "感謝您的分享", mailData{Feedback: f})
}

func (c *Composer) FeedbackSent(f *model.Feedback) (Message, error) {
	return c.render(KindFeedbackSent, f.Email, "結緣品寄出通知", mailData{Feedback: f})
}

func (c *Composer) FeedbackRejected(f *model.Feedback) (Message, error) {
	return c.render(KindFeedbackRejected, f.Email, "回饋審核結果通知", mailData{Feedback: f})
}

const mailTemplates = `
{{define "header"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: 'Noto Sans TC', Arial, sans-serif; background:#f7f3ea; padding:20px; color:#333;">
<div style="max-width:600px; margin:0 auto; background:#fff; padding:32px; border-radius:8px;">
<h2 style="color:#8b5a2b; margin-top:0;">{{.Site.Name}}</h2>
{{end}}

{{define "footer"}}<p style="color:#999; font-size:13px; margin-top:32px;">此信件由系統自動發送，請勿直接回覆。<br>{{.Site.Name}} 合十</p>
</div>
</body>
</html>
{{end}}

{{define "items"}}<table style="width:100%; border-collapse:collapse; margin:16px 0;">
<tr style="background:#f0e6d2;"><th style="text-align:left; padding:6px;">品項</th><th style="padding:6px;">數量</th><th style="text-align:right; padding:6px;">金額</th></tr>
{{range .Items}}<tr><td style="padding:6px;">{{.Name}}{{if .Variant}}（{{.Variant}}）{{end}}</td><td style="text-align:center; padding:6px;">{{.Qty}}</td><td style="text-align:right; padding:6px;">NT$ {{money .Subtotal}}</td></tr>
{{end}}<tr><td colspan="2" style="padding:6px; font-weight:bold;">合計</td><td style="text-align:right; padding:6px; font-weight:bold;">NT$ {{money .Total}}</td></tr>
</table>
{{end}}

{{define "order_created"}}{{template "header" .}}
<p>{{.Order.Customer.Name}} 您好：</p>
<p>我們已收到您的訂單 <strong>{{.Order.OrderID}}</strong>，明細如下：</p>
{{template "items" .Order}}
<p>請於 3 日內完成匯款，並確認帳號末五碼 <strong>{{.Order.Customer.Last5}}</strong> 正確：</p>
<ul>
<li>銀行：{{.Site.BankName}}（{{.Site.BankCode}}）</li>
<li>帳號：{{.Site.BankAccount}}</li>
<li>戶名：{{.Site.BankAccountName}}</li>
</ul>
<p>逾期未付款之訂單將自動取消。</p>
{{template "footer" .}}{{end}}

{{define "order_paid"}}{{template "header" .}}
<p>{{.Order.Customer.Name}} 您好：</p>
<p>訂單 <strong>{{.Order.OrderID}}</strong> 已確認收款，我們將儘速為您安排出貨。</p>
{{template "items" .Order}}
<p>付款確認日期：{{date .Order.PaidAt}}</p>
{{template "footer" .}}{{end}}

{{define "donation_certificate"}}{{template "header" .}}
<div style="border:3px double #8b5a2b; padding:24px; text-align:center;">
<h1 style="color:#8b5a2b; letter-spacing:8px;">感謝狀</h1>
<p style="font-size:18px;">功德主 <strong>{{.Order.Customer.Name}}</strong></p>
{{if .Order.Customer.LunarBirthday}}<p>農曆生辰：{{.Order.Customer.LunarBirthday}}</p>{{end}}
<p>護持{{range $i, $item := .Order.Items}}{{if $i}}、{{end}}{{$item.Name}}{{end}}</p>
<p style="font-size:20px;">淨資 NT$ {{money .Order.Total}} 元</p>
{{if .Order.Customer.Prayer}}<p>祈願：{{.Order.Customer.Prayer}}</p>{{end}}
<p>功德無量，謹此致謝。</p>
<p>{{.Site.Name}} 敬謝　{{date .Order.PaidAt}}</p>
<p style="color:#999; font-size:12px;">編號 {{.Order.OrderID}}</p>
</div>
{{template "footer" .}}{{end}}

{{define "order_shipped"}}{{template "header" .}}
<p>{{.Order.Customer.Name}} 您好：</p>
<p>訂單 <strong>{{.Order.OrderID}}</strong> 已出貨。</p>
<ul>{{range .Order.Items}}<li>{{.Name}}{{if .Variant}}（{{.Variant}}）{{end}} × {{.Qty}}</li>{{end}}</ul>
<p>物流單號：<strong>{{.Order.TrackingNumber}}</strong></p>
<p>收件地址：{{.Order.Customer.Address}}</p>
{{template "footer" .}}{{end}}

{{define "order_cancelled"}}{{template "header" .}}
<p>{{.Order.Customer.Name}} 您好：</p>
<p>您的訂單 <strong>{{.Order.OrderID}}</strong> 已取消。如有疑問請與我們聯繫。</p>
{{template "footer" .}}{{end}}

{{define "order_expired"}}{{template "header" .}}
<p>{{.Order.Customer.Name}} 您好：</p>
<p>訂單 <strong>{{.Order.OrderID}}</strong> 於期限內未收到款項，系統已自動取消。若仍有需要，歡迎重新下單。</p>
{{template "footer" .}}{{end}}

{{define "feedback_approved"}}{{template "header" .}}
<p>{{.Feedback.RealName}} 您好：</p>
<p>感謝您分享的心得（編號 {{.Feedback.FeedbackID}}），已通過審核並刊登。</p>
<p>我們將寄送結緣品至您留下的地址，寄出後會再通知您。</p>
{{template "footer" .}}{{end}}

{{define "feedback_sent"}}{{template "header" .}}
<p>{{.Feedback.RealName}} 您好：</p>
<p>您的結緣品已寄出，物流單號：<strong>{{.Feedback.TrackingNumber}}</strong>。</p>
{{template "footer" .}}{{end}}

{{define "feedback_rejected"}}{{template "header" .}}
<p>{{.Feedback.RealName}} 您好：</p>
<p>感謝您撥冗分享。很抱歉，此次投稿未能刊登，仍誠摯歡迎您日後再次分享。</p>
{{template "footer" .}}{{end}}
`

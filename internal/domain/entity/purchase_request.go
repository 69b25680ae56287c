package entity

import (
	"fmt"
	"strings"
)

const (
	DefaultMailTo      = "hello@cleanout.market"
	DefaultMailSubject = "Purchase Request - Cleanout Market"
)

type MailSettings struct {
	To      string
	Subject string
}

// PurchaseRequest is the composed message handed to a mail client or sender.
type PurchaseRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ComposePurchaseRequest renders the quote as a plain-text purchase request.
// It performs no I/O.
func ComposePurchaseRequest(q Quote, s MailSettings) PurchaseRequest {
	if s.To == "" {
		s.To = DefaultMailTo
	}
	if s.Subject == "" {
		s.Subject = DefaultMailSubject
	}

	lines := []string{
		"Hi Cleanout Market team,",
		"",
		"I would like to purchase:",
	}
	for _, line := range q.Lines {
		item := fmt.Sprintf("- %s (%s", line.Title, line.Price)
		if line.DeliveryFee != nil && *line.DeliveryFee != 0 {
			item += fmt.Sprintf(" + %s delivery", *line.DeliveryFee)
		}
		lines = append(lines, item+")")
	}
	lines = append(lines,
		"",
		"Subtotal: "+q.Subtotal.String(),
		fmt.Sprintf("Commission (%d%%): %s", CommissionPercent(q.CommissionRate), q.Commission),
		"Total: "+q.Total.String(),
		"",
		"My name:",
		"My phone:",
		"Preferred pickup/delivery window:",
		"",
		"Thanks!",
	)

	return PurchaseRequest{
		To:      s.To,
		Subject: s.Subject,
		Body:    strings.Join(lines, "\n"),
	}
}

// MailtoURL builds the mailto: link a browser hands to the local mail client.
func (p PurchaseRequest) MailtoURL() string {
	return "mailto:" + p.To + "?subject=" + encodeURIComponent(p.Subject) + "&body=" + encodeURIComponent(p.Body)
}

// encodeURIComponent percent-encodes everything except the unreserved marks
// browsers leave alone in URI components.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

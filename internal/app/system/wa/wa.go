// Package wa is the single home for WhatsApp number normalization and
// wa.me deep-link construction. Auth, store lookup, and the storefront all
// normalize through here so a number always compares equal to itself.
package wa

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize canonicalizes a WhatsApp/mobile number to digits with the 91
// country code and no plus sign: "+91 98765-43210" becomes "919876543210".
// A single leading zero is stripped before the country code check.
func Normalize(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimPrefix(b.String(), "0")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "91") {
		return digits
	}
	return "91" + digits
}

// E164 returns the normalized number in E.164 form (+91XXXXXXXXXX), the
// shape the Twilio Verify API wants.
func E164(v string) string {
	n := Normalize(v)
	if n == "" {
		return ""
	}
	return "+" + n
}

// ChatLink returns a wa.me link that opens a chat with the given number,
// optionally prefilled with text.
func ChatLink(whatsapp, text string) string {
	link := "https://wa.me/" + Normalize(whatsapp)
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}

// OrderMessage builds the prefilled order text for a product.
func OrderMessage(storeName, productName string, price float64) string {
	return fmt.Sprintf("Hi %s, I want to order: %s - ₹%s. Please confirm availability.",
		storeName, productName, FormatPrice(price))
}

// OrderLink returns the wa.me link a customer taps to order one product.
func OrderLink(whatsapp, storeName, productName string, price float64) string {
	return ChatLink(whatsapp, OrderMessage(storeName, productName, price))
}

// FormatPrice renders a rupee amount without trailing zeros: 499 not
// 499.00, but 49.50 stays 49.5. The storefront price badges use the same
// format as the order message.
func FormatPrice(price float64) string {
	s := fmt.Sprintf("%.2f", price)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

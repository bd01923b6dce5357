package order

import (
	"regexp"
	"strings"
)

// ClientClass is the kind of device the shopper is on.
type ClientClass string

const (
	ClientMobile ClientClass = "mobile"
	ClientWeb    ClientClass = "web"
)

var mobileUA = regexp.MustCompile(`(?i)Android|iPhone|Mobile`)

// DetectClientClass classifies a User-Agent header.
func DetectClientClass(userAgent string) ClientClass {
	if mobileUA.MatchString(userAgent) {
		return ClientMobile
	}
	return ClientWeb
}

// LinkTemplate describes how one client class receives the deep link.
type LinkTemplate struct {
	// Base is the URL without query string.
	Base string
	// PhoneInPath puts the number as a path segment instead of a phone= parameter.
	PhoneInPath bool
}

// Build renders the link for a phone number and an already-built message.
func (t LinkTemplate) Build(phone, message string) string {
	text := EncodeComponent(message)
	if t.PhoneInPath {
		return t.Base + "/" + phone + "?text=" + text
	}
	return t.Base + "?phone=" + phone + "&text=" + text
}

// LinkPolicy maps client classes to link templates.
type LinkPolicy map[ClientClass]LinkTemplate

// DefaultLinkPolicy sends phones to the app and desktops to the web client.
var DefaultLinkPolicy = LinkPolicy{
	ClientMobile: {Base: "https://wa.me", PhoneInPath: true},
	ClientWeb:    {Base: "https://web.whatsapp.com/send"},
}

// URL builds the deep link for the class. Unknown classes use the web template.
func (p LinkPolicy) URL(class ClientClass, phone, message string) string {
	t, ok := p[class]
	if !ok {
		t = p[ClientWeb]
	}
	return t.Build(phone, message)
}

// DigitsOnly strips every non-digit from a phone number.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s for use as a URI component. Only
// A-Z a-z 0-9 and - _ . ! ~ * ' ( ) are left as is; spaces become %20.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

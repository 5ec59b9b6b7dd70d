// Package validators holds input checks applied at account
// registration, before a customer can join the queue.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the domain of a registration email
// resolves at all. Accounts are how customers identify themselves in
// the line, so an obviously dead domain is rejected up front; anything
// with an MX record, or at least an address record, passes.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	// domains without MX can still receive mail on their A/AAAA host
	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

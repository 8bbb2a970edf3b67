// Package validation checks user supplied input before it reaches the
// network, the file system or a page: catalog endpoints, search terms,
// uploader names and data paths.
package validation

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// EndpointValidator checks the catalog and feed endpoints from the config.
type EndpointValidator struct {
	// AllowLocalhost permits loopback hosts.
	AllowLocalhost bool
	// AllowPrivateIPs permits private and link-local addresses.
	AllowPrivateIPs bool
	MaxLength       int
}

// NewEndpointValidator blocks loopback and private addresses.
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{MaxLength: 2048}
}

// NewPermissiveEndpointValidator allows local development servers.
func NewPermissiveEndpointValidator() *EndpointValidator {
	return &EndpointValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize returns the endpoint with a scheme and without a
// trailing slash.
func (v *EndpointValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if err := v.checkHost(u.Hostname()); err != nil {
		return "", err
	}
	if strings.Contains(u.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("endpoint must not carry a query or fragment")
	}

	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}

func (v *EndpointValidator) checkHost(host string) error {
	if !v.AllowLocalhost && isLocalhost(host) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.IsUnspecified() || addr.IsMulticast() {
			return fmt.Errorf("address %s cannot serve requests", host)
		}
		if !v.AllowPrivateIPs && isPrivate(addr) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}
	return nil
}

func isLocalhost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func isPrivate(addr netip.Addr) bool {
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast()
}

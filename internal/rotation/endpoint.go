// Package rotation reorders proxy lists so that neighbouring entries come
// from different networks.
package rotation

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/aegis-aio/shellder/internal/models"
)

// Endpoint is one proxy entry.
type Endpoint struct {
	Raw      string `json:"raw"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user,omitempty"`
	Password string `json:"-"`
	// Group is the /24 prefix of an IPv4 host or the lower-cased domain.
	Group string `json:"group"`
}

// ParseEndpoint accepts host:port, scheme://[user:pass@]host:port and
// host:port:user:pass.
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Endpoint{}, &models.ValidationError{Field: "endpoint", Message: "is empty"}
	}

	ep := Endpoint{Raw: raw}
	var portStr string

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Endpoint{}, &models.ValidationError{Field: "endpoint", Message: fmt.Sprintf("%q: %v", raw, err)}
		}
		ep.Host = u.Hostname()
		portStr = u.Port()
		if u.User != nil {
			ep.User = u.User.Username()
			ep.Password, _ = u.User.Password()
		}
	} else {
		parts := strings.Split(raw, ":")
		switch len(parts) {
		case 2:
			ep.Host, portStr = parts[0], parts[1]
		case 4:
			ep.Host, portStr, ep.User, ep.Password = parts[0], parts[1], parts[2], parts[3]
		default:
			return Endpoint{}, &models.ValidationError{Field: "endpoint", Message: fmt.Sprintf("%q: unrecognised format", raw)}
		}
	}

	if ep.Host == "" {
		return Endpoint{}, &models.ValidationError{Field: "endpoint", Message: fmt.Sprintf("%q: missing host", raw)}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Endpoint{}, &models.ValidationError{Field: "endpoint", Message: fmt.Sprintf("%q: invalid port %q", raw, portStr)}
	}
	ep.Port = port
	ep.Group = groupOf(ep.Host)

	return ep, nil
}

// ParseList reads one endpoint per line. Blank lines and lines starting
// with '#' are skipped.
func ParseList(r io.Reader) ([]Endpoint, error) {
	var endpoints []Endpoint
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ep, err := ParseEndpoint(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		endpoints = append(endpoints, ep)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading endpoints: %w", err)
	}
	return endpoints, nil
}

func groupOf(host string) string {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return fmt.Sprintf("%d.%d.%d", v4[0], v4[1], v4[2])
		}
		return ip.String()
	}
	return strings.ToLower(host)
}

// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains BlazeMeter transport failures to CLI users.
// Failures are classified first; the class picks the troubleshooting text.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/logging"
)

// Class is the kind of transport failure.
type Class string

const (
	ClassTimeout Class = "timeout"
	ClassDNS     Class = "dns"
	ClassRefused Class = "connection_refused"
	ClassTLS     Class = "tls"
	ClassServer  Class = "server"
	ClassStatus  Class = "http_status"
	ClassOther   Class = "other"
)

// Classify inspects err's chain. A *gateway.StatusError wins over the message
// heuristics.
func Classify(err error) Class {
	if err == nil {
		return ""
	}
	var se *gateway.StatusError
	if errors.As(err, &se) {
		if se.StatusCode >= http.StatusInternalServerError {
			return ClassServer
		}
		return ClassStatus
	}
	switch {
	case isTimeout(err):
		return ClassTimeout
	case isDNS(err):
		return ClassDNS
	case isRefused(err):
		return ClassRefused
	case isTLS(err):
		return ClassTLS
	}
	return ClassOther
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNS(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLS(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") ||
		strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate") ||
		strings.Contains(s, "handshake")
}

// Hints returns the troubleshooting lines for a class. host is the platform
// host the request went to.
func Hints(class Class, host string) []string {
	switch class {
	case ClassTimeout:
		return []string{
			"BlazeMeter took too long to respond. Check your connection or a proxy slowing HTTPS down,",
			"or raise request_timeout in the configuration file.",
		}
	case ClassDNS:
		return []string{
			"Unable to look up " + host + ". Check your internet connection and DNS settings,",
			"and that no corporate firewall blocks the name.",
		}
	case ClassRefused:
		return []string{
			host + " is not accepting connections. Check base_url in the configuration file",
			"and any firewall between you and BlazeMeter.",
		}
	case ClassTLS:
		return []string{
			"A secure connection to " + host + " could not be established.",
			"Check your system clock and any proxy that intercepts HTTPS.",
		}
	case ClassServer:
		return []string{
			"BlazeMeter returned a server error. This is not a problem with your setup;",
			"try again in a few minutes.",
		}
	case ClassStatus:
		return []string{
			"BlazeMeter rejected the request. Check the identifiers you passed",
			"and that your API key has access to them.",
		}
	}
	return []string{
		"Cannot reach " + host + ". Check your internet connection and that HTTPS",
		"traffic to BlazeMeter is allowed from your network.",
	}
}

var titles = map[Class]string{
	ClassTimeout: "Connection timeout",
	ClassDNS:     "Cannot resolve the BlazeMeter address",
	ClassRefused: "Connection refused",
	ClassTLS:     "Secure connection failed",
	ClassServer:  "BlazeMeter server error",
	ClassStatus:  "Request rejected",
	ClassOther:   "Cannot reach BlazeMeter",
}

// FormatNetworkError prints a classified explanation of err and returns it
// wrapped. context describes what was being done, e.g. "reading the current
// user"; baseURL is the platform root the request went to.
func FormatNetworkError(err error, context, baseURL string) error {
	if err == nil {
		return nil
	}
	class := Classify(err)
	host := ExtractHostFromURL(baseURL)

	pterm.Error.Printf("%s while %s\n", titles[class], context)
	for _, line := range Hints(class, host) {
		pterm.Println("  " + line)
	}
	details := logging.Mask(err.Error())
	if len(details) > 160 {
		details = details[:160] + "..."
	}
	pterm.Debug.Printf("Technical details: %s\n", details)
	pterm.Println()

	return fmt.Errorf("network error: %w", err)
}

// ExtractHostFromURL returns the host of urlStr, or "BlazeMeter" when it has none.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "BlazeMeter"
	}
	return u.Host
}

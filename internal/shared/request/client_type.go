// Package request classifies the calling client so handlers can pick between
// cookie-based and body-based token delivery.
package request

import "strings"

type ClientType string

const (
	ClientWeb     ClientType = "web"
	ClientMobile  ClientType = "mobile"
	ClientService ClientType = "service"
)

// ResolveClientType honors the explicit X-Client-Type header first and falls
// back to sniffing the user agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case "web":
		return ClientWeb
	case "mobile":
		return ClientMobile
	case "service":
		return ClientService
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "chrome") || strings.Contains(ua, "safari") {
		return ClientWeb
	}
	if ua == "" {
		return ClientService
	}
	return ClientMobile
}

func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}

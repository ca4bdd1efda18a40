package service

import (
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

// ClientInfo holds browser, OS, and device type parsed from a
// User-Agent string, for audit event metadata.
type ClientInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseClient extracts browser, OS, and device type from a user agent string.
func ParseClient(uaString string) ClientInfo {
	ua := useragent.Parse(uaString)

	info := ClientInfo{
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		info.Device = "mobile"
	case ua.Tablet:
		info.Device = "tablet"
	case ua.Bot:
		info.Device = "bot"
	default:
		info.Device = "desktop"
	}

	return info
}

// RemoteIP returns the client IP, honoring reverse-proxy headers.
func RemoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP in the list
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx > 0 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}

// Package device derives audit metadata about the originating client:
// a resolved IP, a one-way fingerprint and a human-readable description.
// None of it gates authentication; fingerprints legitimately change for
// honest users (browser updates and the like).
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

// ClientIP resolves the originating address: the first X-Forwarded-For
// entry, else X-Real-IP, else the transport peer.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}

	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Fingerprint combines connection and header metadata into a stable,
// privacy-preserving identifier.
func Fingerprint(ip, userAgent, accept string) string {
	hash := sha256.Sum256([]byte(ip + "|" + userAgent + "|" + accept))
	return hex.EncodeToString(hash[:])
}

// FromRequest captures everything the session store persists about a client.
func FromRequest(r *http.Request) Meta {
	ip := ClientIP(r)
	ua := r.Header.Get("User-Agent")
	accept := r.Header.Get("Accept") + "|" + r.Header.Get("Accept-Language") + "|" + r.Header.Get("Accept-Encoding")

	return Meta{
		IPAddress:   ip,
		UserAgent:   ua,
		Fingerprint: Fingerprint(ip, ua, accept),
	}
}

type Meta struct {
	IPAddress   string
	UserAgent   string
	Fingerprint string
}

type Info struct {
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	DeviceType string `json:"device_type"`
}

// Describe parses a user-agent string for the active-sessions UI.
func Describe(userAgentString string) Info {
	if userAgentString == "" {
		return Info{
			Browser:    "Unknown Browser",
			OS:         "Unknown OS",
			DeviceType: "Unknown",
		}
	}

	ua := useragent.Parse(userAgentString)

	browser := "Unknown Browser"
	if ua.Name != "" {
		browser = ua.Name
		if ua.Version != "" {
			browser = ua.Name + " " + ua.Version
		}
	}

	os := "Unknown OS"
	if ua.OS != "" {
		os = ua.OS
		if ua.OSVersion != "" {
			os = ua.OS + " " + ua.OSVersion
		}
	}

	deviceType := "Desktop"
	switch {
	case ua.Mobile:
		deviceType = "Mobile"
	case ua.Tablet:
		deviceType = "Tablet"
	case ua.Bot:
		deviceType = "Bot"
	}

	return Info{
		Browser:    browser,
		OS:         os,
		DeviceType: deviceType,
	}
}

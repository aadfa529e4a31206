package analytics

import (
	"strings"

	domain "disclosure-intake/internal/domain/analytics"

	"github.com/mssola/useragent"
)

// ClassifyDevice buckets a User-Agent header into a coarse device class.
func ClassifyDevice(ua string) domain.Device {
	if strings.TrimSpace(ua) == "" {
		return domain.DeviceUnknown
	}
	parsed := useragent.New(ua)
	switch {
	case parsed.Bot():
		return domain.DeviceBot
	case parsed.Mobile():
		return domain.DeviceMobile
	default:
		return domain.DeviceDesktop
	}
}

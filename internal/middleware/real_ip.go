package middleware

import (
	"net"

	"github.com/deppfellow/linkcondo/internal/config"
	"github.com/labstack/echo/v4"
)

// IPExtractor decides what c.RealIP returns, and with it the key of the
// rate limiter. Without trusted proxies the peer address is the client and
// forwarding headers are ignored. With them, X-Forwarded-For is walked from
// the right and the first hop outside the trusted ranges wins.
func IPExtractor(cfg config.ServerConfig) echo.IPExtractor {
	if len(cfg.TrustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range cfg.TrustedProxies {
		// Ranges are validated when the config is loaded.
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

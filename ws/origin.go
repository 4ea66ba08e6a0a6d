package ws

import (
	"net/http"
	"net/url"
	"os"
	"strings"
)

func CheckOrigin(r *http.Request) bool {
	// 默认放行，避免调试/代理环境下的 Origin 403
	if strings.EqualFold(os.Getenv("KOMERCE_WS_DISABLE_ORIGIN"), "false") {
		// 显式要求校验时比对 Origin 与 Host
		origin := r.Header.Get("Origin")
		if origin == "" {
			return false
		}
		host := r.Host
		originUrl, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return originUrl.Host == host
	}
	return true
}

package live

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

// Handler returns an http.Handler that upgrades requests to WebSocket
// sessions. Each connection gets its own document built by mount; the
// handler returns once the session loops are running.
func Handler(mount Mount, config Config) http.Handler {
	config = config.withDefaults()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     SameOriginCheck,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			config.Logger.Error("upgrade failed", "error", err)
			return
		}

		sess, err := NewSession(conn, mount, config)
		if err != nil {
			config.Logger.Error("session setup failed", "error", err)
			conn.Close()
			return
		}

		if err := sess.handshake(); err != nil {
			sess.logger.Error("handshake failed", "error", err)
			sess.Close()
			return
		}

		sess.Start()
		if config.OnSession != nil {
			config.OnSession(sess)
		}
	})
}

// SameOriginCheck validates that the WebSocket request origin matches
// the host. Requests without an Origin header are accepted, since
// non-browser clients do not send one.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}

package httpserver

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"go.uber.org/zap"

	"lantern/internal/logstream"
	"lantern/internal/model"
)

// requireLiveSubscriber is the live channel handshake: the connection
// must carry a valid access credential in the cookie and resolve to an
// admin before it is admitted to the broadcast group. Rejections happen
// here, before the upgrade.
func (s *Server) requireLiveSubscriber(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	user, err := s.gate.authenticateCookie(c)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return errors.New("you do not have permission to view live logs", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	attachUser(c, user)
	return c.Next()
}

func (s *Server) liveHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, _ := conn.Locals(localsUserKey).(*model.User)
		if user == nil {
			return
		}

		s.logger.Info("admin connected to live logs", zap.String("email", user.Email))
		defer s.logger.Info("admin disconnected from live logs", zap.String("email", user.Email))

		sub := s.hub.Subscribe()
		defer s.hub.Unsubscribe(sub)

		// Reader goroutine only watches for the peer closing; inbound
		// payloads are ignored.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		s.writeRecords(conn, sub, done)
	})
}

func (s *Server) writeRecords(conn *websocket.Conn, sub *logstream.Subscriber, done <-chan struct{}) {
	for {
		select {
		case record, ok := <-sub.Records():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, record); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

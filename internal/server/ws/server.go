package ws

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chatrelay/internal/logging"
	"github.com/dmitrijs2005/chatrelay/internal/server/auth"
	"github.com/dmitrijs2005/chatrelay/internal/server/hub"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

const authHeaderLocal = "authHeader"

// Server terminates websocket connections and hands them to the hub.
type Server struct {
	address    string
	app        *fiber.App
	gatekeeper *hub.Gatekeeper
	router     *hub.Router
	verifier   auth.Verifier
	timing     Timing
	logger     logging.Logger
}

func NewServer(address string, gk *hub.Gatekeeper, router *hub.Router, verifier auth.Verifier, timing Timing, l logging.Logger) *Server {
	s := &Server{
		address:    address,
		gatekeeper: gk,
		router:     router,
		verifier:   verifier,
		timing:     timing,
		logger:     l.With("module", "ws_server"),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(fiberlogger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Use("/ws", s.handshakeGate)
	app.Get("/ws", websocket.New(s.handleConn))

	s.app = app
	return s
}

// handshakeGate rejects bad upgrades while the request is still plain HTTP,
// so a refused connection never completes the websocket handshake. The
// credential is checked here for the early reject and re-checked
// authoritatively (with registration) inside Admit.
func (s *Server) handshakeGate(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	header := c.Get(fiber.HeaderAuthorization)
	token, err := auth.ParseBearer(header)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	if _, err := s.verifier.Verify(token); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, auth.ErrInvalidCredential.Error())
	}

	c.Locals(authHeaderLocal, header)
	return c.Next()
}

// handleConn owns the lifecycle of one upgraded connection: admit, pump,
// deregister on disconnect.
func (s *Server) handleConn(conn *websocket.Conn) {
	ctx := context.Background()
	authHeader, _ := conn.Locals(authHeaderLocal).(string)

	c := newClient(conn, s.timing, s.logger)

	// The writer must be running before Admit: replayed messages are
	// queued during the handshake and flushed from here.
	go c.writePump()
	defer c.close()

	sess, err := s.gatekeeper.Admit(ctx, authHeader, c)
	if err != nil {
		s.rejectUpgraded(conn, err)
		return
	}
	defer sess.Close()

	c.readPump(ctx, func(seq int64, p sendPayload) error {
		return s.router.Send(ctx, sess, p.RecipientID, p.Text)
	})
}

// rejectUpgraded refuses a connection that lost the admission race after
// the HTTP upgrade already happened. The close reason lets the client tell
// "logged in elsewhere" apart from a credential problem.
func (s *Server) rejectUpgraded(conn *websocket.Conn, err error) {
	code := websocket.ClosePolicyViolation
	reason := "handshake rejected"
	if errors.Is(err, hub.ErrDuplicateSession) {
		reason = "duplicate session"
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	conn.Close()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping websocket server")
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "starting websocket server", "address", s.address)
	if err := s.app.Listen(s.address); err != nil {
		return err
	}
	return nil
}

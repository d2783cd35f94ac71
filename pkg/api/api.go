// Package api implements the JSON REST API: stateless expression
// evaluation plus server-held calculator sessions.
package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/deskcalc/pkg/expr"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
	"github.com/lemonberrylabs/deskcalc/pkg/store"
	"github.com/lemonberrylabs/deskcalc/pkg/types"
)

// Server is the calculator API server.
type Server struct {
	app    *fiber.App
	store  *store.Store
	layout *keypad.Layout
}

// New creates a new API server serving the given keypad layout.
func New(s *store.Store, layout *keypad.Layout) *Server {
	srv := &Server{
		store:  s,
		layout: layout,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	// Evaluation and layout
	app.Post("/api/v1/evaluate", srv.evaluate)
	app.Get("/api/v1/layout", srv.getLayout)

	// Sessions API
	app.Post("/api/v1/sessions", srv.createSession)
	app.Get("/api/v1/sessions", srv.listSessions)
	app.Get("/api/v1/sessions/:id", srv.getSession)
	app.Delete("/api/v1/sessions/:id", srv.deleteSession)
	app.Post("/api/v1/sessions/:id/keys", srv.pressKeys)
	app.Get("/api/v1/sessions/:id/tape", srv.getTape)

	app.Get("/healthz", srv.health)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing and for
// mounting the web UI).
func (s *Server) App() *fiber.App {
	return s.app
}

// Layout returns the keypad layout the server was built with.
func (s *Server) Layout() *keypad.Layout {
	return s.layout
}

// --- Evaluation Handlers ---

type evaluateRequest struct {
	Expression string `json:"expression"`
}

func (s *Server) evaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "bad_request",
				"message": fmt.Sprintf("invalid request body: %v", err),
				"status":  400,
			},
		})
	}

	value, err := expr.Evaluate(req.Expression)
	if err != nil {
		return c.Status(422).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errorCode(err),
				"message": errorMessage(err),
				"status":  422,
			},
		})
	}

	return c.JSON(fiber.Map{
		"expression": req.Expression,
		"result":     types.FormatNumber(value),
		"value":      value,
	})
}

func (s *Server) getLayout(c *fiber.Ctx) error {
	return c.JSON(s.layout)
}

// --- Session Handlers ---

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := s.store.Create()
	return c.Status(201).JSON(sessionToJSON(sess))
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	sessions := s.store.List()

	items := make([]fiber.Map, len(sessions))
	for i, sess := range sessions {
		items[i] = sessionToJSON(sess)
	}

	return c.JSON(fiber.Map{
		"sessions": items,
	})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "not_found",
				"message": errorMessage(err),
				"status":  404,
			},
		})
	}

	return c.JSON(sessionToJSON(sess))
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if err := s.store.Delete(c.Params("id")); err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "not_found",
				"message": errorMessage(err),
				"status":  404,
			},
		})
	}

	return c.JSON(fiber.Map{
		"deleted": true,
	})
}

type pressKeysRequest struct {
	Keys []string `json:"keys"`
}

func (s *Server) pressKeys(c *fiber.Ctx) error {
	var req pressKeysRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "bad_request",
				"message": fmt.Sprintf("invalid request body: %v", err),
				"status":  400,
			},
		})
	}
	if len(req.Keys) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "bad_request",
				"message": "keys is required",
				"status":  400,
			},
		})
	}

	// Presses run in order and stop at the first evaluator error; the
	// session keeps its buffer and the error rides along in the response.
	var pressErr error
	err := s.store.WithSession(c.Params("id"), func(sess *store.Session) error {
		for _, label := range req.Keys {
			key, ok := s.layout.Find(label)
			if !ok {
				return fmt.Errorf("unknown key '%s'", label)
			}
			if _, perr := sess.Calc.Press(key); perr != nil {
				pressErr = perr
				return nil
			}
		}
		return nil
	})
	if err != nil {
		if types.IsNotFound(err) {
			return c.Status(404).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "not_found",
					"message": errorMessage(err),
					"status":  404,
				},
			})
		}
		return c.Status(400).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "bad_request",
				"message": err.Error(),
				"status":  400,
			},
		})
	}

	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "not_found",
				"message": errorMessage(err),
				"status":  404,
			},
		})
	}

	resp := sessionToJSON(sess)
	if pressErr != nil {
		resp["error"] = fiber.Map{
			"code":    errorCode(pressErr),
			"message": errorMessage(pressErr),
		}
	}
	return c.JSON(resp)
}

func (s *Server) getTape(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "not_found",
				"message": errorMessage(err),
				"status":  404,
			},
		})
	}

	return c.JSON(fiber.Map{
		"tape": sess.Calc.Tape(),
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// --- Helpers ---

// errorCode maps an evaluator error to its machine-readable envelope code.
func errorCode(err error) string {
	if types.IsDivisionByZero(err) {
		return "division_by_zero"
	}
	return "invalid_expression"
}

// errorMessage strips the code/tag decoration from calculator errors; the
// envelope carries the code separately.
func errorMessage(err error) string {
	var ce *types.CalcError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

func sessionToJSON(sess *store.Session) fiber.Map {
	return fiber.Map{
		"id":        sess.ID,
		"buffer":    sess.Calc.Buffer(),
		"tape":      sess.Calc.Tape(),
		"createdAt": sess.CreatedAt.Format(time.RFC3339),
		"updatedAt": sess.UpdatedAt.Format(time.RFC3339),
	}
}

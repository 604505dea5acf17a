// Package server exposes onescriber sessions over HTTP.
package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/vitorpq/onescriber/utils"
)

type transcriptionRequest struct {
	URL string `json:"url"`
}

type questionRequest struct {
	Question string `json:"question"`
}

type sessionResponse struct {
	ID           string                     `json:"id"`
	LLMAvailable bool                       `json:"llm_available"`
	State        utils.State                `json:"state"`
	Transcript   *utils.TranscriptionResult `json:"transcript,omitempty"`
	History      []utils.ChatMessage        `json:"history"`
}

type answerResponse struct {
	Answer  string              `json:"answer"`
	History []utils.ChatMessage `json:"history"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Question string `json:"question,omitempty"`
}

type Server struct {
	app      *fiber.App
	registry *Registry
	logger   *slog.Logger
}

func New(registry *Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "onescriber",
			DisableStartupMessage: true,
		}),
		registry: registry,
		logger:   logger,
	}
	s.routes()
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", slog.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	s.app.Post("/sessions", s.createSession)
	s.app.Get("/sessions/:id", s.withSession(s.getSession))
	s.app.Delete("/sessions/:id", s.deleteSession)
	s.app.Post("/sessions/:id/transcriptions", s.withSession(s.startTranscription))
	s.app.Post("/sessions/:id/questions", s.withSession(s.askQuestion))
}

type sessionHandler func(c *fiber.Ctx, id string, session *utils.Orchestrator) error

func (s *Server) withSession(next sessionHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		session, ok := s.registry.Get(id)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "session not found"})
		}
		return next(c, id, session)
	}
}

func (s *Server) createSession(c *fiber.Ctx) error {
	id, session := s.registry.Create()
	s.logger.Info("session created", slog.String("session", id))
	return c.Status(fiber.StatusCreated).JSON(snapshot(id, session))
}

func (s *Server) getSession(c *fiber.Ctx, id string, session *utils.Orchestrator) error {
	return c.JSON(snapshot(id, session))
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	found, err := s.registry.Delete(id)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "session not found"})
	}
	if errors.Is(err, utils.ErrBusy) {
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: err.Error()})
	}
	if err != nil {
		// The session is gone either way; only its files may linger.
		s.logger.Warn("session cleanup failed", slog.String("session", id), slog.Any("error", err))
	}
	s.logger.Info("session deleted", slog.String("session", id))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) startTranscription(c *fiber.Ctx, id string, session *utils.Orchestrator) error {
	var req transcriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid JSON"})
	}

	if _, err := session.Start(c.UserContext(), req.URL); err != nil {
		return s.fail(c, id, err)
	}
	return c.JSON(snapshot(id, session))
}

func (s *Server) askQuestion(c *fiber.Ctx, id string, session *utils.Orchestrator) error {
	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid JSON"})
	}

	answer, err := session.Ask(c.UserContext(), req.Question)
	if err != nil {
		return s.fail(c, id, err)
	}
	return c.JSON(answerResponse{Answer: answer, History: session.History()})
}

func (s *Server) fail(c *fiber.Ctx, id string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("session", id), slog.Any("error", err))
	}

	resp := errorResponse{Error: err.Error()}
	var chatErr *utils.ChatError
	if errors.As(err, &chatErr) {
		resp.Question = chatErr.Question
	}
	return c.Status(status).JSON(resp)
}

func statusFor(err error) int {
	var (
		downloadErr      *utils.DownloadError
		transcriptionErr *utils.TranscriptionError
		chatErr          *utils.ChatError
	)
	switch {
	case errors.Is(err, utils.ErrEmptyURL), errors.Is(err, utils.ErrEmptyQuestion):
		return fiber.StatusBadRequest
	case errors.Is(err, utils.ErrBusy), errors.Is(err, utils.ErrNoTranscript):
		return fiber.StatusConflict
	case errors.Is(err, utils.ErrLLMUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &downloadErr), errors.As(err, &transcriptionErr), errors.As(err, &chatErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func snapshot(id string, session *utils.Orchestrator) sessionResponse {
	snap := session.Snapshot()
	history := snap.History
	if history == nil {
		history = []utils.ChatMessage{}
	}
	return sessionResponse{
		ID:           id,
		LLMAvailable: session.LLMAvailable(),
		State:        snap.State,
		Transcript:   snap.Transcript,
		History:      history,
	}
}

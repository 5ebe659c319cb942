package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/watchdeck/watchdeck/internal/common"
)

// credentials is the request body for setup-admin and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionRequest is the request body for logout and validate-session.
type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// authResponse is the envelope returned by every auth endpoint. Absent
// fields serialize as null, matching the SPA's expectations.
type authResponse struct {
	Success   bool    `json:"success"`
	SessionID *string `json:"session_id"`
	Message   *string `json:"message"`
}

func okResponse(message string) authResponse {
	return authResponse{Success: true, Message: &message}
}

func failResponse(message string) authResponse {
	return authResponse{Success: false, Message: &message}
}

func (s *Server) handleNeedsSetup(c *fiber.Ctx) error {
	return c.JSON(s.users.NeedsSetup())
}

func (s *Server) handleSetupAdmin(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(failResponse("invalid request body"))
	}

	if _, err := s.users.BootstrapAdmin(c.UserContext(), creds.Username, creds.Password); err != nil {
		if errors.Is(err, common.ErrAlreadyInitialized) {
			return c.JSON(failResponse("Admin already exists"))
		}
		s.logger.Error(c.UserContext(), "admin bootstrap failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(failResponse("Failed to create admin"))
	}

	return c.JSON(okResponse("Admin created"))
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(failResponse("invalid request body"))
	}

	user, ok := s.users.VerifyCredentials(c.UserContext(), creds.Username, creds.Password)
	if !ok {
		return c.JSON(failResponse("Invalid credentials"))
	}

	id := s.sessions.Issue(c.UserContext(), user.Username)
	return c.JSON(authResponse{Success: true, SessionID: &id})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(failResponse("invalid request body"))
	}

	s.sessions.Revoke(c.UserContext(), req.SessionID)
	return c.JSON(okResponse("Logged out"))
}

func (s *Server) handleValidateSession(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(failResponse("invalid request body"))
	}

	if !s.sessions.IsValid(req.SessionID) {
		return c.JSON(authResponse{Success: false})
	}
	return c.JSON(authResponse{Success: true, SessionID: &req.SessionID})
}

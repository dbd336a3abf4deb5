// Package server exposes the health endpoint and the Telegram webhook. The
// webhook lives on a secret path segment so the URL itself gates access.
package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"PortfolioAgent/internal/notifier"
)

// Server is the HTTP face of the bot in webhook mode.
type Server struct {
	echo    *echo.Echo
	handler notifier.MessageHandler
	tg      *notifier.TelegramNotifier
}

func New(secretPath string, handler notifier.MessageHandler, tg *notifier.TelegramNotifier) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, handler: handler, tg: tg}
	e.GET("/health", s.health)
	e.POST("/"+secretPath, s.webhook)
	return s
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) webhook(c echo.Context) error {
	var update notifier.Update
	if err := c.Bind(&update); err != nil {
		log.Printf("[WARN] decode webhook update: %v", err)
		return c.NoContent(http.StatusBadRequest)
	}

	msg := update.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	reply := s.handler(userID, strings.TrimSpace(msg.Text))
	if reply != "" {
		if err := s.tg.Send(chatID, reply); err != nil {
			log.Printf("[ERROR] send webhook reply: %v", err)
		}
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start(addr string) error {
	log.Printf("[INFO] http server listening on %s", addr)
	err := s.echo.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

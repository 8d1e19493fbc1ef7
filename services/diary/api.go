package diary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"dnevnik-backend/lib/scrapers/schoolsby"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func RegisterRoutes(router gin.IRouter, svc *Service) {
	router.GET("/ping", handlePing)
	router.POST("/login", handleLogin(svc))
	router.GET("/parse", handleParse(svc))
	router.GET("/ical", handleIcal(svc))
}

func handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func handleLogin(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		session, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "login failed", "err", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials or login failed"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func handleParse(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		weeks, ok := fetchWeeks(c, svc)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"weeks": weeks})
	}
}

// fetchWeeks runs the scrape for the sessionid/pupilid query params and
// writes the error response itself when anything goes wrong.
func fetchWeeks(c *gin.Context, svc *Service) ([]schoolsby.StructuredWeek, bool) {
	sessionId := c.Query("sessionid")
	pupilId := c.Query("pupilid")
	if sessionId == "" || pupilId == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "sessionid and pupilid are required"})
		return nil, false
	}

	weeks, err := svc.Quarter(c.Request.Context(), sessionId, pupilId)
	if err != nil {
		status, message := quarterErrorStatus(err)
		slog.ErrorContext(c.Request.Context(), "quarter scrape failed", "err", err)
		c.JSON(status, gin.H{"error": message})
		return nil, false
	}
	if len(weeks) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data found or session expired"})
		return nil, false
	}
	return weeks, true
}

func quarterErrorStatus(err error) (int, string) {
	if isTimeout(err) {
		return http.StatusGatewayTimeout, "target server timeout"
	}
	if errors.Is(err, schoolsby.ErrStructure) {
		return http.StatusUnprocessableEntity, fmt.Sprintf("parsing error: %s", err)
	}
	return http.StatusInternalServerError, fmt.Sprintf("internal server error: %s", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/locale"
	"github.com/srvalle/contract-pro/middleware"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
)

// respondError maps the error taxonomy onto HTTP responses
func respondError(c *gin.Context, err error) {
	var incomplete *model.IncompleteRecordError

	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   err.Error(),
			"missing": incomplete.Missing,
		})
	case errors.Is(err, model.ErrInvalidLanguage), errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrDispatchInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrDispatchFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// requestLang reads ?lang= and falls back to Accept-Language
func requestLang(c *gin.Context) (locale.Lang, error) {
	if q := c.Query("lang"); q != "" {
		return locale.Parse(q)
	}
	return locale.Negotiate(c.GetHeader("Accept-Language")), nil
}

// sessionUser returns the id of the signed-in user, or writes a 401
func sessionUser(c *gin.Context) (string, bool) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return session.UserID, true
}

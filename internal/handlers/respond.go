package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/flangeqc/flangeqc/internal/database"
	"github.com/flangeqc/flangeqc/internal/uploads"
	"github.com/flangeqc/flangeqc/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// statusFor maps domain errors onto HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicateName),
		errors.Is(err, database.ErrUserExists),
		errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrRoundIncomplete),
		errors.Is(err, workflow.ErrPassConflict):
		return http.StatusConflict
	case errors.Is(err, database.ErrInvalidName),
		errors.Is(err, workflow.ErrInvalidStage),
		errors.Is(err, workflow.ErrInvalidPass),
		errors.Is(err, uploads.ErrEmpty),
		errors.Is(err, uploads.ErrNotPDF):
		return http.StatusBadRequest
	case errors.Is(err, uploads.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, database.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes err as {"message": ...}. Storage details stay in the log.
func (h *Handler) fail(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.Log.WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"method": c.Request.Method,
		}).WithError(err).Error("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(code, gin.H{"message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}

// bindJSON binds the body into obj and answers 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		badRequest(c, bindMessage(err))
		return false
	}
	return true
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
		return "invalid request: " + strings.Join(parts, ", ")
	}
	return "invalid request body"
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// pathID parses a numeric path parameter; it answers 400 itself when it can't.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryID returns false when the parameter is missing or not a positive integer.
func queryID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// refID is a parent id in a request body. Browser forms post ids as strings
// ("3"), API clients as numbers; both are accepted.
type refID uint

func (r *refID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*r = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return errors.Errorf("invalid id %s", string(b))
	}
	*r = refID(n)
	return nil
}

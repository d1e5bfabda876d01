package handlers

import (
	"net/http"

	"github.com/flangeqc/flangeqc/internal/middleware"
	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type registerForm struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"omitempty,role"`
	Name     string          `json:"name"`
	Company  string          `json:"company"`
}

type loginForm struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if !bindJSON(c, &form) {
		return
	}

	if form.Role == "" {
		form.Role = models.RoleTechnician
	}
	// only an admin may hand out the admin role
	if form.Role == models.RoleAdmin && !middleware.HasRole(c, models.RoleAdmin) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Only an admin can create admin users."})
		return
	}

	_, err := h.Users.Register(c.Request.Context(), models.User{
		Email:   form.Email,
		Role:    form.Role,
		Name:    form.Name,
		Company: form.Company,
	}, form.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created."})
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, user.ID)
	if err := sess.Save(); err != nil {
		h.fail(c, errors.Wrap(err, "save session"))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := sess.Save(); err != nil {
		h.fail(c, errors.Wrap(err, "clear session"))
		return
	}
	message(c, "Logged out.")
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not logged in."})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "User deleted.")
}

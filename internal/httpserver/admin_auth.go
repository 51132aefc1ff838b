package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"temo/internal/domain"
	"temo/internal/session"
)

const (
	guardCtxKey = "admin.guard"
	tokenCtxKey = "admin.token"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// adminMiddleware admits requests carrying a live session token. Others get
// a 401 naming the page the client should navigate to.
func adminMiddleware(sessions SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		guard, ok := sessions.Lookup(c.Request.Context(), token)
		if !ok {
			body := gin.H{"error": "unauthorized"}
			if target, redirect := session.Redirect(c.Request.URL.Path, false); redirect {
				body["redirect"] = target
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, body)
			return
		}
		c.Set(guardCtxKey, guard)
		c.Set(tokenCtxKey, token)
		c.Next()
	}
}

// adminLogin issues a session token. A client that already holds a live
// session is sent to the dashboard instead.
func (h *handlers) adminLogin(c *gin.Context) {
	if guard, ok := h.deps.Sessions.Lookup(c.Request.Context(), bearerToken(c)); ok {
		id, _ := guard.Current()
		target, _ := session.Redirect(session.LoginPath, true)
		c.JSON(http.StatusOK, gin.H{"admin": id, "redirect": target})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	token, id, err := h.deps.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "admin": id, "redirect": session.DashboardPath})
}

func (h *handlers) adminLogout(c *gin.Context) {
	h.deps.Sessions.Logout(c.GetString(tokenCtxKey))
	target, _ := session.Redirect(session.DashboardPath, false)
	c.JSON(http.StatusOK, gin.H{"redirect": target})
}

func (h *handlers) adminMe(c *gin.Context) {
	id, ok := currentAdmin(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "redirect": session.LoginPath})
		return
	}
	c.JSON(http.StatusOK, id)
}

func currentAdmin(c *gin.Context) (domain.AdminIdentity, bool) {
	v, ok := c.Get(guardCtxKey)
	if !ok {
		return domain.AdminIdentity{}, false
	}
	guard, ok := v.(*session.Guard)
	if !ok {
		return domain.AdminIdentity{}, false
	}
	return guard.Current()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"temo/internal/domain"
)

func (h *handlers) home(c *gin.Context) {
	home, err := h.deps.Catalog.Home(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

func (h *handlers) menu(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	m, err := h.deps.Catalog.Menu(c.Request.Context(), kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handlers) product(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	p, err := h.deps.Catalog.Product(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) news(c *gin.Context) {
	news, err := h.deps.Catalog.News(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if news == nil {
		news = []domain.News{}
	}
	c.JSON(http.StatusOK, gin.H{"news": news})
}

func (h *handlers) events(c *gin.Context) {
	ev, err := h.deps.Catalog.Events(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// kindParam reads the :kind path segment, writing a 400 when it is unknown.
func kindParam(c *gin.Context) (domain.Kind, bool) {
	kind, ok := domain.ParseKind(c.Param("kind"))
	if !ok {
		badRequest(c, "unknown kind "+c.Param("kind"))
		return "", false
	}
	return kind, true
}

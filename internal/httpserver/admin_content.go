package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"temo/internal/domain"
	"temo/internal/service/content"
)

func (h *handlers) listOffers(c *gin.Context) {
	list, err := h.deps.Content.ListOffers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Offer{}
	}
	c.JSON(http.StatusOK, gin.H{"offers": list})
}

func (h *handlers) createOffer(c *gin.Context) {
	var in content.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.deps.Content.CreateOffer(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateOffer(c *gin.Context) {
	var in content.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.deps.Content.UpdateOffer(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteOffer(c *gin.Context) {
	if err := h.deps.Content.DeleteOffer(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listNews(c *gin.Context) {
	list, err := h.deps.Content.ListNews(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.News{}
	}
	c.JSON(http.StatusOK, gin.H{"news": list})
}

func (h *handlers) createNews(c *gin.Context) {
	var in content.NewsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.deps.Content.CreateNews(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateNews(c *gin.Context) {
	var in content.NewsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.deps.Content.UpdateNews(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteNews(c *gin.Context) {
	if err := h.deps.Content.DeleteNews(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"temo/internal/domain"
	"temo/internal/service/menu"
	"temo/internal/storage"
)

const imageField = "image"

func (h *handlers) listCategories(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	list, err := h.deps.Menu.ListCategories(c.Request.Context(), kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

func (h *handlers) createCategory(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var in menu.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.deps.Menu.CreateCategory(c.Request.Context(), kind, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateCategory(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var in menu.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.deps.Menu.UpdateCategory(c.Request.Context(), kind, c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteCategory(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	if err := h.deps.Menu.DeleteCategory(c.Request.Context(), kind, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) uploadCategoryImage(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	file, ok := h.formImage(c)
	if !ok {
		return
	}
	defer file.Close()
	updated, err := h.deps.Menu.SetCategoryImage(c.Request.Context(), kind, c.Param("id"), file.name, file)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) listProducts(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	filter := domain.ProductFilter{CategoryID: c.Query("categoryId")}
	list, err := h.deps.Menu.ListProducts(c.Request.Context(), kind, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *handlers) getProduct(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	p, err := h.deps.Menu.GetProduct(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) createProduct(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var in menu.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.deps.Menu.CreateProduct(c.Request.Context(), kind, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateProduct(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var in menu.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.deps.Menu.UpdateProduct(c.Request.Context(), kind, c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	if err := h.deps.Menu.DeleteProduct(c.Request.Context(), kind, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) uploadProductImage(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	file, ok := h.formImage(c)
	if !ok {
		return
	}
	defer file.Close()
	updated, err := h.deps.Menu.SetProductImage(c.Request.Context(), kind, c.Param("id"), file.name, file)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type formFile struct {
	name string
	io.ReadCloser
}

// formImage opens the multipart "image" field.
func (h *handlers) formImage(c *gin.Context) (*formFile, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadBytes+1<<20)
	header, err := c.FormFile(imageField)
	if err != nil {
		badRequest(c, "missing image file")
		return nil, false
	}
	if header.Size > storage.MaxUploadBytes {
		h.writeError(c, storage.ErrTooLarge)
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return &formFile{name: header.Filename, ReadCloser: f}, true
}

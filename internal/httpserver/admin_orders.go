package httpserver

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"temo/internal/domain"
	orderrepo "temo/internal/repository/order"
	"temo/internal/service/report"
)

type statusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func (h *handlers) listOrders(c *gin.Context) {
	q := orderrepo.Query{
		Search: c.Query("search"),
		Status: domain.OrderStatus(c.Query("status")),
		Limit:  cast.ToInt(c.Query("limit")),
		Offset: cast.ToInt(c.Query("offset")),
	}
	list, err := h.deps.Orders.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.deps.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	o, err := h.deps.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) dashboard(c *gin.Context) {
	d, err := h.deps.Reports.Dashboard(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) report(c *gin.Context) {
	r, ok := h.buildReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handlers) exportReport(c *gin.Context) {
	r, ok := h.buildReport(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := r.WriteXLSX(&buf); err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+r.Filename())
	c.Data(http.StatusOK, report.ContentTypeXLSX, buf.Bytes())
}

func (h *handlers) buildReport(c *gin.Context) (*report.Report, bool) {
	period, err := report.ParsePeriod(c.Query("period"))
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	r, err := h.deps.Reports.Build(c.Request.Context(), period)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return r, true
}

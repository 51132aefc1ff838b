package report

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"temo/internal/domain"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var statusLabels = map[domain.OrderStatus]string{
	domain.OrderStatusPending:   "قيد الانتظار",
	domain.OrderStatusConfirmed: "تم التأكيد",
	domain.OrderStatusPreparing: "قيد التحضير",
	domain.OrderStatusReady:     "جاهز للتسليم",
	domain.OrderStatusDelivered: "تم التسليم",
	domain.OrderStatusCancelled: "ملغي",
}

// StatusLabel returns the Arabic label for status, or the raw value.
func StatusLabel(status domain.OrderStatus) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return string(status)
}

// Filename is the download name of the exported workbook.
func (r *Report) Filename() string {
	return fmt.Sprintf("report-%s-%s.xlsx", r.Period, r.Since.Format("2006-01-02"))
}

// WriteXLSX writes r as a workbook with one sheet per section.
func (r *Report) WriteXLSX(w io.Writer) error {
	file := xlsx.NewFile()

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return err
	}
	addRow(summary, "Period", string(r.Period))
	addRow(summary, "Since", r.Since.Format("2006-01-02"))
	addRow(summary, "Total revenue", r.TotalRevenue.StringFixed(2))
	addRow(summary, "Total orders", r.TotalOrders)
	addRow(summary, "Unique customers", r.TotalCustomers)
	addRow(summary, "Average order value", r.AverageOrderValue.StringFixed(2))

	products, err := file.AddSheet("Popular products")
	if err != nil {
		return err
	}
	addRow(products, "Product", "Kind", "Quantity", "Revenue")
	for _, p := range r.PopularProducts {
		addRow(products, p.Name, string(p.Kind), p.TotalQuantity, p.TotalRevenue.StringFixed(2))
	}

	statuses, err := file.AddSheet("Orders by status")
	if err != nil {
		return err
	}
	addRow(statuses, "Status", "Label", "Count")
	for _, sc := range r.OrdersByStatus {
		addRow(statuses, string(sc.Status), StatusLabel(sc.Status), sc.Count)
	}

	days, err := file.AddSheet("Revenue by day")
	if err != nil {
		return err
	}
	addRow(days, "Day", "Revenue")
	for _, d := range r.RevenueByDay {
		addRow(days, d.Day, d.Revenue.StringFixed(2))
	}

	categories, err := file.AddSheet("Categories")
	if err != nil {
		return err
	}
	addRow(categories, "Category", "Kind", "Products", "Ordered")
	for _, c := range r.CategoryStats {
		addRow(categories, c.CategoryName, string(c.Kind), c.ProductCount, c.TotalOrdered)
	}

	return file.Write(w)
}

func addRow(sheet *xlsx.Sheet, values ...interface{}) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}

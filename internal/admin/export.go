package admin

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"goldmart/internal/domain"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ExportRevenue renders the revenue page as a workbook with one sheet per
// bucket kind.
func (c *Console) ExportRevenue(ctx context.Context, q RevenueQuery) ([]byte, string, error) {
	r, err := c.Revenue(ctx, q)
	if err != nil {
		return nil, "", err
	}
	b, err := RevenueWorkbook(r)
	if err != nil {
		return nil, "", err
	}
	return b, fmt.Sprintf("revenue_%d-%02d.xlsx", r.Query.Year, r.Query.Month), nil
}

func RevenueWorkbook(r Revenue) ([]byte, error) {
	file := xlsx.NewFile()

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return nil, err
	}
	addRow(summary, "Period", "Revenue", "Orders")
	addMoneyRow(summary, "Day "+r.Daily.Date, r.Daily.TotalRevenue, r.Daily.TotalOrders)
	addMoneyRow(summary, "Week "+r.Weekly.WeekStart+" - "+r.Weekly.WeekEnd, r.Weekly.TotalRevenue, r.Weekly.TotalOrders)
	addMoneyRow(summary, fmt.Sprintf("Year %d", r.Query.Year), r.YearTotal, -1)
	if r.Range != nil {
		addMoneyRow(summary, "Range "+r.Range.From+" - "+r.Range.To, r.Range.TotalRevenue, r.Range.TotalOrders)
	}

	monthly, err := file.AddSheet("Monthly")
	if err != nil {
		return nil, err
	}
	addRow(monthly, "Month", "Revenue", "Orders")
	for _, m := range r.Monthly.MonthlyRevenue {
		name := fmt.Sprint(m.Month)
		if m.Month >= 1 && m.Month <= 12 {
			name = monthNames[m.Month-1]
		}
		addMoneyRow(monthly, name, m.TotalRevenue, m.TotalOrders)
	}

	yearly, err := file.AddSheet("Yearly")
	if err != nil {
		return nil, err
	}
	addRow(yearly, "Year", "Revenue", "Orders")
	for _, y := range r.Yearly.YearlyRevenue {
		addMoneyRow(yearly, fmt.Sprint(y.Year), y.TotalRevenue, y.TotalOrders)
	}

	report, err := file.AddSheet("Monthly Report")
	if err != nil {
		return nil, err
	}
	addRow(report, "Month", "Year", "Revenue", "Best product", "Units", "Product revenue")
	row := report.AddRow()
	row.AddCell().SetInt(r.Report.Month)
	row.AddCell().SetInt(r.Report.Year)
	row.AddCell().SetFloat(r.Report.TotalRevenue.InexactFloat64())
	if bp := r.Report.BestProduct; bp != nil {
		row.AddCell().SetString(bp.Name)
		row.AddCell().SetInt(bp.TotalQuantity)
		row.AddCell().SetFloat(bp.TotalRevenue.InexactFloat64())
	}

	return write(file)
}

// OrdersWorkbook renders an order list, one row per order line.
func OrdersWorkbook(list []domain.Order) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}
	addRow(sheet, "Order", "Created", "Status", "Customer", "City", "Payment", "Item", "Qty", "Price", "Order total")
	for _, o := range list {
		for _, it := range o.Items {
			row := sheet.AddRow()
			row.AddCell().SetString(o.ID)
			row.AddCell().SetString(o.CreatedAt.Format(time.DateTime))
			row.AddCell().SetString(string(o.Status))
			row.AddCell().SetString(o.ShippingAddress.Name)
			row.AddCell().SetString(o.ShippingAddress.City)
			row.AddCell().SetString(o.PaymentMethod)
			row.AddCell().SetString(it.Name)
			row.AddCell().SetInt(it.Qty)
			row.AddCell().SetFloat(it.Price.InexactFloat64())
			row.AddCell().SetFloat(o.TotalPrice.InexactFloat64())
		}
	}
	return write(file)
}

// ExportOrders renders the filtered admin order list.
func (c *Console) ExportOrders(ctx context.Context, f OrderFilter) ([]byte, string, error) {
	list, err := c.Orders(ctx, f)
	if err != nil {
		return nil, "", err
	}
	b, err := OrdersWorkbook(list)
	if err != nil {
		return nil, "", err
	}
	return b, "orders_" + c.now().Format("20060102") + ".xlsx", nil
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, s := range cells {
		row.AddCell().SetString(s)
	}
}

// addMoneyRow leaves the orders column empty when orders is negative.
func addMoneyRow(sheet *xlsx.Sheet, label string, amount decimal.Decimal, orders int) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloat(amount.InexactFloat64())
	if orders >= 0 {
		row.AddCell().SetInt(orders)
	}
}

func write(file *xlsx.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package invoice lays out and renders the PDF invoice for an order.
package invoice

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Text is one string drawn with its baseline at (X, Y) mm.
type Text struct {
	X, Y float64
	Size float64
	S    string
}

// Rule is a horizontal line from (X1, Y) to (X2, Y) mm.
type Rule struct {
	X1, X2, Y float64
}

// Row is one line of the item table.
type Row struct {
	Name     string
	Quantity string
	Price    string
	Subtotal string
}

// Document is the fully positioned invoice. Build produces it without any
// I/O so layout can be checked directly.
type Document struct {
	Filename string
	Rows     []Row
	Total    string
	Texts    []Text
	Rules    []Rule
}

const (
	colItem  = 20
	colQty   = 120
	colPrice = 145
	colTotal = 170
	ruleEnd  = 190

	tableTop = 125
	rowStep  = 7
)

// Money formats an amount the way the invoice prints it.
func Money(d decimal.Decimal) string { return "Rs. " + d.StringFixed(2) }

func Filename(o orders.Order) string { return "invoice-" + prefix(o.ID) + ".pdf" }

func prefix(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Build lays out the invoice for o. Dates are printed in loc; rows follow
// the stored item order and the total is the stored total_amount.
func Build(o orders.Order, loc *time.Location) Document {
	if loc == nil {
		loc = time.UTC
	}
	d := Document{Filename: Filename(o), Total: Money(o.TotalAmount)}
	text := func(x, y, size float64, s string) {
		d.Texts = append(d.Texts, Text{X: x, Y: y, Size: size, S: s})
	}

	text(20, 20, 20, "Feel It Buy")
	text(20, 28, 12, "Experience It Before You Own It")

	text(20, 45, 16, "INVOICE")
	text(20, 55, 10, "Order ID: "+strings.ToUpper(prefix(o.ID)))
	text(20, 62, 10, "Date: "+o.CreatedAt.In(loc).Format(time.DateOnly))
	text(20, 69, 10, "Status: "+strings.ToUpper(string(o.Status)))

	a := o.ShippingAddress
	text(20, 82, 12, "Shipping Address:")
	text(20, 89, 10, a.FullName)
	text(20, 96, 10, a.Address)
	text(20, 103, 10, fmt.Sprintf("%s, %s %s", a.City, a.State, a.Pincode))
	text(20, 110, 10, a.Phone)

	text(colItem, tableTop, 10, "Item")
	text(colQty, tableTop, 10, "Qty")
	text(colPrice, tableTop, 10, "Price")
	text(colTotal, tableTop, 10, "Total")
	d.Rules = append(d.Rules, Rule{X1: colItem, X2: ruleEnd, Y: tableTop + 2})

	y := float64(tableTop + 10)
	for _, it := range o.Items {
		r := Row{
			Name:     it.ProductName,
			Quantity: strconv.Itoa(it.Quantity),
			Price:    Money(it.ProductPrice),
			Subtotal: Money(it.Subtotal),
		}
		d.Rows = append(d.Rows, r)
		text(colItem, y, 10, r.Name)
		text(colQty, y, 10, r.Quantity)
		text(colPrice, y, 10, r.Price)
		text(colTotal, y, 10, r.Subtotal)
		y += rowStep
	}

	d.Rules = append(d.Rules, Rule{X1: colItem, X2: ruleEnd, Y: y})
	y += rowStep
	text(colQty, y, 12, "Total Amount:")
	text(colTotal, y, 12, d.Total)

	text(20, 280, 8, "Thank you for shopping with Feel It Buy!")
	return d
}

// Render writes doc as a single A4 page.
func Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(strings.TrimSuffix(doc.Filename, ".pdf"), true)
	pdf.SetCreator("Feel It Buy", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range doc.Texts {
		pdf.SetFont("Helvetica", "", t.Size)
		pdf.Text(t.X, t.Y, tr(t.S))
	}
	pdf.SetLineWidth(0.2)
	for _, r := range doc.Rules {
		pdf.Line(r.X1, r.Y, r.X2, r.Y)
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

package infra

// pdf.go — Invoice PDF generation using go-pdf/fpdf.
// Renders an A4 invoice with:
//   - Store name header and invoice number
//   - Issue date and customer line
//   - Item table (product name, code, quantity, unit price, subtotal)
//   - Bold total
//
// The output file is saved to storagePath/invoice_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/srouini/SmartStore/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateInvoicePDF renders the PDF for an issued invoice. The invoice
// must carry its Sale with item snapshots. Returns the path of the
// generated file.
func GenerateInvoicePDF(invoice *model.Invoice, storagePath, storeName string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("invoice_%s.pdf", invoice.InvoiceNumber)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, storeName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, "INVOICE "+invoice.InvoiceNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, "Date: "+invoice.CreatedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	if invoice.CustomerInfo != nil && *invoice.CustomerInfo != "" {
		pdf.CellFormat(contentW, 6, "Customer: "+*invoice.CustomerInfo, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Item table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // product name
	col2 := contentW * 0.12 // code
	col3 := contentW * 0.12 // qty
	col4 := contentW * 0.18 // unit price
	col5 := contentW * 0.18 // subtotal

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Code", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 7, "Unit price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 7, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if invoice.Sale != nil {
		for _, item := range invoice.Sale.Items {
			name := item.ProductName
			if len(name) > 38 {
				name = name[:37] + "…"
			}
			subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			pdf.CellFormat(col1, 7, name, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 7, item.ProductCode, "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 7, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
			pdf.CellFormat(col4, 7, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(col5, 7, subtotal.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(col1+col2+col3+col4, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, invoice.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

package tickets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrRender signals that the ticket document could not be generated from the
// given ticket. Rendering is pure with respect to persisted state: the same
// malformed input will fail the same way, so callers must correct the input
// rather than retry.
var ErrRender = errors.New("failed to render ticket document")

const (
	documentTitle  = "Museum Entry Ticket"
	museumName     = "National Museum of Art & History"
	museumAddress  = "123 Museum Avenue, Art District"
	museumContact  = "+1 (555) 123-4567 | info@museum.com"
	qrImageSizePx  = 256
	displayDateFmt = "Monday, January 2, 2006"
)

// DocumentGenerator renders a ticket into a proof-of-purchase artifact
type DocumentGenerator interface {
	Render(ticket *Ticket) ([]byte, error)
}

type pdfGenerator struct{}

// NewDocumentGenerator creates the PDF-backed document generator
func NewDocumentGenerator() DocumentGenerator {
	return &pdfGenerator{}
}

// Render produces the A4 ticket PDF with the human-readable detail table and
// the scannable JSON summary. Output is deterministic for identical tickets;
// the only timestamps in the document come from the ticket itself.
func (g *pdfGenerator) Render(ticket *Ticket) ([]byte, error) {
	if err := validateForRender(ticket); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	payload, err := json.Marshal(ticket.ToSummary())
	if err != nil {
		return nil, fmt.Errorf("%w: encoding summary: %v", ErrRender, err)
	}

	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, qrImageSizePx)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding qr: %v", ErrRender, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(documentTitle, false)
	pdf.SetAuthor(museumName, false)
	pdf.SetCreationDate(ticket.PurchaseDate)
	pdf.SetModificationDate(ticket.PurchaseDate)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()

	// Header band
	pdf.SetFillColor(59, 130, 246)
	pdf.Rect(15, 15, pageW-30, 32, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(15, 22)
	pdf.CellFormat(pageW-30, 10, museumName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetX(15)
	pdf.CellFormat(pageW-30, 8, documentTitle, "", 1, "C", false, 0, "")

	// Detail table
	pdf.SetTextColor(31, 41, 55)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetXY(20, 58)
	pdf.CellFormat(0, 8, "Ticket Details", "", 1, "L", false, 0, "")

	details := []struct {
		label string
		value string
	}{
		{"Visitor Email:", ticket.Email},
		{"Ticket Type:", string(ticket.Type)},
		{"Quantity:", fmt.Sprintf("%d", ticket.Quantity)},
		{"Unit Price:", fmt.Sprintf("Rs. %d", ticket.UnitPrice)},
		{"Total:", fmt.Sprintf("Rs. %d", ticket.TotalPrice())},
		{"Valid For:", ticket.AgeRange},
		{"Visit Date:", ticket.VisitDate.Format(displayDateFmt)},
		{"Order ID:", ticket.OrderID},
		{"Payment ID:", ticket.PaymentID},
		{"Purchase Date:", ticket.PurchaseDate.Format(displayDateFmt)},
	}

	pdf.SetFont("Helvetica", "", 11)
	y := 70.0
	for _, d := range details {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(22, y, d.label)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Text(65, y, d.value)
		y += 8
	}

	// Scannable code
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("ticket-qr", 140, 66, 45, 45, false, opts, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(142, 116, "Scan at the entrance")

	// Visitor notes
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(22, y+10, "Important Notes:")
	notes := []string{
		"- Please arrive 15 minutes before your scheduled time",
		"- This ticket is non-transferable",
		"- Photography is allowed in designated areas only",
		"- Please follow museum guidelines and staff instructions",
	}
	pdf.SetFont("Helvetica", "", 10)
	for i, note := range notes {
		pdf.Text(22, y+18+float64(i)*6, note)
	}

	// Footer
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(15, 270)
	pdf.CellFormat(pageW-30, 5, museumName, "", 1, "C", false, 0, "")
	pdf.SetX(15)
	pdf.CellFormat(pageW-30, 5, museumAddress+" | "+museumContact, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func validateForRender(ticket *Ticket) error {
	if ticket == nil {
		return errors.New("ticket is nil")
	}
	if ticket.Email == "" {
		return errors.New("missing email")
	}
	if ticket.OrderID == "" || ticket.PaymentID == "" {
		return errors.New("missing payment references")
	}
	if ticket.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	if _, ok := Lookup(ticket.Type); !ok {
		return fmt.Errorf("unknown ticket type %q", ticket.Type)
	}
	return nil
}

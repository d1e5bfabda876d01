package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

// QRContent is what the sheet's QR code encodes: enough for a scanner in the
// field to find the joint again.
func QRContent(f models.Flange) string {
	ref := f.FlangeNo
	if ref == "" {
		ref = f.Tag
	}
	return fmt.Sprintf("FLANGEQC/%d/%s", f.ID, ref)
}

// SignoffSheet renders a single-page A4 PDF with the joint data, the torque
// passes and all five sign-off blocks of f.
func SignoffSheet(f models.Flange) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	png, err := qrcode.Encode(QRContent(f), qrcode.Medium, 256)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 160, 12, 35, 35, false, opts, 0, "")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(140, 10, "Flange sign-off sheet", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(140, 6, "Flange "+orDash(f.FlangeNo)+"   Tag "+orDash(f.Tag), "", 1, "L", false, 0, "")
	pdf.CellFormat(140, 6, "Workpack "+orDash(f.WorkpackName)+"   Status "+string(f.CurrentStage()), "", 1, "L", false, 0, "")
	pdf.Ln(14)

	section(pdf, "Joint")
	rows := [][2]string{
		{"Isometric", f.Isometric}, {"P&ID", f.PID},
		{"System", f.System}, {"Facility", f.Facility},
		{"Size", f.Size}, {"Rating", f.Rating},
		{"Type", f.Type}, {"Material", f.Material},
		{"Gasket", f.Gasket}, {"Bolt size", f.BoltSize},
		{"Stud spec", f.StudSpec}, {"Nut spec", f.NutSpec},
		{"Nut size", f.NutSize}, {"Washer", f.Washer},
		{"Lubricant", f.Lubricant}, {"K factor", f.KFactor},
		{"Yield strength", f.YieldStrength}, {"Torque", f.Torque},
		{"Torque/tension", f.TorqueOrTension}, {"Wrench size", f.WrenchSize},
		{"Equipment", strings.TrimSpace(f.EquipmentManufacturer + " " + f.EquipmentQuantity)},
		{"Tool certs", f.ToolCerts},
	}
	for i := 0; i < len(rows); i += 2 {
		field(pdf, rows[i][0], rows[i][1])
		if i+1 < len(rows) {
			field(pdf, rows[i+1][0], rows[i+1][1])
		}
		pdf.Ln(6)
	}
	pdf.Ln(2)

	section(pdf, "Torque passes")
	field(pdf, "Pass 1", f.Pass1)
	field(pdf, "Pass 2", f.Pass2)
	pdf.Ln(6)
	field(pdf, "Pass 3", f.Pass3)
	field(pdf, "Round", f.RoundPass)
	pdf.Ln(6)
	field(pdf, "Final", f.FinalPass)
	pdf.Ln(8)

	section(pdf, "Sign-off")
	pdf.SetFont("Arial", "B", 9)
	for _, h := range []struct {
		title string
		w     float64
	}{{"Stage", 25}, {"Name", 40}, {"Company", 40}, {"Date", 25}, {"Signature", 50}} {
		pdf.CellFormat(h.w, 7, h.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, st := range models.Stages() {
		e := f.Signoff(st)
		if e == nil {
			continue
		}
		pdf.CellFormat(25, 7, string(st), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, e.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, e.Company, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, e.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, signatureText(e.Signature), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if strings.TrimSpace(f.Comments) != "" {
		pdf.Ln(4)
		section(pdf, "Comments")
		pdf.MultiCell(0, 5, f.Comments, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render sign-off sheet")
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func field(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(60, 6, orDash(value), "", 0, "L", false, 0, "")
}

// signatures are usually data URLs from a drawing pad; only say whether one exists
func signatureText(sig string) string {
	switch {
	case strings.TrimSpace(sig) == "":
		return ""
	case strings.HasPrefix(sig, "data:"):
		return "(signed)"
	case len(sig) > 30:
		return sig[:30] + "..."
	}
	return sig
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

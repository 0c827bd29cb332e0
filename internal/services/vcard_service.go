package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/maskline/backend/internal/config"
	"github.com/maskline/backend/internal/models"
	"github.com/maskline/backend/pkg/vcard"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// VCardService resolves relay-number contact cards through their opaque
// lookup keys. The key is the whole credential: no session, no ids, exact
// match or nothing.
type VCardService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewVCardService(db *gorm.DB, cfg *config.Config) *VCardService {
	return &VCardService{db: db, cfg: cfg}
}

// ResolveContactCard returns the relay number behind a lookup key and its
// rendered vCard document.
func (s *VCardService) ResolveContactCard(lookupKey string) (*models.RelayNumber, string, error) {
	if lookupKey == "" {
		return nil, "", ErrLookupKeyNotFound
	}
	var relay models.RelayNumber
	if err := s.db.Where("vcard_lookup_key = ?", lookupKey).First(&relay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrLookupKeyNotFound
		}
		return nil, "", err
	}

	card := vcard.Encode(vcard.Card{
		FullName: relay.Number,
		Number:   relay.Number,
		Org:      "Maskline Relay",
	})
	return &relay, card, nil
}

// GenerateContactQRPDF renders a printable A4 sheet with a QR code pointing
// at the contact card's capability URL.
func (s *VCardService) GenerateContactQRPDF(relay *models.RelayNumber) ([]byte, error) {
	cardURL := fmt.Sprintf("%s/api/v1/vCard/%s", s.cfg.APIUrl, relay.VCardLookupKey)

	// Create QR PNG in memory
	png, err := qrcode.Encode(cardURL, qrcode.Medium, 512)
	if err != nil {
		return nil, err
	}

	// Create PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Relay Contact Card")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 6, fmt.Sprintf("Number: %s\nURL: %s", relay.Number, cardURL), "", "L", false)

	// Register image from reader
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(png))

	// Center QR on the page
	x := (210.0 - 100.0) / 2.0 // A4 width 210mm, QR size 100mm
	y := pdf.GetY() + 10
	pdf.ImageOptions("qr", x, y, 100, 100, false, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

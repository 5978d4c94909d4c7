package bookings

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"atlas/db"
	"atlas/models"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// VoucherCode builds the QR payload: the booking id plus an HMAC so the
// code can be verified offline at check-in.
func VoucherCode(bookingID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(bookingID))
	return bookingID + "|" + hex.EncodeToString(mac.Sum(nil))
}

// VerifyVoucherCode checks a scanned code and returns the booking id.
func VerifyVoucherCode(code, secret string) (string, bool) {
	sep := -1
	for i := len(code) - 1; i >= 0; i-- {
		if code[i] == '|' {
			sep = i
			break
		}
	}
	if sep <= 0 {
		return "", false
	}
	bookingID := code[:sep]
	want := VoucherCode(bookingID, secret)
	if hmac.Equal([]byte(code), []byte(want)) {
		return bookingID, true
	}
	return "", false
}

// GET /api/bookings/:bookingId/voucher
// Owner-or-admin; only paid and confirmed bookings have a voucher.
func (h *Handlers) DownloadVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadOwned(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}
	if booking.PaymentStatus != models.PaymentPaid {
		utils.RespondWithError(w, http.StatusConflict, "Voucher is available after payment")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var tour models.Tour
	_ = h.store.Tours.FindOne(ctx, bson.M{"tourid": booking.TourID}).Decode(&tour)

	pdfBytes, err := renderVoucher(booking, tour, h.voucherSecret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render voucher")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=voucher-%s.pdf", booking.BookingID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func renderVoucher(booking models.Booking, tour models.Tour, secret string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(VoucherCode(booking.BookingID, secret), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "Booking Voucher")
	pdf.Ln(16)

	pdf.SetFont("Arial", "", 12)
	row := func(label, value string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	row("Booking ID:", booking.BookingID)
	row("Tour:", tour.Title)
	row("Customer:", booking.CustomerName)
	row("Travelers:", fmt.Sprintf("%d", booking.Travelers))
	row("Date:", booking.BookingDate)
	row("Amount:", fmt.Sprintf("%.2f", booking.TotalAmount))
	row("Status:", booking.BookingStatus)
	row("Issued:", time.Now().UTC().Format("2006-01-02 15:04 MST"))

	pdf.Ln(8)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("voucher-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("voucher-qr", pdf.GetX(), pdf.GetY(), 50, 50, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + 54)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Present this voucher and a valid ID at check-in.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

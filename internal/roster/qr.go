package roster

import qrcode "github.com/skip2/go-qrcode"

// QRPNG renders a student's canonical payload as a QR code PNG suitable
// for printing.
func QRPNG(s Student, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	payload := s.QRPayload
	if payload == "" {
		payload = EncodePayload(s)
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

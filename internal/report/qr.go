package report

import (
	"errors"
	"fmt"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

var ErrNoCoordinates = errors.New("record has no coordinates")

// GeoURI is the geo: URI (RFC 5870) for a location.
func GeoURI(loc domain.GeoLocation) string {
	return "geo:" + strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)
}

// LocationQR encodes the location's geo: URI as a square PNG of size pixels.
func LocationQR(loc domain.GeoLocation, size int) ([]byte, error) {
	if !loc.HasCoordinates() {
		return nil, ErrNoCoordinates
	}
	png, err := qrcode.Encode(GeoURI(loc), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

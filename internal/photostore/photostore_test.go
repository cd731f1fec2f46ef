package photostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFolder(t *testing.T) {
	assert.Equal(t, "xamu-field-data/abc123", CleanFolder("xamu-field-data/abc123"))
	assert.Equal(t, "etc/passwd", CleanFolder("../../etc/passwd"))
	assert.Equal(t, "Eco_Green", CleanFolder("/Eco & Green/"))
	assert.Equal(t, "", CleanFolder(""))
}

func TestExtForMimeType(t *testing.T) {
	assert.Equal(t, ".png", ExtForMimeType("image/png"))
	assert.Equal(t, ".jpg", ExtForMimeType("image/jpeg"))
	assert.Equal(t, ".jpg", ExtForMimeType("application/octet-stream"))
}

package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	cases := []struct {
		ext  string
		want FileFormat
	}{
		{".pdf", PDF},
		{"PDF", PDF},
		{".JPG", IMAGE},
		{"jpeg", IMAGE},
		{".png", IMAGE},
		{".tiff", IMAGE},
		{".json", ""},
		{".docx", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MapExtToFormat(c.ext), c.ext)
	}
}

func TestMapMIMEToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapMIMEToFormat("application/pdf"))
	assert.Equal(t, PDF, MapMIMEToFormat(" Application/PDF ; charset=binary"))
	assert.Equal(t, IMAGE, MapMIMEToFormat("image/tiff"))
	assert.Equal(t, FileFormat(""), MapMIMEToFormat("text/plain"))
}

func TestMIMEForExt(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMEForExt(".pdf"))
	assert.Equal(t, "image/tiff", MIMEForExt(".tif"))
	assert.Equal(t, "image/jpeg", MIMEForExt("JPEG"))
	assert.Equal(t, "", MIMEForExt(".txt"))
}

func TestExtForMIME(t *testing.T) {
	assert.Equal(t, "pdf", ExtForMIME("application/pdf"))
	assert.Equal(t, "png", ExtForMIME("image/png"))
	assert.Equal(t, "jpg", ExtForMIME("image/jpeg"))
	assert.Equal(t, "bin", ExtForMIME("text/plain"))
}

package extract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUploadPlainText(t *testing.T) {
	text, err := FromUpload([]byte("The Treaty of Westphalia ended the Thirty Years' War."), "text/plain", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "The Treaty of Westphalia ended the Thirty Years' War.", text)
}

func TestFromUploadDeclaredTypeWithParameters(t *testing.T) {
	_, err := FromUpload([]byte("hello world"), "text/plain; charset=utf-8", "notes.txt")
	assert.NoError(t, err)
}

func TestFromUploadRejectsUnsupportedType(t *testing.T) {
	_, err := FromUpload([]byte{0x89, 'P', 'N', 'G'}, "image/png", "diagram.png")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFromUploadRejectsOversizedBeforeExtraction(t *testing.T) {
	// 4 MiB of garbage. A PDF parser would choke on it, but the size
	// check must fire first and say so.
	data := bytes.Repeat([]byte{0x42}, 4<<20)
	_, err := FromUpload(data, "application/pdf", "big.pdf")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFromUploadRejectsInvalidUTF8Text(t *testing.T) {
	_, err := FromUpload([]byte{0xff, 0xfe, 0x00}, "text/plain", "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFromUploadExtensionFallback(t *testing.T) {
	// Empty and generic declared types defer to the filename extension.
	for _, declared := range []string{"", "application/octet-stream"} {
		text, err := FromUpload([]byte("plain text content"), declared, "NOTES.TXT")
		require.NoError(t, err, "declared type %q", declared)
		assert.Equal(t, "plain text content", text)
	}

	_, err := FromUpload([]byte("whatever"), "", "mystery.bin")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFromUploadDeclaredTypeBeatsExtension(t *testing.T) {
	// A specific declared type wins even when the extension disagrees.
	text, err := FromUpload([]byte("actually text"), "text/plain", "misleading.pdf")
	require.NoError(t, err)
	assert.Equal(t, "actually text", text)
}

func TestFromUploadCorruptPDF(t *testing.T) {
	_, err := FromUpload([]byte("%PDF-1.4 not really a pdf"), "application/pdf", "broken.pdf")
	assert.ErrorIs(t, err, ErrUnreadablePDF)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("application/pdf", "doc.bin"))
	assert.True(t, IsPDF("", "doc.pdf"))
	assert.True(t, IsPDF("application/octet-stream", "DOC.PDF"))
	assert.False(t, IsPDF("text/plain", "doc.pdf"))
	assert.False(t, IsPDF("", "doc.txt"))
}

func TestMaxUploadBytesIsThreeMiB(t *testing.T) {
	assert.Equal(t, 3*1024*1024, MaxUploadBytes)

	// Exactly at the ceiling is accepted.
	data := []byte(strings.Repeat("a", MaxUploadBytes))
	_, err := FromUpload(data, "text/plain", "big.txt")
	assert.NoError(t, err)
}

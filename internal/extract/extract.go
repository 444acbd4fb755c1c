package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxUploadBytes is the authoritative upload size ceiling (3 MiB).
const MaxUploadBytes = 3 << 20

var (
	// ErrUnsupportedType is returned for anything other than PDF or plain text.
	ErrUnsupportedType = errors.New("unsupported file type, only PDF and TXT are allowed")
	// ErrTooLarge is returned before any extraction work is attempted.
	ErrTooLarge = fmt.Errorf("file exceeds %dMB limit", MaxUploadBytes>>20)
	// ErrUnreadablePDF covers locked, corrupt, or text-free PDFs. It is a
	// client error, not a server error.
	ErrUnreadablePDF = errors.New("this PDF might be locked or unreadable, try another file")
)

// FromUpload classifies an uploaded payload by declared media type and
// filename, enforces the size ceiling, and returns its raw text.
//
// A specific declared type is authoritative; the filename extension is
// consulted only when the declared type is empty or generic.
func FromUpload(data []byte, declaredType, filename string) (string, error) {
	if int64(len(data)) > MaxUploadBytes {
		return "", ErrTooLarge
	}

	mediaType, err := resolveType(declaredType, filename)
	if err != nil {
		return "", err
	}

	switch mediaType {
	case "application/pdf":
		return pdfText(data)
	case "text/plain":
		if !utf8.Valid(data) {
			return "", ErrUnsupportedType
		}
		return string(data), nil
	default:
		return "", ErrUnsupportedType
	}
}

// IsPDF reports whether the declared type or filename identifies a PDF.
func IsPDF(declaredType, filename string) bool {
	mediaType, err := resolveType(declaredType, filename)
	return err == nil && mediaType == "application/pdf"
}

func resolveType(declaredType, filename string) (string, error) {
	// Some browsers send a bare type with parameters ("text/plain; charset=utf-8").
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	switch declared {
	case "application/pdf", "text/plain":
		return declared, nil
	case "", "application/octet-stream":
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".pdf":
			return "application/pdf", nil
		case ".txt":
			return "text/plain", nil
		}
		return "", ErrUnsupportedType
	default:
		return "", ErrUnsupportedType
	}
}

// pdfText extracts the plain text of a PDF held in memory.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", ErrUnreadablePDF
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", ErrUnreadablePDF
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", ErrUnreadablePDF
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", ErrUnreadablePDF
	}
	return buf.String(), nil
}

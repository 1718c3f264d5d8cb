package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// decode dispatches on the declared file type, with magic-byte sniffing as a
// cross-check so a mislabeled upload still decodes through the right path.
func decode(data []byte, fileType string) (string, error) {
	if len(data) == 0 {
		return "", &ErrDecode{Format: fileType, Cause: fmt.Errorf("empty file")}
	}

	switch {
	case fileType == "pdf" || isPDF(data):
		return decodePDF(data)
	case fileType == "docx" || isZip(data):
		return decodeDOCX(data)
	case fileType == "html" || looksLikeHTML(data):
		return decodeHTML(data)
	default:
		return decodeText(data, fileType)
	}
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(b[:min(len(b), 2048)])))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

// decodePDF merges the plain text of all pages.
func decodePDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ErrDecode{Format: "pdf", Cause: err}
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", &ErrDecode{Format: "pdf", Cause: err}
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", &ErrDecode{Format: "pdf", Cause: err}
	}
	text := collapseWhitespace(string(b))
	if text == "" {
		return "", &ErrDecode{Format: "pdf", Cause: fmt.Errorf("no text content")}
	}
	return text, nil
}

// decodeDOCX reads word/document.xml from the zip container and gathers the
// text runs (<w:t> elements).
func decodeDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ErrDecode{Format: "docx", Cause: err}
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", &ErrDecode{Format: "docx", Cause: err}
			}
			docXML, err = io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return "", &ErrDecode{Format: "docx", Cause: err}
			}
			break
		}
	}
	if docXML == nil {
		return "", &ErrDecode{Format: "docx", Cause: fmt.Errorf("word/document.xml not found in container")}
	}

	text := collapseWhitespace(gatherXMLText(docXML, "t"))
	if text == "" {
		return "", &ErrDecode{Format: "docx", Cause: fmt.Errorf("no text content")}
	}
	return text, nil
}

// gatherXMLText concatenates the character data of every element with the
// given local name.
func gatherXMLText(xmlBytes []byte, local string) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != local {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

// decodeHTML strips markup and returns the visible text.
func decodeHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ErrDecode{Format: "html", Cause: err}
	}
	doc.Find("script, style, noscript").Remove()
	text := collapseWhitespace(doc.Text())
	if text == "" {
		return "", &ErrDecode{Format: "html", Cause: fmt.Errorf("no text content")}
	}
	return text, nil
}

// decodeText treats the bytes as UTF-8 plain text. Invalid UTF-8 means this
// is some unsupported binary format rather than text.
func decodeText(data []byte, fileType string) (string, error) {
	if !utf8.Valid(data) {
		return "", &ErrDecode{Format: fileType, Cause: fmt.Errorf("content is not valid UTF-8 text")}
	}
	text := collapseWhitespace(string(data))
	if text == "" {
		return "", &ErrDecode{Format: fileType, Cause: fmt.Errorf("no text content")}
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

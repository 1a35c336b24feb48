package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mdoutline/internal/doctree"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// SupportedExtensions lists file extensions this service can import.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Importer turns uploaded documents into outline text written with Marker.
type Importer struct {
	Marker      byte
	PDFFallback bool // shell out to pdftotext when the PDF library fails
}

func (im Importer) marker() byte {
	if im.Marker == 0 {
		return '#'
	}
	return im.Marker
}

// ForFile returns the parser for a filename.
func (im Importer) ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: im.PDFFallback}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// Import reads the document in r and returns it as outline text. Plain text,
// and Markdown when the marker is '#', are taken verbatim.
func (im Importer) Import(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	markdown := ext == ".md" || ext == ".markdown"
	if ext == ".txt" || (markdown && im.marker() == '#') {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", filename, err)
		}
		return string(b), nil
	}

	p, err := im.ForFile(filename)
	if err != nil {
		return "", err
	}
	tree, err := p.Parse(r, filename)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", filename, err)
	}
	return doctree.Render(tree, im.marker()), nil
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func trimExt(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

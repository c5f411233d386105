// Package pdftest generates small PDF files for tests.
//
// The builder writes just enough structure for both parsers the service
// uses: a catalog, a page tree, one content stream per page, a base-14
// font with widths, and a computed cross-reference table. Text is placed
// at explicit coordinates so layout tests can assert on geometry without
// shipping binary fixtures.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Text is one positioned string on a page. Coordinates are PDF points
// with the origin at the bottom-left corner.
type Text struct {
	X, Y float64
	Size float64 // font size in points; zero means 12
	S    string  // WinAnsi-safe text
}

// Page is a set of positioned strings.
type Page struct {
	Texts []Text
}

// Info is the optional document information dictionary.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

// Every printable ASCII glyph advances half an em. Uniform widths keep
// the geometry predictable: a 12pt string is 6pt per character.
var fontDict = fmt.Sprintf(
	"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /FirstChar 32 /LastChar 126 /Widths [%s] /Encoding /WinAnsiEncoding >>",
	strings.TrimSpace(strings.Repeat("500 ", 95)))

// Build renders pages into a complete PDF file with a single xref table.
func Build(pages ...Page) []byte {
	return BuildWithInfo(nil, pages...)
}

// BuildWithInfo renders pages plus a document information dictionary.
func BuildWithInfo(info *Info, pages ...Page) []byte {
	type object struct {
		num  int
		body string
	}

	n := len(pages)
	maxObj := 3 + 2*n
	infoNum := 0
	if info != nil {
		maxObj++
		infoNum = maxObj
	}

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objs := []object{
		{1, "<< /Type /Catalog /Pages 2 0 R >>"},
		{2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)},
		{3, fontDict},
	}
	for i, p := range pages {
		pageNum := 4 + 2*i
		stream := contentStream(p)
		objs = append(objs,
			object{pageNum, fmt.Sprintf(
				"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
				pageNum+1)},
			object{pageNum + 1, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream)},
		)
	}
	if info != nil {
		objs = append(objs, object{infoNum, infoDict(info)})
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, maxObj+1)
	for _, o := range objs {
		offsets[o.num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", o.num, o.body)
	}

	// Cross-reference entries are exactly 20 bytes each.
	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObj+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= maxObj; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}

	buf.WriteString("trailer\n")
	if info != nil {
		fmt.Fprintf(&buf, "<< /Size %d /Root 1 0 R /Info %d 0 R >>\n", maxObj+1, infoNum)
	} else {
		fmt.Fprintf(&buf, "<< /Size %d /Root 1 0 R >>\n", maxObj+1)
	}
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOff)
	return buf.Bytes()
}

// contentStream renders the page's text placements. Each string gets its
// own BT/ET block with an absolute position.
func contentStream(p Page) string {
	var b strings.Builder
	for _, t := range p.Texts {
		size := t.Size
		if size == 0 {
			size = 12
		}
		fmt.Fprintf(&b, "BT /F1 %g Tf %g %g Td (%s) Tj ET\n", size, t.X, t.Y, escapeString(t.S))
	}
	return b.String()
}

func infoDict(info *Info) string {
	var b strings.Builder
	b.WriteString("<<")
	add := func(key, val string) {
		if val != "" {
			fmt.Fprintf(&b, " /%s (%s)", key, escapeString(val))
		}
	}
	add("Title", info.Title)
	add("Author", info.Author)
	add("Subject", info.Subject)
	add("Creator", info.Creator)
	add("Producer", info.Producer)
	b.WriteString(" >>")
	return b.String()
}

// escapeString escapes the characters PDF literal strings reserve.
func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}

// SimplePage lays lines out top to bottom at the left margin, spaced far
// enough apart to read as separate visual rows.
func SimplePage(lines ...string) Page {
	var p Page
	y := 720.0
	for _, line := range lines {
		p.Texts = append(p.Texts, Text{X: 72, Y: y, S: line})
		y -= 18
	}
	return p
}

// TablePage lays rows out on a fixed 150pt column grid, wide enough that
// the gaps between cells read as column boundaries.
func TablePage(rows [][]string) Page {
	var p Page
	y := 720.0
	for _, row := range rows {
		x := 72.0
		for _, cell := range row {
			if cell != "" {
				p.Texts = append(p.Texts, Text{X: x, Y: y, S: cell})
			}
			x += 150
		}
		y -= 20
	}
	return p
}

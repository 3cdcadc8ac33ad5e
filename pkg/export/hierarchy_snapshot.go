package export

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/stuxhq/stux/pkg/region"
)

// HierarchySnapshotOptions configures SaveHierarchySnapshot
type HierarchySnapshotOptions struct {
	Path     string
	Format   string // "svg" or "png"; inferred from Path when empty
	Registry *region.Registry
	Resolver *region.Resolver
	ActiveID string // highlighted together with its scope
	Title    string
}

const (
	snapRowHeight = 28
	snapIndent    = 28
	snapMargin    = 24
	snapNodeWidth = 300
	snapNodeH     = 20
	snapHeader    = 40
)

type palette struct {
	background string
	text       string
	muted      string
	edge       string
	node       string
	inScope    string
	selected   string
	inactive   string
}

var snapPalette = palette{
	background: "#ffffff",
	text:       "#1f2937",
	muted:      "#6b7280",
	edge:       "#9ca3af",
	node:       "#eef2ff",
	inScope:    "#d1fae5",
	selected:   "#a7f3d0",
	inactive:   "#fef3c7",
}

// SaveHierarchySnapshot renders the region hierarchy as an outline tree to
// an SVG or PNG file.
func SaveHierarchySnapshot(opts HierarchySnapshotOptions) error {
	if opts.Registry == nil {
		return fmt.Errorf("registry is required")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	res := opts.Resolver
	if res == nil {
		res = region.NewResolver(opts.Registry)
	}

	format, err := snapshotFormat(opts.Path, opts.Format)
	if err != nil {
		return err
	}

	layout := BuildLayout(res, opts.Registry, opts.ActiveID)
	title := opts.Title
	if title == "" {
		title = "Region hierarchy"
	}

	if dir := filepath.Dir(opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	switch format {
	case "svg":
		return saveSVG(opts.Path, title, layout)
	default:
		return savePNG(opts.Path, title, layout)
	}
}

func snapshotFormat(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "svg", "png":
		return format, nil
	case "":
		return "", fmt.Errorf("cannot infer snapshot format from %q; use .svg or .png", path)
	default:
		return "", fmt.Errorf("unsupported snapshot format %q (want svg or png)", format)
	}
}

func canvasSize(layout Layout) (int, int) {
	width := snapMargin*2 + layout.MaxDepth*snapIndent + snapNodeWidth
	height := snapMargin*2 + snapHeader + len(layout.Nodes)*snapRowHeight
	return width, height
}

func nodeBox(n Node) (x, y int) {
	return snapMargin + n.Depth*snapIndent, snapMargin + snapHeader + n.Row*snapRowHeight
}

func nodeFill(n Node) string {
	switch {
	case n.Selected:
		return snapPalette.selected
	case n.InScope:
		return snapPalette.inScope
	case !n.Active:
		return snapPalette.inactive
	default:
		return snapPalette.node
	}
}

func nodeCaption(n Node) string {
	if n.Status == "" {
		return n.Label
	}
	return n.Label + " · " + n.Status
}

func saveSVG(path, title string, layout Layout) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	width, height := canvasSize(layout)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(title)
	canvas.Rect(0, 0, width, height, "fill:"+snapPalette.background)
	canvas.Text(snapMargin, snapMargin+16, title,
		"font-family:sans-serif;font-size:16px;font-weight:bold;fill:"+snapPalette.text)

	edgeStyle := "stroke:" + snapPalette.edge + ";stroke-width:1"
	for _, n := range layout.Nodes {
		if n.Parent < 0 {
			continue
		}
		px, py := nodeBox(layout.Nodes[n.Parent])
		x, y := nodeBox(n)
		elbowX := px + snapIndent/2
		canvas.Line(elbowX, py+snapNodeH, elbowX, y+snapNodeH/2, edgeStyle)
		canvas.Line(elbowX, y+snapNodeH/2, x, y+snapNodeH/2, edgeStyle)
	}

	for _, n := range layout.Nodes {
		x, y := nodeBox(n)
		stroke := snapPalette.edge
		if n.Selected {
			stroke = snapPalette.text
		}
		canvas.Roundrect(x, y, snapNodeWidth, snapNodeH, 4, 4,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", nodeFill(n), stroke))
		canvas.Text(x+8, y+14, nodeCaption(n),
			"font-family:sans-serif;font-size:12px;fill:"+snapPalette.text)
	}

	canvas.End()
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func savePNG(path, title string, layout Layout) error {
	width, height := canvasSize(layout)
	dc := gg.NewContext(width, height)

	dc.SetColor(hexColor(snapPalette.background))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(hexColor(snapPalette.text))
	dc.DrawString(asciiCaption(title), snapMargin, snapMargin+16)

	dc.SetLineWidth(1)
	dc.SetColor(hexColor(snapPalette.edge))
	for _, n := range layout.Nodes {
		if n.Parent < 0 {
			continue
		}
		px, py := nodeBox(layout.Nodes[n.Parent])
		x, y := nodeBox(n)
		elbowX := float64(px + snapIndent/2)
		mid := float64(y + snapNodeH/2)
		dc.DrawLine(elbowX, float64(py+snapNodeH), elbowX, mid)
		dc.DrawLine(elbowX, mid, float64(x), mid)
		dc.Stroke()
	}

	for _, n := range layout.Nodes {
		x, y := nodeBox(n)
		dc.DrawRoundedRectangle(float64(x), float64(y), snapNodeWidth, snapNodeH, 4)
		dc.SetColor(hexColor(nodeFill(n)))
		dc.FillPreserve()
		if n.Selected {
			dc.SetColor(hexColor(snapPalette.text))
		} else {
			dc.SetColor(hexColor(snapPalette.edge))
		}
		dc.Stroke()

		dc.SetColor(hexColor(snapPalette.text))
		dc.DrawString(asciiCaption(nodeCaption(n)), float64(x+8), float64(y+14))
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// asciiCaption folds s onto the glyphs basicfont has: diacritics are
// stripped ("Việt Nam" -> "Viet Nam"), đ becomes d and anything else outside
// ASCII becomes '?'.
func asciiCaption(s string) string {
	s = strings.NewReplacer("·", "-", "Đ", "D", "đ", "d").Replace(s)
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, s)
}

func hexColor(hex string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

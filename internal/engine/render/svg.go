package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
)

const shadowFilter = "shadow"

// Document is an SVG rendering of a scene.
type Document struct {
	data []byte
}

// Bytes returns the SVG markup, nil once released.
func (d *Document) Bytes() []byte { return d.data }

// Release drops the markup.
func (d *Document) Release() { d.data = nil }

// SVGDrawer draws scenes as SVG documents.
type SVGDrawer struct{}

// Draw implements Drawer.
func (SVGDrawer) Draw(scene *Scene) (Artifact, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, scene); err != nil {
		return nil, err
	}
	return &Document{data: buf.Bytes()}, nil
}

// WriteSVG writes scene as a standalone SVG document. Layers are painted
// bottom up so the first layer ends on top, and tooltips become <title>
// elements.
func WriteSVG(w io.Writer, scene *Scene) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(int(math.Ceil(scene.Width)), int(math.Ceil(scene.Height)))

	canvas.Def()
	canvas.Filter(shadowFilter)
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic"}, 1.5, 1.5)
	canvas.Fend()
	canvas.DefEnd()

	for i := len(scene.Layers) - 1; i >= 0; i-- {
		l := scene.Layers[i]

		canvas.Group(groupAttrs(l)...)
		for _, sh := range l.Shapes {
			if sh.Tooltip != "" {
				canvas.Group()
				canvas.Title(sh.Tooltip)
			}
			if len(sh.Polygons) > 0 {
				canvas.Path(polygonPath(sh.Polygons), fillStyle(l.Style, sh.Fill))
			}
			if len(sh.Lines) > 0 {
				canvas.Path(linePath(sh.Lines), lineStyle(l.Style))
			}
			if sh.Tooltip != "" {
				canvas.Gend()
			}
		}
		canvas.Gend()
	}

	canvas.End()
	return ew.err
}

func groupAttrs(l SceneLayer) []string {
	attrs := []string{fmt.Sprintf(`id="%s"`, l.Name)}
	if l.Style.DX != 0 || l.Style.DY != 0 {
		attrs = append(attrs, fmt.Sprintf(`transform="translate(%s,%s)"`, num(l.Style.DX), num(l.Style.DY)))
	}
	var style []string
	if l.Style.Opacity > 0 && l.Style.Opacity < 1 {
		style = append(style, "opacity:"+num(l.Style.Opacity))
	}
	if l.Style.Blur > 0 {
		style = append(style, "filter:url(#"+shadowFilter+")")
	}
	if len(style) > 0 {
		attrs = append(attrs, strings.Join(style, ";"))
	}
	return attrs
}

func fillStyle(s Style, fill string) string {
	parts := []string{"fill-rule:evenodd"}
	if fill == "" {
		parts = append(parts, "fill:none")
	} else {
		parts = append(parts, "fill:"+fill)
		if s.FillOpacity > 0 && s.FillOpacity < 1 {
			parts = append(parts, "fill-opacity:"+num(s.FillOpacity))
		}
	}
	return strings.Join(append(parts, strokeStyle(s)...), ";")
}

func lineStyle(s Style) string {
	return strings.Join(append([]string{"fill:none"}, strokeStyle(s)...), ";")
}

func strokeStyle(s Style) []string {
	if s.Stroke == "" || s.StrokeWidth <= 0 {
		return []string{"stroke:none"}
	}
	parts := []string{"stroke:" + s.Stroke, "stroke-width:" + num(s.StrokeWidth)}
	if s.StrokeOpacity > 0 && s.StrokeOpacity < 1 {
		parts = append(parts, "stroke-opacity:"+num(s.StrokeOpacity))
	}
	return parts
}

func polygonPath(mp orb.MultiPolygon) string {
	var b strings.Builder
	for _, p := range mp {
		for _, r := range p {
			writePoints(&b, r)
			b.WriteString("Z")
		}
	}
	return b.String()
}

func linePath(mls orb.MultiLineString) string {
	var b strings.Builder
	for _, ls := range mls {
		writePoints(&b, ls)
	}
	return b.String()
}

func writePoints(b *strings.Builder, pts []orb.Point) {
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString("L")
		}
		b.WriteString(num(p[0]))
		b.WriteString(",")
		b.WriteString(num(p[1]))
	}
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// errWriter keeps the first write error, svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

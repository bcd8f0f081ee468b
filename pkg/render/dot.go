package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a layout's hop connectivity to Graphviz DOT format: one
// node per net per layer, edges following each net up the layer stack.
// The resulting DOT string can be rendered with [RenderDOTSVG] or
// [RenderDOTPNG].
func ToDOT(l *Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [fillcolor=lightgrey];\n", l.Cell)

	prev := map[string]string{}
	for _, w := range l.Wires {
		id := fmt.Sprintf("%s@M%d", w.Net, w.Layer)
		label := fmt.Sprintf("%s M%d\\n%dx pitch %d", w.Net, w.Layer, w.Count, w.Pitch)
		fmt.Fprintf(&buf, "  %q [label=\"%s\"];\n", id, label)

		from, ok := prev[w.Net]
		if !ok {
			from = l.Cell
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, id)
		prev[w.Net] = id
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.SVG, normalizeViewBox)
}

// RenderDOTPNG renders a DOT graph to PNG using Graphviz.
func RenderDOTPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG, nil)
}

func renderDOT(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's svg tag to a zero-origin viewBox
// with explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

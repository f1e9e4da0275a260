package stext

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/tablehunt/tablehunt/geometry"
)

// JSON export of the (mutated) page tree, for inspection and debugging.
// Output only; there is no unmarshaler and no format commitment.

func marshalRect(r geometry.Rect) []byte {
	if r.X0 > r.X1 || r.Y0 > r.Y1 {
		return []byte("null")
	}
	return []byte("[" +
		strconv.FormatFloat(float64(r.X0), 'f', 2, 32) + "," +
		strconv.FormatFloat(float64(r.Y0), 'f', 2, 32) + "," +
		strconv.FormatFloat(float64(r.X1), 'f', 2, 32) + "," +
		strconv.FormatFloat(float64(r.Y1), 'f', 2, 32) + "]")
}

type jsonRect geometry.Rect

func (r jsonRect) MarshalJSON() ([]byte, error) {
	return marshalRect(geometry.Rect(r)), nil
}

func (p *Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Blocks []*Block `json:"blocks"`
	}{collectBlocks(p.FirstBlock)})
}

func collectBlocks(first *Block) []*Block {
	var out []*Block
	for b := first; b != nil; b = b.Next {
		out = append(out, b)
	}
	return out
}

func (b *Block) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	switch b.Type {
	case BlockText:
		var lines []*Line
		for l := b.Text.FirstLine; l != nil; l = l.Next {
			lines = append(lines, l)
		}
		enc.Encode(struct {
			Type  string   `json:"type"`
			BBox  jsonRect `json:"bbox"`
			Lines []*Line  `json:"lines,omitempty"`
		}{"text", jsonRect(b.BBox), lines})
	case BlockVector:
		enc.Encode(struct {
			Type string   `json:"type"`
			BBox jsonRect `json:"bbox"`
		}{"vector", jsonRect(b.BBox)})
	case BlockStruct:
		enc.Encode(struct {
			Type   string   `json:"type"`
			BBox   jsonRect `json:"bbox"`
			Role   string   `json:"role"`
			Raw    string   `json:"raw,omitempty"`
			Index  int      `json:"index"`
			Blocks []*Block `json:"blocks,omitempty"`
		}{"struct", jsonRect(b.BBox), b.Struct.Role.String(), b.Struct.Raw, b.Index, collectBlocks(b.Struct.FirstBlock)})
	case BlockGrid:
		enc.Encode(struct {
			Type string         `json:"type"`
			BBox jsonRect       `json:"bbox"`
			XS   *GridPositions `json:"xs"`
			YS   *GridPositions `json:"ys"`
		}{"grid", jsonRect(b.BBox), b.Grid.XS, b.Grid.YS})
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

func (l *Line) MarshalJSON() ([]byte, error) {
	var text bytes.Buffer
	for ch := l.FirstChar; ch != nil; ch = ch.Next {
		text.WriteRune(ch.Codepoint)
	}
	return json.Marshal(struct {
		WMode int      `json:"wmode"`
		BBox  jsonRect `json:"bbox"`
		Text  string   `json:"text"`
	}{l.WMode, jsonRect(l.BBox), text.String()})
}

func (g *GridPositions) MarshalJSON() ([]byte, error) {
	type pos struct {
		Pos           float32 `json:"pos"`
		Min           float32 `json:"min"`
		Max           float32 `json:"max"`
		Uncertainty   int     `json:"uncertainty"`
		Reinforcement int     `json:"reinforcement"`
	}
	out := struct {
		MaxUncertainty int   `json:"max_uncertainty"`
		List           []pos `json:"list"`
	}{MaxUncertainty: g.MaxUncertainty}
	for _, p := range g.List {
		out.List = append(out.List, pos{p.Pos, p.Min, p.Max, p.Uncertainty, p.Reinforcement})
	}
	return json.Marshal(out)
}

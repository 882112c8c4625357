package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/guidebook/core/style"
)

func TestDocument_Images(t *testing.T) {
	a := &Image{Name: "a.png"}
	b := &Image{Name: "b.png"}
	c := &Image{Name: "c.jpg"}

	doc := &Document{Sections: []Section{
		{ID: "cover", Blocks: []Block{
			Body(Plain("x")),
			&Table{Rows: [][]Cell{{{Blocks: []Block{a}}, TextCell(style.AlignCenter, Plain("y"))}}},
		}},
		{ID: "E", Blocks: []Block{
			&PageBreak{},
			NewBox(style.BoxInfo, b, NewSideBox(style.BoxTip, c)),
		}},
	}}

	var names []string
	for _, img := range doc.Images() {
		names = append(names, img.Name)
	}
	assert.Equal(t, []string{"a.png", "b.png", "c.jpg"}, names)
	assert.Len(t, doc.Blocks(), 4)
}

func TestWalk(t *testing.T) {
	tbl := &Table{
		Header: []Cell{TextCell("", Plain("h"))},
		Rows:   [][]Cell{{TextCell("", Plain("r"))}},
	}
	var n int
	Walk([]Block{tbl, &Rule{}}, func(Block) { n++ })
	assert.Equal(t, 4, n) // table, header paragraph, row paragraph, rule
}

func TestText(t *testing.T) {
	assert.Equal(t, "Part A: PYQ", Text([]Run{Bold("Part A: ", ""), Plain("PYQ")}))
	assert.Equal(t, "", Text(nil))
}

func TestImage_Sized(t *testing.T) {
	img := Image{Name: "map.png", PxWidth: 1600, PxHeight: 1200}
	got := img.Sized(4)
	assert.Equal(t, 4.0, got.Width)
	assert.Equal(t, 3.0, got.Height)
	assert.Equal(t, 0.0, img.Width, "original is unchanged")

	square := Image{}.Sized(1.3)
	assert.InDelta(t, 0.975, square.Height, 1e-9)
}

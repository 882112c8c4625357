package chapter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrPartNotFound     = errors.New("part not found")
	ErrPartNotRemovable = errors.New("this part cannot be disabled")
	ErrPartNotCustom    = errors.New("only custom parts can be removed")

	StandardPartIDs = []string{"A", "B", "C", "D", "E", "F", "G"}

	defaultParts = Parts{
		{ID: "A", Name: "PYQ Analysis", Description: "10-year data with predictions and syllabus note", Enabled: true, Order: 1},
		{ID: "B", Name: "Key Concepts", Description: "Core topics with memory tricks and exam-focused explanations", Enabled: true, Order: 2},
		{ID: "C", Name: "Model Answers", Description: "Examiner-approved answers with marking scheme", Enabled: true, Removable: true, Order: 3},
		{ID: "D", Name: "Practice Questions", Description: "MCQs, AR, SA, LA, HOTS, CBQs with answer hints", Enabled: true, Removable: true, Order: 4},
		{ID: "E", Name: "Map Work", Description: "CBSE prescribed locations and marking tips", Enabled: true, Removable: true, Order: 5},
		{ID: "F", Name: "Quick Revision", Description: "One-page summary, memory tricks compilation, key dates", Enabled: true, Removable: true, Order: 6},
		{ID: "G", Name: "Exam Strategy", Description: "Time management, marking scheme insights, last-minute tips", Enabled: true, Removable: true, Order: 7},
	}
)

// Part is one section of the guide. Standard parts A-G always render in that order;
// custom parts follow G in their own order.
type Part struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"max=100"`
	Description string `json:"description" validate:"max=300"`
	Enabled     bool   `json:"enabled"`
	Removable   bool   `json:"removable"`
	Custom      bool   `json:"custom"`
	Order       int    `json:"order"`
}

type Parts []Part

// DefaultParts returns a fresh copy of the standard parts.
func DefaultParts() Parts {
	parts := make(Parts, len(defaultParts))
	copy(parts, defaultParts)
	return parts
}

// DefaultPartsFor returns the standard parts named after the subject, e.g. "Formula Sheet" for mathematics.
func DefaultPartsFor(subject string) Parts {
	subj := LookupSubject(subject)
	parts := DefaultParts()
	for i := range parts {
		parts[i].Name = subj.PartName(parts[i].ID)
	}
	return parts
}

// Sorted returns the parts in rendering order: standard parts by id, then custom parts by order.
func (ps Parts) Sorted() Parts {
	sorted := make(Parts, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Custom != b.Custom {
			return !a.Custom
		}
		if !a.Custom {
			return a.ID < b.ID
		}
		return a.Order < b.Order
	})
	return sorted
}

// Enabled returns the enabled parts in rendering order.
func (ps Parts) Enabled() Parts {
	var enabled Parts
	for _, p := range ps.Sorted() {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// EnabledIDs returns the ids of the enabled parts in rendering order.
func (ps Parts) EnabledIDs() []string {
	var ids []string
	for _, p := range ps.Enabled() {
		ids = append(ids, p.ID)
	}
	return ids
}

// IsEnabled reports whether the part exists and is enabled.
func (ps Parts) IsEnabled(id string) bool {
	i := ps.index(id)
	return i >= 0 && ps[i].Enabled
}

func (ps Parts) Get(id string) (Part, error) {
	if i := ps.index(id); i >= 0 {
		return ps[i], nil
	}
	return Part{}, ErrPartNotFound
}

func (ps Parts) index(id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (ps Parts) Enable(id string) error {
	i := ps.index(id)
	if i < 0 {
		return ErrPartNotFound
	}
	ps[i].Enabled = true
	return nil
}

// Disable turns a part off. Parts A and B are always kept.
func (ps Parts) Disable(id string) error {
	i := ps.index(id)
	if i < 0 {
		return ErrPartNotFound
	}
	if !ps[i].Removable {
		return ErrPartNotRemovable
	}
	ps[i].Enabled = false
	return nil
}

// Toggle flips a part and returns its new state.
func (ps Parts) Toggle(id string) (bool, error) {
	i := ps.index(id)
	if i < 0 {
		return false, ErrPartNotFound
	}
	if ps[i].Enabled {
		if err := ps.Disable(id); err != nil {
			return true, err
		}
		return false, nil
	}
	ps[i].Enabled = true
	return true, nil
}

// AddCustom appends an enabled custom part with the next free id H..Z (CUSTOM_n once exhausted).
func (ps *Parts) AddCustom(name, description string) Part {
	var (
		nextID   string
		maxOrder int
		customs  int
	)
	for _, p := range *ps {
		if p.Order > maxOrder {
			maxOrder = p.Order
		}
		if p.Custom {
			customs++
		}
	}
	for c := 'H'; c <= 'Z'; c++ {
		if ps.index(string(c)) < 0 {
			nextID = string(c)
			break
		}
	}
	if nextID == "" {
		nextID = fmt.Sprintf("CUSTOM_%d", customs+1)
		for n := customs + 2; ps.index(nextID) >= 0; n++ {
			nextID = fmt.Sprintf("CUSTOM_%d", n)
		}
	}

	p := Part{
		ID:          nextID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Enabled:     true,
		Removable:   true,
		Custom:      true,
		Order:       maxOrder + 1,
	}
	*ps = append(*ps, p)
	return p
}

// Remove deletes a custom part.
func (ps *Parts) Remove(id string) error {
	i := ps.index(id)
	if i < 0 {
		return ErrPartNotFound
	}
	if !(*ps)[i].Custom {
		return ErrPartNotCustom
	}
	*ps = append((*ps)[:i], (*ps)[i+1:]...)
	return nil
}

// Rename changes a part display name; blank names are ignored.
func (ps Parts) Rename(id, name string) error {
	i := ps.index(id)
	if i < 0 {
		return ErrPartNotFound
	}
	if name = strings.TrimSpace(name); name != "" {
		ps[i].Name = name
	}
	return nil
}

func (ps Parts) Describe(id, description string) error {
	i := ps.index(id)
	if i < 0 {
		return ErrPartNotFound
	}
	ps[i].Description = strings.TrimSpace(description)
	return nil
}

// Move swaps a custom part with its previous (up) or next (down) custom neighbour.
// It returns false when the part is already at that end or is a standard part.
func (ps Parts) Move(id string, up bool) (bool, error) {
	i := ps.index(id)
	if i < 0 {
		return false, ErrPartNotFound
	}
	if !ps[i].Custom {
		return false, nil
	}

	var customs []int // indexes of custom parts, by order
	for j, p := range ps {
		if p.Custom {
			customs = append(customs, j)
		}
	}
	sort.SliceStable(customs, func(a, b int) bool { return ps[customs[a]].Order < ps[customs[b]].Order })

	for pos, j := range customs {
		if j != i {
			continue
		}
		other := pos + 1
		if up {
			other = pos - 1
		}
		if other < 0 || other >= len(customs) {
			return false, nil
		}
		k := customs[other]
		ps[i].Order, ps[k].Order = ps[k].Order, ps[i].Order
		return true, nil
	}
	return false, nil
}

// Reorder sets custom parts order following ids; unknown and standard ids are ignored.
func (ps Parts) Reorder(ids []string) {
	order := len(StandardPartIDs)
	for _, id := range ids {
		if i := ps.index(id); i >= 0 && ps[i].Custom {
			order++
			ps[i].Order = order
		}
	}
}

// Counts returns the number of parts, enabled parts and custom parts.
func (ps Parts) Counts() (total, enabled, custom int) {
	for _, p := range ps {
		total++
		if p.Enabled {
			enabled++
		}
		if p.Custom {
			custom++
		}
	}
	return total, enabled, custom
}

// Normalize restores missing standard parts (older files) and the fixed flags of standard parts.
func (ps *Parts) Normalize() {
	for _, def := range defaultParts {
		i := ps.index(def.ID)
		if i < 0 {
			*ps = append(*ps, def)
			continue
		}
		(*ps)[i].Custom = false
		(*ps)[i].Removable = def.Removable
		(*ps)[i].Order = def.Order
		if !def.Removable {
			(*ps)[i].Enabled = true
		}
		if (*ps)[i].Name == "" {
			(*ps)[i].Name = def.Name
		}
	}
}

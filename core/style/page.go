package style

const (
	NumberBottomCenter = "Bottom Center"
	NumberBottomLeft   = "Bottom Left"
	NumberBottomRight  = "Bottom Right"

	DefaultPageSize = "A4"
)

var (
	pageSizes = []PageSize{
		{Name: "A4", Width: 8.27, Height: 11.69},
		{Name: "A5", Width: 5.83, Height: 8.27},
		{Name: "Letter", Width: 8.5, Height: 11},
		{Name: "Legal", Width: 8.5, Height: 14},
	}

	NumberPositions = []string{NumberBottomCenter, NumberBottomRight, NumberBottomLeft}
)

// PageSizeNames lists the supported page sizes.
func PageSizeNames() []string {
	names := make([]string, 0, len(pageSizes))
	for _, ps := range pageSizes {
		names = append(names, ps.Name)
	}
	return names
}

// LookupPageSize returns the named page size, A4 for unknown names.
func LookupPageSize(name string) PageSize {
	for _, ps := range pageSizes {
		if ps.Name == name {
			return ps
		}
	}
	return pageSizes[0]
}

// IsPageSize reports whether name is a supported page size.
func IsPageSize(name string) bool {
	for _, ps := range pageSizes {
		if ps.Name == name {
			return true
		}
	}
	return false
}

// NumberAlign maps a page number position to a footer alignment, centered for unknown positions.
func NumberAlign(position string) Align {
	switch position {
	case NumberBottomLeft:
		return AlignLeft
	case NumberBottomRight:
		return AlignRight
	}
	return AlignCenter
}

// IsNumberPosition reports whether position is a supported page number position.
func IsNumberPosition(position string) bool {
	for _, p := range NumberPositions {
		if p == position {
			return true
		}
	}
	return false
}

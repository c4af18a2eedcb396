package model

import "math"

type SizeCategory string

const (
	SizeVerySmall SizeCategory = "Very Small"
	SizeSmall     SizeCategory = "Small"
	SizeMedium    SizeCategory = "Medium"
	SizeLarge     SizeCategory = "Large"
	SizeVeryLarge SizeCategory = "Very Large"
	SizeUnknown   SizeCategory = "Unknown"
)

// SizeBin is a closed range of member counts. Max of math.MaxInt means unbounded.
type SizeBin struct {
	Category SizeCategory
	Min      int
	Max      int
}

// SizeBins are ordered, exhaustive for counts >= 2 and non-overlapping
var SizeBins = []SizeBin{
	{Category: SizeVerySmall, Min: 2, Max: 4},
	{Category: SizeSmall, Min: 5, Max: 8},
	{Category: SizeMedium, Min: 9, Max: 15},
	{Category: SizeLarge, Min: 16, Max: 24},
	{Category: SizeVeryLarge, Min: 25, Max: math.MaxInt},
}

// CategorizeMemberCount returns SizeUnknown for counts below the first bin
func CategorizeMemberCount(n int) SizeCategory {
	for _, bin := range SizeBins {
		if bin.Min <= n && n <= bin.Max {
			return bin.Category
		}
	}
	return SizeUnknown
}

package model

// AspectRatio selects the dimensions requested from the generation service.
type AspectRatio string

const (
	Ratio1x1    AspectRatio = "1:1"
	Ratio2x3    AspectRatio = "2:3"
	Ratio4x3    AspectRatio = "4:3"
	Ratio9x16   AspectRatio = "9:16"
	Ratio16x9   AspectRatio = "16:9"
	Ratio16x7   AspectRatio = "16:7"
	RatioCustom AspectRatio = "custom"
)

// legacyCustomLabel is how older settings files spell RatioCustom.
const legacyCustomLabel = "自定义"

const (
	// MinDimension is the smallest side the service accepts for custom sizes.
	MinDimension = 500

	// DefaultDimension is used for 1:1 and for anything unrecognised.
	DefaultDimension = 1024
)

var ratioDimensions = map[AspectRatio][2]int{
	Ratio1x1:  {1024, 1024},
	Ratio2x3:  {683, 1024},
	Ratio4x3:  {1024, 768},
	Ratio9x16: {576, 1024},
	Ratio16x9: {1024, 576},
	Ratio16x7: {1024, 448},
}

// AspectRatios returns every selectable ratio in display order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{Ratio1x1, Ratio2x3, Ratio4x3, Ratio9x16, Ratio16x9, Ratio16x7, RatioCustom}
}

// ParseAspectRatio maps a stored or typed label to an AspectRatio.
// The boolean is false for labels that are not in the table.
func ParseAspectRatio(s string) (AspectRatio, bool) {
	if s == legacyCustomLabel {
		return RatioCustom, true
	}
	r := AspectRatio(s)
	if r == RatioCustom {
		return r, true
	}
	if _, ok := ratioDimensions[r]; ok {
		return r, true
	}
	return "", false
}

// Dimensions returns the predefined size for r. RatioCustom and unknown
// ratios return the 1024x1024 default; use ResolveDimensions for custom sizes.
func (r AspectRatio) Dimensions() (width, height int) {
	if d, ok := ratioDimensions[r]; ok {
		return d[0], d[1]
	}
	return DefaultDimension, DefaultDimension
}

// ResolveDimensions returns the size to request for r. Custom sizes are
// clamped up to MinDimension on each side.
func ResolveDimensions(r AspectRatio, customWidth, customHeight int) (width, height int) {
	if r == RatioCustom {
		return ClampDimension(customWidth), ClampDimension(customHeight)
	}
	return r.Dimensions()
}

// ClampDimension raises v to MinDimension if it is smaller.
func ClampDimension(v int) int {
	return max(v, MinDimension)
}

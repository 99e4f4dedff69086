package emoji

import (
	"strings"
)

// https://unicode.org/emoji/charts/full-emoji-list.html
const (
	HalfEclipse  = "🌓"
	ThirdEclipse = "🌒"
	FullEclipse  = "🌑"
	FirstEclipse = "🌔"
	FullMoon     = "🌕"
	SunFace      = "🌞"
	Star         = "🌟"

	Error = "🚫"
	Done  = "🏁"
	Reuse = "♻"
	Train = "🏋"
)

// MapBool maps a phase outcome to an emoji.
func MapBool(ok bool) string {
	if ok {
		return Done
	}
	return Error
}

// MapTrained maps whether a model was trained or reused for an experiment.
func MapTrained(trained bool) string {
	if trained {
		return Train
	}
	return Reuse
}

// MapScore maps a score in [0,1] to a moon phase.
// Values outside the range are clipped.
func MapScore(value float64) string {
	switch {
	case value >= 0.9:
		return Star
	case value >= 0.8:
		return SunFace
	case value >= 0.7:
		return FullMoon
	case value >= 0.6:
		return FirstEclipse
	case value >= 0.4:
		return HalfEclipse
	case value >= 0.2:
		return ThirdEclipse
	}
	return FullEclipse
}

// MapScores maps each score and joins the symbols.
func MapScores(values ...float64) string {
	symbols := make([]string, len(values))
	for i, v := range values {
		symbols[i] = MapScore(v)
	}
	return strings.Join(symbols, " ")
}

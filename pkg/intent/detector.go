// Package intent guesses the crop and affected plant part from the farmer's
// free-text description using fixed keyword tables. Both detectors are pure
// functions; scoring is a case-insensitive substring count per category and
// ties go to the first-declared category.
package intent

import "strings"

const (
	// CropOther is returned when no crop keyword matches.
	CropOther = "other"
	// PartLeaf is the default plant part; leaves are the most common
	// symptom location, so it is the safe guess.
	PartLeaf = "leaf"
)

type category struct {
	label    string
	keywords []string
}

var cropTable = []category{
	{"tomato", []string{"tomato", "tomatoes", "solanum", "nightshade"}},
	{"corn", []string{"corn", "maize", "zea mays", "grain", "stalk"}},
	{"cotton", []string{"cotton", "gossypium", "boll", "fiber"}},
	{"wheat", []string{"wheat", "grain", "triticum", "cereal"}},
	{"rice", []string{"rice", "paddy", "oryza", "grain"}},
	{"potato", []string{"potato", "spud", "solanum tuberosum", "tuber"}},
	{"cabbage", []string{"cabbage", "brassica", "cruciferous", "leafy"}},
	{"pepper", []string{"pepper", "capsicum", "chili", "bell"}},
}

var partTable = []category{
	{"leaf", []string{"leaf", "leaves", "foliage", "canopy", "yellowing", "spots", "discoloration", "necrosis"}},
	{"stem", []string{"stem", "stalk", "branch", "trunk", "bark", "girdling", "lesion"}},
	{"fruit", []string{"fruit", "pod", "boll", "ear", "head", "grain", "rot", "crack", "deform"}},
	{"soil", []string{"soil", "root", "ground", "earth", "wilting", "wilt", "moisture", "dry"}},
	{"insect/pest", []string{"insect", "pest", "bug", "worm", "beetle", "aphid", "caterpillar", "hole", "webbing", "egg"}},
}

// DetectCrop returns the crop label whose keywords occur most often in text,
// or CropOther when nothing matches.
func DetectCrop(text string) string {
	return detect(text, cropTable, CropOther)
}

// DetectPlantPart returns the plant-part label whose keywords occur most
// often in text, or PartLeaf when nothing matches.
func DetectPlantPart(text string) string {
	return detect(text, partTable, PartLeaf)
}

func detect(text string, table []category, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	lowered := strings.ToLower(text)

	best := fallback
	bestScore := 0
	for _, cat := range table {
		score := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		// strictly greater keeps the first-declared category on ties
		if score > bestScore {
			best = cat.label
			bestScore = score
		}
	}
	return best
}

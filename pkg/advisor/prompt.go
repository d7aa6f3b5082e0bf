package advisor

import (
	"fmt"
	"strings"
)

const systemInstruction = "You are an experienced field agronomist helping a farmer."

// partHints maps the detected plant part to a short sentence telling the
// model what to look for in the photo.
var partHints = map[string]string{
	"leaf":        "Look for spots, discoloration, mildew, or curling on the leaf surface.",
	"stem":        "Look for lesions, girdling, cankers, or breakage along the stem.",
	"fruit":       "Look for rot, cracking, deformation, or discoloration on the fruit.",
	"soil":        "Look for dryness, crusting, waterlogging, or exposed roots at the soil line.",
	"insect/pest": "Look for visible insects, eggs, webbing, or chewing damage.",
}

const defaultPartHint = "Look for anything abnormal in the affected area."

func partHint(part string) string {
	if hint, ok := partHints[part]; ok {
		return hint
	}
	return defaultPartHint
}

// buildPrompt composes the single structured user prompt: region, weather
// summary, crop, plant part, the farmer's own words, the image hint, and
// five fixed instructions.
func buildPrompt(farmerText, crop, part, region, weatherSummary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Region: %s\n", region)
	fmt.Fprintf(&b, "Weather context: %s\n\n", weatherSummary)
	fmt.Fprintf(&b, "Crop: %s\n", crop)
	fmt.Fprintf(&b, "Plant part shown in the image: %s\n", part)
	fmt.Fprintf(&b, "Image hint: %s\n\n", partHint(part))
	fmt.Fprintf(&b, "Farmer said:\n\"\"\"%s\"\"\"\n\n", farmerText)
	b.WriteString("Your job:\n")
	b.WriteString("1. Identify the most likely cause: disease, pest, nutrient deficiency, water stress, or other.\n")
	b.WriteString("2. Explain the issue using the weather context (fungal risk, heat stress, spray wash-off).\n")
	b.WriteString("3. Give 3-5 low-cost numbered actions, starting with the lowest-risk ones.\n")
	b.WriteString("4. If you mention chemicals, say they must confirm with a local agronomist first.\n")
	b.WriteString("5. If you are unsure, clearly say so and tell them to take a sample to an agronomist.\n\n")
	b.WriteString("Return plain text, farmer-friendly language.")
	return b.String()
}

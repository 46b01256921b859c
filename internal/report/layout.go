package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLayout is returned by ParseLayout for unsupported names.
var ErrUnknownLayout = errors.New("unknown report layout")

// Layout selects the report's structure and styling.
type Layout string

const (
	// LayoutSummary lists each routine with the product's reason.
	LayoutSummary Layout = "summary"
	// LayoutPrescription shows AM/PM columns with step-by-step usage plans.
	LayoutPrescription Layout = "prescription"
)

// Layouts lists the supported layouts.
var Layouts = []Layout{LayoutSummary, LayoutPrescription}

// ParseLayout resolves a layout name, case-insensitively.
func ParseLayout(name string) (Layout, error) {
	l := Layout(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Layouts {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

func (l Layout) String() string { return string(l) }

// copyText is the fixed prose each layout carries.
type copyText struct {
	documentTitle string
	intro         string
	noGoals       string
	tips          []string
	disclaimer    string
}

var layoutCopy = map[Layout]copyText{
	LayoutSummary: {
		documentTitle: "%s Doctor's Report",
		intro:         "Welcome to your tailored skincare journey! This routine is meticulously crafted based on your AI analysis and goals. Consistency is key to achieving a clearer, more radiant complexion.",
		noGoals:       "Maintenance and general health.",
		tips: []string{
			"Stay hydrated by drinking plenty of water.",
			"Maintain a balanced diet rich in antioxidants.",
			"Prioritize 7-9 hours of quality sleep.",
			"Manage stress through meditation or exercise.",
		},
		disclaimer: "This report is generated by AI for informational purposes only. It does not constitute medical advice, diagnosis, or treatment. Always seek the advice of a dermatologist or other qualified health provider with any questions you may have regarding a medical condition.",
	},
	LayoutPrescription: {
		documentTitle: "%s Personalized Plan",
		intro:         "Welcome to your personalized skincare journey! Based on your skin analysis, we’ve created a targeted routine designed to address your concerns effectively. Consistency and patience are key to visible results.",
		noGoals:       "Maintain healthy, balanced skin",
		tips: []string{
			"Maintain a balanced diet rich in antioxidants.",
			"Stay hydrated by drinking adequate water daily.",
			"Manage stress through meditation or exercise.",
			"Change pillowcases regularly to reduce bacterial buildup.",
			"Avoid picking active breakouts to prevent scarring.",
		},
		disclaimer: "This skincare routine is a personalized AI-based recommendation. Individual results may vary. Always perform a patch test before introducing new products. Consult a dermatologist if irritation or adverse reactions occur. This is not a substitute for professional medical advice.",
	},
}

// Package report assembles a personalised skincare/haircare report as a
// printable HTML document.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"skincare-report/internal/usage"

	"gopkg.in/yaml.v3"
)

// ErrMissingProductName is returned when a recommended product has no name.
var ErrMissingProductName = errors.New("product name is required")

// Condition is a single finding of the skin/hair analysis.
type Condition struct {
	Name       string  `json:"name" yaml:"name"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Location   string  `json:"location" yaml:"location"`
}

// AnalysisCategory groups analysis findings, e.g. "Acne" or "Hair Loss".
type AnalysisCategory struct {
	Category   string      `json:"category" yaml:"category"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}

// Recommendation is a named list of products, e.g. "Morning Routine".
type Recommendation struct {
	Category string          `json:"category" yaml:"category"`
	Products []usage.Product `json:"products" yaml:"products"`
}

// UserInfo identifies who the report is for.
type UserInfo struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Request is everything a report is built from. A nil Analysis means no
// analysis was run; an empty one means it found nothing.
type Request struct {
	Analysis        []AnalysisCategory `json:"analysis" yaml:"analysis"`
	Recommendations []Recommendation   `json:"recommendations" yaml:"recommendations"`
	Goals           []string           `json:"goals,omitempty" yaml:"goals,omitempty"`
	User            UserInfo           `json:"user" yaml:"user"`
	Image           string             `json:"image,omitempty" yaml:"image,omitempty"`
}

// DecodeRequest reads a YAML or JSON encoded request.
func DecodeRequest(r io.Reader) (Request, error) {
	var req Request
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return Request{}, fmt.Errorf("failed to decode report request: empty document")
		}
		return Request{}, fmt.Errorf("failed to decode report request: %w", err)
	}
	return req, nil
}

// Validate reports every product without a name.
func (r Request) Validate() error {
	var errs []error
	for i, rec := range r.Recommendations {
		for j, p := range rec.Products {
			if strings.TrimSpace(p.Name) == "" {
				errs = append(errs, fmt.Errorf("%w: %q product #%d", ErrMissingProductName, recLabel(rec, i), j+1))
			}
		}
	}
	return errors.Join(errs...)
}

// ProductCount is the number of products across all recommendations.
func (r Request) ProductCount() int {
	n := 0
	for _, rec := range r.Recommendations {
		n += len(rec.Products)
	}
	return n
}

// Routine returns the products of the first recommendation in category.
func (r Request) Routine(category string) []usage.Product {
	for _, rec := range r.Recommendations {
		if rec.Category == category {
			return rec.Products
		}
	}
	return nil
}

func recLabel(rec Recommendation, i int) string {
	if rec.Category != "" {
		return rec.Category
	}
	return fmt.Sprintf("recommendation #%d", i+1)
}

// FirstName is the part of the user's name before the first space, or
// "User" when no name was given.
func FirstName(u UserInfo) string {
	if u.Name == "" {
		return "User"
	}
	first, _, _ := strings.Cut(u.Name, " ")
	return first
}

// MainConcern is the first analysis category, or "Skin & Hair".
func MainConcern(analysis []AnalysisCategory) string {
	if len(analysis) > 0 {
		return analysis[0].Category
	}
	return "Skin & Hair"
}

// Title is the personalised report heading.
func Title(req Request) string {
	return fmt.Sprintf("%s's Personalized %s Plan", FirstName(req.User), MainConcern(req.Analysis))
}

const jpegDataPrefix = "data:image/jpeg;base64,"

// ImageSource turns raw base64 image data into a data URL. Values that are
// already data URLs, and empty values, are returned unchanged.
func ImageSource(img string) string {
	if img == "" || strings.HasPrefix(img, "data:") {
		return img
	}
	return jpegDataPrefix + img
}

var routineTags = map[string]struct{}{
	"Cleanser":        {},
	"Serum":           {},
	"Moisturizer":     {},
	"Sunscreen":       {},
	"Morning Routine": {},
	"Evening Routine": {},
	"Treatment":       {},
}

var defaultIngredients = []string{"Hyaluronic Acid", "Niacinamide"}

// KeyIngredients collects the distinct product tags that name an active
// ingredient rather than a routine step, in first-seen order.
func KeyIngredients(recs []Recommendation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range recs {
		for _, p := range rec.Products {
			for _, tag := range p.Tags {
				if tag == "" {
					continue
				}
				if _, skip := routineTags[tag]; skip {
					continue
				}
				if _, dup := seen[tag]; dup {
					continue
				}
				seen[tag] = struct{}{}
				out = append(out, tag)
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultIngredients...)
	}
	return out
}

// RoutineHeading is the display heading of a recommendation category.
func RoutineHeading(category string) string {
	switch category {
	case "Morning Routine":
		return "AM Routine ☀️"
	case "Evening Routine":
		return "PM Routine 🌙"
	}
	return category
}

// Percent rounds a confidence score to a whole percentage, halves up.
func Percent(confidence float64) int {
	return int(math.Floor(confidence + 0.5))
}

package report

import (
	"errors"
	"strings"
	"testing"

	"skincare-report/internal/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "FullName",
			req: Request{
				User:     UserInfo{Name: "Priya Sharma"},
				Analysis: []AnalysisCategory{{Category: "Acne"}, {Category: "Pigmentation"}},
			},
			want: "Priya's Personalized Acne Plan",
		},
		{
			name: "NoName",
			req:  Request{Analysis: []AnalysisCategory{{Category: "Hair Loss"}}},
			want: "User's Personalized Hair Loss Plan",
		},
		{
			name: "NoAnalysis",
			req:  Request{User: UserInfo{Name: "Arjun"}},
			want: "Arjun's Personalized Skin & Hair Plan",
		},
		{
			name: "EmptyAnalysis",
			req:  Request{User: UserInfo{Name: "Arjun"}, Analysis: []AnalysisCategory{}},
			want: "Arjun's Personalized Skin & Hair Plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.req))
		})
	}
}

func TestImageSource(t *testing.T) {
	assert.Equal(t, "", ImageSource(""))
	assert.Equal(t, "data:image/jpeg;base64,QUJD", ImageSource("QUJD"))
	assert.Equal(t, "data:image/png;base64,QUJD", ImageSource("data:image/png;base64,QUJD"))
}

func TestKeyIngredients(t *testing.T) {
	t.Run("FiltersRoutineTags", func(t *testing.T) {
		recs := []Recommendation{
			{Category: "Morning Routine", Products: []usage.Product{
				{Name: "A", Tags: []string{"Cleanser", "Salicylic Acid"}},
				{Name: "B", Tags: []string{"Serum", "Niacinamide", "Treatment"}},
			}},
			{Category: "Evening Routine", Products: []usage.Product{
				{Name: "C", Tags: []string{"Retinol", "Salicylic Acid", "Moisturizer"}},
			}},
		}
		assert.Equal(t, []string{"Salicylic Acid", "Niacinamide", "Retinol"}, KeyIngredients(recs))
	})

	t.Run("Fallback", func(t *testing.T) {
		recs := []Recommendation{{Products: []usage.Product{{Name: "A", Tags: []string{"Cleanser"}}}}}
		assert.Equal(t, []string{"Hyaluronic Acid", "Niacinamide"}, KeyIngredients(recs))
		assert.Equal(t, []string{"Hyaluronic Acid", "Niacinamide"}, KeyIngredients(nil))
	})
}

func TestRoutineHeading(t *testing.T) {
	assert.Equal(t, "AM Routine ☀️", RoutineHeading("Morning Routine"))
	assert.Equal(t, "PM Routine 🌙", RoutineHeading("Evening Routine"))
	assert.Equal(t, "Weekly Mask", RoutineHeading("Weekly Mask"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 87, Percent(86.5))
	assert.Equal(t, 86, Percent(86.49))
	assert.Equal(t, 0, Percent(0))
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := Request{Recommendations: []Recommendation{
			{Category: "Morning Routine", Products: []usage.Product{{Name: "Cleanser"}}},
		}}
		assert.NoError(t, req.Validate())
	})

	t.Run("MissingNames", func(t *testing.T) {
		req := Request{Recommendations: []Recommendation{
			{Category: "Morning Routine", Products: []usage.Product{{Name: "Cleanser"}, {Name: "  "}}},
			{Products: []usage.Product{{Tags: []string{"Serum"}}}},
		}}

		err := req.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingProductName))
		assert.Contains(t, err.Error(), `"Morning Routine" product #2`)
		assert.Contains(t, err.Error(), `"recommendation #2" product #1`)
	})
}

func TestDecodeRequest(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		doc := `
user:
  name: Priya Sharma
goals: [Clear skin]
analysis:
  - category: Acne
    conditions:
      - {name: Comedones, confidence: 82.4, location: Forehead}
recommendations:
  - category: Morning Routine
    products:
      - name: Gentle Foam Cleanser
        tags: [Cleanser]
        reason: Removes excess oil.
`
		req, err := DecodeRequest(strings.NewReader(doc))
		require.NoError(t, err)

		assert.Equal(t, "Priya Sharma", req.User.Name)
		assert.Equal(t, []string{"Clear skin"}, req.Goals)
		require.Len(t, req.Analysis, 1)
		assert.Equal(t, 82.4, req.Analysis[0].Conditions[0].Confidence)
		require.Len(t, req.Recommendations, 1)
		assert.Equal(t, "Removes excess oil.", req.Recommendations[0].Products[0].Reason)
	})

	t.Run("JSON", func(t *testing.T) {
		doc := `{"user": {"name": "Arjun"}, "recommendations": [{"category": "Evening Routine", "products": [{"name": "Minoxidil 5% Solution", "tags": []}]}]}`
		req, err := DecodeRequest(strings.NewReader(doc))
		require.NoError(t, err)

		assert.Nil(t, req.Analysis)
		assert.Equal(t, 1, req.ProductCount())
		assert.Len(t, req.Routine("Evening Routine"), 1)
		assert.Nil(t, req.Routine("Morning Routine"))
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := DecodeRequest(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := DecodeRequest(strings.NewReader("recommendations: {"))
		assert.Error(t, err)
	})
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout(" Prescription ")
	require.NoError(t, err)
	assert.Equal(t, LayoutPrescription, l)

	l, err = ParseLayout("summary")
	require.NoError(t, err)
	assert.Equal(t, LayoutSummary, l)

	_, err = ParseLayout("poster")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"skincare-report/internal/usage"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedOptions() Options {
	opts := NewOptions()
	opts.Now = func() time.Time { return time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC) }
	return opts
}

func sampleRequest() Request {
	return Request{
		User:  UserInfo{Name: "Priya Sharma"},
		Goals: []string{"Clear skin", "Reduce hair fall"},
		Image: "QUJDRA==",
		Analysis: []AnalysisCategory{
			{Category: "Acne", Conditions: []Condition{
				{Name: "Comedones", Confidence: 82.6, Location: "Forehead"},
				{Name: "Papules", Confidence: 40.2, Location: "Chin"},
			}},
		},
		Recommendations: []Recommendation{
			{Category: "Morning Routine", Products: []usage.Product{
				{Name: "Gentle Foam Cleanser", Tags: []string{"Cleanser"}, Reason: "Removes excess oil."},
				{Name: "SPF 50 Gel", Tags: []string{"Sunscreen"}},
			}},
			{Category: "Evening Routine", Products: []usage.Product{
				{Name: "0.3% Retinol Serum", Tags: []string{"Serum", "Retinol"}},
				{Name: "Face Mist"},
			}},
		},
	}
}

func render(t *testing.T, opts Options, req Request, layout Layout) *goquery.Document {
	t.Helper()
	r, err := NewRenderer(opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, req, layout))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestRender_Prescription(t *testing.T) {
	doc := render(t, fixedOptions(), sampleRequest(), LayoutPrescription)

	assert.Equal(t, "Dermatics India Personalized Plan", doc.Find("title").Text())
	assert.Equal(t, "Priya's Personalized Acne Plan", doc.Find(".report-title").Text())
	assert.Contains(t, doc.Find(".brand").Text(), "DERMATICS INDIA")
	assert.Contains(t, doc.Find(".report-meta").Text(), "3/7/2026")

	src, ok := doc.Find("img.user-image").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "data:image/jpeg;base64,QUJDRA==", src)

	t.Run("Analysis", func(t *testing.T) {
		items := doc.Find(".conditions li")
		require.Equal(t, 2, items.Length())
		assert.Equal(t, "Comedones (83%) - Forehead", strings.TrimSpace(items.First().Text()))
	})

	t.Run("Goals", func(t *testing.T) {
		goals := doc.Find(".goal-item")
		require.Equal(t, 2, goals.Length())
		assert.Equal(t, "• Clear skin", goals.First().Text())
	})

	t.Run("MorningSteps", func(t *testing.T) {
		steps := doc.Find(".routine-column.am .prescription-item")
		require.Equal(t, 2, steps.Length())

		first := steps.First()
		assert.Equal(t, "Step 1", first.Find(".rx-step").Text())
		assert.Equal(t, "Gentle Foam Cleanser", first.Find(".rx-product").Text())
		assert.Contains(t, first.Find(".rx-frequency").Text(), "Twice daily")
		assert.Contains(t, first.Find(".rx-how").Text(), "30–40 seconds")
		assert.Contains(t, first.Find(".rx-purpose").Text(), "Removes excess oil.")
		assert.Equal(t, 0, first.Find(".rx-caution").Length())

		second := steps.Eq(1)
		assert.Equal(t, "Step 2", second.Find(".rx-step").Text())
		assert.Equal(t, 0, second.Find(".rx-purpose").Length())
	})

	t.Run("EveningSteps", func(t *testing.T) {
		steps := doc.Find(".routine-column.pm .prescription-item")
		require.Equal(t, 2, steps.Length())

		retinol := steps.First()
		assert.Equal(t, "Step 1", retinol.Find(".rx-step").Text())
		assert.Contains(t, retinol.Find(".rx-duration").Text(), "Minimum 12 weeks")
		assert.Contains(t, retinol.Find(".rx-caution").Text(), "Use sunscreen during the day.")

		mist := steps.Eq(1)
		assert.Contains(t, mist.Find(".rx-when").Text(), "Night")
		assert.Contains(t, mist.Find(".rx-frequency").Text(), "Once daily")
	})

	t.Run("Advice", func(t *testing.T) {
		assert.Equal(t, "Retinol", doc.Find(".ingredients li").Text())
		assert.Equal(t, 5, doc.Find(".tips li").Length())
	})

	t.Run("PrintScript", func(t *testing.T) {
		script := doc.Find("script").Text()
		assert.Contains(t, script, "window.print()")
		assert.Contains(t, script, "500")
	})
}

func TestRender_Summary(t *testing.T) {
	doc := render(t, fixedOptions(), sampleRequest(), LayoutSummary)

	assert.Equal(t, "Dermatics India Doctor's Report", doc.Find("title").Text())
	assert.Equal(t, "Priya's Personalized Acne Plan", doc.Find("h1").Text())
	assert.Equal(t, "Report Generated on: 3/7/2026", doc.Find(".date").Text())

	headings := doc.Find(".routine-section h3")
	require.Equal(t, 2, headings.Length())
	assert.Equal(t, "AM Routine ☀️", headings.First().Text())
	assert.Equal(t, "PM Routine 🌙", headings.Eq(1).Text())

	lines := doc.Find(".product-line")
	require.Equal(t, 4, lines.Length())
	assert.Equal(t, "Cleanser: Gentle Foam Cleanser", lines.First().Text())
	assert.Equal(t, "Step: Face Mist", lines.Last().Text())
	assert.Equal(t, 1, doc.Find(".product-explanation").Length())

	assert.Equal(t, 2, doc.Find(".goal-tag").Length())
	assert.Equal(t, 4, doc.Find(".tips li").Length())
	assert.Contains(t, doc.Find(".disclaimer").Text(), "© 2026 Dermatics India")

	// The summary layout never prescribes.
	assert.Equal(t, 0, doc.Find(".prescription-item").Length())
}

func TestRender_Fallbacks(t *testing.T) {
	req := Request{Recommendations: []Recommendation{
		{Category: "Weekly Treatment", Products: []usage.Product{{Name: "Clay Mask", Tags: []string{"Treatment"}}}},
	}}

	t.Run("Summary", func(t *testing.T) {
		doc := render(t, fixedOptions(), req, LayoutSummary)

		assert.Equal(t, "User's Personalized Skin & Hair Plan", doc.Find("h1").Text())
		assert.Equal(t, "No analysis data available.", doc.Find(".no-analysis").Text())
		assert.Equal(t, "Maintenance and general health.", doc.Find(".no-goals").Text())
		assert.Equal(t, "Weekly Treatment", doc.Find(".routine-section h3").Text())
		assert.Equal(t, 0, doc.Find("img").Length())

		var ingredients []string
		doc.Find(".ingredients li").Each(func(_ int, s *goquery.Selection) {
			ingredients = append(ingredients, s.Text())
		})
		assert.Equal(t, []string{"Hyaluronic Acid", "Niacinamide"}, ingredients)
	})

	t.Run("Prescription", func(t *testing.T) {
		doc := render(t, fixedOptions(), req, LayoutPrescription)

		assert.Equal(t, "• Maintain healthy, balanced skin", doc.Find(".no-goals").Text())
		assert.Equal(t, 0, doc.Find(".prescription-item").Length())
	})

	t.Run("EmptyAnalysisRendersNothing", func(t *testing.T) {
		req := req
		req.Analysis = []AnalysisCategory{}
		doc := render(t, fixedOptions(), req, LayoutSummary)
		assert.Equal(t, 0, doc.Find(".no-analysis").Length())
		assert.Equal(t, 0, doc.Find(".section-item").Length())
	})
}

func TestRender_EscapesUserText(t *testing.T) {
	req := Request{
		User: UserInfo{Name: "<b>Eve</b>"},
		Recommendations: []Recommendation{
			{Category: "Morning Routine", Products: []usage.Product{{Name: "<script>alert(1)</script>"}}},
		},
	}

	r, err := NewRenderer(fixedOptions())
	require.NoError(t, err)
	out, err := r.RenderBytes(req, LayoutPrescription)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<script>alert(1)</script>")
	assert.Contains(t, string(out), "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestRender_Options(t *testing.T) {
	t.Run("NoAutoPrint", func(t *testing.T) {
		opts := fixedOptions()
		opts.AutoPrint = false
		doc := render(t, opts, sampleRequest(), LayoutSummary)
		assert.Equal(t, 0, doc.Find("script").Length())
	})

	t.Run("Brand", func(t *testing.T) {
		opts := fixedOptions()
		opts.Brand = "Glow Clinic"
		doc := render(t, opts, sampleRequest(), LayoutPrescription)
		assert.Contains(t, doc.Find(".brand").Text(), "GLOW CLINIC")
	})

	t.Run("NonImageDataURLIsDropped", func(t *testing.T) {
		req := sampleRequest()
		req.Image = "data:text/html;base64,PHNjcmlwdD4="
		doc := render(t, fixedOptions(), req, LayoutSummary)

		src, _ := doc.Find("img.user-image").Attr("src")
		assert.NotContains(t, src, "text/html")
	})

	t.Run("UnknownLayout", func(t *testing.T) {
		r, err := NewRenderer(fixedOptions())
		require.NoError(t, err)
		err = r.Render(&bytes.Buffer{}, sampleRequest(), Layout("poster"))
		assert.ErrorIs(t, err, ErrUnknownLayout)
	})
}

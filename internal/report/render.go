package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"skincare-report/internal/usage"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Options controls report rendering.
type Options struct {
	Brand      string
	Now        func() time.Time
	AutoPrint  bool
	PrintDelay time.Duration
}

// NewOptions returns rendering options with defaults.
func NewOptions() Options {
	return Options{
		Brand:      "Dermatics India",
		Now:        time.Now,
		AutoPrint:  true,
		PrintDelay: 500 * time.Millisecond,
	}
}

// Renderer turns a Request into an HTML document.
type Renderer struct {
	opts Options
	tmpl *template.Template
}

// NewRenderer parses the embedded layouts.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Brand == "" {
		opts.Brand = NewOptions().Brand
	}

	tmpl, err := template.New("report").
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &Renderer{opts: opts, tmpl: tmpl}, nil
}

// Render writes the report for req in the given layout to w.
func (r *Renderer) Render(w io.Writer, req Request, layout Layout) error {
	if _, ok := layoutCopy[layout]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}

	// Render into a buffer so w never sees a half-written document.
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(layout), r.buildView(req, layout)); err != nil {
		return fmt.Errorf("failed to render %s report: %w", layout, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// RenderBytes renders the report into memory.
func (r *Renderer) RenderBytes(req Request, layout Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, req, layout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type view struct {
	DocumentTitle string
	Title         string
	Brand         string
	Date          string
	Year          int
	Image         any

	HasAnalysis bool
	Analysis    []analysisView

	Intro   string
	Goals   []string
	NoGoals string

	Routines []routineView
	Morning  []stepView
	Evening  []stepView

	Ingredients []string
	Tips        []string
	Disclaimer  string

	AutoPrint    bool
	PrintDelayMS int64
}

type analysisView struct {
	Category   string
	Conditions []conditionView
}

type conditionView struct {
	Name       string
	Confidence int
	Location   string
}

type routineView struct {
	Heading string
	Items   []itemView
}

type itemView struct {
	Label  string
	Name   string
	Reason string
}

type stepView struct {
	Number int
	Name   string
	Reason string
	Plan   usage.Plan
}

func (r *Renderer) buildView(req Request, layout Layout) view {
	now := r.opts.Now()
	text := layoutCopy[layout]

	v := view{
		DocumentTitle: fmt.Sprintf(text.documentTitle, r.opts.Brand),
		Title:         Title(req),
		Brand:         r.opts.Brand,
		Date:          now.Format("1/2/2006"),
		Year:          now.Year(),
		Image:         imageAttr(ImageSource(req.Image)),
		HasAnalysis:   req.Analysis != nil,
		Intro:         text.intro,
		Goals:         req.Goals,
		NoGoals:       text.noGoals,
		Ingredients:   KeyIngredients(req.Recommendations),
		Tips:          text.tips,
		Disclaimer:    text.disclaimer,
		AutoPrint:     r.opts.AutoPrint,
		PrintDelayMS:  r.opts.PrintDelay.Milliseconds(),
	}

	for _, cat := range req.Analysis {
		av := analysisView{Category: cat.Category}
		for _, c := range cat.Conditions {
			av.Conditions = append(av.Conditions, conditionView{
				Name:       c.Name,
				Confidence: Percent(c.Confidence),
				Location:   c.Location,
			})
		}
		v.Analysis = append(v.Analysis, av)
	}

	switch layout {
	case LayoutSummary:
		for _, rec := range req.Recommendations {
			rv := routineView{Heading: RoutineHeading(rec.Category)}
			for _, p := range rec.Products {
				rv.Items = append(rv.Items, itemView{Label: p.Label("Step"), Name: p.Name, Reason: p.Reason})
			}
			v.Routines = append(v.Routines, rv)
		}
	case LayoutPrescription:
		v.Morning = buildSteps(req.Routine("Morning Routine"), usage.Morning)
		v.Evening = buildSteps(req.Routine("Evening Routine"), usage.Evening)
	}
	return v
}

func buildSteps(products []usage.Product, phase usage.Phase) []stepView {
	steps := make([]stepView, 0, len(products))
	for i, p := range products {
		steps = append(steps, stepView{
			Number: i + 1,
			Name:   p.Name,
			Reason: p.Reason,
			Plan:   usage.Resolve(p, phase),
		})
	}
	return steps
}

// imageAttr marks image data URLs as safe for a src attribute. Anything else
// is left as a plain string so html/template filters it.
func imageAttr(src string) any {
	if strings.HasPrefix(src, "data:image/") {
		return template.URL(src)
	}
	return src
}

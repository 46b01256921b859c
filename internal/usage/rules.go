package usage

type rule struct {
	name  string
	match func(subject) bool
	patch func(Plan, subject) Plan
}

// category is one entry of the exclusive category chain.
type category struct {
	tag   string
	patch func(Plan, subject) Plan
}

var categories = []category{
	{
		tag: "Cleanser",
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Massage onto damp skin for 30–40 seconds, then rinse thoroughly."
			p.Frequency = "Twice daily"
			p.Duration = "Ongoing"
			return p
		},
	},
	{
		tag: "Sunscreen",
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Apply generously 15 minutes before sun exposure. Reapply every 2–3 hours."
			p.Frequency = "Daily (Daytime only)"
			p.Duration = "Daily ongoing use"
			return p
		},
	},
	{
		tag: "Moisturizer",
		patch: func(p Plan, s subject) Plan {
			p.HowToUse = "Apply evenly over face and neck after serum."
			p.Frequency = s.phase.Label()
			p.Duration = "Ongoing"
			return p
		},
	},
	{
		tag: "Serum",
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Apply 2–3 drops and gently pat into skin."
			p.Duration = "8–12 weeks"
			return p
		},
	},
}

func matchCategory(s subject) (category, bool) {
	for _, c := range categories {
		if s.hasTag(c.tag) {
			return c, true
		}
	}
	return category{}, false
}

// rules is evaluated top to bottom. Only the category chain is exclusive;
// every later rule is checked regardless of what matched before it.
var rules = []rule{
	{
		name: "category",
		match: func(s subject) bool {
			_, ok := matchCategory(s)
			return ok
		},
		patch: func(p Plan, s subject) Plan {
			c, _ := matchCategory(s)
			return c.patch(p, s)
		},
	},
	{
		name: "retinol",
		match: func(s subject) bool {
			return s.nameHas("retinol") || s.hasTag("Retinol")
		},
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Apply pea-sized amount on dry skin. Avoid eye area."
			p.Frequency = "Start 3 times per week, increase gradually"
			p.Duration = "Minimum 12 weeks"
			p.Caution = "Use sunscreen during the day. Avoid combining with strong exfoliants."
			return p
		},
	},
	{
		name: "salicylic",
		match: func(s subject) bool {
			return s.nameHas("salicylic")
		},
		patch: func(p Plan, _ subject) Plan {
			p.Duration = "6–8 weeks"
			return p
		},
	},
	{
		name: "shampoo",
		match: func(s subject) bool {
			return s.hasTag("Shampoo") || s.nameHas("shampoo")
		},
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Apply to wet scalp, massage gently for 1–2 minutes, then rinse thoroughly."
			p.Frequency = "3–4 times per week"
			p.Duration = "Ongoing"
			p.When = "During bath"
			return p
		},
	},
	{
		name: "conditioner",
		match: func(s subject) bool {
			return s.hasTag("Conditioner") || s.nameHas("conditioner")
		},
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Apply to hair lengths only. Leave for 2–3 minutes, then rinse."
			p.Frequency = "After every shampoo"
			p.Duration = "Ongoing"
			p.When = "During bath"
			return p
		},
	},
	{
		name: "hair serum",
		match: func(s subject) bool {
			return s.hasTag("Hair Serum") || s.nameHas("hair serum")
		},
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Apply a small amount to dry or damp hair lengths. Do not rinse."
			p.Frequency = "Once daily"
			p.Duration = "Ongoing"
			return p
		},
	},
	{
		name: "hair oil",
		match: func(s subject) bool {
			return s.hasTag("Hair Oil") || s.nameHas("oil")
		},
		patch: func(p Plan, _ subject) Plan {
			p.HowToUse = "Massage gently into scalp. Leave for 1–2 hours before washing."
			p.Frequency = "2–3 times per week"
			p.Duration = "Ongoing"
			return p
		},
	},
	{
		name: "minoxidil",
		match: func(s subject) bool {
			return s.nameHas("minoxidil", "hair growth") || s.hasTag("Minoxidil")
		},
		patch: func(p Plan, s subject) Plan {
			return Plan{
				When:      s.phase.Label(),
				Frequency: "Once daily",
				Duration:  "Minimum 12–16 weeks",
				HowToUse:  "Apply 1 ml directly to dry scalp in thinning areas. Do not wash for 4 hours.",
				Caution:   "Do not apply on irritated scalp. Initial shedding may occur in first 2–4 weeks.",
			}
		},
	},
}

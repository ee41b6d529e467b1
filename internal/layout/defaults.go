package layout

// Canvas defaults for the two modes.
const (
	StackedWidth = 1200.0
	HeaderHeight = 160.0
	TitleBand    = 40.0

	SideBySideGap = 40.0
)

// StackedSpec is the five column grid shared by both sections when stacked.
func StackedSpec() Spec {
	const (
		padding = 15.0
		columns = 5
	)
	cardWidth := (StackedWidth - padding*(columns+1)) / columns
	return Spec{
		Columns:    columns,
		CardWidth:  cardWidth,
		CardHeight: 325,
		Padding:    padding,
		JacketSize: cardWidth * 0.7,
	}
}

// SideBySideSpecs returns the left (best) and right (recent) grids.
func SideBySideSpecs() (left, right Spec) {
	base := Spec{
		CardWidth:  200,
		CardHeight: 310,
		Padding:    15,
		JacketSize: 140,
	}
	left, right = base, base
	left.Columns = 5
	right.Columns = 3
	return left, right
}

// DefaultPlan builds the plan for mode with the default specs.
func DefaultPlan(mode Mode, best, recent int) Plan {
	if mode == SideBySide {
		left, right := SideBySideSpecs()
		return PlanSideBySide(left, right, left.Padding, SideBySideGap, HeaderHeight, TitleBand, best, recent)
	}
	return PlanStacked(StackedSpec(), StackedWidth, HeaderHeight, TitleBand, best, recent)
}

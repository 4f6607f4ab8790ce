package panels

import (
	"fmt"
	"strconv"

	"cutline-studio/internal/app"
	"cutline-studio/internal/cutline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// QuotePanel edits the order parameters and shows the resulting price
// breakdown. It updates whenever the traced shape or the order changes.
type QuotePanel struct {
	state *app.State

	widthEntry  *widget.Entry
	heightEntry *widget.Entry
	productSel  *widget.Select
	holeTypeSel *widget.Select
	holePosSel  *widget.Select
	qtyEntry    *widget.Entry

	summary *widget.Label

	box *fyne.Container
}

// NewQuotePanel creates the quote panel bound to the application state.
func NewQuotePanel(state *app.State) *QuotePanel {
	qp := &QuotePanel{state: state}

	order := state.Order()

	qp.widthEntry = widget.NewEntry()
	qp.widthEntry.SetText(formatMM(order.TargetWidthMM))
	qp.widthEntry.OnSubmitted = func(string) { qp.applyOrder() }

	qp.heightEntry = widget.NewEntry()
	qp.heightEntry.SetText(formatMM(order.TargetHeightMM))
	qp.heightEntry.OnSubmitted = func(string) { qp.applyOrder() }

	qp.productSel = widget.NewSelect([]string{"Objet", "Keyring"}, func(string) { qp.applyOrder() })
	if order.Product == cutline.ProductKeyring {
		qp.productSel.SetSelected("Keyring")
	} else {
		qp.productSel.SetSelected("Objet")
	}

	qp.holeTypeSel = widget.NewSelect([]string{"Ring", "Internal"}, func(string) { qp.applyOrder() })
	if order.HoleType == cutline.HoleInternal {
		qp.holeTypeSel.SetSelected("Internal")
	} else {
		qp.holeTypeSel.SetSelected("Ring")
	}

	qp.holePosSel = widget.NewSelect([]string{"Top", "Bottom", "Left", "Right"}, func(string) { qp.applyOrder() })
	qp.holePosSel.SetSelected(positionLabel(order.HolePosition))

	qp.qtyEntry = widget.NewEntry()
	qp.qtyEntry.SetText(strconv.Itoa(order.Quantity))
	qp.qtyEntry.OnSubmitted = func(string) { qp.applyOrder() }

	qp.summary = widget.NewLabel("Trace a shape to see a quote")
	qp.summary.Wrapping = fyne.TextWrapWord

	form := widget.NewForm(
		widget.NewFormItem("Width (mm)", qp.widthEntry),
		widget.NewFormItem("Height (mm)", qp.heightEntry),
		widget.NewFormItem("Product", qp.productSel),
		widget.NewFormItem("Hole", qp.holeTypeSel),
		widget.NewFormItem("Hole side", qp.holePosSel),
		widget.NewFormItem("Quantity", qp.qtyEntry),
	)

	applyBtn := widget.NewButton("Update Quote", qp.applyOrder)

	qp.box = container.NewVBox(
		widget.NewLabel("Order"),
		form,
		applyBtn,
		widget.NewSeparator(),
		qp.summary,
	)

	state.On(app.EventQuoteUpdated, func(event app.EventType, data interface{}) {
		qp.refreshSummary()
	})

	return qp
}

// Container returns the panel for embedding in layouts.
func (qp *QuotePanel) Container() fyne.CanvasObject {
	return qp.box
}

// applyOrder reads the form into the state, which recomputes the quote.
func (qp *QuotePanel) applyOrder() {
	order := qp.state.Order()

	if v, err := strconv.ParseFloat(qp.widthEntry.Text, 64); err == nil && v > 0 {
		order.TargetWidthMM = v
	}
	if v, err := strconv.ParseFloat(qp.heightEntry.Text, 64); err == nil && v > 0 {
		order.TargetHeightMM = v
	}
	if qp.productSel.Selected == "Keyring" {
		order.Product = cutline.ProductKeyring
	} else {
		order.Product = cutline.ProductObjet
	}
	if qp.holeTypeSel.Selected == "Internal" {
		order.HoleType = cutline.HoleInternal
	} else {
		order.HoleType = cutline.HoleRing
	}
	order.HolePosition = positionFromLabel(qp.holePosSel.Selected)
	if v, err := strconv.Atoi(qp.qtyEntry.Text); err == nil && v > 0 {
		order.Quantity = v
	}

	qp.state.SetOrder(order)
}

// refreshSummary rebuilds the quote text from the current state.
func (qp *QuotePanel) refreshSummary() {
	quote := qp.state.Quote()
	metrics := qp.state.Metrics()
	if quote == nil || metrics == nil {
		qp.summary.SetText("Trace a shape to see a quote")
		return
	}

	text := fmt.Sprintf(
		"Size: %.1f x %.1f mm\n"+
			"Area: %.1f mm², perimeter: %.1f mm\n"+
			"Complexity: %.2f (%s, x%.2f)\n"+
			"Fill ratio: %.2f (%s, x%.2f)\n\n"+
			"Unit price: %d\n"+
			"Min quantity: %d (%s)\n"+
			"Quantity: %d\n"+
			"Total: %d",
		metrics.BBoxWidthMM, metrics.BBoxHeightMM,
		metrics.AreaMM2, metrics.PerimeterMM,
		metrics.ComplexityScore, quote.ComplexityLabel, quote.ComplexityMultiplier,
		metrics.FillRatio, quote.EfficiencyLabel, quote.EfficiencyMultiplier,
		quote.UnitPrice,
		quote.MinQuantity, quote.LayoutInfo,
		quote.Quantity,
		quote.TotalPrice,
	)
	if quote.IsSample {
		text += fmt.Sprintf("\n(sample order: includes %d sample fee)", quote.SampleFee)
	}
	qp.summary.SetText(text)
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func positionLabel(pos cutline.HolePosition) string {
	switch pos {
	case cutline.PositionBottom:
		return "Bottom"
	case cutline.PositionLeft:
		return "Left"
	case cutline.PositionRight:
		return "Right"
	default:
		return "Top"
	}
}

func positionFromLabel(label string) cutline.HolePosition {
	switch label {
	case "Bottom":
		return cutline.PositionBottom
	case "Left":
		return cutline.PositionLeft
	case "Right":
		return cutline.PositionRight
	default:
		return cutline.PositionTop
	}
}

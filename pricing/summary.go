// Package pricing projects a selection into the order summary shown next to
// the configurator: display groups, line totals, grand total and item count.
package pricing

import (
	"bundle-configurator/models"
	"bundle-configurator/utils"
)

// Project groups entries by role in models.DisplayOrder, keeping the given
// order within each group, and computes line totals, the grand total and the
// item count. It is pure: equal input gives equal output.
// Roles outside models.DisplayOrder are ignored.
func Project(entries []models.SelectionEntry) models.SummaryView {
	view := models.SummaryView{Groups: []models.SummaryGroup{}}
	for _, role := range models.DisplayOrder {
		var lines []models.SummaryLine
		for _, e := range entries {
			if e.Role != role {
				continue
			}
			line := models.SummaryLine{
				ID:        e.ID,
				Title:     e.DisplayTitle,
				ImageRef:  e.ImageRef,
				Quantity:  e.Quantity,
				UnitPrice: e.UnitPrice,
				LineTotal: e.UnitPrice * int64(e.Quantity),
			}
			view.GrandTotal += line.LineTotal
			view.ItemCount += line.Quantity
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			view.Groups = append(view.Groups, models.SummaryGroup{Role: role, Lines: lines})
		}
	}
	view.HasItems = view.ItemCount > 0
	return view
}

// Format returns a copy of view with money labels filled in by f,
// or by the fallback format when f is nil
func Format(view models.SummaryView, f utils.MoneyFormatter) models.SummaryView {
	out := view
	out.Groups = make([]models.SummaryGroup, len(view.Groups))
	for i, g := range view.Groups {
		lines := make([]models.SummaryLine, len(g.Lines))
		for j, l := range g.Lines {
			l.UnitPriceLabel = utils.FormatMoney(f, l.UnitPrice)
			l.LineTotalLabel = utils.FormatMoney(f, l.LineTotal)
			lines[j] = l
		}
		out.Groups[i] = models.SummaryGroup{Role: g.Role, Lines: lines}
	}
	out.TotalLabel = utils.FormatMoney(f, view.GrandTotal)
	return out
}

// Lines flattens view into cart mutation lines in display order
func Lines(view models.SummaryView) []models.CartLineRequest {
	var lines []models.CartLineRequest
	for _, g := range view.Groups {
		for _, l := range g.Lines {
			lines = append(lines, models.CartLineRequest{ID: l.ID, Quantity: l.Quantity})
		}
	}
	return lines
}

package diet

import (
	"fmt"
	"html"
	"strings"
)

// RenderMiniChart は段階ごとの食事表をHTMLの表にします。
func RenderMiniChart(chart ProgressiveChart) string {
	title := fmt.Sprintf("📊 Step %d Diet Chart Preview (%s)", chart.StepLevel, chart.ChartType)
	return renderTable(title, chart.Meals, chart.TotalCalories, chart.Refinements)
}

// RenderMeals は保存済みや統合済みの食事表を同じ形式のHTMLにします。
func RenderMeals(title string, meals []MealEntry, refinements []string) string {
	return renderTable(title, meals, SumMeals(meals), refinements)
}

func renderTable(title string, meals []MealEntry, total int, refinements []string) string {
	var b strings.Builder
	b.WriteString(`<div class="mini-diet-chart">`)
	fmt.Fprintf(&b, `<h4>%s</h4>`, html.EscapeString(title))
	b.WriteString(`<table class="mini-diet-table"><thead><tr><th>Time</th><th>Meal</th><th>Calories</th><th>Foods</th><th>Macros</th></tr></thead><tbody>`)
	for _, m := range meals {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(m.Time), html.EscapeString(string(m.Name)), m.Calories,
			html.EscapeString(m.Foods), html.EscapeString(m.Macros))
	}
	b.WriteString(`</tbody></table>`)
	fmt.Fprintf(&b, `<div class="mini-diet-total"><strong>Total: %d calories/day</strong>`, total)
	if len(refinements) > 0 {
		escaped := make([]string, len(refinements))
		for i, r := range refinements {
			escaped[i] = html.EscapeString(r)
		}
		fmt.Fprintf(&b, `<div class="mini-diet-refinements">%s</div>`, strings.Join(escaped, " → "))
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

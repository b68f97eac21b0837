package diet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
)

// TextGenerator は生成AIへの1回の問い合わせです。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// errNoGenerator は生成AIが設定されていないことを表します。
var errNoGenerator = errors.New("text generator not configured")

// Generation は問い合わせ結果です。Fallback が true の場合、Text はローカルで合成した文章です。
type Generation struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// Advisor は生成AIへの問い合わせと、失敗時の代替文章の合成を行います。
type Advisor struct {
	gen TextGenerator
}

// NewAdvisor は新しいAdvisorを生成します。gen が nil の場合は常に代替文章を返します。
func NewAdvisor(gen TextGenerator) *Advisor {
	return &Advisor{gen: gen}
}

// Generate はプロンプトを送信し、整形済みの文章を返します。失敗はエラーとして返さず代替文章に切り替えます。
func (a *Advisor) Generate(ctx context.Context, prompt string, profile *Profile) Generation {
	text, err := a.call(ctx, prompt)
	if err == nil && strings.TrimSpace(text) != "" {
		return Generation{Text: FormatResponse(text)}
	}
	if err == nil {
		err = errors.New("empty response text")
	}
	log.Printf("⚠️ 生成AIの呼び出しに失敗したため代替文章を使用します: %v", err)
	return Generation{Text: FallbackText(profile), Fallback: true, Reason: err.Error()}
}

func (a *Advisor) call(ctx context.Context, prompt string) (text string, err error) {
	if a == nil || a.gen == nil {
		return "", errNoGenerator
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text generator panicked: %v", r)
		}
	}()
	return a.gen.Generate(ctx, prompt)
}

var (
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emphasisPattern  = regexp.MustCompile(`\*(.*?)\*`)
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
	spacePattern     = regexp.MustCompile(`\s+`)
	doubleBreak      = regexp.MustCompile(`<br>\s*<br>`)
)

// FormatResponse は生成AIの出力をHTML断片に整形します。
func FormatResponse(text string) string {
	s := boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	s = emphasisPattern.ReplaceAllString(s, "<em>$1</em>")
	s = blankLinePattern.ReplaceAllString(s, "<br>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	s = spacePattern.ReplaceAllString(s, " ")
	s = doubleBreak.ReplaceAllString(s, "<br>")
	return strings.TrimSpace(s)
}

// FallbackText はプロフィールから決定的に組み立てた代替文章を返します。profile が nil なら汎用の文章です。
func FallbackText(profile *Profile) string {
	if profile == nil {
		return genericFallback
	}
	p := profile.withDefaults()
	goal := p.Goal
	if strings.TrimSpace(goal) == "" {
		goal = "general fitness"
	}
	dietType := p.DietaryPreference
	if strings.TrimSpace(dietType) == "" {
		dietType = "balanced"
	}
	country := p.Country
	if strings.TrimSpace(country) == "" {
		country = "your region"
	}
	bmi := "unknown"
	if p.Height > 0 {
		bmi = formatNumber(p.BMI())
	}
	target := ChartTarget(p)
	name := p.Name

	var b strings.Builder
	fmt.Fprintf(&b, "<strong>✅ Personalized Analysis for %s (BMI: %s):</strong><br>\n", name, bmi)
	fmt.Fprintf(&b, "<strong>🎯 Your Goal: %s</strong><br>\n", goal)
	fmt.Fprintf(&b, "<strong>📊 Target Calories: %s per day</strong><br>\n", formatNumber(target))
	fmt.Fprintf(&b, "<strong>🌍 Regional Focus: %s</strong><br>\n", country)

	switch NormalizeGoal(goal) {
	case GoalLoss:
		fmt.Fprintf(&b, "<strong>🎯 Weight Loss Strategy for %s:</strong><br>\n", name)
		b.WriteString("• Create a moderate calorie deficit of 300-500 calories daily<br>\n")
		b.WriteString("• Focus on high-protein, high-fiber foods to maintain satiety<br>\n")
		b.WriteString("• Include strength training to preserve muscle mass<br>\n")
		b.WriteString("• Aim for 1-2 pounds of weight loss per week<br>\n")
	case GoalGain:
		fmt.Fprintf(&b, "<strong>🎯 Weight/Muscle Gain Strategy for %s:</strong><br>\n", name)
		b.WriteString("• Create a moderate calorie surplus of 300-500 calories daily<br>\n")
		b.WriteString("• Prioritize protein intake: 1.6-2.2g per kg body weight<br>\n")
		b.WriteString("• Include complex carbs around workouts for energy<br>\n")
		b.WriteString("• Focus on compound exercises and progressive overload<br>\n")
	default:
		fmt.Fprintf(&b, "<strong>🎯 Fitness Maintenance Strategy for %s:</strong><br>\n", name)
		b.WriteString("• Maintain current calorie balance with focus on nutrient quality<br>\n")
		b.WriteString("• Emphasize whole foods and balanced macronutrients<br>\n")
		b.WriteString("• Include variety in your exercise routine<br>\n")
		b.WriteString("• Monitor energy levels and adjust as needed<br>\n")
	}

	switch d := NormalizeDiet(dietType); {
	case plantBased(d):
		fmt.Fprintf(&b, "<strong>🥗 %s Diet Optimization:</strong><br>\n", dietType)
		b.WriteString("• Combine legumes + grains for complete protein profiles<br>\n")
		b.WriteString("• Include B12 supplement and iron-rich foods with vitamin C<br>\n")
		b.WriteString("• Focus on quinoa, lentils, chickpeas, and tofu for protein variety<br>\n")
		b.WriteString("• Ensure adequate omega-3s from flax, chia, and walnuts<br>\n")
	case d == DietNonVegetarian:
		b.WriteString("<strong>🍖 Non-Vegetarian Diet Optimization:</strong><br>\n")
		b.WriteString("• Choose lean proteins: chicken breast, fish, turkey, lean beef<br>\n")
		b.WriteString("• Include fatty fish 2-3 times per week for omega-3s<br>\n")
		b.WriteString("• Balance animal proteins with plant-based options<br>\n")
		b.WriteString("• Limit processed meats and focus on whole food sources<br>\n")
	}

	fmt.Fprintf(&b, "<strong>🍽️ Daily Meal Structure for %s:</strong><br>\n", name)
	fmt.Fprintf(&b, "• Breakfast (%d cal): Protein-rich start with complex carbs<br>\n", Allocate(target, SlotBreakfast))
	fmt.Fprintf(&b, "• Mid-Morning (%d cal): Light, nutritious snack<br>\n", Allocate(target, SlotMidMorning))
	fmt.Fprintf(&b, "• Lunch (%d cal): Largest meal with balanced macros<br>\n", Allocate(target, SlotLunch))
	fmt.Fprintf(&b, "• Evening (%d cal): Energy-boosting snack<br>\n", Allocate(target, SlotEvening))
	fmt.Fprintf(&b, "• Dinner (%d cal): Light, protein-focused meal<br>\n", Allocate(target, SlotDinner))
	fmt.Fprintf(&b, "<strong>💧 Hydration Protocol for %s:</strong><br>\n", name)
	b.WriteString("• Start day with 2 glasses of water<br>\n")
	b.WriteString("• Drink water 30 minutes before each meal<br>\n")
	b.WriteString("• Aim for 8-10 glasses throughout the day<br>\n")
	b.WriteString("• Include herbal teas between meals<br>\n")
	b.WriteString("<strong>📅 Weekly Success Tips:</strong><br>\n")
	b.WriteString("• Meal prep 2-3 days of proteins in advance<br>\n")
	b.WriteString("• Track your progress and adjust portions based on results<br>\n")
	b.WriteString("• Include variety to prevent boredom and ensure nutrients<br>\n")
	b.WriteString("• Listen to your body and adjust timing as needed<br>\n")
	fmt.Fprintf(&b, "<em>💡 This personalized plan is tailored specifically for %s's %s goal. Monitor progress and adjust as needed.</em>", name, goal)
	return b.String()
}

const genericFallback = `<strong>✅ Analysis completed with expert nutritional recommendations:</strong><br>
<strong>🎯 Immediate Action Items:</strong><br>
• Calculate your daily calorie needs: BMR × activity factor<br>
• Focus on balanced macronutrients: 40% carbs, 30% protein, 30% fats<br>
• Eat protein with every meal for muscle maintenance<br>
• Include 5-7 servings of fruits and vegetables daily<br>
<strong>🍽️ Meal Structure Recommendations:</strong><br>
• Breakfast (25%): Protein + complex carbs + healthy fats<br>
• Lunch (35%): Largest meal with complete nutrition<br>
• Dinner (30%): Lighter, protein-focused meal<br>
• Snacks (10%): Nutrient-dense options between meals<br>
<strong>💧 Hydration & Timing:</strong><br>
• Drink 8-10 glasses of water daily<br>
• Eat every 3-4 hours to maintain energy<br>
• Stop eating 2-3 hours before bedtime<br>
<strong>📊 Weekly Planning:</strong><br>
• Meal prep 2-3 days of proteins in advance<br>
• Rotate food choices to ensure nutrient variety<br>
• Track progress and adjust portions as needed<br>
<em>💡 Note: This comprehensive plan provides expert-level guidance. For personalized adjustments, consult with a registered dietitian.</em>`

// formatNumber は整数値なら小数点なしで、それ以外は最短表記で数値を文字列にします。
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

package diet

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidProfile はパイプラインを開始できないプロフィールを表します。
var ErrInvalidProfile = errors.New("invalid profile")

// BMICategory はBMIの区分です。
type BMICategory string

const (
	CategoryUnderweight BMICategory = "Underweight"
	CategoryNormal      BMICategory = "Normal weight"
	CategoryOverweight  BMICategory = "Overweight"
	CategoryObese       BMICategory = "Obese"
)

// Profile はユーザーが入力した食事プラン用のプロフィールです。
type Profile struct {
	Name              string  `json:"name"`
	Age               int     `json:"age"`
	Height            float64 `json:"height"`
	Weight            float64 `json:"weight"`
	CaloriesIntake    float64 `json:"caloriesIntake"`
	CaloriesBurn      float64 `json:"caloriesBurn"`
	Country           string  `json:"country"`
	DietaryPreference string  `json:"dietaryPreference"`
	Goal              string  `json:"goal"`
	Exercises         string  `json:"exercises"`
	Allergies         string  `json:"allergies"`
	Gender            string  `json:"gender,omitempty"`
}

// Metrics はプロフィールから導出される値です。入力から常に再計算され、単独では変更されません。
type Metrics struct {
	BMI            float64     `json:"bmi"`
	Category       BMICategory `json:"bmiCategory"`
	BMR            float64     `json:"bmr"`
	CalorieBalance float64     `json:"calorieBalance"`
}

// Validate はBMI計算に必要な値が揃っているかを確認します。
func (p Profile) Validate() error {
	switch {
	case p.Height <= 0:
		return fmt.Errorf("%w: height must be positive", ErrInvalidProfile)
	case p.Weight <= 0:
		return fmt.Errorf("%w: weight must be positive", ErrInvalidProfile)
	case p.Age <= 0:
		return fmt.Errorf("%w: age must be positive", ErrInvalidProfile)
	}
	return nil
}

// withDefaults は空欄の任意項目を既定値で埋めたコピーを返します。
func (p Profile) withDefaults() Profile {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = "User"
	}
	if strings.TrimSpace(p.Allergies) == "" {
		p.Allergies = "None"
	}
	if strings.TrimSpace(p.Gender) == "" {
		p.Gender = "male"
	}
	return p
}

// BMI は小数第1位に丸めたBMIを返します。
func (p Profile) BMI() float64 {
	if p.Height <= 0 {
		return 0
	}
	h := p.Height / 100
	return math.Round(p.Weight/(h*h)*10) / 10
}

// BMR はMifflin-St Jeor式による基礎代謝量を返します。性別が未指定なら男性として計算します。
func (p Profile) BMR() float64 {
	return BMR(p.Weight, p.Height, p.Age, p.Gender)
}

// BMR は体重(kg)、身長(cm)、年齢、性別から基礎代謝量を計算します。
func BMR(weight, height float64, age int, gender string) float64 {
	base := 10*weight + 6.25*height - 5*float64(age)
	if strings.EqualFold(strings.TrimSpace(gender), "female") {
		return base - 161
	}
	return base + 5
}

// CategoryForBMI はBMIを区分に変換します。下限は閉区間です。
func CategoryForBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// Metrics は派生値をまとめて計算します。
func (p Profile) Metrics() Metrics {
	bmi := p.BMI()
	return Metrics{
		BMI:            bmi,
		Category:       CategoryForBMI(bmi),
		BMR:            p.BMR(),
		CalorieBalance: p.CaloriesIntake - p.CaloriesBurn,
	}
}

// ChartTarget は食事表の1日の目標カロリーです。摂取量、基礎代謝、2000の順に採用します。
func ChartTarget(p Profile) float64 {
	if p.CaloriesIntake > 0 {
		return p.CaloriesIntake
	}
	if bmr := p.BMR(); bmr > 0 {
		return bmr
	}
	return 2000
}

// ActivityLevel は運動内容から推定した活動量です。
type ActivityLevel string

const (
	ActivityHigh     ActivityLevel = "High"
	ActivityModerate ActivityLevel = "Moderate"
	ActivityLow      ActivityLevel = "Low"
)

// ExtractActivityLevel は運動の説明文から活動量を推定します。
func ExtractActivityLevel(exercises string) ActivityLevel {
	text := strings.ToLower(exercises)
	switch {
	case containsAny(text, "intense", "heavy", "daily"):
		return ActivityHigh
	case containsAny(text, "moderate", "regular"):
		return ActivityModerate
	default:
		return ActivityLow
	}
}

// OptimalCalories は摂取量が入力されていればそれを、なければ基礎代謝×活動係数±500を返します。
func OptimalCalories(p Profile, level ActivityLevel) int {
	if p.CaloriesIntake > 0 {
		return int(math.Round(p.CaloriesIntake))
	}
	target := p.BMR()
	switch level {
	case ActivityHigh:
		target *= 1.725
	case ActivityModerate:
		target *= 1.55
	default:
		target *= 1.375
	}
	switch NormalizeGoal(p.Goal) {
	case GoalLoss:
		target -= 500
	case GoalGain:
		target += 500
	}
	return int(math.Round(target))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

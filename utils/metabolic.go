package utils

import (
	"math"
	"strings"

	"nutriai-backend/models"
)

// Activity factors keyed on exercise_frequency.
var activityFactors = map[string]float64{
	"sedentario":    1.2,
	"leve":          1.375, // 1-3x/semana
	"moderado":      1.55,  // 3-5x/semana
	"intenso":       1.725, // 6-7x/semana
	"muito_intenso": 1.9,   // 2x/dia
}

// Macros holds a daily macronutrient target in kcal and grams.
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

// CalculateBMR returns the basal metabolic rate via the revised
// Harris-Benedict formula, or false when weight/height/age are missing.
// Gender is not collected on the profile, so the male coefficients apply.
func CalculateBMR(u *models.User) (float64, bool) {
	if u.Weight <= 0 || u.Height <= 0 || u.Age <= 0 {
		return 0, false
	}
	bmr := 88.362 + (13.397 * u.Weight) + (4.799 * u.Height) - (5.677 * float64(u.Age))
	return round2(bmr), true
}

// CalculateTDEE returns total daily energy expenditure: BMR scaled by the
// activity factor for the profile's exercise frequency (sedentary when
// unknown).
func CalculateTDEE(u *models.User) (float64, bool) {
	bmr, ok := CalculateBMR(u)
	if !ok {
		return 0, false
	}
	factor, ok := activityFactors[u.ExerciseFrequency]
	if !ok {
		factor = 1.2
	}
	return round2(bmr * factor), true
}

// CalculateTargetCalories adjusts TDEE for the profile goal: 15% deficit for
// weight loss, 15% surplus for gain, maintenance otherwise.
func CalculateTargetCalories(u *models.User) (float64, bool) {
	tdee, ok := CalculateTDEE(u)
	if !ok {
		return 0, false
	}

	goal := strings.ToLower(u.Goal)
	switch {
	case strings.Contains(goal, "perder") || strings.Contains(goal, "emagrecer"):
		return math.Round(tdee * 0.85), true
	case strings.Contains(goal, "ganhar"):
		return math.Round(tdee * 1.15), true
	default:
		return math.Round(tdee), true
	}
}

// CalculateMacros splits the target calories 25% protein / 45% carbs /
// 30% fat, at 4, 4 and 9 kcal per gram.
func CalculateMacros(u *models.User) (*Macros, bool) {
	calories, ok := CalculateTargetCalories(u)
	if !ok {
		return nil, false
	}

	return &Macros{
		Calories: calories,
		ProteinG: round1((calories * 0.25) / 4),
		CarbG:    round1((calories * 0.45) / 4),
		FatG:     round1((calories * 0.30) / 9),
	}, true
}

// MetabolicSummary bundles the derived figures the API reports alongside a
// profile; absent values serialize as null.
func MetabolicSummary(u *models.User) map[string]interface{} {
	out := map[string]interface{}{
		"bmr":             nil,
		"tdee":            nil,
		"target_calories": nil,
		"macros":          nil,
	}
	if bmr, ok := CalculateBMR(u); ok {
		out["bmr"] = bmr
	}
	if tdee, ok := CalculateTDEE(u); ok {
		out["tdee"] = tdee
	}
	if target, ok := CalculateTargetCalories(u); ok {
		out["target_calories"] = target
	}
	if macros, ok := CalculateMacros(u); ok {
		out["macros"] = macros
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

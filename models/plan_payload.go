package models

import "encoding/json"

// PlanPayload is the canonical shape stored in DietPlan.PlanData. The AI is
// asked for exactly this structure; the fallback generator emits it directly.
type PlanPayload struct {
	PlanType            string             `json:"plan_type,omitempty"`
	Breakfast           *Meal              `json:"breakfast,omitempty"`
	Lunch               *Meal              `json:"lunch,omitempty"`
	Dinner              *Meal              `json:"dinner,omitempty"`
	Snacks              []Meal             `json:"snacks,omitempty"`
	DailyTotals         map[string]float64 `json:"daily_totals,omitempty"`
	ShoppingList        []ShoppingItem     `json:"shopping_list,omitempty"`
	NutritionistNotes   map[string]string  `json:"nutritionist_notes,omitempty"`
	ScientificRationale map[string]string  `json:"scientific_rationale,omitempty"`
	AIResponseText      string             `json:"ai_response_text,omitempty"`
	Note                string             `json:"note,omitempty"`
	Fallback            bool               `json:"fallback,omitempty"`
}

type Meal struct {
	Name          string             `json:"name,omitempty"`
	Ingredients   []Ingredient       `json:"ingredients,omitempty"`
	Preparation   string             `json:"preparation,omitempty"`
	Description   string             `json:"description,omitempty"`
	Timing        string             `json:"timing,omitempty"`
	TotalCalories float64            `json:"total_calories,omitempty"`
	TotalCost     float64            `json:"total_cost,omitempty"`
	Macros        map[string]float64 `json:"macros,omitempty"`
}

// UnmarshalJSON accepts the legacy representation where a meal entry is a
// bare string ("Omelete com aveia") and lifts it into a named Meal.
func (m *Meal) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*m = Meal{Name: name}
		return nil
	}

	type mealAlias Meal
	var a mealAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Meal(a)
	return nil
}

type Ingredient struct {
	Item     string  `json:"item"`
	Quantity string  `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
}

type ShoppingItem struct {
	Item           string  `json:"item"`
	Quantity       string  `json:"quantity,omitempty"`
	EstimatedPrice float64 `json:"estimated_price,omitempty"`
	WhereToBuy     string  `json:"where_to_buy,omitempty"`
}

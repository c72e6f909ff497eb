package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"nutriai-backend/models"
	"nutriai-backend/utils"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService composes the daily plan with the Gemini API. Without an API
// key, or when the call fails, it falls back to a deterministic plan so
// generation never blocks on the provider.
type GeminiService struct {
	client *resty.Client
	apiKey string
	model  string
	log    *zap.Logger
}

func NewGeminiService(log *zap.Logger) *GeminiService {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "your_gemini_api_key_here" {
		apiKey = ""
	}
	return &GeminiService{
		client: resty.New().SetBaseURL(geminiBaseURL).SetTimeout(30 * time.Second),
		apiKey: apiKey,
		model:  "gemini-pro",
		log:    log,
	}
}

func (g *GeminiService) IsConfigured() bool {
	return g.apiKey != ""
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GeneratePlan returns a canonical plan payload for the user. The error path
// is logged, never propagated: a degraded plan beats no plan.
func (g *GeminiService) GeneratePlan(user *models.User) *models.PlanPayload {
	if !g.IsConfigured() {
		return g.fallbackPlan(user)
	}

	text, err := g.generateText(buildScientificPrompt(user))
	if err != nil {
		g.log.Warn("gemini call failed, using fallback plan",
			zap.Uint("user_id", user.ID), zap.Error(err))
		return g.fallbackPlan(user)
	}

	var payload models.PlanPayload
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		g.log.Warn("gemini answer was not valid JSON, keeping raw text",
			zap.Uint("user_id", user.ID), zap.Error(err))
		return parseTextResponse(text, user)
	}
	return &payload
}

func (g *GeminiService) generateText(prompt string) (string, error) {
	var out geminiResponse
	resp, err := g.client.R().
		SetQueryParam("key", g.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/models/%s:generateContent", g.model))
	if err != nil {
		return "", fmt.Errorf("gemini request error: %w", err)
	}

	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode(), resp.String())
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return text, nil
}

// stripCodeFences removes a ```json ... ``` wrapper, which Gemini likes to
// add even when asked for raw JSON.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func buildScientificPrompt(u *models.User) string {
	budget := u.BudgetPerMeal
	if budget <= 0 {
		budget = 25
	}
	restrictions := u.DietaryRestrictions
	if restrictions == "" {
		restrictions = "Nenhuma"
	}

	bmr, _ := utils.CalculateBMR(u)
	tdee, _ := utils.CalculateTDEE(u)
	target, _ := utils.CalculateTargetCalories(u)
	macros, _ := utils.CalculateMacros(u)

	var familyConditions []string
	if u.FamilyDiabetes {
		familyConditions = append(familyConditions, "diabetes")
	}
	if u.FamilyHypertension {
		familyConditions = append(familyConditions, "hipertensão")
	}
	if u.FamilyObesity {
		familyConditions = append(familyConditions, "obesidade")
	}
	if u.FamilyHeartDisease {
		familyConditions = append(familyConditions, "problemas cardíacos")
	}
	family := "Nenhuma"
	if len(familyConditions) > 0 {
		family = strings.Join(familyConditions, ", ")
	}

	macrosDesc := ""
	if macros != nil {
		macrosDesc = fmt.Sprintf("proteína %.1fg, carboidrato %.1fg, gordura %.1fg",
			macros.ProteinG, macros.CarbG, macros.FatG)
	}

	var sb strings.Builder
	sb.WriteString("Você é um nutricionista especialista em nutrição científica. ")
	sb.WriteString("Crie um plano alimentar personalizado baseado na análise científica completa do paciente.\n\n")

	fmt.Fprintf(&sb, "DADOS DO PACIENTE:\n- Nome: %s\n- Idade: %d anos\n- Peso: %.1f kg\n- Altura: %.1f cm\n- Objetivo: %s\n- Orçamento por refeição: R$ %.2f\n- Restrições alimentares: %s\n\n",
		u.Name, u.Age, u.Weight, u.Height, u.Goal, budget, restrictions)

	fmt.Fprintf(&sb, "ANÁLISE METABÓLICA:\n- TMB (Taxa Metabólica Basal): %.0f kcal\n- TDEE (Gasto Energético Total): %.0f kcal\n- Meta calórica diária: %.0f kcal\n- Distribuição de macros: %s\n\n",
		bmr, tdee, target, macrosDesc)

	fmt.Fprintf(&sb, "ESTILO DE VIDA:\n- Horas de sono: %.1fh\n- Nível de estresse (1-10): %d\n- Frequência de exercício: %s\n- Consumo de água: %d copos/dia\n\n",
		u.SleepHours, u.StressLevel, u.ExerciseFrequency, u.DailyWaterIntake)

	fmt.Fprintf(&sb, "HISTÓRICO FAMILIAR:\n- Condições familiares: %s\n\n", family)

	fmt.Fprintf(&sb, `INSTRUÇÕES PARA O PLANO:
1. Respeite RIGOROSAMENTE o orçamento de R$ %.2f por refeição
2. Use preços reais do mercado brasileiro
3. Considere as condições familiares para prevenção
4. Adapte às necessidades metabólicas calculadas
5. Inclua timing nutricional adequado
6. Forneça lista de compras com preços estimados

Responda APENAS com JSON válido no formato:
{"breakfast": {"name": "...", "ingredients": [{"item": "...", "quantity": "100g", "price": 2.5, "calories": 150, "protein": 10, "carbs": 15, "fat": 5}], "preparation": "...", "total_calories": 300, "total_cost": 8.5, "macros": {"protein": 20, "carbs": 35, "fat": 12}, "timing": "07h00"},
"lunch": {...}, "dinner": {...}, "snacks": [{...}],
"daily_totals": {"total_calories": %.0f, "total_cost": %.2f, "protein_g": 100, "carbs_g": 200, "fat_g": 70},
"shopping_list": [{"item": "...", "quantity": "1kg", "estimated_price": 18.0, "where_to_buy": "..."}],
"nutritionist_notes": {"metabolic_analysis": "...", "family_prevention": "...", "lifestyle_adaptations": "...", "monitoring_tips": "..."},
"scientific_rationale": {"caloric_distribution": "...", "macro_rationale": "...", "timing_science": "..."}}
`, budget, target, budget*3)

	return sb.String()
}

// parseTextResponse builds a minimal payload around an AI answer that did
// not decode as JSON, so the raw text still reaches the nutritionist.
func parseTextResponse(text string, u *models.User) *models.PlanPayload {
	budget := u.BudgetPerMeal
	if budget <= 0 {
		budget = 25
	}
	target, ok := utils.CalculateTargetCalories(u)
	if !ok {
		target = 1800
	}

	return &models.PlanPayload{
		Breakfast: &models.Meal{
			Name:          "Café da manhã balanceado",
			TotalCalories: float64(int(target * 0.25)),
			TotalCost:     budget * 0.6,
			Description:   "Baseado na resposta da IA (texto)",
		},
		Lunch: &models.Meal{
			Name:          "Almoço nutritivo",
			TotalCalories: float64(int(target * 0.4)),
			TotalCost:     budget,
			Description:   "Baseado na resposta da IA (texto)",
		},
		Dinner: &models.Meal{
			Name:          "Jantar leve",
			TotalCalories: float64(int(target * 0.3)),
			TotalCost:     budget * 0.8,
			Description:   "Baseado na resposta da IA (texto)",
		},
		DailyTotals: map[string]float64{
			"total_calories": target,
			"total_cost":     budget * 2.4,
		},
		AIResponseText: text,
		Note:           "Resposta parseada do texto da IA",
	}
}

// fallbackPlan is the deterministic plan used when Gemini is unreachable or
// not configured. Keyed on the profile goal.
func (g *GeminiService) fallbackPlan(u *models.User) *models.PlanPayload {
	budget := u.BudgetPerMeal
	if budget <= 0 {
		budget = 25
	}
	target, ok := utils.CalculateTargetCalories(u)
	if !ok {
		target = 1800
	}
	macros, _ := utils.CalculateMacros(u)

	goal := strings.ToLower(u.Goal)
	var planType string
	var breakfast models.Meal

	switch {
	case strings.Contains(goal, "perder") || strings.Contains(goal, "emagrecer"):
		planType = "Plano para Emagrecimento"
		breakfast = models.Meal{
			Name: "Smoothie Verde Detox",
			Ingredients: []models.Ingredient{
				{Item: "Espinafre", Quantity: "50g", Price: 1.50, Calories: 12},
				{Item: "Banana", Quantity: "1 unidade", Price: 1.00, Calories: 105},
				{Item: "Proteína em pó", Quantity: "30g", Price: 4.00, Calories: 120},
			},
			TotalCalories: 237,
			TotalCost:     6.50,
		}
	case strings.Contains(goal, "ganhar") || strings.Contains(goal, "massa"):
		planType = "Plano para Ganho de Massa"
		breakfast = models.Meal{
			Name: "Ovos com Aveia",
			Ingredients: []models.Ingredient{
				{Item: "Ovos", Quantity: "3 unidades", Price: 3.00, Calories: 210},
				{Item: "Aveia", Quantity: "50g", Price: 2.00, Calories: 190},
				{Item: "Banana", Quantity: "1 unidade", Price: 1.00, Calories: 105},
			},
			TotalCalories: 505,
			TotalCost:     6.00,
		}
	default:
		planType = "Plano Balanceado"
		breakfast = models.Meal{
			Name: "Café Balanceado",
			Ingredients: []models.Ingredient{
				{Item: "Pão integral", Quantity: "2 fatias", Price: 2.00, Calories: 160},
				{Item: "Queijo branco", Quantity: "30g", Price: 2.50, Calories: 75},
				{Item: "Tomate", Quantity: "1 unidade", Price: 1.00, Calories: 20},
			},
			TotalCalories: 255,
			TotalCost:     5.50,
		}
	}

	lunch := models.Meal{
		Name: "Frango Grelhado com Quinoa",
		Ingredients: []models.Ingredient{
			{Item: "Peito de frango", Quantity: "150g", Price: 12.00, Calories: 248},
			{Item: "Quinoa", Quantity: "50g", Price: 4.00, Calories: 185},
			{Item: "Brócolis", Quantity: "100g", Price: 3.00, Calories: 34},
		},
		TotalCalories: 467,
		TotalCost:     19.00,
	}
	dinner := models.Meal{
		Name: "Salmão com Vegetais",
		Ingredients: []models.Ingredient{
			{Item: "Salmão", Quantity: "120g", Price: 15.00, Calories: 250},
			{Item: "Batata doce", Quantity: "100g", Price: 2.00, Calories: 86},
			{Item: "Aspargos", Quantity: "100g", Price: 4.00, Calories: 20},
		},
		TotalCalories: 356,
		TotalCost:     21.00,
	}

	totals := map[string]float64{
		"total_calories": breakfast.TotalCalories + lunch.TotalCalories + dinner.TotalCalories,
		"total_cost":     breakfast.TotalCost + lunch.TotalCost + dinner.TotalCost,
	}
	if macros != nil {
		totals["protein_g"] = macros.ProteinG
		totals["carbs_g"] = macros.CarbG
		totals["fat_g"] = macros.FatG
	}

	return &models.PlanPayload{
		PlanType:    planType,
		Breakfast:   &breakfast,
		Lunch:       &lunch,
		Dinner:      &dinner,
		DailyTotals: totals,
		ShoppingList: []models.ShoppingItem{
			{Item: "Frango (peito)", Quantity: "1kg", EstimatedPrice: 18.00},
			{Item: "Salmão", Quantity: "500g", EstimatedPrice: 35.00},
			{Item: "Quinoa", Quantity: "500g", EstimatedPrice: 12.00},
			{Item: "Vegetais variados", Quantity: "2kg", EstimatedPrice: 15.00},
		},
		NutritionistNotes: map[string]string{
			"metabolic_analysis": fmt.Sprintf("Plano baseado em %.0f kcal diárias", target),
			"budget_compliance":  fmt.Sprintf("Respeitando orçamento de R$ %.2f por refeição", budget),
			"goal_alignment":     fmt.Sprintf("Adequado para: %s", u.Goal),
			"note":               "Plano gerado automaticamente - Configure GEMINI_API_KEY para IA personalizada",
		},
		Fallback: true,
	}
}

package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nutriai-backend/models"
	"nutriai-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEMINI_API_KEY", "")
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.DietPlan{}))

	return routes.SetupRouter(db, zap.NewNop()), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func register(t *testing.T, r *gin.Engine, email, name, userType string) string {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "123456", "name": name, "user_type": userType,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	r, _ := setupAPI(t)

	register(t, r, "ana@email.com", "Ana Silva", "user")

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ana@email.com", "password": "123456",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["access_token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ana@email.com", user["email"])
	assert.Equal(t, "user", user["user_type"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupAPI(t)
	register(t, r, "ana@email.com", "Ana", "user")

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "ana@email.com", "password": "outra", "name": "Outra Ana",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email já cadastrado", body["error"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	r, _ := setupAPI(t)
	register(t, r, "ana@email.com", "Ana", "user")

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ana@email.com", "password": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email ou senha inválidos", body["error"])
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	r, _ := setupAPI(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodPut, "/api/auth/profile"},
		{http.MethodGet, "/api/auth/validate-token"},
		{http.MethodPost, "/api/diet-plans/generate"},
		{http.MethodGet, "/api/diet-plans/my-plans"},
		{http.MethodGet, "/api/diet-plans/pending"},
		{http.MethodGet, "/api/diet-plans/nutritionist-dashboard"},
		{http.MethodPost, "/api/diet-plans/1/validate"},
	}
	for _, ep := range endpoints {
		w, body := doJSON(t, r, ep.method, ep.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, ep.path)
		assert.NotEmpty(t, body["error"], ep.path)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	r, _ := setupAPI(t)

	w, body := doJSON(t, r, http.MethodGet, "/api/diet-plans/my-plans", "nonsense", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token inválido", body["error"])
}

func TestGenerateWithIncompleteProfile(t *testing.T) {
	r, _ := setupAPI(t)
	token := register(t, r, "ana@email.com", "Ana", "user")

	w, body := doJSON(t, r, http.MethodPost, "/api/diet-plans/generate", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// the client keys its profile redirect on this exact error
	assert.Equal(t, "Dados básicos incompletos", body["error"])
	assert.ElementsMatch(t, []interface{}{"weight", "height", "age", "goal"}, body["required"])
	assert.Equal(t, "Complete seu perfil para gerar planos personalizados", body["message"])
}

func TestProfileUpdateRecomputesMetabolicFigures(t *testing.T) {
	r, _ := setupAPI(t)
	token := register(t, r, "ana@email.com", "Ana", "user")

	w, body := doJSON(t, r, http.MethodPut, "/api/auth/profile", token, gin.H{
		"weight": 70, "height": 170, "age": 30, "goal": "perder_peso",
	})
	require.Equal(t, http.StatusOK, w.Code)

	user := body["user"].(map[string]interface{})
	assert.Equal(t, 70.0, user["weight"])
	assert.NotNil(t, user["bmr"])
	assert.NotNil(t, user["tdee"])
	assert.NotNil(t, user["target_calories"])
	assert.NotNil(t, user["macros"])
}

func TestNutritionistOnlyEndpointsForbidPatients(t *testing.T) {
	r, _ := setupAPI(t)
	token := register(t, r, "ana@email.com", "Ana", "user")

	w, _ := doJSON(t, r, http.MethodGet, "/api/diet-plans/pending", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/diet-plans/nutritionist-dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/diet-plans/1/validate", token, gin.H{"action": "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerateForbiddenForNutritionist(t *testing.T) {
	r, _ := setupAPI(t)
	token := register(t, r, "maria@nutricionista.com", "Dr. Maria", "nutritionist")

	w, body := doJSON(t, r, http.MethodPost, "/api/diet-plans/generate", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Apenas usuários podem gerar planos", body["error"])
}

// Full scenario: ana completes her profile and generates a plan, maria
// reviews the pending queue and rejects it with feedback, ana sees the
// outcome, a repeat validation bounces.
func TestPlanLifecycleEndToEnd(t *testing.T) {
	r, _ := setupAPI(t)

	anaToken := register(t, r, "ana@email.com", "Ana Silva", "user")
	mariaToken := register(t, r, "maria@nutricionista.com", "Dr. Maria Oliveira", "nutritionist")

	w, _ := doJSON(t, r, http.MethodPut, "/api/auth/profile", anaToken, gin.H{
		"weight": 70, "height": 170, "age": 30, "goal": "perder_peso",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(t, r, http.MethodPost, "/api/diet-plans/generate", anaToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	plan := body["plan"].(map[string]interface{})
	assert.Equal(t, "pending", plan["status"])
	planID := uint(plan["id"].(float64))
	require.NotZero(t, planID)

	analysis := body["scientific_analysis"].(map[string]interface{})
	assert.NotNil(t, analysis["bmr"])
	assert.NotNil(t, analysis["macros"])

	// maria sees ana's plan in the pending queue, annotated with her name
	w, body = doJSON(t, r, http.MethodGet, "/api/diet-plans/pending", mariaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := body["pending_plans"].([]interface{})
	require.Len(t, pending, 1)
	entry := pending[0].(map[string]interface{})
	assert.Equal(t, "Ana Silva", entry["user_name"])
	assert.Equal(t, "perder_peso", entry["goal"])

	w, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/diet-plans/%d/validate", planID), mariaToken, gin.H{
		"action": "reject", "feedback": "adjust breakfast",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Plano rejeitado com sucesso", body["message"])

	// ana's list reflects the terminal status and the feedback
	w, body = doJSON(t, r, http.MethodGet, "/api/diet-plans/my-plans", anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	plans := body["plans"].([]interface{})
	require.Len(t, plans, 1)
	mine := plans[0].(map[string]interface{})
	assert.Equal(t, "rejected", mine["status"])
	assert.Equal(t, "adjust breakfast", mine["nutritionist_feedback"])

	// terminal plans never re-validate
	w, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/diet-plans/%d/validate", planID), mariaToken, gin.H{
		"action": "approve",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Plano não encontrado ou já validado", body["error"])

	// dashboard: one rejection, no approvals, rate 0
	w, body = doJSON(t, r, http.MethodGet, "/api/diet-plans/nutritionist-dashboard", mariaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dashboard := body["dashboard"].(map[string]interface{})
	assert.Equal(t, 1.0, dashboard["my_validations"])
	assert.Equal(t, 1.0, dashboard["my_rejections"])
	assert.Equal(t, 0.0, dashboard["my_approvals"])
	assert.Equal(t, 0.0, dashboard["approval_rate"])
	assert.Equal(t, 1.0, dashboard["unique_patients"])
}

func TestGetPlanOwnershipRules(t *testing.T) {
	r, _ := setupAPI(t)

	anaToken := register(t, r, "ana@email.com", "Ana", "user")
	carlosToken := register(t, r, "carlos@email.com", "Carlos", "user")
	mariaToken := register(t, r, "maria@nutricionista.com", "Maria", "nutritionist")

	w, _ := doJSON(t, r, http.MethodPut, "/api/auth/profile", anaToken, gin.H{
		"weight": 70, "height": 170, "age": 30, "goal": "perder_peso",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(t, r, http.MethodPost, "/api/diet-plans/generate", anaToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	planID := uint(body["plan"].(map[string]interface{})["id"].(float64))

	// owner can read it
	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/diet-plans/%d", planID), anaToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// another patient cannot
	w, body = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/diet-plans/%d", planID), carlosToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Acesso negado", body["error"])

	// a nutritionist sees it with the scientific annex
	w, body = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/diet-plans/%d", planID), mariaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, body["user_scientific_data"])

	// unknown plan
	w, _ = doJSON(t, r, http.MethodGet, "/api/diet-plans/9999", anaToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidateInvalidAction(t *testing.T) {
	r, _ := setupAPI(t)
	mariaToken := register(t, r, "maria@nutricionista.com", "Maria", "nutritionist")

	w, body := doJSON(t, r, http.MethodPost, "/api/diet-plans/1/validate", mariaToken, gin.H{
		"action": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Ação deve ser "approve" ou "reject"`, body["error"])
}

func TestStatusEndpoint(t *testing.T) {
	r, _ := setupAPI(t)
	register(t, r, "ana@email.com", "Ana", "user")

	w, body := doJSON(t, r, http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, false, body["gemini_configured"])

	stats := body["statistics"].(map[string]interface{})
	assert.Equal(t, 1.0, stats["total_users"])
	assert.Equal(t, 0.0, stats["total_plans"])
}

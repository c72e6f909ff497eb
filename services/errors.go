package services

import "errors"

// Service errors carry the user-facing message; the client displays them
// verbatim, so they stay in Portuguese like the rest of the API surface.
var (
	ErrEmailTaken         = errors.New("Email já cadastrado")
	ErrInvalidCredentials = errors.New("Email ou senha inválidos")
	ErrUserNotFound       = errors.New("Usuário não encontrado")
	ErrIncompleteProfile  = errors.New("Dados básicos incompletos")
	ErrNotPatient         = errors.New("Apenas usuários podem gerar planos")
	ErrNotNutritionist    = errors.New("Apenas nutricionistas podem acessar este recurso")
	ErrPlanNotFound       = errors.New("Plano não encontrado")
	ErrPlanAlreadyDone    = errors.New("Plano não encontrado ou já validado")
	ErrInvalidAction      = errors.New(`Ação deve ser "approve" ou "reject"`)
	ErrPlanForbidden      = errors.New("Acesso negado")
)

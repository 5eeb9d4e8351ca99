package autherrors

import (
	"net/http"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		"CREDENCIAIS_INVALIDAS",
		"E-mail ou senha incorretos",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"Token inválido",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"Token expirado",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		"INVALID_REFRESH_TOKEN",
		"Refresh token inválido",
		http.StatusUnauthorized,
	)
	ErrInvalidUserID = apperror.New(
		"INVALID_USER_ID",
		"Identificador de usuário inválido",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"Usuário não encontrado",
		http.StatusNotFound,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		"EMAIL_JA_CADASTRADO",
		"Já existe um usuário com este e-mail",
		http.StatusConflict,
	)
	ErrTokenGenerationFailed = apperror.New(
		"TOKEN_GENERATION_FAILED",
		"Não foi possível gerar o token",
		http.StatusInternalServerError,
	)
	ErrForbidden = apperror.New(
		"FORBIDDEN",
		"Acesso negado",
		http.StatusForbidden,
	)
)

package employeeerrors

import (
	"net/http"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/apperror"
)

// Guard violations keep the domain codes the HR team reports on
// (Portuguese, matching the payroll provider's terminology).
var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same tax id or email already exists",
		http.StatusConflict,
	)
	ErrMissingRequiredFields = apperror.New(
		"CAMPOS_OBRIGATORIOS",
		"Name, tax id, email, tenant and company are required",
		http.StatusBadRequest,
	)
	ErrInvalidTaxID = apperror.New(
		"CPF_INVALIDO",
		"Tax id is not a valid CPF",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		"EMAIL_INVALIDO",
		"Email address is not valid",
		http.StatusBadRequest,
	)
	ErrTerminationBeforeHire = apperror.New(
		"DATA_DEMISSAO_INVALIDA",
		"Termination date cannot precede the hire date",
		http.StatusBadRequest,
	)
	ErrAlreadyTerminated = apperror.New(
		"COLABORADOR_JA_DEMITIDO",
		"Employee is already terminated",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyDeleted = apperror.New(
		"COLABORADOR_JA_EXCLUIDO",
		"Employee is already deleted",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidTransition = apperror.New(
		"TRANSICAO_INVALIDA",
		"Operation is not allowed in the employee's current status",
		http.StatusUnprocessableEntity,
	)
	ErrReactivationRequiresDeleted = apperror.New(
		"REATIVACAO_INVALIDA",
		"Only deleted employees can be reactivated",
		http.StatusUnprocessableEntity,
	)
	ErrHireDateInFuture = apperror.New(
		"DATA_ADMISSAO_FUTURA",
		"Hire date cannot be in the future",
		http.StatusBadRequest,
	)
	ErrTransferNotAllowed = apperror.New(
		"TRANSFERENCIA_INVALIDA",
		"Only active employees can be transferred",
		http.StatusUnprocessableEntity,
	)
	ErrTransferDateBeforeHire = apperror.New(
		"DATA_TRANSFERENCIA_INVALIDA",
		"Transfer date cannot precede the hire date",
		http.StatusBadRequest,
	)
	ErrBlankIdentityID = apperror.New(
		"IDENTIDADE_INVALIDA",
		"External identity id cannot be blank",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)

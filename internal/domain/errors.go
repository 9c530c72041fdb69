package domain

import "errors"

// Доменные ошибки сервиса совместных проектов
var (
	// ErrAlreadyMember возвращается когда заявку подает владелец или участник команды
	ErrAlreadyMember = errors.New("user is already on the team")

	// ErrDuplicateRequest возвращается при повторной заявке пока предыдущая не рассмотрена
	ErrDuplicateRequest = errors.New("pending join request already exists")

	// ErrNotOwner возвращается когда заявку пытается рассмотреть не владелец проекта
	ErrNotOwner = errors.New("caller is not the opportunity owner")

	// ErrInvalidState возвращается когда заявка уже рассмотрена (гонка принятия решения)
	ErrInvalidState = errors.New("request is no longer pending")

	// ErrNotMember возвращается при доступе к чату или файлам без членства в команде
	ErrNotMember = errors.New("user is not a team member")

	// ErrEmailExists возвращается при регистрации на занятый email
	ErrEmailExists = errors.New("email is already registered")

	// ErrInvalidCredentials возвращается при неверном пароле на логине
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда профиль пользователя не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrOpportunityNotFound возвращается когда проект не найден
	ErrOpportunityNotFound = errors.New("opportunity not found")

	// ErrRequestNotFound возвращается когда заявка не найдена
	ErrRequestNotFound = errors.New("join request not found")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок, отдаваемые клиентам
const (
	CodeAlreadyMember      ErrorCode = "ALREADY_MEMBER"      // Пользователь уже в команде
	CodeDuplicateRequest   ErrorCode = "DUPLICATE_REQUEST"   // Заявка уже отправлена
	CodeNotOwner           ErrorCode = "NOT_OWNER"           // Решение принимает не владелец
	CodeInvalidState       ErrorCode = "INVALID_STATE"       // Заявка уже рассмотрена
	CodeNotMember          ErrorCode = "NOT_MEMBER"          // Нет доступа к командным разделам
	CodeEmailExists        ErrorCode = "EMAIL_EXISTS"        // Email уже зарегистрирован
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS" // Неверный email или пароль
	CodeNotFound           ErrorCode = "NOT_FOUND"           // Ресурс не найден
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrAlreadyMember):
		return CodeAlreadyMember
	case errors.Is(err, ErrDuplicateRequest):
		return CodeDuplicateRequest
	case errors.Is(err, ErrNotOwner):
		return CodeNotOwner
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrNotMember):
		return CodeNotMember
	case errors.Is(err, ErrEmailExists):
		return CodeEmailExists
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrOpportunityNotFound), errors.Is(err, ErrRequestNotFound):
		return CodeNotFound
	default:
		return CodeNotFound
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const (
	// HeaderUserID заголовок с идентификатором клиента
	// Проставляется API gateway после аутентификации
	HeaderUserID = "X-User-ID"

	// HeaderUserRole заголовок с ролью пользователя
	HeaderUserRole = "X-User-Role"

	// RoleStaff значение роли персонала кафе
	RoleStaff = "staff"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
)

type contextKey string

const (
	customerIDKey contextKey = "customerID"
	isStaffKey    contextKey = "isStaff"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth middleware аутентификации
// Сервис доверяет заголовкам gateway-а и не проверяет подпись токена
type Auth struct {
	logger Logger
}

// NewAuth создает новый middleware аутентификации
func NewAuth(logger Logger) *Auth {
	return &Auth{logger: logger}
}

// Require требует наличие X-User-ID и кладет идентификатор и роль в контекст
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID := r.Header.Get(HeaderUserID)
		if customerID == "" {
			a.logger.Warn("%s %s - missing %s header", r.Method, r.URL.Path, HeaderUserID)
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), customerIDKey, customerID)
		ctx = context.WithValue(ctx, isStaffKey, r.Header.Get(HeaderUserRole) == RoleStaff)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CustomerID возвращает идентификатор клиента из контекста запроса
func CustomerID(r *http.Request) string {
	id, _ := r.Context().Value(customerIDKey).(string)
	return id
}

// IsStaff возвращает true, если запрос выполняет персонал кафе
func IsStaff(r *http.Request) bool {
	isStaff, _ := r.Context().Value(isStaffKey).(bool)
	return isStaff
}

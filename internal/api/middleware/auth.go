package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/centinela/internal/auth"
	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// Context keys set by the auth middleware.
const (
	LocalOperator     = "operator"
	LocalOperatorName = "operator_name"
	LocalOperatorRole = "operator_role"
)

type AuthDependencies struct {
	JWTService *auth.JWTService
	Gate       *auth.RoleGate
	Logger     *slog.Logger
}

// OperatorAuth validates the bearer token of a console operator and
// registers the operator's role with the gate. Handlers read the caller
// from c.Locals(LocalOperator).
func OperatorAuth(deps AuthDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return domain.ErrUnauthorized
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := deps.JWTService.ValidateToken(token)
		if err != nil {
			deps.Logger.Warn("operator token rejected",
				slog.String("error", err.Error()),
				slog.String("ip", c.IP()),
			)
			return domain.ErrUnauthorized
		}

		deps.Gate.Grant(claims.OperatorID, claims.Role)

		c.Locals(LocalOperator, claims.OperatorID)
		c.Locals(LocalOperatorName, claims.Name)
		c.Locals(LocalOperatorRole, claims.Role)

		return c.Next()
	}
}

// GetOperator returns the authenticated operator id or ErrUnauthorized
// when the middleware did not run.
func GetOperator(c *fiber.Ctx) (string, error) {
	operator, ok := c.Locals(LocalOperator).(string)
	if !ok || operator == "" {
		return "", domain.ErrUnauthorized
	}
	return operator, nil
}

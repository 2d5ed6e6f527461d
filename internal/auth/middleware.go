package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/requisicion-service/internal/domain"
	"github.com/spec-kit/requisicion-service/internal/repository"
	apperrors "github.com/spec-kit/requisicion-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated caller: the explicit auth context every
// service call receives. Capabilities are derived once from the stored role,
// never from the token.
type Principal struct {
	Profile      *domain.Profile
	Capabilities domain.CapabilitySet
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	profiles repository.ProfileRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, profiles repository.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, profiles: profiles}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("falta el encabezado de autorización")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("encabezado de autorización inválido")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("token inválido")
	}

	profile, err := m.profiles.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("usuario no encontrado")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{
		Profile:      profile,
		Capabilities: profile.Capabilities(),
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

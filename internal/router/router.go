package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bites4life/internal/auth"
	"bites4life/internal/config"
	apperrors "bites4life/internal/errors"
	"bites4life/internal/handler"
	"bites4life/internal/model"
	"bites4life/internal/service"
)

// Handlers groups the endpoint handlers served by the API.
type Handlers struct {
	System *handler.SystemHandler
	Auth   *handler.AuthHandler
	Rider  *handler.RiderHandler
	Admin  *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authService service.AuthService,
	h Handlers,
) {
	e.HTTPErrorHandler = errorHandler
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", h.System.Index)
	e.GET("/healthz", h.System.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/login", h.Auth.Login)
	e.POST("/auth/refresh", h.Auth.Refresh)
	e.POST("/auth/logout", h.Auth.Logout, optionalJWT(jwtService))

	// Rider app
	e.GET("/check_code/:code", h.Rider.CheckCode)
	e.POST("/update_status", h.Rider.UpdateStatus)

	var staff, super []echo.MiddlewareFunc
	if cfg.RequireAuth {
		jwtMW := requireJWT(jwtService)
		revoked := rejectRevoked(authService)
		staff = []echo.MiddlewareFunc{jwtMW, revoked, requireRole(model.RoleAdmin, model.RoleSuperAdmin)}
		super = []echo.MiddlewareFunc{jwtMW, revoked, requireRole(model.RoleSuperAdmin)}
	}

	// Dispatch board
	e.GET("/get_riders", h.Rider.GetRiders, staff...)
	e.POST("/add_rider", h.Rider.AddRider, staff...)
	e.DELETE("/delete_rider/:code", h.Rider.DeleteRider, staff...)

	admin := e.Group("/admin", staff...)
	admin.POST("/on_route", h.Rider.MarkOnRoute)
	admin.POST("/ring_rider", h.Rider.RingRider)
	admin.POST("/stop_ring", h.Rider.StopRing)

	// Admin accounts
	e.POST("/add_admin", h.Admin.AddAdmin, super...)
	e.GET("/get_admins", h.Admin.GetAdmins, super...)
	e.DELETE("/delete_admin/:id", h.Admin.DeleteAdmin, super...)
}

func jwtConfig(jwtService *auth.JWTService) echojwt.Config {
	return echojwt.Config{
		SigningKey:  jwtService.Secret(),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}
}

func requireJWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(jwtConfig(jwtService))
}

// optionalJWT parses a bearer token when one is sent and carries on without
// claims otherwise.
func optionalJWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	cfg := jwtConfig(jwtService)
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return nil
	}
	return echojwt.WithConfig(cfg)
}

// rejectRevoked turns away refresh tokens presented as bearer tokens and
// access tokens revoked by logout.
func rejectRevoked(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := handler.ClaimsFrom(c)
			if !claims.IsAccess() {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: "access token required",
					Code:  "INVALID_TOKEN",
				})
			}
			if authService.IsRevoked(c.Request().Context(), claims) {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: "token has been revoked",
					Code:  "TOKEN_REVOKED",
				})
			}
			return next(c)
		}
	}
}

func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := handler.ClaimsFrom(c)
			if claims != nil {
				for _, role := range roles {
					if claims.Role == role {
						return next(c)
					}
				}
			}
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}
}

// errorHandler renders every failure, including echo's own routing, binding
// and JWT errors, as an ErrorResponse.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var body apperrors.ErrorResponse
	var status int

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = msg
		case string:
			body = apperrors.ErrorResponse{Error: msg, Code: codeForStatus(status)}
		default:
			body = apperrors.ErrorResponse{Error: http.StatusText(status), Code: codeForStatus(status)}
		}
	} else {
		httpErr := apperrors.MapErrorToHTTP(err)
		status = httpErr.StatusCode
		body = httpErr.ToErrorResponse()
	}
	body.Success = false

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func codeForStatus(status int) string {
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		return "INTERNAL_ERROR"
	}
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

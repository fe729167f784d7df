package auth

import (
	"database/sql"
	"strings"
	"time"

	"maia-sss/app/config"
	"maia-sss/app/database"
	"maia-sss/app/models"

	"github.com/gofiber/fiber/v2"
)

// Provider handles the Google OAuth flow. Swappable in tests.
var Provider *GoogleProvider

func SetupAuthRoutes(app *fiber.App, db *sql.DB) {
	if Provider == nil {
		Provider = NewGoogleProvider(config.AppConfig.Google)
	}

	// Public routes
	app.Get("/login", ShowLoginPage)
	app.Get("/signup", ShowLoginPage)
	app.Get("/auth/google", GoogleLoginAPI)
	app.Get("/auth/callback", func(c *fiber.Ctx) error { return CallbackAPI(c, db) })
	app.Post("/auth/logout", LogoutAPI)

	// Protected routes
	app.Get("/onboarding", AuthMiddleware, func(c *fiber.Ctx) error { return OnboardingPage(c, db) })
}

// ShowLoginPage renders the sign-in page. Already-authenticated visitors
// go straight to the dashboard.
func ShowLoginPage(c *fiber.Ctx) error {
	if tokenString := c.Cookies("jwt_token"); tokenString != "" {
		if _, err := ValidateJWT(tokenString); err == nil {
			return c.Redirect("/dashboard")
		}
	}

	return c.Render("auth/login", fiber.Map{
		"Title":         "Sign in - Maia SSS",
		"GoogleEnabled": config.AppConfig.Google.IsConfigured(),
		"Error":         c.Query("error"),
	}, "")
}

// OnboardingPage renders the profile-completion form shown after a first
// sign-in, before a role has been assigned.
func OnboardingPage(c *fiber.Ctx, db *sql.DB) error {
	userID := c.Locals("user_id").(string)

	user, err := database.GetUserByID(db, userID)
	if err != nil && err != sql.ErrNoRows {
		return fiber.NewError(500, "Failed to load profile")
	}
	if err == nil && user.Role != nil {
		return c.Redirect("/dashboard")
	}

	return c.Render("auth/onboarding", fiber.Map{
		"Title": "Complete your profile - Maia SSS",
		"user":  user,
	}, "")
}

// AuthMiddleware validates the JWT from the cookie or Authorization
// header and sets the user context. API requests get a 401 JSON body;
// page requests are redirected to the login screen with a redirectTo
// back to where they were headed.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies("jwt_token")

	if tokenString == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	isAPIRequest := strings.HasPrefix(c.Path(), "/api/")

	if tokenString == "" {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"data": nil, "error": "Unauthorized - Please log in"})
		}
		return c.Redirect("/login?redirectTo=" + c.Path())
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"data": nil, "error": "Unauthorized - Please log in"})
		}
		return c.Redirect("/login?redirectTo=" + c.Path())
	}

	refreshSession(c, claims)

	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_first_name", claims.FirstName)
	c.Locals("user_last_name", claims.LastName)

	return c.Next()
}

// refreshSession reissues the session cookie when less than six hours
// remain, so an active user is never logged out mid-day.
func refreshSession(c *fiber.Ctx, claims *JWTClaims) {
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) >= 6*time.Hour {
		return
	}

	user := &models.User{ID: claims.UserID, Email: claims.Email}
	if claims.FirstName != "" {
		user.FirstName = &claims.FirstName
	}
	if claims.LastName != "" {
		user.LastName = &claims.LastName
	}

	token, err := GenerateJWT(user)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// RequireStaff gates an endpoint to SSS staff. The action string names
// the operation in the forbidden message, e.g. "create cases".
func RequireStaff(db *sql.DB, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return c.Status(401).JSON(fiber.Map{"data": nil, "error": "Unauthorized - Please log in"})
		}

		role, err := database.GetUserRole(db, userID)
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"data": nil, "error": "User not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
		}
		if role == nil || *role != models.RoleSSSStaff {
			return c.Status(403).JSON(fiber.Map{"data": nil, "error": "Forbidden - Only SSS staff can " + action})
		}

		return c.Next()
	}
}

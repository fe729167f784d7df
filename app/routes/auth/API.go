package auth

import (
	"database/sql"
	"net/url"
	"strings"
	"time"

	"maia-sss/app/database"

	"github.com/gofiber/fiber/v2"
)

// GoogleLoginAPI kicks off the OAuth flow: store the CSRF state and the
// post-login destination in short-lived cookies, then send the visitor
// to Google's consent screen.
func GoogleLoginAPI(c *fiber.Ctx) error {
	if Provider == nil || !providerConfigured() {
		return c.Redirect("/login?error=oauth_not_configured")
	}

	state := GenerateStateToken()
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	if next := c.Query("next"); next != "" && strings.HasPrefix(next, "/") {
		c.Cookie(&fiber.Cookie{
			Name:     "oauth_next",
			Value:    next,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}

	return c.Redirect(Provider.GetLoginURL(state))
}

// CallbackAPI completes the OAuth flow. Provider errors bounce back to
// the login page; a first-time sign-in gets a fresh profile row and lands
// on onboarding until a role is assigned.
func CallbackAPI(c *fiber.Ctx, db *sql.DB) error {
	if errParam := c.Query("error"); errParam != "" {
		return c.Redirect("/login?error=" + url.QueryEscape(errParam))
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies("oauth_state") {
		return c.Redirect("/login?error=invalid_state")
	}
	clearCookie(c, "oauth_state")

	code := c.Query("code")
	if code == "" {
		return c.Redirect("/login?error=missing_code")
	}

	googleUser, err := Provider.ExchangeCode(c.Context(), code)
	if err != nil {
		return c.Redirect("/login?error=oauth_failed")
	}

	user, err := database.GetUserByEmail(db, googleUser.Email)
	if err == sql.ErrNoRows {
		var first, last *string
		if googleUser.GivenName != "" {
			first = &googleUser.GivenName
		}
		if googleUser.FamilyName != "" {
			last = &googleUser.FamilyName
		}
		user, err = database.CreateUserProfile(db, googleUser.Email, googleUser.Sub, first, last)
	}
	if err != nil {
		return c.Redirect("/login?error=profile_failed")
	}

	token, err := GenerateJWT(user)
	if err != nil {
		return c.Redirect("/login?error=session_failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	if user.Role == nil {
		return c.Redirect("/onboarding")
	}

	next := c.Cookies("oauth_next")
	clearCookie(c, "oauth_next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/dashboard"
	}
	return c.Redirect(next)
}

// LogoutAPI clears the session cookie and sends the visitor to the login
// page.
func LogoutAPI(c *fiber.Ctx) error {
	clearCookie(c, "jwt_token")
	return c.Redirect("/login")
}

func providerConfigured() bool {
	return Provider.config.ClientID != "" && Provider.config.ClientSecret != ""
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}

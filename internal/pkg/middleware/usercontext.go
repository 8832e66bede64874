package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kurslyhq/kursly/internal/pkg/session"
	"github.com/kurslyhq/kursly/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every
// request so controllers never touch the session store directly.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	rawUserID := sess.Get(usercontext.KeyUserID)
	if rawUserID == nil {
		// Anonymous user - no session data
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	userID := toUint(rawUserID)
	if userID == 0 {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	isAdmin := sess.Get(usercontext.KeyIsAdmin)
	userCtx := usercontext.UserContext{
		UserID:     userID,
		Email:      session.GetSessionValue(c, usercontext.KeyUserEmail),
		Name:       session.GetSessionValue(c, usercontext.KeyUserName),
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
	}
	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyFromProtected, true)

	return c.Next()
}

func toUint(v interface{}) uint {
	switch val := v.(type) {
	case uint:
		return val
	case int:
		if val > 0 {
			return uint(val)
		}
	case int64:
		if val > 0 {
			return uint(val)
		}
	case string:
		if n, err := strconv.ParseUint(val, 10, 64); err == nil {
			return uint(n)
		}
	}
	return 0
}

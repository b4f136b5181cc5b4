package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"yatube/models"
	"yatube/services"
)

const (
	// AuthCookie - cookie с токеном сессии из user_tokens
	AuthCookie = "auth_token"
	// LoginURL - куда отправляется неаутентифицированный запрос
	LoginURL = "/auth/login/"
)

var userService = services.NewUserService()

// CurrentUser кладет владельца токена сессии в контекст запроса.
// Отсутствующий или протухший токен не ошибка: запрос просто анонимный.
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookie)
		if err == nil && token != "" {
			if user, err := userService.UserByToken(c.Request.Context(), token); err == nil {
				c.Set("user", user)
				c.Set("user_id", user.ID)
			}
		}
		c.Next()
	}
}

// LoginRequired редиректит анонимный запрос на страницу входа,
// сохраняя исходный путь в параметре next
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFromContext(c); !ok {
			next := url.QueryEscape(c.Request.URL.Path)
			c.Redirect(http.StatusFound, LoginURL+"?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

func UserFromContext(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// UserID возвращает id аутентифицированного пользователя, 0 для анонима
func UserID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

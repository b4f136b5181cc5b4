package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yatube/api/middleware"
	"yatube/services"
)

const authCookieMaxAge = 30 * 24 * 60 * 60

func setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.AuthCookie, token, authCookieMaxAge, "/", "", false, true)
}

// safeNext не дает увести редирект на чужой хост
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

// Signup - регистрация с автоматическим входом
func Signup(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		c.HTML(http.StatusOK, "signup.html", gin.H{})
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	firstName := c.PostForm("first_name")
	lastName := c.PostForm("last_name")

	render := func(msg string) {
		c.HTML(http.StatusOK, "signup.html", gin.H{
			"Error":     msg,
			"Username":  username,
			"FirstName": firstName,
			"LastName":  lastName,
		})
	}

	if username == "" || password == "" {
		render("Имя пользователя и пароль обязательны")
		return
	}

	_, err := userService.Register(c.Request.Context(), username, password, firstName, lastName)
	if errors.Is(err, services.ErrUserExists) {
		render("Пользователь с таким именем уже существует")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	token, _, err := userService.Login(c.Request.Context(), username, password)
	if err != nil {
		serverError(c, err)
		return
	}
	setAuthCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

// Login - вход; после успеха возврат на next, если он был
func Login(c *gin.Context) {
	next := c.Query("next")

	if c.Request.Method == http.MethodGet {
		c.HTML(http.StatusOK, "login.html", gin.H{"Next": next})
		return
	}

	token, _, err := userService.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error": "Неверное имя пользователя или пароль",
			"Next":  next,
		})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	setAuthCookie(c, token)
	c.Redirect(http.StatusFound, safeNext(next))
}

// Logout отзывает токены сессии и сбрасывает cookie
func Logout(c *gin.Context) {
	if userID := middleware.UserID(c); userID != 0 {
		if err := userService.Logout(c.Request.Context(), userID); err != nil {
			serverError(c, err)
			return
		}
	}
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yatube/api/middleware"
	"yatube/services"
)

// ProfileFollow подписывает текущего пользователя на автора.
// Подписка на себя и повторная подписка - no-op, в любом случае
// редирект обратно на профиль.
func ProfileFollow(c *gin.Context) {
	author, err := feedService.AuthorByUsername(c.Request.Context(), c.Param("username"))
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	if err := followService.Subscribe(c.Request.Context(), middleware.UserID(c), author.ID); err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

// ProfileUnfollow снимает подписку, отсутствующее ребро - no-op
func ProfileUnfollow(c *gin.Context) {
	author, err := feedService.AuthorByUsername(c.Request.Context(), c.Param("username"))
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	if err := followService.Unsubscribe(c.Request.Context(), middleware.UserID(c), author.ID); err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

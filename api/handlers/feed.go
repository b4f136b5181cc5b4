package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yatube/api/middleware"
	"yatube/services"
)

// Index - глобальная лента, все посты. Снаружи обернута кешем страницы.
func Index(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := feedService.GlobalPosts(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	page, err := buildFeedPage(ctx, posts, pageNumber(c))
	if err != nil {
		serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"User": currentUser(c),
		"Page": page,
	})
}

// GroupPosts - лента сообщества по slug, 404 для неизвестного slug
func GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()

	group, posts, err := feedService.GroupPosts(ctx, c.Param("slug"))
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	page, err := buildFeedPage(ctx, posts, pageNumber(c))
	if err != nil {
		serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "group.html", gin.H{
		"User":  currentUser(c),
		"Group": group,
		"Page":  page,
	})
}

// FollowIndex - лента постов авторов, на которых подписан пользователь
func FollowIndex(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := feedService.FollowPosts(ctx, middleware.UserID(c))
	if err != nil {
		serverError(c, err)
		return
	}
	page, err := buildFeedPage(ctx, posts, pageNumber(c))
	if err != nil {
		serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "follow.html", gin.H{
		"User": currentUser(c),
		"Page": page,
	})
}

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yatube/api/middleware"
	"yatube/logging"
	"yatube/models"
	"yatube/pagination"
	"yatube/services"
)

var (
	feedService   = services.NewFeedService()
	followService = services.NewFollowService()
	postService   = services.NewPostService()
	userService   = services.NewUserService()
)

func pageNumber(c *gin.Context) int {
	number, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return number
}

// buildFeedPage режет ленту на страницы и навешивает на видимую
// страницу счетчики комментариев
func buildFeedPage(ctx context.Context, posts []models.Post, number int) (pagination.Page[services.PostCard], error) {
	page := pagination.Paginate(posts, services.PageSize, number)
	cards, err := feedService.AttachCommentCounts(ctx, page.Items)
	if err != nil {
		return pagination.Page[services.PostCard]{}, err
	}
	return pagination.Page[services.PostCard]{
		Items:      cards,
		Number:     page.Number,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		NumPages:   page.NumPages,
	}, nil
}

// NotFound рендерит страницу 404, в том числе для неизвестных маршрутов
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"Path": c.Request.URL.Path,
	})
}

func serverError(c *gin.Context, err error) {
	logging.L().Errorw("request failed", "path", c.Request.URL.Path, "err", err)
	c.HTML(http.StatusInternalServerError, "500.html", nil)
	c.Abort()
}

func currentUser(c *gin.Context) *models.User {
	user, _ := middleware.UserFromContext(c)
	return user
}

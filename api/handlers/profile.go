package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yatube/api/middleware"
	"yatube/models"
	"yatube/services"
)

// authorCounts собирает живые счетчики автора: постов, подписчиков и
// подписок. Пустые отношения дают нули.
func authorCounts(c *gin.Context, authorID int64) (postCount, followerCount, followingCount int64, err error) {
	ctx := c.Request.Context()
	if postCount, err = feedService.AuthorPostCount(ctx, authorID); err != nil {
		return
	}
	if followerCount, err = followService.FollowerCount(ctx, authorID); err != nil {
		return
	}
	followingCount, err = followService.FollowingCount(ctx, authorID)
	return
}

// Profile - страница автора: его лента, счетчики и статус подписки
func Profile(c *gin.Context) {
	ctx := c.Request.Context()

	author, posts, err := feedService.AuthorPosts(ctx, c.Param("username"))
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	following, err := followService.IsFollowing(ctx, middleware.UserID(c), author.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	postCount, followerCount, followingCount, err := authorCounts(c, author.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	page, err := buildFeedPage(ctx, posts, pageNumber(c))
	if err != nil {
		serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User":           currentUser(c),
		"Author":         author,
		"Following":      following,
		"PostCount":      postCount,
		"FollowerCount":  followerCount,
		"FollowingCount": followingCount,
		"Page":           page,
	})
}

func postFromPath(c *gin.Context) (*models.Post, bool) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		NotFound(c)
		return nil, false
	}
	post, err := postService.GetPost(c.Request.Context(), c.Param("username"), postID)
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return nil, false
	}
	if err != nil {
		serverError(c, err)
		return nil, false
	}
	return post, true
}

func renderPostView(c *gin.Context, post *models.Post, status int, commentError string) {
	ctx := c.Request.Context()

	comments, err := postService.Comments(ctx, post.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	postCount, followerCount, followingCount, err := authorCounts(c, post.AuthorID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.HTML(status, "post.html", gin.H{
		"User":           currentUser(c),
		"Post":           post,
		"Author":         post.Author,
		"Comments":       comments,
		"PostCount":      postCount,
		"FollowerCount":  followerCount,
		"FollowingCount": followingCount,
		"CommentError":   commentError,
	})
}

// PostView - отдельный пост с комментариями и формой комментария
func PostView(c *gin.Context) {
	post, ok := postFromPath(c)
	if !ok {
		return
	}
	renderPostView(c, post, http.StatusOK, "")
}

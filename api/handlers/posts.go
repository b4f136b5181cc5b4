package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yatube/api/middleware"
	"yatube/services"
)

// postForm - разобранные поля формы поста. Ошибки полей показываются
// на той же форме с кодом 200, без редиректа.
type postForm struct {
	Text    string
	GroupID *int64
	Image   string
	Errors  map[string]string
}

func parsePostForm(c *gin.Context) postForm {
	form := postForm{
		Text:   c.PostForm("text"),
		Errors: map[string]string{},
	}

	if raw := c.PostForm("group"); raw != "" {
		if groupID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			form.GroupID = &groupID
		}
	}

	header, err := c.FormFile("image")
	if err == nil && header != nil {
		name, err := postService.SaveImage(header)
		if errors.Is(err, services.ErrInvalidImage) {
			form.Errors["Image"] = "Файл не является изображением"
			return form
		}
		if err != nil {
			form.Errors["Image"] = "Не удалось сохранить изображение"
			return form
		}
		form.Image = name
	}
	return form
}

func (f postForm) groupIDValue() int64 {
	if f.GroupID == nil {
		return 0
	}
	return *f.GroupID
}

func renderPostForm(c *gin.Context, tmpl string, form postForm, extra gin.H) {
	groups, err := feedService.Groups(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	data := gin.H{
		"User":    currentUser(c),
		"Text":    form.Text,
		"GroupID": form.groupIDValue(),
		"Groups":  groups,
		"Errors":  form.Errors,
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(http.StatusOK, tmpl, data)
}

// PostNew - форма создания поста
func PostNew(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		renderPostForm(c, "post_new.html", postForm{Errors: map[string]string{}}, nil)
		return
	}

	form := parsePostForm(c)
	if len(form.Errors) > 0 {
		renderPostForm(c, "post_new.html", form, nil)
		return
	}

	_, err := postService.CreatePost(c.Request.Context(), middleware.UserID(c), form.Text, form.GroupID, form.Image)
	if errors.Is(err, services.ErrTextRequired) {
		form.Errors["Text"] = "Текст публикации обязателен"
		renderPostForm(c, "post_new.html", form, nil)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// PostEdit - редактирование поста. Не автору форма не показывается:
// его молча уводят на страницу поста, это политика, а не ошибка.
func PostEdit(c *gin.Context) {
	post, ok := postFromPath(c)
	if !ok {
		return
	}

	postURL := fmt.Sprintf("/%s/%d/", post.Author.Username, post.ID)
	if middleware.UserID(c) != post.AuthorID {
		c.Redirect(http.StatusFound, postURL)
		return
	}

	extra := gin.H{"Username": post.Author.Username, "PostID": post.ID}

	if c.Request.Method == http.MethodGet {
		form := postForm{Text: post.Text, Errors: map[string]string{}}
		if post.GroupID != nil {
			form.GroupID = post.GroupID
		}
		renderPostForm(c, "post_edit.html", form, extra)
		return
	}

	form := parsePostForm(c)
	if len(form.Errors) > 0 {
		renderPostForm(c, "post_edit.html", form, extra)
		return
	}

	err := postService.UpdatePost(c.Request.Context(), post, form.Text, form.GroupID, form.Image)
	if errors.Is(err, services.ErrTextRequired) {
		form.Errors["Text"] = "Текст публикации обязателен"
		renderPostForm(c, "post_edit.html", form, extra)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL)
}

// AddComment добавляет комментарий и возвращает на страницу поста
func AddComment(c *gin.Context) {
	post, ok := postFromPath(c)
	if !ok {
		return
	}

	_, err := postService.AddComment(c.Request.Context(), post.ID, middleware.UserID(c), c.PostForm("text"))
	if errors.Is(err, services.ErrTextRequired) {
		renderPostView(c, post, http.StatusOK, "Комментарий не может быть пустым")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/%s/%d/", post.Author.Username, post.ID))
}

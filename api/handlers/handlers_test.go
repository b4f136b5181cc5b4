package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"yatube/api/middleware"
	"yatube/api/routes"
	"yatube/config"
	"yatube/db"
	"yatube/models"
	"yatube/services"
	"yatube/templates"
)

// setupApp поднимает полное приложение поверх sqlite в памяти: реальные
// маршруты, шаблоны и middleware, кеш ленты отключен (nil-клиент).
func setupApp(t *testing.T) *gin.Engine {
	return setupAppWithCache(t, services.NewRedisPageCache(nil))
}

func setupAppWithCache(t *testing.T, cache services.PageCache) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"),
	)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	db.ORM = database

	cfg := &config.ConfigSchema{}
	cfg.Media.Root = t.TempDir()
	config.AppConfig = cfg

	router := gin.New()
	router.SetHTMLTemplate(templates.Load())
	routes.Register(router, cache)
	return router
}

// signup регистрирует пользователя и возвращает его вместе с cookie сессии
func signup(t *testing.T, username string) (*models.User, *http.Cookie) {
	t.Helper()
	us := services.NewUserService()
	user, err := us.Register(context.Background(), username, "secret", "", "")
	require.NoError(t, err)
	token, _, err := us.Login(context.Background(), username, "secret")
	require.NoError(t, err)
	return user, &http.Cookie{Name: middleware.AuthCookie, Value: token}
}

func createPost(t *testing.T, author *models.User, text string, pubDate time.Time) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: author.ID, Text: text, PubDate: pubDate}
	require.NoError(t, db.ORM.Create(post).Error)
	return post
}

func doGet(router *gin.Engine, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

func doPost(router *gin.Engine, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAnonymousIsRedirectedToLoginWithNext(t *testing.T) {
	router := setupApp(t)

	w := doGet(router, "/new/", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fnew%2F", w.Header().Get("Location"))

	w = doGet(router, "/follow/", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Ffollow%2F", w.Header().Get("Location"))

	// редактирование закрыто до всяких проверок поста и автора
	w = doGet(router, "/smirnov/1/edit/", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fsmirnov%2F1%2Fedit%2F", w.Header().Get("Location"))
}

func TestIndexPagination(t *testing.T) {
	router := setupApp(t)
	author, _ := signup(t, "smirnov")

	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		createPost(t, author, fmt.Sprintf("запись %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	w := doGet(router, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, strings.Count(w.Body.String(), "<article>"))

	w = doGet(router, "/?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "<article>"))

	// номер за пределами диапазона прижимается к последней странице
	w = doGet(router, "/?page=99", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "<article>"))
}

func TestUnknownGroupAndProfileAre404(t *testing.T) {
	router := setupApp(t)

	w := doGet(router, "/group/missing/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(router, "/nobody/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(router, "/nobody/12345/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostCreate(t *testing.T) {
	router := setupApp(t)
	author, cookie := signup(t, "smirnov")

	group := &models.Group{Title: "Коты", Slug: "cats", Description: "про котов"}
	require.NoError(t, db.ORM.Create(group).Error)

	w := doPost(router, "/new/", url.Values{
		"text":  {"новая запись"},
		"group": {fmt.Sprintf("%d", group.ID)},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var post models.Post
	require.NoError(t, db.ORM.First(&post).Error)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, "новая запись", post.Text)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
}

func TestPostCreateEmptyTextStaysOnForm(t *testing.T) {
	router := setupApp(t)
	_, cookie := signup(t, "smirnov")

	w := doPost(router, "/new/", url.Values{"text": {""}}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Текст публикации обязателен")

	var count int64
	require.NoError(t, db.ORM.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestNonAuthorEditIsRedirectedToPost(t *testing.T) {
	router := setupApp(t)
	author, _ := signup(t, "smirnov")
	_, otherCookie := signup(t, "ivanov")
	post := createPost(t, author, "мой пост", time.Now())

	postURL := fmt.Sprintf("/smirnov/%d/", post.ID)

	w := doGet(router, postURL+"edit/", otherCookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postURL, w.Header().Get("Location"))

	// и запись через POST тоже не проходит
	w = doPost(router, postURL+"edit/", url.Values{"text": {"взлом"}}, otherCookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postURL, w.Header().Get("Location"))

	var got models.Post
	require.NoError(t, db.ORM.First(&got, post.ID).Error)
	assert.Equal(t, "мой пост", got.Text)
}

func TestAuthorEditKeepsPubDate(t *testing.T) {
	router := setupApp(t)
	author, cookie := signup(t, "smirnov")
	pubDate := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	post := createPost(t, author, "старый текст", pubDate)

	postURL := fmt.Sprintf("/smirnov/%d/", post.ID)
	w := doPost(router, postURL+"edit/", url.Values{"text": {"новый текст"}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postURL, w.Header().Get("Location"))

	var got models.Post
	require.NoError(t, db.ORM.First(&got, post.ID).Error)
	assert.Equal(t, "новый текст", got.Text)
	assert.True(t, got.PubDate.Equal(pubDate), "дата публикации не меняется при редактировании")
}

func TestCommentFlow(t *testing.T) {
	router := setupApp(t)
	author, _ := signup(t, "smirnov")
	_, commenterCookie := signup(t, "ivanov")
	post := createPost(t, author, "пост", time.Now())

	postURL := fmt.Sprintf("/smirnov/%d/", post.ID)
	commentURL := fmt.Sprintf("/smirnov/%d/comment", post.ID)

	w := doPost(router, commentURL, url.Values{"text": {"отличный пост"}}, commenterCookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postURL, w.Header().Get("Location"))

	w = doGet(router, postURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "отличный пост")
}

func TestEmptyCommentStaysOnPostPage(t *testing.T) {
	router := setupApp(t)
	author, _ := signup(t, "smirnov")
	_, commenterCookie := signup(t, "ivanov")
	post := createPost(t, author, "пост", time.Now())

	commentURL := fmt.Sprintf("/smirnov/%d/comment", post.ID)
	w := doPost(router, commentURL, url.Values{"text": {""}}, commenterCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Комментарий не может быть пустым")

	var count int64
	require.NoError(t, db.ORM.Model(&models.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	router := setupApp(t)
	author, _ := signup(t, "smirnov")
	_, readerCookie := signup(t, "ivanov")
	createPost(t, author, "для подписчиков", time.Now())

	w := doPost(router, "/smirnov/follow/", nil, readerCookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/smirnov/", w.Header().Get("Location"))

	w = doGet(router, "/follow/", readerCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "для подписчиков")

	w = doPost(router, "/smirnov/unfollow/", nil, readerCookie)
	require.Equal(t, http.StatusFound, w.Code)

	w = doGet(router, "/follow/", readerCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "для подписчиков")
}

func TestLoginRedirectsToNext(t *testing.T) {
	router := setupApp(t)
	signup(t, "smirnov")

	w := doPost(router, "/auth/login/?next=%2Fnew%2F", url.Values{
		"username": {"smirnov"},
		"password": {"secret"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/new/", w.Header().Get("Location"))
}

func TestLoginIgnoresExternalNext(t *testing.T) {
	router := setupApp(t)
	signup(t, "smirnov")

	w := doPost(router, "/auth/login/?next=%2F%2Fevil.example", url.Values{
		"username": {"smirnov"},
		"password": {"secret"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLoginWrongPasswordStaysOnForm(t *testing.T) {
	router := setupApp(t)
	signup(t, "smirnov")

	w := doPost(router, "/auth/login/", url.Values{
		"username": {"smirnov"},
		"password": {"wrong"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Неверное имя пользователя или пароль")
}

func TestSignupLogsIn(t *testing.T) {
	router := setupApp(t)

	w := doPost(router, "/auth/signup/", url.Values{
		"username":   {"smirnov"},
		"password":   {"secret"},
		"first_name": {"Иван"},
		"last_name":  {"Смирнов"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var found bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AuthCookie && cookie.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "после регистрации выставляется cookie сессии")
}

func TestLogoutClearsSession(t *testing.T) {
	router := setupApp(t)
	_, cookie := signup(t, "smirnov")

	w := doGet(router, "/auth/logout/", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// прежний токен больше не принимается
	w = doGet(router, "/new/", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fnew%2F", w.Header().Get("Location"))
}

func TestGlobalFeedCacheStaleWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	router := setupAppWithCache(t, services.NewRedisPageCache(client))

	author, _ := signup(t, "smirnov")
	createPost(t, author, "старая запись", time.Now())

	first := doGet(router, "/", nil)
	require.Equal(t, http.StatusOK, first.Code)

	createPost(t, author, "свежая запись", time.Now())

	// запись между двумя чтениями внутри TTL не видна: отдается тот же вывод
	second := doGet(router, "/", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.NotContains(t, second.Body.String(), "свежая запись")

	mr.FastForward(21 * time.Second)

	third := doGet(router, "/", nil)
	require.Equal(t, http.StatusOK, third.Code)
	assert.Contains(t, third.Body.String(), "свежая запись")
}

func TestProfileShowsFollowState(t *testing.T) {
	router := setupApp(t)
	author, _ := signup(t, "smirnov")
	_, readerCookie := signup(t, "ivanov")
	createPost(t, author, "пост автора", time.Now())

	w := doGet(router, "/smirnov/", readerCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Подписаться")

	doPost(router, "/smirnov/follow/", nil, readerCookie)

	w = doGet(router, "/smirnov/", readerCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Отписаться")
}

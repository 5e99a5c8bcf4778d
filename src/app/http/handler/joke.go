package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"jokebox/src/app/http/form"
	"jokebox/src/app/http/response"
	"jokebox/src/app/middleware"
	"jokebox/src/core/domain"
	"jokebox/src/core/ports"
	"jokebox/src/core/usecase"
)

const intentDelete = "delete"

// JokeHandler handles the joke endpoints.
type JokeHandler struct {
	jokeService *usecase.JokeService
	codec       ports.SessionCodec
	cookieName  string
}

func NewJokeHandler(jokeService *usecase.JokeService, codec ports.SessionCodec, cookieName string) *JokeHandler {
	return &JokeHandler{
		jokeService: jokeService,
		codec:       codec,
		cookieName:  cookieName,
	}
}

// List handles GET /jokes.
func (h *JokeHandler) List(c *gin.Context) {
	jokes, err := h.jokeService.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	items := make([]gin.H, 0, len(jokes))
	for _, j := range jokes {
		items = append(items, gin.H{
			"joke_id": j.ID,
			"name":    j.Name,
		})
	}
	response.OK(c, gin.H{"jokes": items})
}

// Random handles GET /jokes/random.
func (h *JokeHandler) Random(c *gin.Context) {
	joke, err := h.jokeService.Random(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, jokeBody(joke, middleware.GetUserID(c)))
}

// New handles GET /jokes/new, the page data for the joke form.
// Unlike the write surfaces it answers 401 instead of redirecting.
func (h *JokeHandler) New(c *gin.Context) {
	if middleware.GetUserID(c) == "" {
		response.Unauthorized(c, "You must be logged in to create a joke", middleware.GetRequestID(c))
		return
	}
	response.OK(c, gin.H{})
}

// Create handles POST /jokes. The route is guarded by RequireUser, so an
// authenticated user id is always present here.
func (h *JokeHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var f form.JokeForm
	if err := c.ShouldBind(&f); err != nil {
		response.Invalid(c, form.Malformed())
		return
	}

	if fieldErrors := f.Validate(); fieldErrors != nil {
		response.Invalid(c, form.Invalid(f, fieldErrors))
		return
	}

	joke, err := h.jokeService.Create(c.Request.Context(), userID, f.Name, f.Content)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	c.Redirect(http.StatusFound, "/jokes/"+joke.ID)
}

// Get handles GET /jokes/:joke_id. The viewer may be anonymous; is_owner
// reflects whether the session identity created the joke.
func (h *JokeHandler) Get(c *gin.Context) {
	joke, err := h.jokeService.Get(c.Request.Context(), c.Param("joke_id"))
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, jokeBody(joke, middleware.GetUserID(c)))
}

// Mutate handles POST /jokes/:joke_id. The only supported intent is
// delete.
//
// The intent is checked before identity, matching the error precedence of
// the read side: an unsupported action is a 400 even for anonymous
// callers. After that comes the redirect-to-login guard, then the
// existence (404) and ownership (403) ladder inside the service.
func (h *JokeHandler) Mutate(c *gin.Context) {
	intent := c.PostForm("intent")
	if intent != intentDelete {
		response.BadRequest(c, fmt.Sprintf("The intent %q is not supported", intent), middleware.GetRequestID(c))
		return
	}

	userID, ok := middleware.RequireCurrentUser(c, h.codec, h.cookieName)
	if !ok {
		return
	}

	if err := h.jokeService.Delete(c.Request.Context(), c.Param("joke_id"), userID); err != nil {
		c.Error(err)
		if domain.IsNotFound(err) {
			response.NotFound(c, "Can't delete what does not exist", middleware.GetRequestID(c))
			return
		}
		if domain.IsForbidden(err) {
			response.Forbidden(c, "Pssh, nice try. That's not your joke", middleware.GetRequestID(c))
			return
		}
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	c.Redirect(http.StatusFound, "/jokes")
}

func jokeBody(joke *domain.Joke, viewerID string) gin.H {
	return gin.H{
		"joke_id":  joke.ID,
		"name":     joke.Name,
		"content":  joke.Content,
		"is_owner": viewerID != "" && viewerID == joke.OwnerID,
	}
}

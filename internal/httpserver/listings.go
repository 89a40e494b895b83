package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pawpals/internal/domain"
	adoptionsvc "pawpals/internal/service/adoption"
	lostpetsvc "pawpals/internal/service/lostpet"
	"pawpals/internal/storage"
)

func (a *api) listAdoptions(c *gin.Context) {
	filter, ok := petFilter(c)
	if !ok {
		return
	}
	posts, err := a.deps.AdoptionSvc.List(c.Request.Context(), filter)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if posts == nil {
		posts = []domain.AdoptionPost{}
	}
	c.JSON(http.StatusOK, posts)
}

func (a *api) createAdoption(c *gin.Context) {
	var in adoptionsvc.CreateInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "invalid form data")
		return
	}
	if c.PostForm("age") == "" {
		in.Age = nil
	}
	img, ok := a.formImage(c)
	if !ok {
		return
	}
	post, err := a.deps.AdoptionSvc.Create(c.Request.Context(), currentClient(c).ID, in, img)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (a *api) deleteAdoption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := a.deps.AdoptionSvc.Delete(c.Request.Context(), currentClient(c).ID, id); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "adoption post deleted"})
}

func (a *api) listLostPets(c *gin.Context) {
	filter, ok := petFilter(c)
	if !ok {
		return
	}
	posts, err := a.deps.LostPetSvc.List(c.Request.Context(), filter)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if posts == nil {
		posts = []domain.LostPetPost{}
	}
	c.JSON(http.StatusOK, posts)
}

func (a *api) createLostPet(c *gin.Context) {
	var in lostpetsvc.CreateInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "invalid form data")
		return
	}
	if c.PostForm("age") == "" {
		in.Age = nil
	}
	img, ok := a.formImage(c)
	if !ok {
		return
	}
	post, err := a.deps.LostPetSvc.Create(c.Request.Context(), currentClient(c).ID, in, img)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (a *api) deleteLostPet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := a.deps.LostPetSvc.Delete(c.Request.Context(), currentClient(c).ID, id); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lost pet post deleted"})
}

// formImage reads the optional "image" part. A nil image means none was sent.
func (a *api) formImage(c *gin.Context) (*storage.Image, bool) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		badRequest(c, "invalid image upload")
		return nil, false
	}
	if fh.Size > storage.MaxImageSize {
		a.writeError(c, storage.ErrImageTooLarge)
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		a.writeError(c, err)
		return nil, false
	}
	defer f.Close()
	img, err := storage.ReadImage(f)
	if err != nil {
		a.writeError(c, err)
		return nil, false
	}
	return &img, true
}

func petFilter(c *gin.Context) (domain.PetFilter, bool) {
	f := domain.PetFilter{Location: strings.TrimSpace(c.Query("location"))}
	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Types = append(f.Types, t)
			}
		}
	}
	raw := c.Query("maxAge")
	if raw == "" {
		raw = c.Query("ages")
	}
	if raw = strings.TrimSpace(raw); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			badRequest(c, "invalid maxAge")
			return f, false
		}
		f.MaxAge = &age
	}
	return f, true
}

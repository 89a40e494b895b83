package httpserver

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pawpals/internal/domain"
)

// 1x1 transparent png.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func multipartRequest(t *testing.T, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "pet.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good")
	return req
}

func TestCreateAdoption_WithImage(t *testing.T) {
	deps := testDeps()
	adoptions := &stubAdoptionService{post: &domain.AdoptionPost{ID: 3, PetName: "Rex"}}
	deps.AdoptionSvc = adoptions
	router := newTestRouter(t, deps)

	req := multipartRequest(t, "/adoptions", map[string]string{
		"petName":      "Rex",
		"age":          "4",
		"type":         "chien",
		"goodWithKids": "true",
	}, pngPixel)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	in := adoptions.lastInput
	if in.PetName != "Rex" || in.Age == nil || *in.Age != 4 || !in.GoodWithKids {
		t.Fatalf("unexpected input %+v", in)
	}
	if adoptions.lastImage == nil || adoptions.lastImage.ContentType != "image/png" {
		t.Fatalf("expected png image, got %+v", adoptions.lastImage)
	}
}

func TestCreateAdoption_WithoutImageOrAge(t *testing.T) {
	deps := testDeps()
	adoptions := &stubAdoptionService{post: &domain.AdoptionPost{ID: 3}}
	deps.AdoptionSvc = adoptions
	router := newTestRouter(t, deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/adoptions", map[string]string{"petName": "Rex"}, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if adoptions.lastImage != nil || adoptions.lastInput.Age != nil {
		t.Fatalf("expected no image and no age, got %+v", adoptions.lastInput)
	}
}

func TestCreateLostPet_RejectsNonImage(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := multipartRequest(t, "/lost-pets", map[string]string{"petName": "Mia"}, []byte("plain text, not a picture"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateListing_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := multipartRequest(t, "/adoptions", map[string]string{"petName": "Rex"}, nil)
	req.Header.Del("Authorization")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSearchListings_ParsesFilter(t *testing.T) {
	deps := testDeps()
	lost := &stubLostPetService{}
	deps.LostPetSvc = lost
	router := newTestRouter(t, deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lost-pets/search?location=Lyon&types=chat,+chien,&ages=5", nil))

	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d %s", rec.Code, rec.Body.String())
	}
	f := lost.lastFilter
	if f.Location != "Lyon" || len(f.Types) != 2 || f.Types[1] != "chien" || f.MaxAge == nil || *f.MaxAge != 5 {
		t.Fatalf("unexpected filter %+v", f)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/adoptions/search?maxAge=old", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteAdoption_NotOwner(t *testing.T) {
	deps := testDeps()
	deps.AdoptionSvc = &stubAdoptionService{err: domain.ErrForbidden}
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodDelete, "/adoptions/8", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

package adoption

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"pawpals/internal/domain"
	"pawpals/internal/storage"
)

type memoryRepo struct {
	nextID  int64
	posts   map[int64]domain.AdoptionPost
	failAdd error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{posts: map[int64]domain.AdoptionPost{}}
}

func (r *memoryRepo) Create(_ context.Context, p domain.AdoptionPost) (*domain.AdoptionPost, error) {
	if r.failAdd != nil {
		return nil, r.failAdd
	}
	r.nextID++
	p.ID = r.nextID
	r.posts[p.ID] = p
	return &p, nil
}

func (r *memoryRepo) List(_ context.Context, f domain.PetFilter) ([]domain.AdoptionPost, error) {
	out := []domain.AdoptionPost{}
	for _, p := range r.posts {
		if f.Location != "" && p.Location != f.Location {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.AdoptionPost, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) ImageURLsByClient(_ context.Context, clientID int64) ([]string, error) {
	var urls []string
	for _, p := range r.posts {
		if p.ClientID == clientID && p.ImageURL != "" {
			urls = append(urls, p.ImageURL)
		}
	}
	return urls, nil
}

func (r *memoryRepo) Delete(_ context.Context, id, clientID int64) error {
	p, ok := r.posts[id]
	if !ok || p.ClientID != clientID {
		return domain.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type memoryImages struct {
	objects map[string]string
	deleted []string
}

func (m *memoryImages) Put(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	if m.objects == nil {
		m.objects = map[string]string{}
	}
	m.objects[name] = contentType
	return "https://cdn.example/" + name, nil
}

func (m *memoryImages) Delete(_ context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

func age(v int) *int { return &v }

func TestCreate_StoresImageWithPrefix(t *testing.T) {
	images := &memoryImages{}
	svc := New(newMemoryRepo(), images, nil)

	post, err := svc.Create(context.Background(), 1, CreateInput{PetName: " Rex ", Age: age(3), GoodWithKids: true},
		&storage.Image{Data: []byte("x"), ContentType: "image/png"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.PetName != "Rex" || post.ClientID != 1 || !post.GoodWithKids {
		t.Fatalf("unexpected post %+v", post)
	}
	if !strings.HasPrefix(post.ImageURL, "https://cdn.example/adoption_") || !strings.HasSuffix(post.ImageURL, ".png") {
		t.Fatalf("unexpected image url %q", post.ImageURL)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := New(newMemoryRepo(), &memoryImages{}, nil)
	cases := []CreateInput{
		{PetName: "R"},
		{PetName: "Rex", Age: age(31)},
		{PetName: "Rex", Age: age(-1)},
		{PetName: "Rex", Description: strings.Repeat("a", 1001)},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), 1, in, nil); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("input %+v: expected ErrInvalidArgument, got %v", in, err)
		}
	}
}

func TestCreate_RepoFailureDropsUploadedImage(t *testing.T) {
	repo := newMemoryRepo()
	repo.failAdd = errors.New("db down")
	images := &memoryImages{}
	svc := New(repo, images, nil)

	_, err := svc.Create(context.Background(), 1, CreateInput{PetName: "Rex"}, &storage.Image{Data: []byte("x"), ContentType: "image/jpeg"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(images.deleted) != 1 {
		t.Fatalf("expected orphaned image to be deleted, got %v", images.deleted)
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	images := &memoryImages{}
	svc := New(newMemoryRepo(), images, nil)
	post, err := svc.Create(ctx, 1, CreateInput{PetName: "Rex"}, &storage.Image{Data: []byte("x"), ContentType: "image/webp"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, 2, post.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, 1, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 1, post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(images.deleted) != 1 || images.deleted[0] != post.ImageURL {
		t.Fatalf("expected image removed with listing, got %v", images.deleted)
	}
}

func TestList_RejectsNegativeAge(t *testing.T) {
	svc := New(newMemoryRepo(), &memoryImages{}, nil)
	if _, err := svc.List(context.Background(), domain.PetFilter{MaxAge: age(-1)}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

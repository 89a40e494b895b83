package adoption

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"pawpals/internal/domain"
	adoptionrepo "pawpals/internal/repository/adoption"
	"pawpals/internal/storage"
	"pawpals/internal/validation"
)

const imagePrefix = "adoption_"

type Service struct {
	repo   adoptionrepo.Repository
	images storage.Store
	logger *log.Logger
}

func New(repo adoptionrepo.Repository, images storage.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, images: images, logger: logger}
}

type CreateInput struct {
	PetName           string `form:"petName" validate:"required,min=2,max=100"`
	Breed             string `form:"breed" validate:"max=100"`
	Age               *int   `form:"age" validate:"omitempty,min=0,max=30"`
	Type              string `form:"type" validate:"max=50"`
	Gender            string `form:"gender" validate:"max=20"`
	Location          string `form:"location" validate:"max=100"`
	Shelter           string `form:"shelter" validate:"max=100"`
	Description       string `form:"description" validate:"max=1000"`
	GoodWithKids      bool   `form:"goodWithKids"`
	GoodWithOtherPets bool   `form:"goodWithOtherPets"`
	HouseTrained      bool   `form:"houseTrained"`
	SpecialNeeds      bool   `form:"specialNeeds"`
}

// Create stores the optional picture first and publishes the listing.
func (s *Service) Create(ctx context.Context, clientID int64, in CreateInput, img *storage.Image) (*domain.AdoptionPost, error) {
	in.PetName = strings.TrimSpace(in.PetName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var imageURL string
	if img != nil {
		url, err := s.images.Put(ctx, storage.ObjectName(imagePrefix, img.ContentType), img.ContentType, bytes.NewReader(img.Data))
		if err != nil {
			s.logger.Printf("adoption service: upload client_id=%d error=%v", clientID, err)
			return nil, fmt.Errorf("upload image: %w", err)
		}
		imageURL = url
	}

	post, err := s.repo.Create(ctx, domain.AdoptionPost{
		ClientID:          clientID,
		PetName:           in.PetName,
		Breed:             strings.TrimSpace(in.Breed),
		Age:               in.Age,
		Type:              strings.TrimSpace(in.Type),
		Gender:            strings.TrimSpace(in.Gender),
		ImageURL:          imageURL,
		Location:          strings.TrimSpace(in.Location),
		Shelter:           strings.TrimSpace(in.Shelter),
		Description:       strings.TrimSpace(in.Description),
		GoodWithKids:      in.GoodWithKids,
		GoodWithOtherPets: in.GoodWithOtherPets,
		HouseTrained:      in.HouseTrained,
		SpecialNeeds:      in.SpecialNeeds,
	})
	if err != nil {
		s.dropImage(ctx, imageURL)
		return nil, err
	}
	return post, nil
}

func (s *Service) List(ctx context.Context, filter domain.PetFilter) ([]domain.AdoptionPost, error) {
	if filter.MaxAge != nil && *filter.MaxAge < 0 {
		return nil, fmt.Errorf("%w: age filter must not be negative", domain.ErrInvalidArgument)
	}
	return s.repo.List(ctx, filter)
}

// Delete removes a listing owned by clientID.
func (s *Service) Delete(ctx context.Context, clientID, id int64) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.ClientID != clientID {
		return fmt.Errorf("%w: you can only delete your own listings", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id, clientID); err != nil {
		return err
	}
	s.dropImage(ctx, post.ImageURL)
	return nil
}

func (s *Service) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.Printf("adoption service: delete image url=%s error=%v", url, err)
	}
}

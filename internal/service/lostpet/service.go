package lostpet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"pawpals/internal/domain"
	lostpetrepo "pawpals/internal/repository/lostpet"
	"pawpals/internal/storage"
	"pawpals/internal/validation"
)

const imagePrefix = "lost_"

type Service struct {
	repo   lostpetrepo.Repository
	images storage.Store
	logger *log.Logger
	now    func() time.Time
}

func New(repo lostpetrepo.Repository, images storage.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, images: images, logger: logger, now: time.Now}
}

type CreateInput struct {
	PetName     string `form:"petName" validate:"required,min=2,max=100"`
	Breed       string `form:"breed" validate:"max=100"`
	Age         *int   `form:"age" validate:"omitempty,min=0,max=30"`
	Type        string `form:"type" validate:"max=50"`
	DateLost    string `form:"dateLost" validate:"omitempty,datetime=2006-01-02"`
	Location    string `form:"location" validate:"max=100"`
	Description string `form:"description" validate:"max=1000"`
}

func (s *Service) Create(ctx context.Context, clientID int64, in CreateInput, img *storage.Image) (*domain.LostPetPost, error) {
	in.PetName = strings.TrimSpace(in.PetName)
	in.DateLost = strings.TrimSpace(in.DateLost)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var dateLost *time.Time
	if in.DateLost != "" {
		d, _ := time.Parse(time.DateOnly, in.DateLost)
		if d.After(s.now()) {
			return nil, fmt.Errorf("%w: dateLost cannot be in the future", domain.ErrInvalidArgument)
		}
		dateLost = &d
	}

	var imageURL string
	if img != nil {
		url, err := s.images.Put(ctx, storage.ObjectName(imagePrefix, img.ContentType), img.ContentType, bytes.NewReader(img.Data))
		if err != nil {
			s.logger.Printf("lostpet service: upload client_id=%d error=%v", clientID, err)
			return nil, fmt.Errorf("upload image: %w", err)
		}
		imageURL = url
	}

	post, err := s.repo.Create(ctx, domain.LostPetPost{
		ClientID:    clientID,
		PetName:     in.PetName,
		Breed:       strings.TrimSpace(in.Breed),
		Age:         in.Age,
		Type:        strings.TrimSpace(in.Type),
		ImageURL:    imageURL,
		DateLost:    dateLost,
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		s.dropImage(ctx, imageURL)
		return nil, err
	}
	return post, nil
}

func (s *Service) List(ctx context.Context, filter domain.PetFilter) ([]domain.LostPetPost, error) {
	if filter.MaxAge != nil && *filter.MaxAge < 0 {
		return nil, fmt.Errorf("%w: age filter must not be negative", domain.ErrInvalidArgument)
	}
	return s.repo.List(ctx, filter)
}

// Delete removes a notice owned by clientID.
func (s *Service) Delete(ctx context.Context, clientID, id int64) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.ClientID != clientID {
		return fmt.Errorf("%w: you can only delete your own notices", domain.ErrForbidden)
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
		s.logger.Printf("lostpet service: delete image url=%s error=%v", url, err)
	}
}

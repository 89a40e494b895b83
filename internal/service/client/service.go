package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pawpals/internal/auth"
	"pawpals/internal/domain"
	"pawpals/internal/mail"
	clientrepo "pawpals/internal/repository/client"
	resetrepo "pawpals/internal/repository/reset"
	"pawpals/internal/storage"
	"pawpals/internal/validation"
)

// Service handles client accounts: signup, sessions, profile and passwords.
type Service struct {
	repo   clientrepo.Repository
	codes  *codeManager
	tokens *auth.Tokens
	mailer mail.Sender
	logger *log.Logger

	images   storage.Store
	listings []ImageSource
}

// ImageSource lists the stored image urls of a client's listings.
type ImageSource interface {
	ImageURLsByClient(ctx context.Context, clientID int64) ([]string, error)
}

func New(repo clientrepo.Repository, resets resetrepo.Repository, tokens *auth.Tokens, mailer mail.Sender, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if mailer == nil {
		mailer = mail.NewLogSender(logger)
	}
	return &Service{
		repo:   repo,
		codes:  newCodeManager(resets),
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// WithListingImages makes DeleteAccount drop the images of the client's
// listings once the account rows are gone.
func (s *Service) WithListingImages(images storage.Store, sources ...ImageSource) *Service {
	s.images = images
	s.listings = sources
	return s
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=30"`
	Region   string `json:"region" validate:"max=100"`
}

type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type ProfileInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=30"`
	Region  string `json:"region" validate:"max=100"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=8,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// Session is an issued identity token and the client it identifies.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Client    *domain.Client `json:"client"`
}

// Register creates the account and its empty cart, then sends a welcome mail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, domain.Client{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		Region:       strings.TrimSpace(in.Region),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrAlreadyExists)
		}
		return nil, err
	}
	s.notify(ctx, mail.Welcome(*c))
	return c, nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: account not found", domain.ErrNotFound)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	ttl := auth.DefaultTTL
	if in.RememberMe {
		ttl = auth.RememberTTL
	}
	return s.session(c, ttl)
}

// Authenticate resolves a session token to an existing client.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Client, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	id, err := claims.ClientID()
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Profile(ctx context.Context, clientID int64) (*domain.Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

// UpdateProfile saves the profile and issues a token for the updated client.
func (s *Service) UpdateProfile(ctx context.Context, clientID int64, in ProfileInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := s.repo.UpdateProfile(ctx, clientID, clientrepo.Profile{
		Name:    in.Name,
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		Region:  strings.TrimSpace(in.Region),
	})
	if err != nil {
		return nil, err
	}
	return s.session(c, auth.DefaultTTL)
}

func (s *Service) ChangePassword(ctx context.Context, clientID int64, in ChangePasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	c, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidArgument)
	}
	if err := s.setPassword(ctx, c.ID, in.NewPassword); err != nil {
		return err
	}
	s.notify(ctx, mail.PasswordChanged(*c))
	return nil
}

// ForgotPassword mails a one-time reset code. The code never leaves the server
// any other way.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidArgument)
	}
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: account not found", domain.ErrNotFound)
		}
		return err
	}
	code, err := s.codes.Issue(ctx, c.ID)
	if err != nil {
		s.logger.Printf("client service: issue reset code client_id=%d error=%v", c.ID, err)
		return err
	}
	return s.mailer.Send(ctx, mail.ResetCode(*c, code))
}

func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)
	if err := validation.Struct(in); err != nil {
		return err
	}
	c, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: account not found", domain.ErrNotFound)
		}
		return err
	}
	if err := s.codes.Consume(ctx, c.ID, in.Code); err != nil {
		return err
	}
	if err := s.setPassword(ctx, c.ID, in.NewPassword); err != nil {
		return err
	}
	s.notify(ctx, mail.PasswordChanged(*c))
	return nil
}

// DeleteAccount removes the client and everything that belongs to it.
func (s *Service) DeleteAccount(ctx context.Context, clientID int64) error {
	c, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	urls, err := s.listingImageURLs(ctx, clientID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, clientID); err != nil {
		return err
	}
	for _, url := range urls {
		if err := s.images.Delete(ctx, url); err != nil {
			s.logger.Printf("client service: drop listing image client_id=%d url=%s error=%v", clientID, url, err)
		}
	}
	s.notify(ctx, mail.AccountDeleted(*c))
	return nil
}

func (s *Service) listingImageURLs(ctx context.Context, clientID int64) ([]string, error) {
	if s.images == nil {
		return nil, nil
	}
	var urls []string
	for _, src := range s.listings {
		found, err := src.ImageURLsByClient(ctx, clientID)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

func (s *Service) session(c *domain.Client, ttl time.Duration) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(c.ID, c.Email, ttl)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Client: c}, nil
}

func (s *Service) setPassword(ctx context.Context, clientID int64, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, clientID, string(hashed))
}

// notify sends mail that must not fail the request.
func (s *Service) notify(ctx context.Context, msg mail.Message) {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Printf("client service: mail to=%s subject=%q error=%v", msg.To, msg.Subject, err)
	}
}

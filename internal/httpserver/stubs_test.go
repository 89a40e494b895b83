package httpserver

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/gin-gonic/gin"

	"pawpals/internal/domain"
	adoptionsvc "pawpals/internal/service/adoption"
	cartsvc "pawpals/internal/service/cart"
	clientsvc "pawpals/internal/service/client"
	lostpetsvc "pawpals/internal/service/lostpet"
	"pawpals/internal/storage"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubProductService struct {
	products   []domain.Product
	product    *domain.Product
	err        error
	lastFilter domain.ProductFilter
}

func (s *stubProductService) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	s.lastFilter = f
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, _ int64) (*domain.Product, error) {
	return s.product, s.err
}

type stubCategoryService struct {
	categories []domain.Category
	err        error
}

func (s *stubCategoryService) List(_ context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

// stubClientService accepts the token "good" for client.
type stubClientService struct {
	client     *domain.Client
	session    *clientsvc.Session
	err        error
	lastLogin  clientsvc.LoginInput
	deletedID  int64
	forgotMail string
}

func (s *stubClientService) Register(_ context.Context, _ clientsvc.RegisterInput) (*domain.Client, error) {
	return s.client, s.err
}

func (s *stubClientService) Login(_ context.Context, in clientsvc.LoginInput) (*clientsvc.Session, error) {
	s.lastLogin = in
	return s.session, s.err
}

func (s *stubClientService) Authenticate(_ context.Context, token string) (*domain.Client, error) {
	if token != "good" || s.client == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.client, nil
}

func (s *stubClientService) Profile(_ context.Context, _ int64) (*domain.Client, error) {
	return s.client, s.err
}

func (s *stubClientService) UpdateProfile(_ context.Context, _ int64, _ clientsvc.ProfileInput) (*clientsvc.Session, error) {
	return s.session, s.err
}

func (s *stubClientService) ChangePassword(_ context.Context, _ int64, _ clientsvc.ChangePasswordInput) error {
	return s.err
}

func (s *stubClientService) ForgotPassword(_ context.Context, email string) error {
	s.forgotMail = email
	return s.err
}

func (s *stubClientService) ResetPassword(_ context.Context, _ clientsvc.ResetPasswordInput) error {
	return s.err
}

func (s *stubClientService) DeleteAccount(_ context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

type stubCartService struct {
	lines    []domain.CartLine
	result   cartsvc.Result
	err      error
	lastItem [3]int64
}

func (s *stubCartService) Get(_ context.Context, _ int64) ([]domain.CartLine, error) {
	return s.lines, s.err
}

func (s *stubCartService) AddItem(_ context.Context, clientID, productID int64, quantity int) (cartsvc.Result, error) {
	s.lastItem = [3]int64{clientID, productID, int64(quantity)}
	return s.result, s.err
}

func (s *stubCartService) UpdateQuantity(_ context.Context, clientID, productID int64, quantity int) (cartsvc.Result, error) {
	s.lastItem = [3]int64{clientID, productID, int64(quantity)}
	return s.result, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, clientID, productID int64) error {
	s.lastItem = [3]int64{clientID, productID, 0}
	return s.err
}

type stubOrderService struct {
	order  *domain.Order
	orders []domain.Order
	err    error
}

func (s *stubOrderService) PlaceOrder(_ context.Context, _ int64) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context, _ int64) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) Get(_ context.Context, _, _ int64) (*domain.Order, error) {
	return s.order, s.err
}

type stubAdoptionService struct {
	post       *domain.AdoptionPost
	err        error
	lastInput  adoptionsvc.CreateInput
	lastImage  *storage.Image
	lastFilter domain.PetFilter
}

func (s *stubAdoptionService) Create(_ context.Context, _ int64, in adoptionsvc.CreateInput, img *storage.Image) (*domain.AdoptionPost, error) {
	s.lastInput = in
	s.lastImage = img
	return s.post, s.err
}

func (s *stubAdoptionService) List(_ context.Context, f domain.PetFilter) ([]domain.AdoptionPost, error) {
	s.lastFilter = f
	return nil, s.err
}

func (s *stubAdoptionService) Delete(_ context.Context, _, _ int64) error {
	return s.err
}

type stubLostPetService struct {
	post       *domain.LostPetPost
	err        error
	lastFilter domain.PetFilter
}

func (s *stubLostPetService) Create(_ context.Context, _ int64, _ lostpetsvc.CreateInput, _ *storage.Image) (*domain.LostPetPost, error) {
	return s.post, s.err
}

func (s *stubLostPetService) List(_ context.Context, f domain.PetFilter) ([]domain.LostPetPost, error) {
	s.lastFilter = f
	return nil, s.err
}

func (s *stubLostPetService) Delete(_ context.Context, _, _ int64) error {
	return s.err
}

func testDeps() Deps {
	return Deps{
		ProductSvc:  &stubProductService{},
		CategorySvc: &stubCategoryService{},
		ClientSvc:   &stubClientService{client: &domain.Client{ID: 42, Name: "Ana", Email: "ana@example.com"}},
		CartSvc:     &stubCartService{},
		OrderSvc:    &stubOrderService{},
		AdoptionSvc: &stubAdoptionService{},
		LostPetSvc:  &stubLostPetService{},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps, Options{CORSOrigins: []string{"http://localhost:4200"}})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

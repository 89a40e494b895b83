package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawpals/internal/domain"
	adoptionsvc "pawpals/internal/service/adoption"
	cartsvc "pawpals/internal/service/cart"
	clientsvc "pawpals/internal/service/client"
	lostpetsvc "pawpals/internal/service/lostpet"
	"pawpals/internal/storage"
)

type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type ClientService interface {
	Register(ctx context.Context, in clientsvc.RegisterInput) (*domain.Client, error)
	Login(ctx context.Context, in clientsvc.LoginInput) (*clientsvc.Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Client, error)
	Profile(ctx context.Context, clientID int64) (*domain.Client, error)
	UpdateProfile(ctx context.Context, clientID int64, in clientsvc.ProfileInput) (*clientsvc.Session, error)
	ChangePassword(ctx context.Context, clientID int64, in clientsvc.ChangePasswordInput) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in clientsvc.ResetPasswordInput) error
	DeleteAccount(ctx context.Context, clientID int64) error
}

type CartService interface {
	Get(ctx context.Context, clientID int64) ([]domain.CartLine, error)
	AddItem(ctx context.Context, clientID, productID int64, quantity int) (cartsvc.Result, error)
	UpdateQuantity(ctx context.Context, clientID, productID int64, quantity int) (cartsvc.Result, error)
	RemoveItem(ctx context.Context, clientID, productID int64) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, clientID int64) (*domain.Order, error)
	List(ctx context.Context, clientID int64) ([]domain.Order, error)
	Get(ctx context.Context, clientID, orderID int64) (*domain.Order, error)
}

type AdoptionService interface {
	Create(ctx context.Context, clientID int64, in adoptionsvc.CreateInput, img *storage.Image) (*domain.AdoptionPost, error)
	List(ctx context.Context, filter domain.PetFilter) ([]domain.AdoptionPost, error)
	Delete(ctx context.Context, clientID, id int64) error
}

type LostPetService interface {
	Create(ctx context.Context, clientID int64, in lostpetsvc.CreateInput, img *storage.Image) (*domain.LostPetPost, error)
	List(ctx context.Context, filter domain.PetFilter) ([]domain.LostPetPost, error)
	Delete(ctx context.Context, clientID, id int64) error
}

// Deps groups the services the router dispatches to.
type Deps struct {
	ProductSvc  ProductService
	CategorySvc CategoryService
	ClientSvc   ClientService
	CartSvc     CartService
	OrderSvc    OrderService
	AdoptionSvc AdoptionService
	LostPetSvc  LostPetService
}

// Options carries the transport settings of the router.
type Options struct {
	CORSOrigins  []string
	CookieSecure bool
	CookieDomain string
	// UploadDir is served under storage.PublicPath when set.
	UploadDir string
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service is required")
	case d.CategorySvc == nil:
		return errors.New("category service is required")
	case d.ClientSvc == nil:
		return errors.New("client service is required")
	case d.CartSvc == nil:
		return errors.New("cart service is required")
	case d.OrderSvc == nil:
		return errors.New("order service is required")
	case d.AdoptionSvc == nil:
		return errors.New("adoption service is required")
	case d.LostPetSvc == nil:
		return errors.New("lost pet service is required")
	}
	return nil
}

type api struct {
	logger *log.Logger
	deps   Deps
	opts   Options
}

func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	a := &api{logger: logger, deps: deps, opts: opts}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if opts.UploadDir != "" {
		router.Static(storage.PublicPath, opts.UploadDir)
	}

	auth := a.requireClient()

	router.GET("/categories", a.listCategories)
	router.GET("/products", a.listProducts)
	router.GET("/products/:id", a.getProduct)

	clients := router.Group("/clients")
	clients.POST("/register", a.register)
	clients.POST("/login", a.login)
	clients.POST("/logout", a.logout)
	clients.POST("/verify-token", a.verifyToken)
	clients.POST("/forgot-password", a.forgotPassword)
	clients.POST("/reset-password", a.resetPassword)
	clients.GET("/check-auth", auth, a.me)
	clients.GET("/me", auth, a.me)
	clients.PUT("/me", auth, a.updateProfile)
	clients.DELETE("/me", auth, a.deleteAccount)
	clients.POST("/me/password", auth, a.changePassword)

	cart := router.Group("/cart", auth)
	cart.GET("", a.getCart)
	cart.POST("/add", a.addToCart)
	cart.PUT("/update", a.updateCart)
	cart.DELETE("/remove", a.removeFromCart)
	cart.POST("/checkout", a.checkout)

	orders := router.Group("/orders", auth)
	orders.GET("", a.listOrders)
	orders.GET("/:id", a.getOrder)

	router.GET("/adoptions", a.listAdoptions)
	router.GET("/adoptions/search", a.listAdoptions)
	router.POST("/adoptions", auth, a.createAdoption)
	router.DELETE("/adoptions/:id", auth, a.deleteAdoption)

	router.GET("/lost-pets", a.listLostPets)
	router.GET("/lost-pets/search", a.listLostPets)
	router.POST("/lost-pets", auth, a.createLostPet)
	router.DELETE("/lost-pets/:id", auth, a.deleteLostPet)

	return router, nil
}

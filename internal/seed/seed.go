package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pawpals/internal/domain"
)

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type productSeed struct {
	Name        string
	Description string
	Price       string
	Stock       int
	Image       string
	Category    string
}

var categories = []domain.Category{
	{Name: "Chien", Description: "Tout pour l'alimentation, la santé et le bien-être de votre chien."},
	{Name: "Chat", Description: "Large choix de nourritures et accessoires pour chats heureux."},
	{Name: "Oiseau", Description: "Alimentation adaptée pour oiseaux domestiques et exotiques."},
}

var products = []productSeed{
	{"POULET, COURGE, MYRTILLE", "Recette mono-protéine pour chiens stérilisés, 70% de poulet, fruits et légumes.", "49.99", 11, "chien1.webp", "Chien"},
	{"Croquettes Sans Céréales Chien Digestion Sensible", "Croquettes sans céréales à l'agneau pour chiens sensibles.", "12.50", 150, "chien2.webp", "Chien"},
	{"DINDE, CANARD, COURGE", "Recette sans céréales avec 50% de canard et de dinde, huile de saumon et graines de lin.", "39.99", 80, "chien3.webp", "Chien"},
	{"POULET, FRAMBOISE, ORIGAN", "Pâtée mono-protéine 70% poulet avec prébiotiques et origan.", "9.99", 120, "chien4.webp", "Chien"},
	{"STICKS MENTHE, SAUGE", "Sticks dentaires à la menthe et à la sauge pour une meilleure haleine.", "34.50", 75, "chien5.webp", "Chien"},
	{"GUMMIES ARTICULATIONS", "Gummies formulés par des vétérinaires pour la mobilité articulaire.", "31.50", 75, "chien6.webp", "Chien"},
	{"GUMMIES PROBIOTIQUES", "Gummies probiotiques et prébiotiques pour la flore intestinale.", "30.50", 75, "chien7.webp", "Chien"},
	{"POULET, THON, SAUMON", "Recette 70% poulet et poisson pour chats stérilisés.", "35.50", 75, "chat1.webp", "Chat"},
	{"CANARD, VALÉRIANE", "Pâtée mono-protéine 65% canard pour chats stérilisés.", "20.50", 75, "chat2.webp", "Chat"},
	{"CANARD, POULET, POMME", "Filets de poulet et de canard en sauce avec de la pomme.", "20.50", 75, "chat3.webp", "Chat"},
	{"HUILE DE CHANVRE BIO", "Huile de chanvre pour renforcer l'immunité et calmer le stress.", "25.50", 75, "chat4.webp", "Chat"},
	{"Mélange Pigeon « Élevage Spécial 102 » 25kg", "Mélange élevage pour pigeons riche en protéines et vitamines.", "25.50", 75, "oiseau.webp", "Oiseau"},
	{"Graines Premium pour Oiseaux Exotiques", "Graines de haute qualité et fruits séchés pour oiseaux exotiques.", "18.99", 50, "bird4.jpg", "Oiseau"},
	{"Nourriture Complète pour Perruches", "Alimentation équilibrée pour perruches, enrichie en vitamines.", "15.75", 60, "bird5.jpg", "Oiseau"},
}

// Apply upserts the demo catalog. It is idempotent: categories and products
// are matched by name.
func Apply(ctx context.Context, cats CategoryWriter, prods ProductWriter) error {
	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		saved, err := cats.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Name, err)
		}
		ids[c.Name] = saved.ID
	}

	for _, p := range products {
		catID, ok := ids[p.Category]
		if !ok {
			return fmt.Errorf("product %s: unknown category %s", p.Name, p.Category)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}
		if _, err := prods.Upsert(ctx, domain.Product{
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Stock:       p.Stock,
			ImageURL:    p.Image,
			CategoryID:  &catID,
		}); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return nil
}

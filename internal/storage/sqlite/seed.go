package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/money"
	"nerdhub/internal/lib/password"
)

type seedProduct struct {
	title    string
	price    string
	image    string
	category models.Category
}

const seedImageDir = "imagens/imagem_produtos_home/"

// Порядок важен: id выдаются по порядку вставки.
var seedCatalog = []seedProduct{
	{"FORZA - Xbox Series X", "R$ 179,00", seedImageDir + "forza.jpg", models.CategoryXbox},
	{"LEGO Minecraft - Aventura", "R$ 1.349,90", seedImageDir + "lego_minecraft.jpg", models.CategoryLego},
	{"PlayStation 5 Pro", "R$ 6.509,00", seedImageDir + "ps5.jpg", models.CategoryPlayStation},
	{"PlayStation Portal", "R$ 1.349,90", seedImageDir + "portal.jpg", models.CategoryPlayStation},
	{"Funko Pop! Star Wars", "R$ 389,90", seedImageDir + "funko.jpg", models.CategoryStarWars},
	{"Camiseta Marvel Avengers", "R$ 82,35", seedImageDir + "camiseta_marvel.jpg", models.CategoryMarvel},
	{"Pelúcia Chewbacca", "R$ 141,50", seedImageDir + "chewbacca.jpg", models.CategoryStarWars},
	{"LEGO Star Wars - 75257", "R$ 201,00", seedImageDir + "lego_starwars.jpg", models.CategoryStarWars},

	{"Pelúcia Mickey Mouse - Disney", "R$ 89,90", seedImageDir + "mickey.jpg", models.CategoryDisney},
	{"LEGO Disney Castle - 43222", "R$ 1.299,90", seedImageDir + "lego_castle.jpg", models.CategoryDisney},
	{"Funko Pop! Mickey Mouse - Disney", "R$ 79,90", seedImageDir + "funko_mickey.jpg", models.CategoryDisney},
	{"Camiseta Mickey Classic - Disney", "R$ 59,90", seedImageDir + "camiseta_mickey.jpg", models.CategoryDisney},

	{"Action Figure Homem de Ferro", "R$ 129,90", seedImageDir + "camiseta_marvel.jpg", models.CategoryMarvel},
	{"Camiseta Avengers", "R$ 79,90", seedImageDir + "camiseta_marvel.jpg", models.CategoryMarvel},

	{"Action Figure Darth Vader", "R$ 149,90", seedImageDir + "darth_vader.jpg", models.CategoryStarWars},
	{"LEGO Millennium Falcon", "R$ 899,90", seedImageDir + "millennium_falcon.jpg", models.CategoryStarWars},

	{"Controle DualSense PS5", "R$ 449,00", seedImageDir + "ps5.jpg", models.CategoryPlayStation},
	{"Headset PlayStation Pulse 3D", "R$ 599,00", seedImageDir + "portal.jpg", models.CategoryPlayStation},

	{"Controle Xbox Series X", "R$ 499,00", seedImageDir + "forza.jpg", models.CategoryXbox},
	{"Headset Xbox Wireless", "R$ 699,00", seedImageDir + "forza.jpg", models.CategoryXbox},
}

// SeedSize is the number of products inserted into an empty catalog.
func SeedSize() int {
	return len(seedCatalog)
}

// SeedCatalogIfEmpty inserts the initial catalog when products has no rows.
func (s *Storage) SeedCatalogIfEmpty(ctx context.Context) (int, error) {
	const op = "storage.sqlite.SeedCatalogIfEmpty"

	log := s.log.With(slog.String("op", op))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		log.Debug("catalog already seeded", slog.Int("products", count))
		return 0, nil
	}

	builder := sq.Insert(productsTable).Columns("title", "price", "image", "category", "price_cents")
	for _, p := range seedCatalog {
		builder = builder.Values(p.title, p.price, p.image, p.category.String(), money.MustParse(p.price))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("catalog seeded", slog.Int("products", len(seedCatalog)))

	return len(seedCatalog), nil
}

const (
	TestUserName     = "Usuário Teste"
	TestUserEmail    = "teste@email.com"
	TestUserPassword = "123456"
)

// SeedTestUser creates the development account when users has no rows.
func (s *Storage) SeedTestUser(ctx context.Context) (bool, error) {
	const op = "storage.sqlite.SeedTestUser"

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return false, nil
	}

	query, args, err := sq.Insert(usersTable).
		Columns("name", "email", "password_hash", "created_at").
		Values(TestUserName, TestUserEmail, password.Digest(TestUserPassword), time.Now().UTC()).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("test user created", slog.String("op", op), slog.String("email", TestUserEmail))

	return true, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpapp "nerdhub/internal/app/http"
	"nerdhub/internal/config"
	"nerdhub/internal/lib/logger/sl"
	"nerdhub/internal/metrics"
	"nerdhub/internal/repository"
	"nerdhub/internal/services/auth"
	cartsvc "nerdhub/internal/services/cart_service"
	catalogsvc "nerdhub/internal/services/catalog_service"
	usersvc "nerdhub/internal/services/user_service"
	"nerdhub/internal/session"
	filestorage "nerdhub/internal/storage/filestorage"
	"nerdhub/internal/storage/sqlite"
	httprouters "nerdhub/internal/transport/http"
)

type App struct {
	log *slog.Logger
	cfg *config.Config

	Storage *sqlite.Storage
	Repo    *repository.Repository
	Assets  *filestorage.LocalFileStorage
	Session *session.Session

	Auth    *auth.Auth
	Catalog *catalogsvc.CatalogService
	Cart    *cartsvc.CartService
	User    *usersvc.UserService

	HTTPServer *httpapp.Server
}

// New открывает базу, приводит схему в актуальное состояние и собирает сервисы.
// Фатальны только ошибки открытия базы и создания схемы.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	storage, err := sqlite.New(ctx, log, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	assets, err := filestorage.NewLocalFileStorage(cfg.AssetsDir)
	if err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &App{
		log:     log,
		cfg:     cfg,
		Storage: storage,
		Assets:  assets,
		Session: session.New(),
	}

	if err := a.Bootstrap(ctx); err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.Repo = repository.NewRepository(storage.DB())

	a.Auth = auth.New(log, a.Repo.User, a.Repo.User)
	a.Catalog = catalogsvc.NewCatalogService(log, a.Repo.Product)
	a.Cart = cartsvc.NewCartService(log, a.Repo.Cart, a.Repo.Product)
	a.User = usersvc.NewUserService(log, a.Repo.User)

	routers := httprouters.NewRouter(log, a.Session, a.Auth, a.Catalog, a.Cart, a.User)

	a.HTTPServer = httpapp.New(log, httpapp.Options{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		Debug:         cfg.HTTP.Debug,
		SessionSecret: cfg.HTTP.SessionSecret,
		AssetsDir:     assets.BaseDir(),
	}, a.Session, routers)

	return a, nil
}

// Bootstrap: схема, миграции, исправление путей, цены в центах, сидинг.
// Фатальна только ошибка создания таблиц, остальные шаги логируются и пропускаются.
// Повторный запуск ничего не меняет.
func (a *App) Bootstrap(ctx context.Context) error {
	const op = "app.Bootstrap"

	log := a.log.With(slog.String("op", op))

	if err := a.Storage.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	failed := func(step, table string, err error) {
		log.Error("bootstrap step failed", slog.String("step", step), sl.Err(err))
		metrics.SchemaMigrations.WithLabelValues(table, metrics.ResultError).Inc()
	}

	if fixed, err := a.Storage.NormalizeLegacyPaths(ctx); err != nil {
		failed("normalize_paths", "products", err)
	} else if fixed > 0 {
		log.Info("legacy image paths rewritten", slog.Int64("rows", fixed))
	}

	if filled, err := a.Storage.BackfillPriceCents(ctx); err != nil {
		failed("backfill_price_cents", "products", err)
	} else if filled > 0 {
		log.Info("price_cents backfilled", slog.Int("rows", filled))
	}

	if seeded, err := a.Storage.SeedCatalogIfEmpty(ctx); err != nil {
		failed("seed_catalog", "products", err)
	} else if seeded > 0 {
		log.Info("catalog seeded", slog.Int("products", seeded))
	}

	if a.cfg.SeedsTestUser() {
		if _, err := a.Storage.SeedTestUser(ctx); err != nil {
			failed("seed_test_user", "users", err)
		}
	}

	a.checkAssets(ctx)

	return nil
}

// checkAssets только предупреждает: товар без картинки остается в каталоге.
func (a *App) checkAssets(ctx context.Context) {
	const op = "app.checkAssets"

	log := a.log.With(slog.String("op", op))

	products, err := repository.NewProductRepository(a.Storage.DB()).Products(ctx)
	if err != nil {
		log.Warn("failed to list products", sl.Err(err))
		return
	}

	missing := 0
	for _, p := range products {
		if !a.Assets.Exists(p.Image) {
			missing++
			log.Debug("image not found", slog.Int64("product_id", p.ID), slog.String("image", p.Image))
		}
	}

	if missing > 0 {
		log.Warn("products without image file",
			slog.Int("missing", missing),
			slog.String("assets_dir", a.Assets.BaseDir()),
		)
	}
}

func (a *App) Stop() error {
	const op = "app.Stop"

	var errs []error

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := a.Storage.Stop(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

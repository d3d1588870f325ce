package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/apperr"
	"nerdhub/internal/lib/logger/sl"
	"nerdhub/internal/middleware"
	"nerdhub/internal/services/auth"
	cartsvc "nerdhub/internal/services/cart_service"
	usersvc "nerdhub/internal/services/user_service"
	appsession "nerdhub/internal/session"
	"nerdhub/internal/transport/http/dto"
	"nerdhub/internal/transport/http/dto/request"
	"nerdhub/internal/transport/http/dto/response"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (int64, error)
	Login(ctx context.Context, sess *appsession.Session, email, password string) (models.UserRef, error)
	Logout(sess *appsession.Session)
}

type CatalogService interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.ProductDetail, error)
}

type CartService interface {
	Add(ctx context.Context, sess *appsession.Session, productID int64) error
	Remove(ctx context.Context, sess *appsession.Session, productID int64) (bool, error)
	Clear(ctx context.Context, sess *appsession.Session) error
	Summary(ctx context.Context, sess *appsession.Session) (*models.CartSummary, error)
}

type UserService interface {
	Profile(ctx context.Context, sess *appsession.Session) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, sess *appsession.Session, input dto.UpdateProfileInput) (*dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, sess *appsession.Session, input dto.ChangePasswordInput) error
}

type Routers struct {
	log            *slog.Logger
	Session        *appsession.Session
	AuthService    AuthService
	CatalogService CatalogService
	CartService    CartService
	UserService    UserService
}

func NewRouter(
	log *slog.Logger,
	sess *appsession.Session,
	authService AuthService,
	catalogService CatalogService,
	cartService CartService,
	userService UserService,
) *Routers {
	return &Routers{
		log:            log,
		Session:        sess,
		AuthService:    authService,
		CatalogService: catalogService,
		CartService:    cartService,
		UserService:    userService,
	}
}

// fail переводит ошибку сервиса в HTTP-ответ.
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, appsession.ErrAuthRequired):
		return c.JSON(http.StatusUnauthorized, response.ErrAuthRequired)
	case errors.Is(err, apperr.ErrValidation):
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(apperr.Fields(err)))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	case errors.Is(err, auth.ErrUserExist):
		return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
	case errors.Is(err, usersvc.ErrEmailTaken):
		return c.JSON(http.StatusConflict, response.ErrEmailTaken)
	case errors.Is(err, usersvc.ErrWrongPassword):
		return c.JSON(http.StatusForbidden, response.ErrWrongPassword)
	case errors.Is(err, usersvc.ErrUserNotFound):
		return c.JSON(http.StatusUnauthorized, response.ErrAuthRequired)
	case errors.Is(err, cartsvc.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, response.ErrProductNotFound)
	case errors.Is(err, cartsvc.ErrProductUnpriced):
		return c.JSON(http.StatusUnprocessableEntity, response.ErrProductUnpriced)
	case errors.Is(err, apperr.ErrStorage):
		log.Error("storage failure", sl.Err(err))
		return c.JSON(http.StatusServiceUnavailable, response.ErrStorageUnavailable)
	}

	log.Error("unexpected error", sl.Err(err))

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

func (r *Routers) bind(c echo.Context, log *slog.Logger, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return false, c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return false, c.JSON(http.StatusBadRequest, response.ValidationFailed(apperr.Fields(err)))
	}

	return true, nil
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(slog.String("op", op))

	var req dto.RegisterInput
	if ok, err := r.bind(c, log, &req); !ok {
		return err
	}

	userID, err := r.AuthService.Register(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("user registered successfully", slog.Int64("user_id", userID))

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]int64{
		"user_id": userID,
	}))
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Вход по email и паролю. Токен активной сессии кладется в cookie.
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if ok, err := r.bind(c, log, &req); !ok {
		return err
	}

	user, err := r.AuthService.Login(c.Request().Context(), r.Session, req.Email, req.Password)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.saveCookie(c, r.Session.Token(), 0); err != nil {
		log.Error("failed to save cookie session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(user))
}

// Logout godoc
// @Summary Выход / смена аккаунта
// @Router /api/v1/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	r.AuthService.Logout(r.Session)

	if err := r.saveCookie(c, "", -1); err != nil {
		r.log.Warn("failed to drop cookie session", slog.String("op", op), sl.Err(err))
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "logged out"})
}

func (r *Routers) saveCookie(c echo.Context, token string, maxAge int) error {
	sess, err := session.Get(middleware.CookieSessionName, c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if token == "" {
		delete(sess.Values, middleware.CookieTokenKey)
	} else {
		sess.Values[middleware.CookieTokenKey] = token
	}

	return sess.Save(c.Request(), c.Response())
}

// ListProducts godoc
// @Summary Каталог, опционально по категории
// @Param category query string false "disney, marvel, starwars, playstation, xbox, lego, geral"
// @Router /api/v1/products [get]
func (r *Routers) ListProducts(c echo.Context) error {
	const op = "http.routers.ListProducts"

	log := r.log.With(slog.String("op", op))
	ctx := c.Request().Context()

	var (
		products []models.Product
		err      error
	)

	if raw := c.QueryParam("category"); raw != "" {
		category, perr := models.ParseCategory(raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("unknown_category", perr.Error()))
		}
		products, err = r.CatalogService.ListByCategory(ctx, category)
	} else {
		products, err = r.CatalogService.List(ctx)
	}
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(products))
}

// GetProduct godoc
// @Summary Карточка товара
// @Router /api/v1/products/{id} [get]
func (r *Routers) GetProduct(c echo.Context) error {
	const op = "http.routers.GetProduct"

	log := r.log.With(slog.String("op", op))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "product id must be an integer"))
	}

	p, err := r.CatalogService.Get(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, response.ErrProductNotFound)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(p))
}

// GetCart godoc
// @Summary Корзина с итоговой суммой
// @Router /api/v1/cart [get]
func (r *Routers) GetCart(c echo.Context) error {
	const op = "http.routers.GetCart"

	summary, err := r.CartService.Summary(c.Request().Context(), r.Session)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(summary))
}

// AddCartItem godoc
// @Summary Добавить товар (повторное добавление увеличивает количество)
// @Router /api/v1/cart/items [post]
func (r *Routers) AddCartItem(c echo.Context) error {
	const op = "http.routers.AddCartItem"

	log := r.log.With(slog.String("op", op))
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if ok, err := r.bind(c, log, &req); !ok {
		return err
	}

	if err := r.CartService.Add(ctx, r.Session, req.ProductID); err != nil {
		return r.fail(c, log, err)
	}

	summary, err := r.CartService.Summary(ctx, r.Session)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(summary))
}

// RemoveCartItem godoc
// @Summary Удалить строку корзины целиком
// @Router /api/v1/cart/items/{product_id} [delete]
func (r *Routers) RemoveCartItem(c echo.Context) error {
	const op = "http.routers.RemoveCartItem"

	log := r.log.With(slog.String("op", op))

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "product id must be an integer"))
	}

	removed, err := r.CartService.Remove(c.Request().Context(), r.Session, productID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]bool{"removed": removed}))
}

// ClearCart godoc
// @Router /api/v1/cart [delete]
func (r *Routers) ClearCart(c echo.Context) error {
	const op = "http.routers.ClearCart"

	if err := r.CartService.Clear(c.Request().Context(), r.Session); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "cart cleared"})
}

// GetProfile godoc
// @Router /api/v1/profile [get]
func (r *Routers) GetProfile(c echo.Context) error {
	const op = "http.routers.GetProfile"

	profile, err := r.UserService.Profile(c.Request().Context(), r.Session)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(profile))
}

// UpdateProfile godoc
// @Summary Частичное обновление профиля, пустые поля не меняются
// @Router /api/v1/profile [patch]
func (r *Routers) UpdateProfile(c echo.Context) error {
	const op = "http.routers.UpdateProfile"

	log := r.log.With(slog.String("op", op))

	var req dto.UpdateProfileInput
	if ok, err := r.bind(c, log, &req); !ok {
		return err
	}

	profile, err := r.UserService.UpdateProfile(c.Request().Context(), r.Session, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(profile))
}

// ChangePassword godoc
// @Router /api/v1/profile/password [put]
func (r *Routers) ChangePassword(c echo.Context) error {
	const op = "http.routers.ChangePassword"

	log := r.log.With(slog.String("op", op))

	var req dto.ChangePasswordInput
	if ok, err := r.bind(c, log, &req); !ok {
		return err
	}

	if err := r.UserService.ChangePassword(c.Request().Context(), r.Session, req); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "password changed"})
}

func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookhive/catalog-service/catalog/config"
	"github.com/bookhive/catalog-service/catalog/internal/errs"
	"github.com/bookhive/catalog-service/catalog/internal/model"
	md "github.com/bookhive/catalog-service/pkg/middleware"
	"github.com/bookhive/catalog-service/pkg/validate"
)

type Handler struct {
	catalogSvc CatalogService
	log        *zap.Logger
}

func New(catalogSvc CatalogService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		log:        log,
	}
}

func (h *Handler) NewRouter(cfg config.Config) *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = newHTTPErrorHandler(h.log)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/", h.Ping)
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/book",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("", h.Create)
	api.GET("", h.List)
	api.GET("/category/:category", h.Category)
	api.GET("/title/:title", h.Title)
	api.GET("/free", h.Free)
	api.GET("/paid", h.Paid)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)

	return e
}

func (h *Handler) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "API is running")
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Create accepts either a single book object or an array of them.
func (h *Handler) Create(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := model.DecodeCreateRequest(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	if req.Single != nil {
		book, err := h.catalogSvc.CreateBook(ctx, *req.Single)
		if err != nil {
			return writeStatus(err)
		}
		return c.JSON(http.StatusCreated, book)
	}

	books, err := h.catalogSvc.CreateBooks(ctx, req.Batch)
	if err != nil {
		return writeStatus(err)
	}
	return c.JSON(http.StatusCreated, books)
}

func (h *Handler) List(c echo.Context) error {
	books, err := h.catalogSvc.ListBooks(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) Category(c echo.Context) error {
	category := c.Param("category")
	if unescaped, err := url.PathUnescape(category); err == nil {
		category = unescaped
	}
	books, err := h.catalogSvc.CategoryBooks(c.Request().Context(), category)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) Title(c echo.Context) error {
	title := c.Param("title")
	if unescaped, err := url.PathUnescape(title); err == nil {
		title = unescaped
	}
	book, err := h.catalogSvc.BookByTitle(c.Request().Context(), title)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) Free(c echo.Context) error {
	return h.tier(c, model.TierFree)
}

func (h *Handler) Paid(c echo.Context) error {
	return h.tier(c, model.TierPaid)
}

func (h *Handler) tier(c echo.Context, tier model.Tier) error {
	books, err := h.catalogSvc.TierBooks(c.Request().Context(), tier)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) Update(c echo.Context) error {
	id := c.Param("id")
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return writeStatus(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.catalogSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return writeStatus(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

func writeStatus(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrMissingField),
		errors.Is(err, errs.ErrPriceRequired),
		errors.Is(err, errs.ErrInvalidTier):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrDuplicateTitle):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// newHTTPErrorHandler shapes every error response as {"error": <message>}.
func newHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprintf("%v", he.Message)
		}
		if err := c.JSON(code, map[string]string{"error": msg}); err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}

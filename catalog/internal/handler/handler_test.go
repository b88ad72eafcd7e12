package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookhive/catalog-service/catalog/config"
	"github.com/bookhive/catalog-service/catalog/internal/errs"
	"github.com/bookhive/catalog-service/catalog/internal/handler"
	"github.com/bookhive/catalog-service/catalog/internal/model"

	service_mocks "github.com/bookhive/catalog-service/catalog/internal/handler/mocks"
)

func newTestRouter(t *testing.T) (*echo.Echo, *service_mocks.MockCatalogService) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	svc := service_mocks.NewMockCatalogService(c)
	h := handler.New(svc, zap.NewNop())
	e := h.NewRouter(config.Config{
		Server: config.HTTPServer{BodyLimit: "20M"},
		CORS:   config.CORS{AllowOrigins: []string{"*"}},
	})
	return e, svc
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func fptr(f float64) *float64 { return &f }

func TestHandler_Create(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok single paid",
			body: `{"title":"X","img":"i","category":"Fiction","content":"c","link":"paid","price":9.99}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), model.CreateBookRequest{
						Title: "X", Img: "i", Category: "Fiction", Content: "c", Link: model.TierPaid, Price: fptr(9.99),
					}).
					Return(model.Book{
						ID: "9e46dbd9-76b0-4d42-962e-37b945b4e3a5", Title: "X", Img: "i",
						Category: "fiction", Content: "c", Link: model.TierPaid, Price: 9.99,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":"9e46dbd9-76b0-4d42-962e-37b945b4e3a5","title":"X","img":"i","category":"fiction","content":"c","link":"paid","price":9.99,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name: "ok batch",
			body: `[{"title":"A","img":"i","category":"sci-fi","content":"c","link":"free"},{"title":"B","img":"i","category":"sci-fi","content":"c","link":"paid","price":5}]`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBooks(context.Background(), []model.CreateBookRequest{
						{Title: "A", Img: "i", Category: "sci-fi", Content: "c", Link: model.TierFree},
						{Title: "B", Img: "i", Category: "sci-fi", Content: "c", Link: model.TierPaid, Price: fptr(5)},
					}).
					Return([]model.Book{
						{ID: "1f0c55c5-93a4-4b8f-8f58-7a2a21f5b0c1", Title: "A", Img: "i", Category: "sci-fi", Content: "c", Link: model.TierFree},
						{ID: "7e2a1f6e-20e8-4f6f-9e38-0e9c8dd0b6f2", Title: "B", Img: "i", Category: "sci-fi", Content: "c", Link: model.TierPaid, Price: 5},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `[{"id":"1f0c55c5-93a4-4b8f-8f58-7a2a21f5b0c1","title":"A","img":"i","category":"sci-fi","content":"c","link":"free","price":0,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"},{"id":"7e2a1f6e-20e8-4f6f-9e38-0e9c8dd0b6f2","title":"B","img":"i","category":"sci-fi","content":"c","link":"paid","price":5,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}]`,
			},
		},
		{
			name: "err. missing field",
			body: `{"title":"X","link":"free"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), gomock.Any()).
					Return(model.Book{}, errs.ErrMissingField)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"All fields are required"}`,
			},
		},
		{
			name: "err. paid without price",
			body: `{"title":"X","img":"i","category":"Fiction","content":"c","link":"paid"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), gomock.Any()).
					Return(model.Book{}, errs.ErrPriceRequired)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"Price is required for paid books"}`,
			},
		},
		{
			name: "err. duplicate title",
			body: `{"title":"X","img":"i","category":"Fiction","content":"c","link":"free"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), gomock.Any()).
					Return(model.Book{}, errs.ErrDuplicateTitle)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"error":"Book with this title already exists"}`,
			},
		},
		{
			name:         "err. malformed body",
			body:         `{"title":`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"unexpected end of JSON input"}`,
			},
		},
		{
			name: "err. internal",
			body: `{"title":"X","img":"i","category":"Fiction","content":"c","link":"free"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), gomock.Any()).
					Return(model.Book{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"error":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newTestRouter(t)
			tt.mockBehavior(svc)

			w := do(e, http.MethodPost, "/api/book", tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.JSONEq(t, tt.response.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_List(t *testing.T) {
	t.Parallel()
	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			ListBooks(context.Background()).
			Return([]model.Book{{ID: "a", Title: "Atomic Habits", Link: model.TierFree}}, nil)

		w := do(e, http.MethodGet, "/api/book", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Atomic Habits")
	})
	t.Run("err. internal", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			ListBooks(context.Background()).
			Return(nil, errors.New("db internal"))

		w := do(e, http.MethodGet, "/api/book", "")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.JSONEq(t, `{"error":"db internal"}`, w.Body.String())
	})
}

func TestHandler_Category(t *testing.T) {
	t.Parallel()
	e, svc := newTestRouter(t)
	svc.EXPECT().
		CategoryBooks(context.Background(), "Fiction").
		Return([]model.Book{}, nil)

	w := do(e, http.MethodGet, "/api/book/category/Fiction", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_Title(t *testing.T) {
	t.Parallel()
	t.Run("ok url-encoded", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			BookByTitle(context.Background(), "atomic habits").
			Return(model.Book{ID: "a", Title: "Atomic Habits", Link: model.TierFree}, nil)

		w := do(e, http.MethodGet, "/api/book/title/atomic%20habits", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Atomic Habits")
	})
	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			BookByTitle(context.Background(), "nope").
			Return(model.Book{}, errs.ErrNotFound)

		w := do(e, http.MethodGet, "/api/book/title/nope", "")

		require.Equal(t, http.StatusNotFound, w.Code)
		require.JSONEq(t, `{"error":"Book not found"}`, w.Body.String())
	})
}

func TestHandler_Tiers(t *testing.T) {
	t.Parallel()
	t.Run("free", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			TierBooks(context.Background(), model.TierFree).
			Return([]model.Book{{ID: "a", Title: "A", Link: model.TierFree}}, nil)

		w := do(e, http.MethodGet, "/api/book/free", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"link":"free"`)
	})
	t.Run("paid", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			TierBooks(context.Background(), model.TierPaid).
			Return([]model.Book{{ID: "b", Title: "B", Link: model.TierPaid, Price: 9.99}}, nil)

		w := do(e, http.MethodGet, "/api/book/paid", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"price":9.99`)
	})
}

func TestHandler_Update(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	title := "New Title"
	var tests = []struct {
		name         string
		id           string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			id:   "9e46dbd9-76b0-4d42-962e-37b945b4e3a5",
			body: `{"title":"New Title"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					UpdateBook(context.Background(), "9e46dbd9-76b0-4d42-962e-37b945b4e3a5", model.UpdateBookRequest{Title: &title}).
					Return(model.Book{
						ID: "9e46dbd9-76b0-4d42-962e-37b945b4e3a5", Title: "New Title", Img: "i",
						Category: "fiction", Content: "c", Link: model.TierFree,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":"9e46dbd9-76b0-4d42-962e-37b945b4e3a5","title":"New Title","img":"i","category":"fiction","content":"c","link":"free","price":0,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name: "err. paid without price",
			id:   "9e46dbd9-76b0-4d42-962e-37b945b4e3a5",
			body: `{"link":"paid"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					UpdateBook(context.Background(), "9e46dbd9-76b0-4d42-962e-37b945b4e3a5", gomock.Any()).
					Return(model.Book{}, errs.ErrPriceRequired)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"Price is required for paid books"}`,
			},
		},
		{
			name: "err. not found",
			id:   "00000000-0000-0000-0000-000000000000",
			body: `{"title":"New Title"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					UpdateBook(context.Background(), "00000000-0000-0000-0000-000000000000", gomock.Any()).
					Return(model.Book{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"error":"Book not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newTestRouter(t)
			tt.mockBehavior(svc)

			w := do(e, http.MethodPut, "/api/book/"+tt.id, tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.JSONEq(t, tt.response.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	t.Parallel()
	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			DeleteBook(context.Background(), "9e46dbd9-76b0-4d42-962e-37b945b4e3a5").
			Return(nil)

		w := do(e, http.MethodDelete, "/api/book/9e46dbd9-76b0-4d42-962e-37b945b4e3a5", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"message":"Book deleted successfully"}`, w.Body.String())
	})
	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		e, svc := newTestRouter(t)
		svc.EXPECT().
			DeleteBook(context.Background(), "9e46dbd9-76b0-4d42-962e-37b945b4e3a5").
			Return(errs.ErrNotFound)

		w := do(e, http.MethodDelete, "/api/book/9e46dbd9-76b0-4d42-962e-37b945b4e3a5", "")

		require.Equal(t, http.StatusNotFound, w.Code)
		require.JSONEq(t, `{"error":"Book not found"}`, w.Body.String())
	})
}

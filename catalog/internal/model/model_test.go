package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhive/catalog-service/catalog/internal/model"
)

func TestDecodeCreateRequest(t *testing.T) {
	t.Parallel()

	t.Run("object decodes as single", func(t *testing.T) {
		t.Parallel()
		req, err := model.DecodeCreateRequest([]byte(`{"title":"X","link":"paid","price":9.99}`))
		require.NoError(t, err)
		require.NotNil(t, req.Single)
		require.Nil(t, req.Batch)
		require.Equal(t, "X", req.Single.Title)
		require.NotNil(t, req.Single.Price)
		require.Equal(t, 9.99, *req.Single.Price)
	})

	t.Run("array decodes as batch", func(t *testing.T) {
		t.Parallel()
		req, err := model.DecodeCreateRequest([]byte(` [{"title":"A"},{"title":"B"}]`))
		require.NoError(t, err)
		require.Nil(t, req.Single)
		require.Len(t, req.Batch, 2)
		require.Equal(t, "B", req.Batch[1].Title)
	})

	t.Run("absent price stays nil", func(t *testing.T) {
		t.Parallel()
		req, err := model.DecodeCreateRequest([]byte(`{"title":"X","link":"paid"}`))
		require.NoError(t, err)
		require.Nil(t, req.Single.Price)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		_, err := model.DecodeCreateRequest([]byte("  \n"))
		require.ErrorIs(t, err, model.ErrEmptyBody)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		_, err := model.DecodeCreateRequest([]byte(`[{"title":`))
		require.Error(t, err)
	})
}

package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreria-labs/libreria-backend/pkg/db/models"
	"github.com/libreria-labs/libreria-backend/pkg/pagination"
)

func TestRepositoryBookFlow(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	book := &models.Book{
		ID:      1,
		ISBN:    "978-0134190440",
		Title:   "The Go Programming Language",
		Authors: []string{"Alan Donovan", "Brian Kernighan"},
		Price:   decimal.NewFromFloat(34.99),
		Stock:   12,
	}

	created, err := repo.CreateBook(ctx, book)
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	byID, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", byID.Title)
	assert.True(t, byID.Price.Equal(decimal.NewFromFloat(34.99)))

	byISBN, err := repo.FindByISBN(ctx, "978-0134190440")
	require.NoError(t, err)
	assert.Equal(t, int64(1), byISBN.ID)

	byID.Stock = 5
	_, err = repo.UpdateBook(ctx, byID)
	require.NoError(t, err)

	refetched, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, refetched.Stock)

	deleted, err := repo.DeleteBook(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteBook(ctx, 1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepositoryListBooksPaginates(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := repo.CreateBook(ctx, &models.Book{
			ID:    int64(i),
			ISBN:  fmt.Sprintf("isbn-%d", i),
			Title: fmt.Sprintf("Volume %d", i),
			Price: decimal.NewFromInt(int64(i * 10)),
		})
		require.NoError(t, err)
	}

	first, cursor, err := repo.ListBooks(ctx, bookListQuery{
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, int64(1), first[0].ID)
	assert.Equal(t, int64(2), first[1].ID)

	second, cursor, err := repo.ListBooks(ctx, bookListQuery{
		Pagination: pagination.Params{Limit: 2, Cursor: cursor},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, int64(3), second[0].ID)

	third, cursor, err := repo.ListBooks(ctx, bookListQuery{
		Pagination: pagination.Params{Limit: 2, Cursor: cursor},
	})
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Empty(t, cursor)
}

func TestRepositoryListBooksFiltersByQuery(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.CreateBook(ctx, &models.Book{ID: 1, ISBN: "a-1", Title: "Don Quijote", Price: decimal.NewFromInt(20)})
	require.NoError(t, err)
	_, err = repo.CreateBook(ctx, &models.Book{ID: 2, ISBN: "b-2", Title: "Moby Dick", Price: decimal.NewFromInt(15)})
	require.NoError(t, err)

	rows, _, err := repo.ListBooks(ctx, bookListQuery{
		Pagination: pagination.Params{Limit: 10},
		Query:      "quijote",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Don Quijote", rows[0].Title)
}

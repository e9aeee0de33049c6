package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	Repository
	listFunc   func(ctx context.Context, search string, category Category) ([]Product, error)
	createFunc func(ctx context.Context, p *Product) error
}

func (f *fakeRepo) List(ctx context.Context, search string, category Category) ([]Product, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, search, category)
	}
	return nil, nil
}

func (f *fakeRepo) Create(ctx context.Context, p *Product) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, p)
	}
	p.ID = "p-new"
	return nil
}

func TestProductFormValidate_CollectsAllFailures(t *testing.T) {
	form := ProductForm{
		Name:     "ab",
		Category: "Enfant",
		Price:    -1,
		Stock:    -1,
	}

	errs := form.Validate()
	require.NotNil(t, errs)
	for _, field := range []string{"name", "category", "price", "stock"} {
		assert.Contains(t, errs, field)
	}
}

func TestProductFormValidate_Valid(t *testing.T) {
	form := ProductForm{
		Name:        "Oud Royal",
		Category:    CategoryHomme,
		Description: "Boisé, intense",
		Price:       2000,
		Stock:       10,
	}
	assert.Nil(t, form.Validate())
}

func TestList_UnknownCategoryMatchesNothing(t *testing.T) {
	called := false
	repo := &fakeRepo{listFunc: func(_ context.Context, _ string, _ Category) ([]Product, error) {
		called = true
		return nil, nil
	}}
	svc := NewService(repo, zerolog.Nop())

	products, err := svc.List(context.Background(), "", "Enfant")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.False(t, called, "no query for an unknown category")
}

func TestList_NilFromRepoBecomesEmptySlice(t *testing.T) {
	svc := NewService(&fakeRepo{}, zerolog.Nop())

	products, err := svc.List(context.Background(), "", "")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestList_TrimsSearch(t *testing.T) {
	var gotSearch string
	repo := &fakeRepo{listFunc: func(_ context.Context, search string, _ Category) ([]Product, error) {
		gotSearch = search
		return nil, nil
	}}
	svc := NewService(repo, zerolog.Nop())

	_, err := svc.List(context.Background(), "  oud  ", "")
	require.NoError(t, err)
	assert.Equal(t, "oud", gotSearch)
}

func TestCreate_InvalidFormNeverReachesRepo(t *testing.T) {
	called := false
	repo := &fakeRepo{createFunc: func(_ context.Context, _ *Product) error {
		called = true
		return nil
	}}
	svc := NewService(repo, zerolog.Nop())

	_, err := svc.Create(context.Background(), ProductForm{Name: "x"})
	require.Error(t, err)
	assert.False(t, called)
}

func TestCreate_TrimsNameAndKeepsImages(t *testing.T) {
	svc := NewService(&fakeRepo{}, zerolog.Nop())

	p, err := svc.Create(context.Background(), ProductForm{
		Name:      "  Oud Royal  ",
		Category:  CategoryMixte,
		Price:     2000,
		Stock:     5,
		ImageURLs: []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Oud Royal", p.Name)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "https://img.example/1.jpg", p.Images[0].URL)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryHomme.Valid())
	assert.True(t, CategoryFemme.Valid())
	assert.True(t, CategoryMixte.Valid())
	assert.False(t, Category("Enfant").Valid())
	assert.False(t, Category(strings.ToLower(string(CategoryHomme))).Valid())
}

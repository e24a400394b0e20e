package menu

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *InMemoryRepository, *stubEmbedder, *stubStorage) {
	repo := NewInMemoryRepository()
	embedder := &stubEmbedder{fail: map[string]bool{}}
	storage := &stubStorage{}
	svc := NewService(repo, embedder, storage)
	svc.embedDelay = 0
	return svc, repo, embedder, storage
}

func TestCreateRefreshesEmbedding(t *testing.T) {
	svc, repo, embedder, _ := newTestService()

	item, err := svc.Create(context.Background(), Input{
		Name:     "Mie Goreng",
		Category: "Main",
		Price:    floatPtr(28000),
	})
	require.NoError(t, err)
	svc.Wait()

	assert.True(t, item.IsAvailable)
	assert.Equal(t, SpicyNone, item.SpicyLevel)
	assert.True(t, repo.HasEmbedding(item.ID))
	require.Len(t, embedder.texts, 1)
	assert.Contains(t, embedder.texts[0], "Menu: Mie Goreng")
}

func TestCreateSucceedsWhenEmbeddingFails(t *testing.T) {
	svc, repo, embedder, _ := newTestService()
	in := Input{Name: "Broken", Category: "Main", Price: floatPtr(1)}
	embedder.fail[(&Item{Name: "Broken", Category: "Main", Price: 1, SpicyLevel: SpicyNone}).EmbeddingText()] = true

	item, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	svc.Wait()

	assert.False(t, repo.HasEmbedding(item.ID))
}

func TestUpdateMissingItem(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Update(context.Background(), 42, Input{Name: "x", Category: "y", Price: floatPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeepsAvailabilityFlag(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	item, err := svc.Create(ctx, Input{Name: "Soto", Category: "Soup", Price: floatPtr(20000)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, Input{
		Name: "Soto Ayam", Category: "Soup", Price: floatPtr(22000), IsAvailable: boolPtr(false),
	})
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, "Soto Ayam", updated.Name)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, 22000.0, updated.Price)
}

func TestGroupByCategory(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seed(repo,
		Item{Name: "A", Category: "Drink"},
		Item{Name: "B", Category: "Main"},
		Item{Name: "C", Category: "Drink"},
		Item{Name: "D", Category: "Drink"},
	)

	counts, err := svc.GroupByCategory(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, CategorySummary{Category: "Drink", Count: 3}, counts[0])
	assert.Equal(t, "Main", counts[1].Category)

	grouped, err := svc.GroupByCategory(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, grouped[0].Count)
	assert.Len(t, grouped[0].Items, 2)
}

func TestUploadImage(t *testing.T) {
	svc, repo, _, storage := newTestService()
	seed(repo, Item{Name: "Rendang", Category: "Main"})

	item, err := svc.UploadImage(context.Background(), 1, strings.NewReader("png-bytes"), "photo.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(storage.key, "menus/1/"))
	assert.True(t, strings.HasSuffix(storage.key, ".png"))
	assert.Equal(t, "image/png", storage.contentType)
	assert.Equal(t, "png-bytes", string(storage.body))
	assert.Equal(t, "https://cdn.example/"+storage.key, item.ImageURL)
}

func TestUploadImageRejectsBadExtension(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seed(repo, Item{Name: "Rendang"})

	_, err := svc.UploadImage(context.Background(), 1, strings.NewReader("x"), "menu.pdf")
	assert.ErrorIs(t, err, ErrImageExtInvalid)

	_, err = svc.UploadImage(context.Background(), 1, strings.NewReader("x"), "noext")
	assert.ErrorIs(t, err, ErrImageExtMissing)
}

func TestUploadImageWithoutStorage(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil)

	_, err := svc.UploadImage(context.Background(), 1, strings.NewReader("x"), "a.png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestGenerateEmbeddings(t *testing.T) {
	svc, repo, embedder, _ := newTestService()
	seed(repo,
		Item{Name: "Good", Category: "Main", SpicyLevel: SpicyNone},
		Item{Name: "Bad", Category: "Main", SpicyLevel: SpicyNone},
	)
	bad, _ := repo.GetByID(context.Background(), 2)
	embedder.fail[bad.EmbeddingText()] = true

	report, err := svc.GenerateEmbeddings(context.Background(), false, 0)
	require.NoError(t, err)
	assert.Equal(t, EmbedReport{Processed: 2, Succeeded: 1, Failed: 1}, report)

	// only the failed item is still pending
	report, err = svc.GenerateEmbeddings(context.Background(), false, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	delete(embedder.fail, bad.EmbeddingText())
	report, err = svc.GenerateEmbeddings(context.Background(), true, 0)
	require.NoError(t, err)
	assert.Equal(t, EmbedReport{Processed: 2, Succeeded: 2}, report)
}

func TestGenerateEmbeddingsUnknownID(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GenerateEmbeddings(context.Background(), true, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

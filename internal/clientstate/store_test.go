package clientstate

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/belugagoods/storefront-backend/internal/cart"
	"github.com/belugagoods/storefront-backend/internal/events"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStoreTest(t *testing.T) (*Store, *BoltBackend, *events.Bus) {
	t.Helper()
	backend, err := NewBoltBackend(filepath.Join(t.TempDir(), "state", "client.db"))
	require.NoError(t, err)
	bus := events.NewBus()
	store := NewStore(backend, bus)
	t.Cleanup(func() { _ = store.Close() })
	return store, backend, bus
}

func writeRaw(t *testing.T, backend Backend, clientID, key, raw string) {
	t.Helper()
	require.NoError(t, backend.Update(context.Background(), clientID, key, func([]byte) ([]byte, error) {
		return []byte(raw), nil
	}))
}

func TestLoadCart_SeedsSampleOnFirstLoad(t *testing.T) {
	store, backend, _ := setupStoreTest(t)
	ctx := context.Background()

	c, err := store.LoadCart(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, c.Items, 3)
	assert.True(t, c.AllSelected())
	assert.Equal(t, int64(41300), c.Totals().Total)

	raw, err := backend.View(ctx, "client-1", KeyCart)
	require.NoError(t, err)
	assert.NotNil(t, raw)
	assert.True(t, isCurrent(raw))
}

func TestLoadCart_MalformedResetsToEmpty(t *testing.T) {
	store, backend, _ := setupStoreTest(t)
	ctx := context.Background()

	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "info", Format: "json", Output: &buf})

	writeRaw(t, backend, "client-2", KeyCart, "{not json")

	c, err := store.LoadCart(ctx, "client-2")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Contains(t, buf.String(), "Failed to parse persisted cart")

	again, err := store.LoadCart(ctx, "client-2")
	require.NoError(t, err)
	assert.Empty(t, again.Items)
}

func TestLoadCart_MigratesLegacyFormats(t *testing.T) {
	store, backend, _ := setupStoreTest(t)
	ctx := context.Background()

	writeRaw(t, backend, "v0", KeyCart, `[{"id":4,"name":"Beluga Pin","name_ko":"벨루가 핀","price":4000,"quantity":2}]`)
	c, err := store.LoadCart(ctx, "v0")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.True(t, c.Items[0].Selected)
	assert.Equal(t, uint(5), c.NextID)

	writeRaw(t, backend, "v1", KeyCart, `{"version":1,"data":{"items":[{"id":1,"name":"A","price":1000,"quantity":1},{"id":2,"name":"B","price":2000,"quantity":3}],"selected_ids":[2]}}`)
	c, err = store.LoadCart(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.False(t, c.Items[0].Selected)
	assert.True(t, c.Items[1].Selected)
	assert.Equal(t, int64(6000), c.Totals().Subtotal)

	raw, err := backend.View(ctx, "v1", KeyCart)
	require.NoError(t, err)
	assert.True(t, isCurrent(raw))
}

func TestDecodeCart_UnsupportedVersion(t *testing.T) {
	_, err := DecodeCart([]byte(`{"version":9,"data":{}}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestUpdateCart_PersistsAndPublishes(t *testing.T) {
	store, _, bus := setupStoreTest(t)
	ctx := context.Background()

	var published []events.CartChanged
	_, err := bus.SubscribeCartChanged(func(evt events.CartChanged) {
		published = append(published, evt)
	}, false)
	require.NoError(t, err)

	_, err = store.UpdateCart(ctx, "client-3", func(c *cart.Cart) error {
		_, err := c.UpdateQuantity(2, 4)
		return err
	})
	require.NoError(t, err)

	reloaded, err := store.LoadCart(ctx, "client-3")
	require.NoError(t, err)
	item, _ := reloaded.Get(2)
	assert.Equal(t, 4, item.Quantity)

	require.Len(t, published, 1)
	assert.Equal(t, "client-3", published[0].ClientID)
	assert.Equal(t, 3, published[0].ItemCount)
	assert.Equal(t, 7, published[0].Quantity)
}

func TestUpdateCart_FailedMutationWritesNothing(t *testing.T) {
	store, _, _ := setupStoreTest(t)
	ctx := context.Background()

	_, err := store.LoadCart(ctx, "client-4")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = store.UpdateCart(ctx, "client-4", func(c *cart.Cart) error {
		c.Clear()
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := store.LoadCart(ctx, "client-4")
	require.NoError(t, err)
	assert.Len(t, c.Items, 3)
}

func TestUpdateCart_ConcurrentMutationsSerialize(t *testing.T) {
	store, _, _ := setupStoreTest(t)
	ctx := context.Background()

	_, err := store.UpdateCart(ctx, "client-5", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateCart(ctx, "client-5", func(c *cart.Cart) error {
				_, err := c.Add(cart.Item{ProductID: 1, Name: "Sticker", Price: 5500, Quantity: 1})
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := store.LoadCart(ctx, "client-5")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 20, c.Items[0].Quantity)
}

func TestPreferences(t *testing.T) {
	store, backend, _ := setupStoreTest(t)
	ctx := context.Background()

	prefs, err := store.LoadPreferences(ctx, "client-6")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)

	prefs, err = store.SavePreferences(ctx, "client-6", Preferences{Theme: ThemeDark})
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, prefs.Theme)
	assert.Equal(t, LanguageKo, prefs.Language)

	_, err = store.SavePreferences(ctx, "client-6", Preferences{Language: "fr"})
	assert.ErrorIs(t, err, ErrInvalidLanguage)
	_, err = store.SavePreferences(ctx, "client-6", Preferences{Theme: "neon"})
	assert.ErrorIs(t, err, ErrInvalidTheme)

	writeRaw(t, backend, "legacy", KeyLanguage, "en")
	writeRaw(t, backend, "legacy", KeyTheme, "sepia")
	prefs, err = store.LoadPreferences(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, LanguageEn, prefs.Language)
	assert.Equal(t, ThemeLight, prefs.Theme)
}

func TestSearchHistory(t *testing.T) {
	store, _, _ := setupStoreTest(t)
	ctx := context.Background()

	for _, term := range []string{"키링", "mug", "sticker", "  ", "tote", "badge", "mug", "cup"} {
		_, err := store.AddSearchTerm(ctx, "client-7", term)
		require.NoError(t, err)
	}

	terms, err := store.SearchHistory(ctx, "client-7")
	require.NoError(t, err)
	assert.Equal(t, []string{"cup", "mug", "badge", "tote", "sticker"}, terms)

	terms, err = store.RemoveSearchTerm(ctx, "client-7", "badge")
	require.NoError(t, err)
	assert.Equal(t, []string{"cup", "mug", "tote", "sticker"}, terms)

	require.NoError(t, store.ClearSearchHistory(ctx, "client-7"))
	terms, err = store.SearchHistory(ctx, "client-7")
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestBoltBackend_CancelledContext(t *testing.T) {
	_, backend, _ := setupStoreTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.View(ctx, "c", KeyCart)
	assert.ErrorIs(t, err, context.Canceled)
	err = backend.Update(ctx, "c", KeyCart, func(b []byte) ([]byte, error) { return b, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

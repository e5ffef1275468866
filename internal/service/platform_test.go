package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/resell_api/internal/config"
	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

func TestFullSync_Success(t *testing.T) {
	a := newFakeAdapter(models.PlatformEtsy)
	a.products = []models.PlatformProduct{{ID: "1"}, {ID: "2"}}
	a.orders = []models.PlatformOrder{{ID: "o1"}}

	res := FullSync(context.Background(), a)

	assert.True(t, res.Success)
	assert.Equal(t, models.PlatformEtsy, res.Platform)
	require.NotNil(t, res.ProductsSynced)
	require.NotNil(t, res.OrdersSynced)
	assert.Equal(t, 2, *res.ProductsSynced)
	assert.Equal(t, 1, *res.OrdersSynced)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 3, res.RecordsProcessed())
	assert.False(t, res.Timestamp.IsZero())
}

func TestFullSync_ListFailureStopsBeforeOrders(t *testing.T) {
	a := newFakeAdapter(models.PlatformAukro)
	a.listErr = errors.New("401 unauthorized")

	res := FullSync(context.Background(), a)

	assert.False(t, res.Success)
	assert.Equal(t, []string{"401 unauthorized"}, res.Errors)
	assert.Nil(t, res.ProductsSynced)
	assert.Nil(t, res.OrdersSynced)
	assert.False(t, a.ordersSeen)
	assert.Equal(t, 0, res.RecordsProcessed())
}

func TestFullSync_OrderFailureDropsProductCount(t *testing.T) {
	a := newFakeAdapter(models.PlatformMedusa)
	a.products = []models.PlatformProduct{{ID: "1"}}
	a.ordersErr = errors.New("timeout")

	res := FullSync(context.Background(), a)

	assert.False(t, res.Success)
	assert.Equal(t, []string{"timeout"}, res.Errors)
	assert.Nil(t, res.ProductsSynced)
}

func TestFullSync_EmptyErrorMessage(t *testing.T) {
	a := newFakeAdapter(models.PlatformEtsy)
	a.listErr = errors.New("")

	res := FullSync(context.Background(), a)
	assert.Equal(t, []string{"Unknown error"}, res.Errors)
}

func TestFullSync_RecoversFromPanic(t *testing.T) {
	a := newFakeAdapter(models.PlatformEtsy)
	a.panicMsg = "nil map"

	var res *models.SyncResult
	require.NotPanics(t, func() { res = FullSync(context.Background(), a) })
	assert.False(t, res.Success)
	assert.Equal(t, []string{"nil map"}, res.Errors)
}

func TestStubAdapters_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Burst of 1 is consumed by the first call, the second has to wait.
	a := NewAukroAdapter("k", "s", "")
	_, _ = a.ListProducts(context.Background())
	_, err := a.ListProducts(ctx)
	assert.Error(t, err)
}

func TestStubAdapters_Contract(t *testing.T) {
	adapters := []PlatformAdapter{
		NewEtsyAdapter("key", ""),
		NewMedusaAdapter("https://shop.example.com/", "key", ""),
		NewAukroAdapter("key", "secret", ""),
	}
	ctx := context.Background()
	for _, a := range adapters {
		t.Run(string(a.Platform()), func(t *testing.T) {
			products, err := a.ListProducts(ctx)
			require.NoError(t, err)
			assert.Empty(t, products)

			p, err := a.GetProduct(ctx, "x")
			require.NoError(t, err)
			assert.Nil(t, p)

			ref, err := a.CreateProduct(ctx, &models.PlatformProduct{Title: "Canon AE-1"})
			require.NoError(t, err)
			assert.Equal(t, "mock-"+string(a.Platform())+"-id", ref.ID)

			title := "New"
			assert.NoError(t, a.UpdateProduct(ctx, ref.ID, &models.PlatformProductPatch{Title: &title}))
			assert.NoError(t, a.DeleteProduct(ctx, ref.ID))

			orders, err := a.SyncOrders(ctx)
			require.NoError(t, err)
			assert.Empty(t, orders)

			assert.NoError(t, a.HandleWebhook(ctx, &models.WebhookPayload{EventType: "order.created"}))
			assert.Error(t, a.HandleWebhook(ctx, nil))
		})
	}
}

func TestMedusaAdapter_ListingURL(t *testing.T) {
	a := NewMedusaAdapter("https://shop.example.com/", "key", "")
	ref, err := a.CreateProduct(context.Background(), &models.PlatformProduct{})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/products/mock-medusa-id", ref.URL)
	assert.True(t, a.Configured())
	assert.False(t, NewMedusaAdapter("", "key", "").Configured())
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"event_type":"order.created"}`)

	open := NewEtsyAdapter("", "")
	assert.True(t, open.VerifyWebhook(body, ""))
	assert.True(t, open.VerifyWebhook(body, "garbage"))

	signed := NewEtsyAdapter("", "whsec")
	good := utils.GenerateSignature(body, "whsec")
	assert.True(t, signed.VerifyWebhook(body, good))
	assert.True(t, signed.VerifyWebhook(body, "sha256="+good))
	assert.False(t, signed.VerifyWebhook(body, ""))
	assert.False(t, signed.VerifyWebhook(body, utils.GenerateSignature(body, "other")))
	assert.False(t, signed.VerifyWebhook([]byte(`{}`), good))
}

func TestPlatformFactory_CreateAdapter(t *testing.T) {
	f := NewPlatformFactory(config.PlatformConfig{EtsyAPIKey: "k"})

	for _, id := range []string{"etsy", "ETSY", " Etsy "} {
		a, err := f.CreateAdapter(id)
		require.NoError(t, err, id)
		assert.Equal(t, models.PlatformEtsy, a.Platform())
	}

	first, _ := f.CreateAdapter("aukro")
	second, _ := f.CreateAdapter("aukro")
	assert.Same(t, first, second)

	_, err := f.CreateAdapter("ebay")
	assert.ErrorIs(t, err, utils.ErrUnsupportedPlatform)
	assert.Contains(t, err.Error(), "ebay")

	_, err = f.CreateAdapter("other")
	assert.ErrorIs(t, err, utils.ErrUnsupportedPlatform)
}

func TestPlatformFactory_AllAdaptersSorted(t *testing.T) {
	f := NewPlatformFactory(config.PlatformConfig{})

	var ids []models.PlatformType
	for _, a := range f.AllAdapters() {
		ids = append(ids, a.Platform())
	}
	assert.Equal(t, []models.PlatformType{models.PlatformAukro, models.PlatformEtsy, models.PlatformMedusa}, ids)
}

func TestPlatformFactory_RegisterAdapterReplaces(t *testing.T) {
	f := NewPlatformFactory(config.PlatformConfig{})
	fake := newFakeAdapter(models.PlatformEtsy)
	f.RegisterAdapter(fake)

	a, err := f.CreateAdapter("etsy")
	require.NoError(t, err)
	assert.Same(t, fake, a)
}

func TestWebhookService_Handle(t *testing.T) {
	f := NewPlatformFactory(config.PlatformConfig{MedusaWebhookSecret: "whsec"})
	svc := NewWebhookService(f)
	ctx := context.Background()
	body := []byte(`{"event_type":"product.updated","data":{"id":"p1"},"timestamp":"2024-01-01T00:00:00Z"}`)

	err := svc.Handle(ctx, "medusa", body, utils.GenerateSignature(body, "whsec"))
	assert.NoError(t, err)

	err = svc.Handle(ctx, "medusa", body, "deadbeef")
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)

	err = svc.Handle(ctx, "shopify", body, "")
	assert.ErrorIs(t, err, utils.ErrUnsupportedPlatform)

	bad := []byte(`not json`)
	err = svc.Handle(ctx, "medusa", bad, utils.GenerateSignature(bad, "whsec"))
	assert.ErrorIs(t, err, utils.ErrInvalidPayload)

	// Etsy has no secret configured and accepts any signature.
	assert.NoError(t, svc.Handle(ctx, "etsy", body, ""))
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// fakeSellers matches display names case-insensitively.
type fakeSellers struct {
	profiles []models.Profile
	err      error
	calls    map[string]int
}

func (f *fakeSellers) FindByDisplayName(_ context.Context, name string) ([]models.Profile, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Profile
	for _, p := range f.profiles {
		if strings.EqualFold(p.FullName, name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeProducts keeps products in memory keyed by sku.
type fakeProducts struct {
	mu        sync.Mutex
	bySKU     map[string]*models.Product
	created   []*models.Product
	createErr error
	panicOn   string
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{bySKU: map[string]*models.Product{}}
}

func (f *fakeProducts) GetBySKU(_ context.Context, sku string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bySKU[sku], nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn != "" && strings.Contains(p.Title, f.panicOn) {
		panic("boom")
	}
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.bySKU[p.SKU]; ok {
		return utils.ErrDuplicateSKU
	}
	p.ID = "prod-" + p.SKU
	p.CreatedAt = time.Now()
	f.bySKU[p.SKU] = p
	f.created = append(f.created, p)
	return nil
}

func (f *fakeProducts) List(_ context.Context, sellerID string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.created {
		if sellerID == "" || p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakeSyncLogs records the sync log lifecycle.
type fakeSyncLogs struct {
	mu        sync.Mutex
	created   []*models.SyncLog
	completed map[string]completedLog
	createErr error
}

type completedLog struct {
	status  models.SyncStatus
	records int
	errMsg  *string
}

func (f *fakeSyncLogs) Create(_ context.Context, l *models.SyncLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	l.ID = "log-" + string(l.Platform)
	l.SyncStartedAt = time.Now()
	f.created = append(f.created, l)
	return nil
}

func (f *fakeSyncLogs) Complete(_ context.Context, id string, status models.SyncStatus, records int, errMsg *string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed == nil {
		f.completed = map[string]completedLog{}
	}
	f.completed[id] = completedLog{status: status, records: records, errMsg: errMsg}
	return nil
}

func (f *fakeSyncLogs) List(_ context.Context, platform string, _ int) ([]models.SyncLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SyncLog{}
	for _, l := range f.created {
		if platform == "" || string(l.Platform) == platform {
			out = append(out, *l)
		}
	}
	return out, nil
}

// fakeGuard is an in-memory SyncGuard.
type fakeGuard struct {
	mu     sync.Mutex
	held   map[models.PlatformType]bool
	last   map[models.PlatformType]*models.SyncResult
	acqErr error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{held: map[models.PlatformType]bool{}, last: map[models.PlatformType]*models.SyncResult{}}
}

func (g *fakeGuard) Acquire(_ context.Context, p models.PlatformType) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.acqErr != nil {
		return func() {}, false, g.acqErr
	}
	if g.held[p] {
		return func() {}, false, nil
	}
	g.held[p] = true
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.held, p)
	}, true, nil
}

func (g *fakeGuard) SaveResult(_ context.Context, r *models.SyncResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last[r.Platform] = r
	return nil
}

func (g *fakeGuard) LastResult(_ context.Context, p models.PlatformType) (*models.SyncResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last[p], nil
}

// fakeAdapter lets tests script ListProducts and SyncOrders.
type fakeAdapter struct {
	stubAdapter
	products   []models.PlatformProduct
	orders     []models.PlatformOrder
	listErr    error
	ordersErr  error
	panicMsg   string
	ordersSeen bool
}

func newFakeAdapter(p models.PlatformType) *fakeAdapter {
	return &fakeAdapter{stubAdapter: newStubAdapter(p, 1000, 1000, "")}
}

func (a *fakeAdapter) ListProducts(context.Context) ([]models.PlatformProduct, error) {
	if a.panicMsg != "" {
		panic(a.panicMsg)
	}
	return a.products, a.listErr
}

func (a *fakeAdapter) GetProduct(context.Context, string) (*models.PlatformProduct, error) {
	return nil, nil
}

func (a *fakeAdapter) CreateProduct(context.Context, *models.PlatformProduct) (*models.ListingRef, error) {
	return &models.ListingRef{ID: "fake"}, nil
}

func (a *fakeAdapter) UpdateProduct(context.Context, string, *models.PlatformProductPatch) error {
	return nil
}

func (a *fakeAdapter) DeleteProduct(context.Context, string) error { return nil }

func (a *fakeAdapter) SyncOrders(context.Context) ([]models.PlatformOrder, error) {
	a.ordersSeen = true
	return a.orders, a.ordersErr
}

// recordingNotifier captures emitted events.
type recordingNotifier struct {
	imports []*models.ImportResult
	syncs   []*models.SyncResult
}

func (n *recordingNotifier) NotifyImportCompleted(_ string, r *models.ImportResult) {
	n.imports = append(n.imports, r)
}

func (n *recordingNotifier) NotifySyncCompleted(_ string, r *models.SyncResult) {
	n.syncs = append(n.syncs, r)
}

// fakeArchive records stored keys.
type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Store(_ context.Context, key string, _ []byte, _ string) (string, error) {
	a.keys = append(a.keys, key)
	if a.err != nil {
		return "", a.err
	}
	return "s3://bucket/" + key, nil
}

var errStore = errors.New("connection reset by peer")

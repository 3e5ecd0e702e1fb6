package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cartella/internal/gateway"
	"github.com/cartella/internal/models"
	"github.com/cartella/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeIdentity struct {
	authorized     bool
	authorizeErr   error
	customerID     string
	resolveErr     error
	authorizeCalls int
}

func (f *fakeIdentity) Authorize(_ context.Context, _ string) (bool, error) {
	f.authorizeCalls++
	return f.authorized, f.authorizeErr
}

func (f *fakeIdentity) ResolveCustomerID(_ string) (string, error) {
	return f.customerID, f.resolveErr
}

type fakeCatalog struct {
	exists      map[string]bool
	verifyErr   error
	summaries   []gateway.ProductSummary
	fetchErr    error
	verifyCalls int
	fetchCalls  int
}

func (f *fakeCatalog) ProductExists(_ context.Context, productID string) (bool, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return f.exists[productID], nil
}

func (f *fakeCatalog) FetchDisplayData(_ context.Context, _ []string) ([]gateway.ProductSummary, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.summaries, nil
}

func setupCartServiceTest(t *testing.T, identity *fakeIdentity, catalog *fakeCatalog) (*CartService, repository.CartLineRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartLine{}, &models.CartEvent{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	lineRepo := repository.NewCartLineRepository(db)
	eventRepo := repository.NewCartEventRepository(db)
	return NewCartService(lineRepo, eventRepo, identity, catalog, nil), lineRepo
}

func authorizedIdentity() *fakeIdentity {
	return &fakeIdentity{authorized: true, customerID: uuid.NewString()}
}

func TestCartServiceBlankTokenShortCircuits(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, _ := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	if _, err := svc.ListItems(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("list want ErrUnauthorized got %v", err)
	}
	if err := svc.AddItem(ctx, "  ", "prod-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("add want ErrUnauthorized got %v", err)
	}
	if err := svc.ReduceLine(ctx, "", "line-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("reduce want ErrUnauthorized got %v", err)
	}
	if err := svc.DeleteLine(ctx, "", "line-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("delete want ErrUnauthorized got %v", err)
	}
	if err := svc.ClearCart(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("clear want ErrUnauthorized got %v", err)
	}
	if identity.authorizeCalls != 0 {
		t.Fatalf("blank token must not reach identity service, got %d calls", identity.authorizeCalls)
	}
}

func TestCartServiceRejectedCredential(t *testing.T) {
	identity := &fakeIdentity{authorized: false, customerID: uuid.NewString()}
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)

	if err := svc.AddItem(context.Background(), "token", "prod-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}
	count, err := lineRepo.CountByCustomer(identity.customerID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected credential must not touch the cart, got %d lines", count)
	}
	if catalog.verifyCalls != 0 {
		t.Fatalf("rejected credential must not reach catalog, got %d calls", catalog.verifyCalls)
	}
}

func TestCartServiceIdentityFailureIsUnauthorized(t *testing.T) {
	identity := &fakeIdentity{authorizeErr: errors.New("connection refused")}
	svc, _ := setupCartServiceTest(t, identity, &fakeCatalog{})

	if err := svc.ClearCart(context.Background(), "token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("identity outage should map to ErrUnauthorized, got %v", err)
	}
}

func TestAddItemVerifiesOnlyNewProducts(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if catalog.verifyCalls != 1 {
		t.Fatalf("first add should verify once, got %d", catalog.verifyCalls)
	}

	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("repeat add failed: %v", err)
	}
	if catalog.verifyCalls != 1 {
		t.Fatalf("increment path must skip re-verification, got %d calls", catalog.verifyCalls)
	}

	line, err := lineRepo.FindByCustomerAndProduct(identity.customerID, "prod-1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if line == nil || line.Quantity != 2 {
		t.Fatalf("want single line quantity 2, got %+v", line)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)

	if err := svc.AddItem(context.Background(), "token", "prod-missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
	count, err := lineRepo.CountByCustomer(identity.customerID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("unknown product must not create a line, got %d", count)
	}
}

func TestAddItemCatalogOutageMapsToNotFound(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{verifyErr: errors.New("catalog down")}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)

	if err := svc.AddItem(context.Background(), "token", "prod-1"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("catalog outage should map to ErrProductNotFound, got %v", err)
	}
	count, _ := lineRepo.CountByCustomer(identity.customerID)
	if count != 0 {
		t.Fatalf("failed verification must not create a line, got %d", count)
	}
}

func TestAddItemBlankProductID(t *testing.T) {
	identity := authorizedIdentity()
	svc, _ := setupCartServiceTest(t, identity, &fakeCatalog{})

	if err := svc.AddItem(context.Background(), "token", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput got %v", err)
	}
	if identity.authorizeCalls != 0 {
		t.Fatalf("invalid input should fail before identity, got %d calls", identity.authorizeCalls)
	}
}

func TestListItemsEmptyCartSkipsCatalog(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{}
	svc, _ := setupCartServiceTest(t, identity, catalog)

	items, err := svc.ListItems(context.Background(), "token")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("empty cart should return empty list, got %v", items)
	}
	if catalog.fetchCalls != 0 {
		t.Fatalf("empty cart must not call catalog, got %d calls", catalog.fetchCalls)
	}
}

func TestListItemsStitchesAndOmitsMissingMetadata(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true, "prod-2": true}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("add prod-1 failed: %v", err)
	}
	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("add prod-1 again failed: %v", err)
	}
	if err := svc.AddItem(ctx, "token", "prod-2"); err != nil {
		t.Fatalf("add prod-2 failed: %v", err)
	}

	// 目录缺 prod-2 的元数据，同时混入一个未请求的商品
	catalog.summaries = []gateway.ProductSummary{
		{ProductID: "prod-1", Name: "Widget", Image: "widget.png"},
		{ProductID: "prod-unrelated", Name: "Ghost"},
	}

	items, err := svc.ListItems(ctx, "token")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 displayable item got %d", len(items))
	}
	got := items[0]
	if got.ProductID != "prod-1" || got.Name != "Widget" || got.Quantity != 2 {
		t.Fatalf("stitched item mismatch: %+v", got)
	}
	line, _ := lineRepo.FindByCustomerAndProduct(identity.customerID, "prod-1")
	if line == nil || got.LineID != line.LineID {
		t.Fatalf("display item must carry the stored line id")
	}
}

func TestListItemsCatalogOutage(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, _ := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	catalog.fetchErr = errors.New("catalog down")

	if _, err := svc.ListItems(ctx, "token"); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("want ErrCatalogUnavailable got %v", err)
	}
}

func TestReduceLineFloorsAtDeletion(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	line, _ := lineRepo.FindByCustomerAndProduct(identity.customerID, "prod-1")
	if line == nil || line.Quantity != 2 {
		t.Fatalf("setup want quantity 2, got %+v", line)
	}

	if err := svc.ReduceLine(ctx, "token", line.LineID); err != nil {
		t.Fatalf("first reduce failed: %v", err)
	}
	current, _ := lineRepo.FindByLineID(line.LineID)
	if current == nil || current.Quantity != 1 {
		t.Fatalf("after reduce want quantity 1, got %+v", current)
	}

	if err := svc.ReduceLine(ctx, "token", line.LineID); err != nil {
		t.Fatalf("second reduce failed: %v", err)
	}
	current, _ = lineRepo.FindByLineID(line.LineID)
	if current != nil {
		t.Fatalf("reduce at quantity 1 should delete the line, got %+v", current)
	}

	if err := svc.ReduceLine(ctx, "token", line.LineID); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("reduce on gone line want ErrLineNotFound got %v", err)
	}
}

func TestLineOperationsRejectForeignLines(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	line, _ := lineRepo.FindByCustomerAndProduct(identity.customerID, "prod-1")

	// 换一个客户身份操作同一行
	identity.customerID = uuid.NewString()

	if err := svc.ReduceLine(ctx, "token", line.LineID); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("foreign reduce want ErrLineNotFound got %v", err)
	}
	if err := svc.DeleteLine(ctx, "token", line.LineID); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("foreign delete want ErrLineNotFound got %v", err)
	}
	current, _ := lineRepo.FindByLineID(line.LineID)
	if current == nil {
		t.Fatalf("foreign operations must not touch the line")
	}
}

func TestDeleteLineRemovesWholeLine(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	line, _ := lineRepo.FindByCustomerAndProduct(identity.customerID, "prod-1")
	if line == nil || line.Quantity != 3 {
		t.Fatalf("setup want quantity 3, got %+v", line)
	}

	if err := svc.DeleteLine(ctx, "token", line.LineID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	current, _ := lineRepo.FindByLineID(line.LineID)
	if current != nil {
		t.Fatalf("delete should remove the line regardless of quantity, got %+v", current)
	}

	if err := svc.DeleteLine(ctx, "token", line.LineID); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("repeat delete want ErrLineNotFound got %v", err)
	}
}

func TestClearCartEmptyIsNotFound(t *testing.T) {
	identity := authorizedIdentity()
	catalog := &fakeCatalog{exists: map[string]bool{"prod-1": true}}
	svc, lineRepo := setupCartServiceTest(t, identity, catalog)
	ctx := context.Background()

	if err := svc.ClearCart(ctx, "token"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("clear on empty cart want ErrCartEmpty got %v", err)
	}

	if err := svc.AddItem(ctx, "token", "prod-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.ClearCart(ctx, "token"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	count, _ := lineRepo.CountByCustomer(identity.customerID)
	if count != 0 {
		t.Fatalf("cart should be empty after clear, got %d", count)
	}

	if err := svc.ClearCart(ctx, "token"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("repeat clear want ErrCartEmpty got %v", err)
	}
}

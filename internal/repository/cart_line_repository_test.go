package repository

import (
	"testing"

	"github.com/cartella/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupCartLineRepositoryTest(t *testing.T) (*GormCartLineRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartLine{}); err != nil {
		t.Fatalf("migrate cart_lines failed: %v", err)
	}
	return NewCartLineRepository(db), db
}

func addLine(t *testing.T, repo *GormCartLineRepository, customerID, productID string) *models.CartLine {
	t.Helper()
	line := &models.CartLine{
		LineID:     uuid.NewString(),
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   1,
	}
	if err := repo.AddOne(line); err != nil {
		t.Fatalf("add one failed: %v", err)
	}
	current, err := repo.FindByCustomerAndProduct(customerID, productID)
	if err != nil {
		t.Fatalf("reload line failed: %v", err)
	}
	if current == nil {
		t.Fatalf("line missing after add")
	}
	return current
}

func TestAddOneCreatesThenIncrements(t *testing.T) {
	repo, _ := setupCartLineRepositoryTest(t)
	customerID := uuid.NewString()

	first := addLine(t, repo, customerID, "prod-a")
	if first.Quantity != 1 {
		t.Fatalf("first add quantity want 1 got %d", first.Quantity)
	}

	second := addLine(t, repo, customerID, "prod-a")
	if second.Quantity != 2 {
		t.Fatalf("repeat add quantity want 2 got %d", second.Quantity)
	}
	if second.LineID != first.LineID {
		t.Fatalf("repeat add should keep line id %s, got %s", first.LineID, second.LineID)
	}

	other := addLine(t, repo, customerID, "prod-b")
	if other.LineID == first.LineID {
		t.Fatalf("different product should get its own line")
	}

	lines, err := repo.ListByCustomer(customerID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("customer should hold 2 lines, got %d", len(lines))
	}
}

func TestDecrementOrDeleteNeverLeavesZero(t *testing.T) {
	repo, db := setupCartLineRepositoryTest(t)
	customerID := uuid.NewString()

	addLine(t, repo, customerID, "prod-x")
	line := addLine(t, repo, customerID, "prod-x")
	if line.Quantity != 2 {
		t.Fatalf("setup quantity want 2 got %d", line.Quantity)
	}

	found, err := repo.DecrementOrDelete(line.LineID)
	if err != nil || !found {
		t.Fatalf("first decrement failed: found=%v err=%v", found, err)
	}
	current, err := repo.FindByLineID(line.LineID)
	if err != nil {
		t.Fatalf("find line failed: %v", err)
	}
	if current == nil || current.Quantity != 1 {
		t.Fatalf("after decrement want quantity 1, got %+v", current)
	}

	found, err = repo.DecrementOrDelete(line.LineID)
	if err != nil || !found {
		t.Fatalf("second decrement failed: found=%v err=%v", found, err)
	}
	current, err = repo.FindByLineID(line.LineID)
	if err != nil {
		t.Fatalf("find line failed: %v", err)
	}
	if current != nil {
		t.Fatalf("line at quantity 1 should be deleted, got %+v", current)
	}

	var zeroed int64
	if err := db.Model(&models.CartLine{}).Where("quantity <= 0").Count(&zeroed).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if zeroed != 0 {
		t.Fatalf("no line should persist with quantity <= 0, found %d", zeroed)
	}

	found, err = repo.DecrementOrDelete(line.LineID)
	if err != nil {
		t.Fatalf("decrement on missing line errored: %v", err)
	}
	if found {
		t.Fatalf("decrement on missing line should report not found")
	}
}

func TestDeleteByLineID(t *testing.T) {
	repo, _ := setupCartLineRepositoryTest(t)
	customerID := uuid.NewString()

	addLine(t, repo, customerID, "prod-del")
	line := addLine(t, repo, customerID, "prod-del")

	found, err := repo.DeleteByLineID(line.LineID)
	if err != nil || !found {
		t.Fatalf("delete failed: found=%v err=%v", found, err)
	}
	current, err := repo.FindByLineID(line.LineID)
	if err != nil {
		t.Fatalf("find line failed: %v", err)
	}
	if current != nil {
		t.Fatalf("delete should remove the whole line regardless of quantity")
	}

	found, err = repo.DeleteByLineID(line.LineID)
	if err != nil {
		t.Fatalf("repeat delete errored: %v", err)
	}
	if found {
		t.Fatalf("repeat delete should report not found")
	}
}

func TestClearByCustomerOnlyTouchesOwnLines(t *testing.T) {
	repo, _ := setupCartLineRepositoryTest(t)
	customerA := uuid.NewString()
	customerB := uuid.NewString()

	addLine(t, repo, customerA, "prod-1")
	addLine(t, repo, customerA, "prod-2")
	addLine(t, repo, customerB, "prod-1")

	deleted, err := repo.ClearByCustomer(customerA)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("clear want 2 rows got %d", deleted)
	}

	countA, err := repo.CountByCustomer(customerA)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if countA != 0 {
		t.Fatalf("customer A should be empty, got %d", countA)
	}
	countB, err := repo.CountByCustomer(customerB)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if countB != 1 {
		t.Fatalf("customer B lines must survive, got %d", countB)
	}
}

func TestFindMissingReturnsNil(t *testing.T) {
	repo, _ := setupCartLineRepositoryTest(t)

	line, err := repo.FindByLineID(uuid.NewString())
	if err != nil {
		t.Fatalf("find by line id errored: %v", err)
	}
	if line != nil {
		t.Fatalf("missing line id should return nil, got %+v", line)
	}

	line, err = repo.FindByCustomerAndProduct(uuid.NewString(), "prod-none")
	if err != nil {
		t.Fatalf("find by customer/product errored: %v", err)
	}
	if line != nil {
		t.Fatalf("missing pair should return nil, got %+v", line)
	}
}

// Package thread 提供线程服务单元测试
package thread

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/lucianodboretti/agentic-factory-backend/internal/errs"
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
)

// mockStore 内存线程仓库
type mockStore struct {
	threads map[string]*model.Thread
}

func newMockStore() *mockStore {
	return &mockStore{threads: make(map[string]*model.Thread)}
}

func (m *mockStore) Create(thread *model.Thread) error {
	m.threads[thread.ID] = thread
	return nil
}

func (m *mockStore) GetByID(id string) (*model.Thread, error) {
	if th, ok := m.threads[id]; ok {
		return th, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStore) List() ([]*model.Thread, error) {
	result := make([]*model.Thread, 0, len(m.threads))
	for _, th := range m.threads {
		result = append(result, th)
	}
	return result, nil
}

func (m *mockStore) Update(thread *model.Thread) error {
	if _, ok := m.threads[thread.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.threads[thread.ID] = thread
	return nil
}

func newTestService(store Store) *Service {
	return &Service{
		store: store,
		log:   logger.New(logger.Config{Level: "silent"}).Service("threads"),
	}
}

func TestCreateWithoutTitle(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	thread, err := svc.Create(context.Background(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if thread.ID == "" {
		t.Error("thread must get a generated id")
	}
	if thread.Title != nil {
		t.Errorf("title = %v, want nil", *thread.Title)
	}
}

func TestCreateWithTitle(t *testing.T) {
	svc := newTestService(newMockStore())

	title := "My chat"
	thread, err := svc.Create(context.Background(), &title)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if thread.Title == nil || *thread.Title != "My chat" {
		t.Errorf("title = %v, want %q", thread.Title, "My chat")
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(newMockStore())

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateTitle(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	thread, err := svc.Create(context.Background(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	title := "Renamed"
	updated, err := svc.UpdateTitle(context.Background(), thread.ID, &title)
	if err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	if updated.Title == nil || *updated.Title != "Renamed" {
		t.Errorf("title = %v, want %q", updated.Title, "Renamed")
	}
}

// 更新不存在的线程必须报 NotFound 且不创建记录
func TestUpdateTitleNotFound(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	title := "x"
	_, err := svc.UpdateTitle(context.Background(), "ghost", &title)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("UpdateTitle() error = %v, want ErrNotFound", err)
	}
	if len(store.threads) != 0 {
		t.Error("update of missing thread must not create one")
	}
}

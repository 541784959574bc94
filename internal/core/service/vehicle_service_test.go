package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubVehicleRepo struct {
	byID      map[int64]*domain.Vehicle
	nextID    int64
	createErr error // if set, Create returns this error
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{byID: make(map[int64]*domain.Vehicle)}
}

func (r *stubVehicleRepo) List(_ context.Context) ([]*domain.Vehicle, error) {
	out := make([]*domain.Vehicle, 0, len(r.byID))
	for _, v := range r.byID {
		clone := *v
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubVehicleRepo) FindByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *v
	return &clone, nil
}

func (r *stubVehicleRepo) Create(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *v
	clone.ID = r.nextID
	clone.CreatedAt = time.Now().UTC()
	clone.UpdatedAt = clone.CreatedAt
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubVehicleRepo) Update(_ context.Context, id int64, patch domain.VehiclePatch) (*domain.Vehicle, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(v)
	v.UpdatedAt = time.Now().UTC()
	clone := *v
	return &clone, nil
}

func (r *stubVehicleRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *stubVehicleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func camry() ports.CreateVehicleInput {
	return ports.CreateVehicleInput{Brand: "Toyota", Model: "Camry", Year: 2020, Price: 25000, Color: "blue"}
}

func floatPtr(f float64) *float64 { return &f }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestVehicleService_Create_Success(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := NewVehicleService(repo, discardLogger)

	v, err := svc.Create(context.Background(), camry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == 0 {
		t.Error("expected an id to be assigned")
	}
	if v.CreatedAt.IsZero() || v.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestVehicleService_Create_Validation(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := NewVehicleService(repo, discardLogger)

	cases := map[string]func(*ports.CreateVehicleInput){
		"empty brand":    func(in *ports.CreateVehicleInput) { in.Brand = "" },
		"empty model":    func(in *ports.CreateVehicleInput) { in.Model = "" },
		"negative price": func(in *ports.CreateVehicleInput) { in.Price = -1 },
	}
	for name, mutate := range cases {
		in := camry()
		mutate(&in)
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrBadRequest) {
			t.Errorf("%s: expected ErrBadRequest, got %v", name, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Errorf("nothing should be stored, got %d", len(repo.byID))
	}
}

func TestVehicleService_Create_RepoError(t *testing.T) {
	repo := newStubVehicleRepo()
	repo.createErr = errors.New("db unavailable")
	svc := NewVehicleService(repo, discardLogger)

	if _, err := svc.Create(context.Background(), camry()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestVehicleService_Update_PriceOnly(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := NewVehicleService(repo, discardLogger)
	v, _ := svc.Create(context.Background(), camry())

	updated, err := svc.Update(context.Background(), v.ID, domain.VehiclePatch{Price: floatPtr(26000)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 26000 {
		t.Errorf("expected price 26000, got %v", updated.Price)
	}
	if updated.Brand != "Toyota" || updated.Model != "Camry" || updated.Year != 2020 || updated.Color != "blue" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestVehicleService_Update_Validation(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := NewVehicleService(repo, discardLogger)
	v, _ := svc.Create(context.Background(), camry())

	empty := ""
	if _, err := svc.Update(context.Background(), v.ID, domain.VehiclePatch{Brand: &empty}); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.Update(context.Background(), v.ID, domain.VehiclePatch{Price: floatPtr(-5)}); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
	if repo.byID[v.ID].Brand != "Toyota" || repo.byID[v.ID].Price != 25000 {
		t.Errorf("store must be unchanged")
	}
}

func TestVehicleService_NotFound(t *testing.T) {
	svc := NewVehicleService(newStubVehicleRepo(), discardLogger)

	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), 42, domain.VehiclePatch{Price: floatPtr(1)}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestVehicleService_ListAndDelete(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := NewVehicleService(repo, discardLogger)
	first, _ := svc.Create(context.Background(), camry())
	_, _ = svc.Create(context.Background(), ports.CreateVehicleInput{Brand: "Honda", Model: "Accord", Year: 2021, Price: 27000})

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 vehicles, got %d (%v)", len(list), err)
	}

	if err := svc.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = svc.List(context.Background())
	if len(list) != 1 || list[0].Brand != "Honda" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

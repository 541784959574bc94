package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// VehicleRepository is an in-memory ports.VehicleRepository. Ids come from a
// monotonic counter and are never handed out twice.
type VehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[int64]*domain.Vehicle
	nextID   int64
	now      func() time.Time
}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{
		vehicles: make(map[int64]*domain.Vehicle),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func cloneVehicle(v *domain.Vehicle) *domain.Vehicle {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (r *VehicleRepository) List(_ context.Context) ([]*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, cloneVehicle(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *VehicleRepository) FindByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneVehicle(r.vehicles[id]), nil
}

func (r *VehicleRepository) Create(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := cloneVehicle(v)
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt
	r.vehicles[stored.ID] = stored
	return cloneVehicle(stored), nil
}

func (r *VehicleRepository) Update(_ context.Context, id int64, patch domain.VehiclePatch) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.vehicles[id]
	if !ok {
		return nil, nil
	}
	next := cloneVehicle(current)
	patch.Apply(next)
	next.UpdatedAt = r.now()
	r.vehicles[id] = next
	return cloneVehicle(next), nil
}

func (r *VehicleRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[id]; !ok {
		return false, nil
	}
	delete(r.vehicles, id)
	return true, nil
}

func (r *VehicleRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.vehicles)), nil
}

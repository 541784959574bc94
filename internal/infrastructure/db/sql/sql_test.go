package sql

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

var (
	_ ports.IdentityRepository = (*IdentityRepository)(nil)
	_ ports.VehicleRepository  = (*VehicleRepository)(nil)
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newUser(name string) *domain.User {
	return &domain.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "$2a$04$hash",
		Role:         domain.RoleBuyer,
		IsActive:     true,
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestIdentityRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(openTestDB(t))

	created, err := repo.Create(ctx, newUser("alice"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "$2a$04$hash", byName.PasswordHash)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	missing, err := repo.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIdentityRepository_InactiveIsStored(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(openTestDB(t))

	u := newUser("frozen")
	u.IsActive = false
	created, err := repo.Create(ctx, u)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestIdentityRepository_Conflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(openTestDB(t))

	_, err := repo.Create(ctx, newUser("alice"))
	require.NoError(t, err)

	dup := newUser("alice")
	dup.Email = "a2@example.com"
	_, err = repo.Create(ctx, dup)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgUsernameTaken, err.Error())

	dup = newUser("bob")
	dup.Email = "alice@example.com"
	_, err = repo.Create(ctx, dup)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgEmailTaken, err.Error())

	bob, err := repo.Create(ctx, newUser("bob"))
	require.NoError(t, err)

	email := "alice@example.com"
	_, err = repo.Update(ctx, bob.ID, domain.UserPatch{Email: &email})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgEmailTaken, err.Error())
}

func TestIdentityRepository_UpdateDeleteList(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(openTestDB(t))

	created, err := repo.Create(ctx, newUser("carol"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser("dave"))
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	role := domain.RoleManager
	active := false
	updated, err := repo.Update(ctx, created.ID, domain.UserPatch{Role: &role, IsActive: &active})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.RoleManager, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "carol", updated.Username)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	managers, err := repo.List(ctx, domain.UserFilter{Role: domain.RoleManager})
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "carol", managers[0].Username)

	none, err := repo.Update(ctx, 99, domain.UserPatch{Role: &role})
	require.NoError(t, err)
	assert.Nil(t, none)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVehicleRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository(openTestDB(t))

	camry, err := repo.Create(ctx, &domain.Vehicle{Brand: "Toyota", Model: "Camry", Year: 2020, Price: 25000, Color: "red"})
	require.NoError(t, err)
	accord, err := repo.Create(ctx, &domain.Vehicle{Brand: "Honda", Model: "Accord", Year: 2021, Price: 27000})
	require.NoError(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	price := 26000.0
	updated, err := repo.Update(ctx, camry.ID, domain.VehiclePatch{Price: &price})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 26000.0, updated.Price)
	assert.Equal(t, "Toyota", updated.Brand)
	assert.Equal(t, "Camry", updated.Model)
	assert.Equal(t, 2020, updated.Year)
	assert.Equal(t, "red", updated.Color)

	ok, err := repo.Delete(ctx, accord.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	mazda, err := repo.Create(ctx, &domain.Vehicle{Brand: "Mazda", Model: "6", Year: 2019, Price: 18000})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mazda.ID, "ids are not reused after a delete")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, camry.ID, list[0].ID)

	missing, err := repo.FindByID(ctx, accord.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestVehicleUpdates_OnlyPresentColumns(t *testing.T) {
	brand := "Kia"
	cols := vehicleUpdates(domain.VehiclePatch{Brand: &brand})
	assert.Equal(t, map[string]any{"brand": "Kia"}, cols)
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bites4life/internal/db"
	"bites4life/internal/repository"
	"bites4life/internal/service"
)

func TestLoadRiders(t *testing.T) {
	payload := `[{"name":"Ali"},{"name":"Bilal"}]`

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "riders.json")
		require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

		riders, err := loadRiders(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, []SeedRiderData{{Name: "Ali"}, {Name: "Bilal"}}, riders)
	})

	t.Run("url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload))
		}))
		defer srv.Close()

		riders, err := loadRiders(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Len(t, riders, 2)
	})

	t.Run("url error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := loadRiders(context.Background(), srv.URL)
		assert.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "riders.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"Ali"}`), 0o600))

		_, err := loadRiders(context.Background(), path)
		assert.Error(t, err)
	})
}

func TestSeedRiders_SkipsExistingNames(t *testing.T) {
	gormDB, err := db.Open("sqlite", "file:TestSeedRiders?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, true))

	ctx := context.Background()
	svc := service.NewRiderService(repository.NewRiderRepository(gormDB), service.RiderServiceOptions{})
	_, err = svc.AddRider(ctx, "Ali")
	require.NoError(t, err)

	result, err := seedRiders(ctx, svc, []SeedRiderData{
		{Name: "ali"}, {Name: "Bilal"}, {Name: " "}, {Name: "Bilal"}, {Name: "Chand"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.Created, 2)
	assert.Contains(t, result.Created, "Bilal")
	assert.Contains(t, result.Created, "Chand")

	riders, err := svc.ListRiders(ctx)
	require.NoError(t, err)
	assert.Len(t, riders, 3)
}

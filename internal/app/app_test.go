package app

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoqr/internal/cache"
	"geoqr/internal/config"
	"geoqr/internal/geo"
	"geoqr/internal/model"
	"geoqr/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DB{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "geoqr.db")},
		Cache:    config.Cache{TTL: time.Hour},
		Links:    config.Links{MinRadius: 50, TTL: 24 * time.Hour, PublicBaseURL: "https://geoqr.example"},
		Slug:     config.Slug{Length: 8, MaxAttempts: 5},
		Quota:    config.Quota{Default: 1},
	}
}

func TestWiring_WithRedis(t *testing.T) {
	cfg := testConfig(t)
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Cache.Host, cfg.Cache.Port = mr.Host(), port

	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	rdb, err := OpenRedis(cfg)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer rdb.Close()

	svc := NewLinkService(cfg, db, rdb, nil)
	ctx := context.Background()
	in := service.CreateInput{
		DestinationURL: "https://example.com",
		Location:       &geo.Point{Lat: 1, Lng: 2},
		Radius:         60,
		Owner:          model.Owner{CreatedBy: "anon"},
	}

	res, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Len(t, res.Link.Slug, 8)
	assert.Equal(t, "https://geoqr.example/l/"+res.Link.Slug, res.SystemURL)

	_, err = svc.GetMetadataBySlug(ctx, res.Link.Slug)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.Key(res.Link.Slug)))

	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, service.ErrQuotaExceeded)
}

func TestWiring_WithoutRedis(t *testing.T) {
	cfg := testConfig(t)

	rdb, err := OpenRedis(cfg)
	require.NoError(t, err)
	assert.Nil(t, rdb)

	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	svc := NewLinkService(cfg, db, rdb, nil)

	n, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

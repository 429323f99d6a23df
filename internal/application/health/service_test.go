package health

import (
	"context"
	"errors"
	"testing"

	"github.com/AndyRamoss/Invitacion-Andy/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping() error { return p.err }

type busState bool

func (b busState) Connected() bool { return bool(b) }

func TestCollectHealth_NothingConfigured(t *testing.T) {
	result := CollectHealth(context.Background(), nil, nil, nil)
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["redis"].Status)
	assert.Equal(t, "disabled", result.Dependencies["nats"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.NotEmpty(t, result.Runtime.GoVersion)
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	require.NoError(t, mr.Set(middleware.KeyReqTotal, "10"))
	require.NoError(t, mr.Set(middleware.KeyReqErrors, "1"))
	require.NoError(t, mr.Set(middleware.KeyResTime, "250"))
	require.NoError(t, mr.Set(middleware.KeyResCount, "10"))
	require.NoError(t, mr.Set(middleware.KeyLastReq, `{"path":"/api/v1/stats/view-stats","method":"GET"}`))

	result := CollectHealth(context.Background(), rdb, pinger{}, busState(true))
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["nats"].Status)
	assert.Equal(t, 10, result.Traffic.TotalRequests)
	assert.Equal(t, 9, result.Traffic.SuccessCount)
	assert.Equal(t, "90.0", result.Traffic.SuccessRate)
	assert.Equal(t, "25.00", result.Traffic.AvgResponseTime)
	assert.NotNil(t, result.Traffic.LastRequest)
	assert.True(t, mr.Exists(middleware.KeyStartTime))
}

func TestCollectHealth_DatabaseError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	result := CollectHealth(context.Background(), rdb, pinger{err: errors.New("down")}, busState(false))
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["nats"].Status)
}

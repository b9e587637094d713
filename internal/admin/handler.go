// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tharunrega/smansys/internal/core"
)

type UserCounter interface {
	CountActive(ctx context.Context) (int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

type StudentCounter interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	driver     string
	startedAt  time.Time
	dbStats    func() sql.DBStats
	dbPing     func(ctx context.Context) error
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	users      UserCounter
	students   StudentCounter
}

// HandlerConfig wires the optional probes. Nil funcs are reported as absent
// rather than unhealthy.
type HandlerConfig struct {
	Driver     string
	StartedAt  time.Time
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	Users      UserCounter
	Students   StudentCounter
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		driver:     cfg.Driver,
		startedAt:  cfg.StartedAt,
		dbStats:    cfg.DBStats,
		dbPing:     cfg.DBPing,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		users:      cfg.Users,
		students:   cfg.Students,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/store", h.GetStoreStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.records(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{
			Driver:  h.driver,
			Healthy: probe(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Enabled: h.redisPing != nil,
			Healthy: probe(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Records: records,
		Runtime: h.runtimeStats(),
	})
}

func (h *Handler) GetStoreStats(w http.ResponseWriter, r *http.Request) {
	records, err := h.records(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, records)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.runtimeStats())
}

func (h *Handler) records(ctx context.Context) (RecordStats, error) {
	var out RecordStats

	g, gctx := errgroup.WithContext(ctx)
	if h.users != nil {
		g.Go(func() (err error) {
			out.ActiveUsers, err = h.users.CountActive(gctx)
			return err
		})
		g.Go(func() (err error) {
			out.UsersByRole, err = h.users.CountByRole(gctx)
			return err
		})
	}
	if h.students != nil {
		g.Go(func() (err error) {
			out.Students, err = h.students.Count(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return RecordStats{}, err
	}
	if out.UsersByRole == nil {
		out.UsersByRole = map[string]int{}
	}
	return out, nil
}

func (h *Handler) runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
	if !h.startedAt.IsZero() {
		stats.Uptime = time.Since(h.startedAt).Truncate(time.Second).String()
	}
	return stats
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	if stats == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func probe(ctx context.Context, ping func(ctx context.Context) error) bool {
	if ping == nil {
		return true
	}
	return ping(ctx) == nil
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Records  RecordStats    `json:"records"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Driver  string       `json:"driver"`
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Enabled bool            `json:"enabled"`
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type RecordStats struct {
	ActiveUsers int            `json:"activeUsers"`
	UsersByRole map[string]int `json:"usersByRole"`
	Students    int            `json:"students"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
	MaxIdleClosed      int64  `json:"maxIdleClosed"`
	MaxIdleTimeClosed  int64  `json:"maxIdleTimeClosed"`
	MaxLifetimeClosed  int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
	Uptime       string `json:"uptime,omitempty"`
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/annel0/voxel-navmesh/internal/config"
	"github.com/annel0/voxel-navmesh/internal/logging"
	"github.com/annel0/voxel-navmesh/internal/navmesh"
	"github.com/annel0/voxel-navmesh/internal/observability"
	"github.com/annel0/voxel-navmesh/internal/storage"
	"github.com/annel0/voxel-navmesh/internal/terrain"
	"github.com/annel0/voxel-navmesh/internal/voxel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config path (or NAVMESH_CONFIG)")
		snapshots   = flag.String("regions", "", "Region snapshot files (comma-separated); empty = generate terrain")
		seed        = flag.Int64("seed", 0, "Terrain seed (overrides config)")
		grid        = flag.Int("grid", 0, "Generated grid side in regions (overrides config)")
		workers     = flag.Int("workers", 0, "Parallel builds (overrides config)")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address and wait for a signal")
		otlp        = flag.String("otlp", "", "OTLP HTTP endpoint; enables tracing")
		writeDir    = flag.String("write-snapshots", "", "Directory to save generated regions to")
		level       = flag.String("log-level", "", "Console log level: TRACE, DEBUG, INFO, WARN, ERROR")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	if err := logging.InitDefaultLogger("navmesh-tool", cfg.Logging.GetDir()); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer func() {
		if err := logging.GetLoggerManager().CloseAll(); err != nil {
			log.Printf("Ошибка закрытия логгеров: %v", err)
		}
	}()

	if name := firstNonEmpty(*level, cfg.Logging.Level); name != "" {
		lvl := logging.ParseLevel(name)
		logging.SetDefaultLevel(lvl)
		logging.GetLoggerManager().SetLogLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *otlp != "" || cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.GetServiceName(), *otlp)
		if err != nil {
			logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	settings := navmesh.Settings{
		ClearanceRadius: cfg.NavMesh.GetClearanceRadius(),
		AgentHeight:     cfg.NavMesh.GetAgentHeight(),
	}

	registry := prometheus.NewRegistry()
	builder, err := navmesh.NewBuilder(settings,
		navmesh.WithMetrics(navmesh.NewMetrics(registry)),
		navmesh.WithLogger(logging.GetNavMeshLogger()),
	)
	if err != nil {
		log.Fatalf("❌ Неверные настройки сетки: %v", err)
	}

	regions, err := loadRegions(cfg, *snapshots, *seed, *grid)
	if err != nil {
		log.Fatalf("❌ Ошибка подготовки регионов: %v", err)
	}

	if *writeDir != "" {
		for _, region := range regions {
			o := region.Origin()
			path := filepath.Join(*writeDir, fmt.Sprintf("region_%d_%d_%d.yaml.zst", o.X, o.Y, o.Z))
			if err := storage.SaveRegionFile(path, region); err != nil {
				log.Fatalf("❌ Ошибка сохранения региона: %v", err)
			}
		}
		logging.Info("💾 Сохранено регионов: %d в %s", len(regions), *writeDir)
	}

	n := *workers
	if n <= 0 {
		n = cfg.NavMesh.GetWorkers()
	}

	start := time.Now()
	meshes, err := builder.BuildAll(ctx, regions, n)
	if err != nil {
		log.Fatalf("❌ Ошибка построения навигационной сетки: %v", err)
	}

	for _, mesh := range meshes {
		floor, ceiling := mesh.NodeCount()
		logging.Info("🧭 Регион %v: этажей=%d (узлов %d), потолков=%d (узлов %d), build=%s",
			mesh.Origin, len(mesh.Floor), floor, len(mesh.Ceiling), ceiling, mesh.BuildID)
	}

	if stats, err := readProcessStats(start); err != nil {
		logging.Warn("Не удалось получить статистику процесса: %v", err)
	} else {
		logging.Info("✅ Построено сеток: %d, %s", len(meshes), stats)
	}

	addr := firstNonEmpty(*metricsAddr, cfg.Metrics.Addr)
	if addr == "" {
		return
	}
	serveMetrics(ctx, addr, registry)
}

// loadRegions читает снимки или генерирует ландшафт
func loadRegions(cfg *config.Config, snapshots string, seed int64, grid int) ([]*voxel.Region, error) {
	if snapshots != "" {
		var regions []*voxel.Region
		for _, path := range parseStringList(snapshots) {
			region, err := storage.LoadRegionFile(path)
			if err != nil {
				return nil, err
			}
			regions = append(regions, region)
		}
		logging.Info("📂 Загружено регионов: %d", len(regions))
		return regions, nil
	}

	if seed == 0 {
		seed = cfg.Terrain.Seed
	}
	if grid <= 0 {
		grid = cfg.Terrain.GetRegions()
	}

	gen := terrain.NewGenerator(seed)
	gen.NoiseScale = cfg.Terrain.GetNoiseScale()

	regions, err := gen.GenerateGrid(grid)
	if err != nil {
		return nil, err
	}
	logging.Info("🌍 Сгенерировано регионов: %d (seed=%d)", len(regions), seed)
	return regions, nil
}

// serveMetrics отдаёт метрики до получения сигнала завершения
func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("❌ Ошибка сервера метрик: %v", err)
		}
	}()
	logging.Info("📊 Метрики: http://localhost%s/metrics", addr)

	<-ctx.Done()
	logging.Info("📡 Получен сигнал, завершение работы...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Ошибка остановки сервера метрик: %v", err)
	}
}

func parseStringList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

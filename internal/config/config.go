package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации инструмента построения навигационной сетки.
type Config struct {
	NavMesh   NavMeshConfig   `yaml:"navmesh"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type NavMeshConfig struct {
	ClearanceRadius *float64 `yaml:"clearance_radius"` // nil, если не задан; 0 допустим
	AgentHeight     float64  `yaml:"agent_height"`
	Workers         int      `yaml:"workers"`
}

type TerrainConfig struct {
	Seed       int64   `yaml:"seed"`
	NoiseScale float64 `yaml:"noise_scale"`
	Regions    int     `yaml:"regions"` // сторона квадрата регионов
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// GetClearanceRadius возвращает радиус агента с поддержкой fallback значений.
// Нулевой радиус допустим и берётся из конфига или окружения как есть.
func (n *NavMeshConfig) GetClearanceRadius() float64 {
	if n.ClearanceRadius != nil && *n.ClearanceRadius >= 0 {
		return *n.ClearanceRadius
	}
	if envVal := os.Getenv("NAVMESH_CLEARANCE_RADIUS"); envVal != "" {
		if v, err := strconv.ParseFloat(envVal, 64); err == nil && v >= 0 {
			return v
		}
	}
	return 0.3
}

// GetAgentHeight возвращает высоту агента с поддержкой fallback значений
func (n *NavMeshConfig) GetAgentHeight() float64 {
	return getFloatWithEnvFallback(n.AgentHeight, "NAVMESH_AGENT_HEIGHT", 1.8)
}

// GetWorkers возвращает число параллельных построений
func (n *NavMeshConfig) GetWorkers() int {
	return getIntWithEnvFallback(n.Workers, "NAVMESH_WORKERS", 4)
}

// GetRegions возвращает сторону квадрата генерируемых регионов
func (t *TerrainConfig) GetRegions() int {
	return getIntWithEnvFallback(t.Regions, "NAVMESH_REGIONS", 2)
}

// GetNoiseScale возвращает масштаб шума высот
func (t *TerrainConfig) GetNoiseScale() float64 {
	return getFloatWithEnvFallback(t.NoiseScale, "NAVMESH_NOISE_SCALE", 0.05)
}

// GetDir возвращает каталог файлов логов
func (l *LoggingConfig) GetDir() string {
	if l.Dir != "" {
		return l.Dir
	}
	if env := os.Getenv("NAVMESH_LOG_DIR"); env != "" {
		return env
	}
	return "logs"
}

// GetServiceName имя сервиса для OpenTelemetry
func (t *TelemetryConfig) GetServiceName() string {
	if t.ServiceName != "" {
		return t.ServiceName
	}
	if env := os.Getenv("OTEL_SERVICE_NAME"); env != "" {
		return env
	}
	return "voxel-navmesh"
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configValue > 0 {
		return configValue
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	// Используем дефолтное значение
	return defaultValue
}

// getFloatWithEnvFallback то же для дробных значений
func getFloatWithEnvFallback(configValue float64, envVar string, defaultValue float64) float64 {
	if configValue > 0 {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.ParseFloat(envVal, 64); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV NAVMESH_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("NAVMESH_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан, используются дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

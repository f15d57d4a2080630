package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Persistence configuration
	Storage StorageConfig `json:"storage"`

	// Content table configuration
	Content ContentConfig `json:"content"`

	// Game rules configuration
	Game GameConfig `json:"game"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// StorageConfig holds persistence specific configuration
type StorageConfig struct {
	// Store driver (file, sqlite, memory)
	Driver string `json:"driver" validate:"oneof=file sqlite memory"`

	// Save file for the file driver, database file for sqlite
	Path string `json:"path" validate:"required_unless=Driver memory"`

	// Save slot name inside the sqlite database
	Slot string `json:"slot" validate:"required"`

	// How long the sqlite store caches a loaded snapshot, in seconds
	CacheTTL int `json:"cache_ttl" validate:"gte=0"`
}

// ContentConfig holds content table configuration
type ContentConfig struct {
	// Directory with YAML tables overriding the embedded ones. Empty uses the embedded tables.
	Dir string `json:"dir"`
}

// GameConfig holds game rule configuration
type GameConfig struct {
	// Starting coins
	StartingCoins int `json:"starting_coins" validate:"gte=0"`

	// Starting water
	StartingWater int `json:"starting_water" validate:"gte=0,ltefield=MaxWater"`

	// Water tank size
	MaxWater int `json:"max_water" validate:"gt=0"`

	// Seconds between regenerating one unit of water
	WaterRegenSeconds int `json:"water_regen_seconds" validate:"gt=0"`

	// Seconds one watering takes off the remaining growth time
	WaterReduction int `json:"water_reduction" validate:"gte=0"`

	// Plantings allowed per game day
	DailyPlantLimit int `json:"daily_plant_limit" validate:"gt=0"`

	// Warehouse capacity before buffs
	WarehouseCapacity int `json:"warehouse_capacity" validate:"gte=0"`

	// Highest reachable level
	MaxLevel int `json:"max_level" validate:"gte=1"`

	// Experience needed per level, multiplied by the current level
	ExpPerLevel int `json:"exp_per_level" validate:"gt=0"`

	// Open orders at any time
	MaxOrders int `json:"max_orders" validate:"gt=0"`

	// Order reward as a multiple of the crop's base sell price
	OrderRewardMultiplier float64 `json:"order_reward_multiplier" validate:"gt=0"`

	// Experience bounds for a fulfilled order
	OrderMinExp int `json:"order_min_exp" validate:"gte=0"`
	OrderMaxExp int `json:"order_max_exp" validate:"gtefield=OrderMinExp"`

	// Heart gained by the NPC whose order is fulfilled
	OrderHeartGain int `json:"order_heart_gain" validate:"gte=0"`

	// Milliseconds before a fulfilled order is replaced
	OrderReplaceDelay int `json:"order_replace_delay" validate:"gte=0"`

	// Seconds between order board refreshes, 0 disables them
	OrderRefreshInterval int `json:"order_refresh_interval" validate:"gte=0"`

	// Milliseconds between game ticks
	TickInterval int `json:"tick_interval" validate:"gt=0"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" validate:"required,numeric"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:   "file",
			Path:     "./data/game_state.json",
			Slot:     "default",
			CacheTTL: 30,
		},
		Game: GameConfig{
			StartingCoins:         100,
			StartingWater:         20,
			MaxWater:              50,
			WaterRegenSeconds:     10,
			WaterReduction:        5,
			DailyPlantLimit:       8,
			WarehouseCapacity:     30,
			MaxLevel:              30,
			ExpPerLevel:           100,
			MaxOrders:             3,
			OrderRewardMultiplier: 1.2,
			OrderMinExp:           50,
			OrderMaxExp:           200,
			OrderHeartGain:        5,
			OrderReplaceDelay:     2000,
			OrderRefreshInterval:  60,
			TickInterval:          1000,
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file, then applies environment
// overrides (a .env file is read if present) and validates the result.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return config, err
		}
		defer file.Close()

		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Missing .env is fine, real environment variables still apply
	_ = godotenv.Load()

	if err := applyEnv(&config); err != nil {
		return config, err
	}
	if err := Validate(config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}

// Validate checks the configuration's struct constraints
func Validate(config Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(config *Config) error {
	config.Storage.Driver = getEnv("FARM_STORAGE_DRIVER", config.Storage.Driver)
	config.Storage.Path = getEnv("FARM_STORAGE_PATH", config.Storage.Path)
	config.Storage.Slot = getEnv("FARM_STORAGE_SLOT", config.Storage.Slot)
	config.Content.Dir = getEnv("FARM_CONTENT_DIR", config.Content.Dir)
	config.Server.Port = getEnv("FARM_PORT", config.Server.Port)
	config.Server.LogLevel = getEnv("FARM_LOG_LEVEL", config.Server.LogLevel)

	ints := []struct {
		key    string
		target *int
	}{
		{"FARM_STORAGE_CACHE_TTL", &config.Storage.CacheTTL},
		{"FARM_DAILY_PLANT_LIMIT", &config.Game.DailyPlantLimit},
		{"FARM_WAREHOUSE_CAPACITY", &config.Game.WarehouseCapacity},
		{"FARM_TICK_INTERVAL", &config.Game.TickInterval},
	}
	for _, e := range ints {
		value, ok := os.LookupEnv(e.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", e.key, err)
		}
		*e.target = n
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

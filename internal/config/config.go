package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort  string
	KafkaBroker string
	KafkaTopic  string
	GinMode     string
	Robot       RobotConfig
	Database    DatabaseConfig
	Logging     LoggerConfig
	Map         MapConfig
}

// RobotConfig содержит параметры подключения к пылесосу
type RobotConfig struct {
	Address    string // IP или hostname робота
	Blid       string // идентификатор робота (username для MQTT)
	Password   string
	Name       string
	Continuous bool // постоянное подключение вместо периодического
	DelayMs    int  // пауза между подключениями в периодическом режиме
}

// MapConfig содержит настройки построения карты
type MapConfig struct {
	SkipPoints  int // сколько первых точек миссии игнорировать
	MaxDistance int // максимальный скачок координат между точками
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Enable   bool
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:  getEnv("APP_PORT", "8082"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "roomba_events"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Robot: RobotConfig{
			Address:    getEnv("ROOMBA_ADDRESS", ""),
			Blid:       getEnv("ROOMBA_BLID", ""),
			Password:   getEnv("ROOMBA_PASSWORD", ""),
			Name:       getEnv("ROOMBA_NAME", "roomba"),
			Continuous: getEnvAsBool("ROOMBA_CONTINUOUS", true),
			DelayMs:    getEnvAsInt("ROOMBA_DELAY_MS", 1000),
		},
		Database: DatabaseConfig{
			Enable:   getEnvAsBool("DB_ENABLE", true),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "roomba_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
		Map: MapConfig{
			SkipPoints:  getEnvAsInt("MAP_SKIP_POINTS", 3),
			MaxDistance: getEnvAsInt("MAP_MAX_DISTANCE", 500),
		},
	}

	if config.Robot.Address == "" || config.Robot.Blid == "" {
		return nil, fmt.Errorf("не заданы ROOMBA_ADDRESS и ROOMBA_BLID")
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}

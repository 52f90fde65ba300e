package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Taxonomy     TaxonomyConfig
	Embedding    EmbeddingConfig
	Matching     MatchingConfig
	Intelligence IntelligenceConfig
	GigaChat     GigaChatConfig
	Logger       LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// ReportStore toggles persistence of completed analysis reports.
	// The engine itself never needs the database.
	ReportStore bool
}

type TaxonomyConfig struct {
	// DatasetDir holds the taxonomy CSV export (skills, occupations,
	// occupation-skill relations, category collections).
	DatasetDir     string
	DatasetVersion string
}

type EmbeddingConfig struct {
	// ModelID identifies the embedding model; it is part of the cache
	// fingerprint, so changing it forces regeneration.
	ModelID   string
	Endpoint  string
	APIKey    string
	Dimension int
	BatchSize int
	CacheDir  string
	Timeout   time.Duration
}

type MatchingConfig struct {
	SkillsThreshold      float64
	OccupationsThreshold float64
	MaxResults           int
}

type IntelligenceConfig struct {
	EssentialWeight  float64
	OptionalWeight   float64
	CoverageFloor    float64
	GapThreshold     int
	LowEffortMax     int
	MediumEffortMax  int
	StrongMatchScore float64
	TopOpportunities int
}

type GigaChatConfig struct {
	Enabled            bool
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
	// Timeout bounds the best-effort context enrichment call.
	Timeout time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables may be set directly
	// (useful for Docker/K8s).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	embedTimeout, _ := strconv.Atoi(getEnv("EMBEDDING_TIMEOUT", "60"))
	contextTimeout, _ := strconv.Atoi(getEnv("GIGACHAT_TIMEOUT", "20"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "skillscope"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			ReportStore: getEnv("REPORT_STORE_ENABLED", "false") == "true",
		},
		Taxonomy: TaxonomyConfig{
			DatasetDir:     getEnv("TAXONOMY_DIR", "data/esco"),
			DatasetVersion: getEnv("TAXONOMY_VERSION", "v1.2.0"),
		},
		Embedding: EmbeddingConfig{
			ModelID:   getEnv("EMBEDDING_MODEL", "BAAI/bge-m3"),
			Endpoint:  getEnv("EMBEDDING_ENDPOINT", "http://localhost:8090/embeddings"),
			APIKey:    getEnv("EMBEDDING_API_KEY", ""),
			Dimension: getEnvInt("EMBEDDING_DIMENSION", 1024),
			BatchSize: getEnvInt("EMBEDDING_BATCH_SIZE", 64),
			CacheDir:  getEnv("EMBEDDING_CACHE_DIR", "data/cache"),
			Timeout:   time.Duration(embedTimeout) * time.Second,
		},
		Matching: MatchingConfig{
			SkillsThreshold:      getEnvFloat("SKILLS_THRESHOLD", 0.6),
			OccupationsThreshold: getEnvFloat("OCCUPATIONS_THRESHOLD", 0.55),
			MaxResults:           getEnvInt("MAX_RESULTS", 10),
		},
		Intelligence: IntelligenceConfig{
			EssentialWeight:  getEnvFloat("MATCH_ESSENTIAL_WEIGHT", 0.7),
			OptionalWeight:   getEnvFloat("MATCH_OPTIONAL_WEIGHT", 0.3),
			CoverageFloor:    getEnvFloat("MATCH_COVERAGE_FLOOR", 0),
			GapThreshold:     getEnvInt("OPPORTUNITY_GAP_THRESHOLD", 5),
			LowEffortMax:     getEnvInt("OPPORTUNITY_LOW_EFFORT_MAX", 2),
			MediumEffortMax:  getEnvInt("OPPORTUNITY_MEDIUM_EFFORT_MAX", 4),
			StrongMatchScore: getEnvFloat("OPPORTUNITY_STRONG_MATCH_SCORE", 0.8),
			TopOpportunities: getEnvInt("SKILL_GAP_TOP_OPPORTUNITIES", 10),
		},
		GigaChat: GigaChatConfig{
			Enabled:            getEnv("GIGACHAT_ENABLED", "false") == "true",
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true",
			Timeout:            time.Duration(contextTimeout) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Rails     RailsConfig
	Retrieval RetrievalConfig
	Alignment AlignmentConfig
	Chat      ChatConfig
	Urgency   UrgencyConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
	EmbeddingProvider string
	EmbeddingModel    string
	OpenAIAPIKey      string
	OpenAIBaseURL     string // empty = api.openai.com; any OpenAI-compatible endpoint works
	OllamaBaseURL     string
	TTSBaseURL        string
}

type RailsConfig struct {
	SupportedLanguages []string
	SupportedScripts   []string
	TargetLanguage     string
}

type RetrievalConfig struct {
	TopN int
}

type AlignmentConfig struct {
	Method        string // "LLM", "ALIGN_SCORE" or "OFF"
	Threshold     float64
	AlignScoreURL string
}

type ChatConfig struct {
	SystemPrompt           string
	HistoryTTLMinutes      int
	DefaultMaxInputTokens  int
	DefaultMaxOutputTokens int
	// "model=maxIn:maxOut,model2=maxIn:maxOut"
	ContextOverrides map[string][2]int
}

type UrgencyConfig struct {
	Classifier     string // "cosine_distance" or "llm_entailment"
	MaxDistance    float64
	MinProbability float64
	AlertEmail     string
	RuleCacheTTL   int // minutes
}

const defaultChatSystemPrompt = "You are a helpful assistant for a question-answering service. " +
	"Answer user questions concisely and only from the material you are given."

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Helpdesk"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			TTSBaseURL:        getEnv("TTS_BASE_URL", ""),
		},
		Rails: RailsConfig{
			SupportedLanguages: getEnvAsList("SUPPORTED_LANGUAGES", "ENGLISH"),
			SupportedScripts:   getEnvAsList("SUPPORTED_SCRIPTS", "LATIN"),
			TargetLanguage:     getEnv("TARGET_LANGUAGE", "ENGLISH"),
		},
		Retrieval: RetrievalConfig{
			TopN: getEnvAsInt("RETRIEVAL_TOP_N", 4),
		},
		Alignment: AlignmentConfig{
			Method:        getEnv("ALIGNMENT_METHOD", "LLM"),
			Threshold:     getEnvAsFloat("ALIGNMENT_THRESHOLD", 0.7),
			AlignScoreURL: getEnv("ALIGN_SCORE_URL", ""),
		},
		Chat: ChatConfig{
			SystemPrompt:           getEnv("CHAT_SYSTEM_PROMPT", defaultChatSystemPrompt),
			HistoryTTLMinutes:      getEnvAsInt("CHAT_HISTORY_TTL_MINUTES", 60),
			DefaultMaxInputTokens:  getEnvAsInt("CHAT_MAX_INPUT_TOKENS", 8192),
			DefaultMaxOutputTokens: getEnvAsInt("CHAT_MAX_OUTPUT_TOKENS", 1024),
			ContextOverrides:       parseContextOverrides(getEnv("CHAT_CONTEXT_OVERRIDES", "")),
		},
		Urgency: UrgencyConfig{
			Classifier:     getEnv("URGENCY_CLASSIFIER", "cosine_distance"),
			MaxDistance:    getEnvAsFloat("URGENCY_MAX_DISTANCE", 0.35),
			MinProbability: getEnvAsFloat("URGENCY_MIN_PROBABILITY", 0.5),
			AlertEmail:     getEnv("URGENCY_ALERT_EMAIL", ""),
			RuleCacheTTL:   getEnvAsInt("URGENCY_RULE_CACHE_TTL_MINUTES", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// parseContextOverrides reads "model=maxIn:maxOut,model2=maxIn:maxOut".
func parseContextOverrides(raw string) map[string][2]int {
	overrides := map[string][2]int{}
	if raw == "" {
		return overrides
	}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			continue
		}
		limits := strings.SplitN(kv[1], ":", 2)
		if len(limits) != 2 {
			continue
		}
		maxIn, err1 := strconv.Atoi(limits[0])
		maxOut, err2 := strconv.Atoi(limits[1])
		if err1 != nil || err2 != nil {
			continue
		}
		overrides[kv[0]] = [2]int{maxIn, maxOut}
	}
	return overrides
}

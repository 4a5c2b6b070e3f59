package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Engine         Engine         `mapstructure:",squash"`
	ResultsCleanup ResultsCleanup `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Engine parametriza o motor de conciliação e métricas.
type Engine struct {
	// MaxUploadRows é o limite de linhas aceito por upload.
	MaxUploadRows int `mapstructure:"engine_max_upload_rows"`
	// NameSimilarity é o limiar de similaridade do desempate de
	// matches ambíguos.
	NameSimilarity float64 `mapstructure:"engine_name_similarity"`
	// NewProductMinOccurrences é o mínimo de ocorrências de um SKU
	// desconhecido para a auditoria sugerir produto novo.
	NewProductMinOccurrences int `mapstructure:"engine_new_product_min_occurrences"`
	// TypoMaxDistance é a distância de edição máxima para a auditoria
	// sugerir erro de digitação.
	TypoMaxDistance int `mapstructure:"engine_typo_max_distance"`
	// UnmatchedAlertRate é a fração de vendas não conciliadas acima da
	// qual o processamento emite alerta.
	UnmatchedAlertRate float64 `mapstructure:"engine_unmatched_alert_rate"`
	// AggregationShards é o grau de paralelismo da agregação.
	AggregationShards int `mapstructure:"engine_aggregation_shards"`
}

type ResultsCleanup struct {
	CronSchedule   string `mapstructure:"results_cleanup_cron"`
	Enabled        bool   `mapstructure:"results_cleanup_enabled"`
	ResultTTLHours int    `mapstructure:"results_cleanup_result_ttl_hours"`
	RetentionDays  int    `mapstructure:"results_cleanup_retention_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/multimarks")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Defaults do motor de conciliação
	viper.SetDefault("ENGINE_MAX_UPLOAD_ROWS", 200000) // Limite defensivo de linhas por upload
	viper.SetDefault("ENGINE_NAME_SIMILARITY", 0.85)   // Limiar do desempate por nome
	viper.SetDefault("ENGINE_NEW_PRODUCT_MIN_OCCURRENCES", 3)
	viper.SetDefault("ENGINE_TYPO_MAX_DISTANCE", 1)
	viper.SetDefault("ENGINE_UNMATCHED_ALERT_RATE", 0.05) // Alerta acima de 5% sem match
	viper.SetDefault("ENGINE_AGGREGATION_SHARDS", 4)

	// Defaults para limpeza de resultados
	viper.SetDefault("RESULTS_CLEANUP_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("RESULTS_CLEANUP_ENABLED", true)
	viper.SetDefault("RESULTS_CLEANUP_RESULT_TTL_HOURS", 24) // Resultados em memória expiram em 24h
	viper.SetDefault("RESULTS_CLEANUP_RETENTION_DAYS", 90)   // Métricas persistidas retidas por 90 dias

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}

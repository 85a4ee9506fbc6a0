package config

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug  bool   `json:"debug"`
	Locale string `json:"locale" validate:"required,oneof=ar en"`

	Credential CredentialConfig `json:"credential"`
	FCM        FCMConfig        `json:"fcm"`
	Delivery   DeliveryConfig   `json:"delivery"`
	Classifier ClassifierConfig `json:"classifier"`
	Datastore  DatastoreConfig  `json:"datastore"`
	Cache      CacheConfig      `json:"cache"`
	Alert      AlertConfig      `json:"alert"`
	Consumer   ConsumerConfig   `json:"consumer"`
	Scheduler  SchedulerConfig  `json:"scheduler"`
	API        APIConfig        `json:"api"`
}

// Default 설정 파일에 값이 없을 때 사용하는 기본값입니다.
func Default() AppConfig {
	return AppConfig{
		Locale: "ar",
		Credential: CredentialConfig{
			ExchangeTimeout: 10 * time.Second,
			RefreshMargin:   60 * time.Second,
		},
		FCM: FCMConfig{
			Endpoint:     "https://fcm.googleapis.com",
			DefaultTopic: "all_users",
		},
		Delivery: DeliveryConfig{
			ChunkSize:           500,
			MaxConcurrentChunks: 4,
			MaxConcurrentSends:  50,
			SendTimeout:         15 * time.Second,
		},
		Classifier: ClassifierConfig{
			ExpiryWindowDays: 365,
			VolatileFields:   []string{"views", "views_count", "updated_at"},
		},
		Datastore: DatastoreConfig{
			Driver:        "postgrest",
			Timeout:       10 * time.Second,
			LookupTimeout: 10 * time.Second,
			NameCacheTTL:  10 * time.Minute,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			KeyPrefix:  AppName + ":",
			MaxEntries: 10000,
		},
		Alert: AlertConfig{
			Telegram: TelegramConfig{Prefix: "[" + AppName + "]"},
		},
		Consumer: ConsumerConfig{
			Topic:   "catalog-changes",
			GroupID: AppName,
		},
		Scheduler: SchedulerConfig{
			TokenWarmupSpec: "@every 45m",
			PurgeSpec:       "0 30 3 * * *",
			OfferRetention:  7 * 24 * time.Hour,
		},
		API: APIConfig{
			ListenPort:         2443,
			RequestTimeout:     60 * time.Second,
			RateLimitPerSecond: 20,
			RateLimitBurst:     40,
			CORS:               CORSConfig{AllowOrigins: []string{"*"}},
		},
	}
}

// validate 로드 직후 각 설정 항목의 정합성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "애플리케이션"); err != nil {
		return err
	}
	if err := c.Credential.validate(); err != nil {
		return err
	}
	if err := c.Datastore.validate(); err != nil {
		return err
	}
	if err := c.Cache.validate(); err != nil {
		return err
	}
	if err := c.Alert.Telegram.validate(); err != nil {
		return err
	}
	if err := c.Consumer.validate(); err != nil {
		return err
	}
	return c.API.validate()
}

// VerifyRecommendations 강제하지는 않지만 운영 시 주의가 필요한 설정에 대한 경고를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.API.ListenPort))
	}
	if c.FCM.DryRun {
		warnings = append(warnings, "fcm.dry_run이 활성화되어 푸시 알림이 실제로 발송되지 않습니다")
	}
	if len(c.API.CORS.AllowOrigins) == 1 && c.API.CORS.AllowOrigins[0] == "*" {
		warnings = append(warnings, "CORS가 모든 Origin(*)을 허용합니다")
	}
	if !c.Alert.Telegram.Enabled {
		warnings = append(warnings, "운영자 알림(텔레그램)이 비활성화되어 자격 증명 실패를 통보받을 수 없습니다")
	}

	return warnings
}

// CredentialConfig 푸시 공급자 서비스 계정 설정
//
// 서비스 계정 JSON은 파일 경로(service_account_file) 또는 환경 변수로 넣은 JSON 문자열(service_account_json) 중 하나로 지정합니다.
type CredentialConfig struct {
	ServiceAccountFile string        `json:"service_account_file"`
	ServiceAccountJSON string        `json:"service_account_json"`
	ExchangeTimeout    time.Duration `json:"exchange_timeout" validate:"gt=0"`
	RefreshMargin      time.Duration `json:"refresh_margin" validate:"gte=0"`
}

func (c *CredentialConfig) validate() error {
	hasFile := strings.TrimSpace(c.ServiceAccountFile) != ""
	hasJSON := strings.TrimSpace(c.ServiceAccountJSON) != ""

	switch {
	case hasFile && hasJSON:
		return apperrors.New(apperrors.InvalidInput, "서비스 계정은 service_account_file과 service_account_json 중 하나만 지정할 수 있습니다")
	case !hasFile && !hasJSON:
		return apperrors.New(apperrors.InvalidInput, "서비스 계정(service_account_file 또는 service_account_json)이 설정되지 않았습니다")
	}
	return nil
}

// FCMConfig 푸시 공급자 설정
type FCMConfig struct {
	Endpoint     string `json:"endpoint" validate:"required,http_url"`
	DryRun       bool   `json:"dry_run"` // true면 발송하지 않고 로그만 남깁니다.
	DefaultTopic string `json:"default_topic" validate:"required"`
}

// DeliveryConfig 발송 엔진 설정
type DeliveryConfig struct {
	ChunkSize           int           `json:"chunk_size" validate:"min=1,max=500"`
	MaxConcurrentChunks int           `json:"max_concurrent_chunks" validate:"min=1"`
	MaxConcurrentSends  int           `json:"max_concurrent_sends" validate:"min=1"`
	SendTimeout         time.Duration `json:"send_timeout" validate:"gt=0"`
	RateLimit           float64       `json:"rate_limit" validate:"gte=0"` // 초당 발송 수, 0이면 무제한
	RateBurst           int           `json:"rate_burst" validate:"gte=0"`
}

type ClassifierConfig struct {
	ExpiryWindowDays int      `json:"expiry_window_days" validate:"min=1"`
	VolatileFields   []string `json:"volatile_fields"`
}

// DatastoreConfig 이름 조회에 사용하는 데이터 저장소 설정
type DatastoreConfig struct {
	Driver string `json:"driver" validate:"oneof=postgrest postgres"`

	// postgrest
	URL        string `json:"url"`
	ServiceKey string `json:"service_key"`

	// postgres
	DSN string `json:"dsn"`

	Timeout       time.Duration `json:"timeout" validate:"gt=0"`
	LookupTimeout time.Duration `json:"lookup_timeout" validate:"gt=0"`
	NameCacheTTL  time.Duration `json:"name_cache_ttl" validate:"gte=0"`
}

func (c *DatastoreConfig) validate() error {
	switch c.Driver {
	case "postgrest":
		if strings.TrimSpace(c.URL) == "" {
			return apperrors.New(apperrors.InvalidInput, "postgrest 드라이버는 datastore.url이 필요합니다")
		}
		if strings.TrimSpace(c.ServiceKey) == "" {
			return apperrors.New(apperrors.InvalidInput, "postgrest 드라이버는 datastore.service_key가 필요합니다")
		}
	case "postgres":
		if strings.TrimSpace(c.DSN) == "" {
			return apperrors.New(apperrors.InvalidInput, "postgres 드라이버는 datastore.dsn이 필요합니다")
		}
	}
	return nil
}

// CacheConfig 이름 조회 결과 캐시 설정
type CacheConfig struct {
	Driver     string `json:"driver" validate:"oneof=memory redis none"`
	RedisURL   string `json:"redis_url"`
	KeyPrefix  string `json:"key_prefix"`
	MaxEntries int    `json:"max_entries" validate:"gte=0"`
}

func (c *CacheConfig) validate() error {
	if c.Driver == "redis" && strings.TrimSpace(c.RedisURL) == "" {
		return apperrors.New(apperrors.InvalidInput, "redis 캐시는 cache.redis_url이 필요합니다")
	}
	return nil
}

type AlertConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig 운영자 알림용 텔레그램 봇 설정
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id"`
	Prefix   string `json:"prefix"`
}

func (c *TelegramConfig) validate() error {
	if c.Enabled && c.ChatID == 0 {
		return apperrors.New(apperrors.InvalidInput, "텔레그램 알림을 사용하려면 alert.telegram.chat_id가 필요합니다")
	}
	return nil
}

// ConsumerConfig Kafka 변경 이벤트 컨슈머 설정
type ConsumerConfig struct {
	Enabled bool     `json:"enabled"`
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
	GroupID string   `json:"group_id"`
}

func (c *ConsumerConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return apperrors.New(apperrors.InvalidInput, "컨슈머를 사용하려면 consumer.brokers가 필요합니다")
	}
	if strings.TrimSpace(c.Topic) == "" || strings.TrimSpace(c.GroupID) == "" {
		return apperrors.New(apperrors.InvalidInput, "컨슈머를 사용하려면 consumer.topic과 consumer.group_id가 필요합니다")
	}
	return nil
}

// SchedulerConfig 주기 작업 설정
type SchedulerConfig struct {
	Enabled         bool          `json:"enabled"`
	TokenWarmupSpec string        `json:"token_warmup_spec" validate:"required,cron_spec"`
	PurgeSpec       string        `json:"purge_spec" validate:"required,cron_spec"`
	OfferRetention  time.Duration `json:"offer_retention" validate:"gt=0"`
}

// APIConfig 웹훅 및 관리용 REST API 서버 설정
type APIConfig struct {
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`

	RequestTimeout     time.Duration `json:"request_timeout" validate:"gt=0"`
	RateLimitPerSecond int           `json:"rate_limit_per_second" validate:"min=1"`
	RateLimitBurst     int           `json:"rate_limit_burst" validate:"min=1"`

	CORS         CORSConfig          `json:"cors"`
	Applications []ApplicationConfig `json:"applications" validate:"unique=ID,dive"`
}

func (c *APIConfig) validate() error {
	if len(c.CORS.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}
	for _, origin := range c.CORS.AllowOrigins {
		if origin == "*" && len(c.CORS.AllowOrigins) > 1 {
			return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
		}
	}
	if len(c.Applications) == 0 {
		return apperrors.New(apperrors.InvalidInput, "API를 호출할 애플리케이션(api.applications)이 하나 이상 필요합니다")
	}
	return nil
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

// ApplicationConfig API를 호출할 수 있는 클라이언트(웹훅 발신자, 관리 도구)의 인증 정보
type ApplicationConfig struct {
	ID     string `json:"id" validate:"required"`
	Title  string `json:"title"`
	AppKey string `json:"app_key" validate:"required"`
}

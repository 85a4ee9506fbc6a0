package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "push-server"

	// DefaultFilename 실행 인자로 경로를 받지 못했을 때 읽는 설정 파일입니다.
	DefaultFilename = AppName + ".json"

	// EnvPrefix 환경 변수 접두사입니다. 이중 언더스코어(__)는 계층 구분자(.)로 바뀝니다.
	//  예: PUSH_DATASTORE__SERVICE_KEY -> datastore.service_key
	EnvPrefix = "PUSH_"

	dotEnvFilename = ".env"
)

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
// 작업 디렉터리에 .env 파일이 있으면 먼저 환경 변수로 읽어 들입니다.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(dotEnvFilename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("환경 변수 파일('%s')을 읽을 수 없습니다", dotEnvFilename))
	}
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 기본값, JSON 파일, 환경 변수 순서로 덮어써 AppConfig를 만듭니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값
	if err := k.Load(structs.Provider(Default(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 (최우선)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true, // 구조체에 없는 키는 오타로 보고 실패시킵니다.
			WeaklyTypedInput: true,
		},
	}

	var appConfig AppConfig
	unmarshalConf.DecoderConfig.Result = &appConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사
	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

package credential

import (
	"encoding/json"
	"os"
	"strings"
)

// DefaultTokenURI 서비스 계정 키에 token_uri가 없을 때 사용하는 토큰 엔드포인트
const DefaultTokenURI = "https://oauth2.googleapis.com/token"

// ServiceAccount 서비스 계정 키 파일(JSON)의 내용입니다.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// LoadServiceAccountFile 파일에서 서비스 계정 키를 읽습니다.
func LoadServiceAccountFile(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newErrReadServiceAccount(err, path)
	}
	return ParseServiceAccount(data)
}

// ParseServiceAccount JSON 문자열로 전달된 서비스 계정 키를 해석합니다.
//
// 환경변수로 전달되면서 private_key의 줄바꿈이 "\n" 문자열로 바뀐 경우도 처리합니다.
func ParseServiceAccount(data []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, newErrParseServiceAccount(err)
	}

	if strings.TrimSpace(sa.ClientEmail) == "" {
		return nil, ErrClientEmailMissing
	}
	if strings.TrimSpace(sa.PrivateKey) == "" {
		return nil, ErrPrivateKeyMissing
	}

	if !strings.Contains(sa.PrivateKey, "\n") {
		sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	}
	if sa.TokenURI == "" {
		sa.TokenURI = DefaultTokenURI
	}

	return &sa, nil
}

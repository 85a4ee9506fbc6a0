package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/fetcher"
	"github.com/tidwall/gjson"
)

// DefaultFCMEndpoint FCM HTTP v1 API 주소
const DefaultFCMEndpoint = "https://fcm.googleapis.com"

// FCM Firebase Cloud Messaging HTTP v1 공급자
type FCM struct {
	url     string
	fetcher fetcher.Fetcher
}

// NewFCM endpoint가 비어 있으면 DefaultFCMEndpoint를 사용합니다.
func NewFCM(projectID, endpoint string, f fetcher.Fetcher) *FCM {
	if endpoint == "" {
		endpoint = DefaultFCMEndpoint
	}
	return &FCM{
		url:     fmt.Sprintf("%s/v1/projects/%s/messages:send", strings.TrimRight(endpoint, "/"), projectID),
		fetcher: f,
	}
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Topic        string            `json:"topic,omitempty"`
	Token        string            `json:"token,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Notification *fcmNotification  `json:"notification,omitempty"`
	Android      fcmAndroid        `json:"android"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmAndroid struct {
	Priority string `json:"priority"`
}

func (p *FCM) Send(ctx context.Context, accessToken string, msg Message) error {
	req := fcmRequest{Message: fcmMessage{
		Topic:   msg.Topic,
		Token:   msg.Token,
		Data:    msg.Data,
		Android: fcmAndroid{Priority: "high"},
	}}
	if msg.Notification != nil {
		req.Message.Notification = &fcmNotification{Title: msg.Notification.Title, Body: msg.Notification.Body}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return &SendError{Code: CodeInternal, Err: apperrors.Wrap(err, apperrors.Internal, "FCM 요청 본문 생성에 실패했습니다")}
	}

	_, err = fetcher.ReadBody(ctx, p.fetcher, fetcher.Request{
		Method: http.MethodPost,
		URL:    p.url,
		Header: map[string]string{
			"Authorization": "Bearer " + accessToken,
			"Content-Type":  "application/json",
		},
		Body: bytes.NewReader(body),
	})
	if err == nil {
		return nil
	}

	if statusErr, ok := fetcher.StatusError(err); ok {
		return &SendError{
			StatusCode: statusErr.StatusCode,
			Code:       fcmErrorCode(statusErr.Body, statusErr.StatusCode),
			Err:        err,
		}
	}

	code := CodeUnavailable
	if apperrors.Is(err, apperrors.Timeout) {
		code = CodeDeadlineExceeded
	}
	return &SendError{Code: code, Err: err}
}

// fcmErrorCode 응답 본문의 FcmError.errorCode, error.status, HTTP 상태 순으로 코드를 찾습니다.
//
//	{"error":{"code":404,"status":"NOT_FOUND","details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"UNREGISTERED"}]}}
func fcmErrorCode(body []byte, statusCode int) string {
	var code string
	gjson.GetBytes(body, "error.details").ForEach(func(_, detail gjson.Result) bool {
		fields := detail.Map()
		if strings.HasSuffix(fields["@type"].String(), "FcmError") {
			code = fields["errorCode"].String()
		}
		return code == ""
	})
	if code != "" {
		return code
	}

	if status := gjson.GetBytes(body, "error.status").String(); status != "" {
		return status
	}

	return strings.ToUpper(strings.ReplaceAll(http.StatusText(statusCode), " ", "_"))
}

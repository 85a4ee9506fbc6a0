package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Test Helpers
// =============================================================================

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Handle(ctx context.Context, ev contract.ChangeEvent, target contract.Target) (contract.Report, error) {
	args := m.Called(ctx, ev, target)
	return args.Get(0).(contract.Report), args.Error(1)
}

// fakeReader 큐에 넣은 메시지를 순서대로 돌려주고, 비어 있으면 ctx가 취소될 때까지 대기합니다.
type fakeReader struct {
	messages chan kafka.Message
	fetchErr chan error

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{
		messages: make(chan kafka.Message, len(msgs)),
		fetchErr: make(chan error, 1),
	}
	for i, m := range msgs {
		m.Offset = int64(i)
		r.messages <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case err := <-r.fetchErr:
		return kafka.Message{}, err
	default:
	}

	select {
	case m := <-r.messages:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func (r *fakeReader) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func message(value string) kafka.Message {
	return kafka.Message{Value: []byte(value)}
}

// runUntilCommitted 컨슈머를 시작하고 want개의 메시지가 커밋되면 종료합니다.
func runUntilCommitted(t *testing.T, c *Consumer, reader *fakeReader, want int) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, c.Start(ctx, wg))

	require.Eventually(t, func() bool {
		return len(reader.Committed()) == want
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	wg.Wait()

	assert.True(t, reader.Closed())
}

// =============================================================================
// Consumer
// =============================================================================

func TestConsumer_HandlesAndCommits(t *testing.T) {
	processor := &mockProcessor{}
	processor.On("Handle", mock.Anything, mock.MatchedBy(func(ev contract.ChangeEvent) bool {
		return ev.Operation == contract.OperationUpdate && ev.Table == "books" && ev.PreviousRecord["price"] == float64(50)
	}), contract.Target{Topic: "news"}).Return(contract.Report{SuccessCount: 1, Total: 1}, nil).Once()
	processor.On("Handle", mock.Anything, mock.MatchedBy(func(ev contract.ChangeEvent) bool {
		return ev.Operation == contract.OperationInsert && ev.Table == "offers"
	}), contract.Target{Tokens: []string{"t1"}}).Return(contract.SuppressedReport(), nil).Once()

	reader := newFakeReader(
		message(`{"type":"UPDATE","table":"books","record":{"id":"b1","price":40},"old_record":{"id":"b1","price":50},"topic":"news"}`),
		message(`{"type":"INSERT","table":"offers","record":{"id":"o1"},"old_record":null,"tokens":["t1"]}`),
	)
	c := newWithReader(reader, processor, "catalog-changes", "push-server")

	runUntilCommitted(t, c, reader, 2)

	assert.Equal(t, []int64{0, 1}, reader.Committed())
	processor.AssertExpectations(t)
}

func TestConsumer_MalformedMessagesAreCommitted(t *testing.T) {
	processor := &mockProcessor{}

	reader := newFakeReader(
		message(`not json`),
		message(`{"type":"DELETE","table":"books","record":{}}`),
		message(`{"type":"INSERT","table":"books"}`),
		message(`{"type":"INSERT","table":"books","record":{"id":"b1"},"old_record":{"id":"b0"}}`),
	)
	c := newWithReader(reader, processor, "catalog-changes", "push-server")

	runUntilCommitted(t, c, reader, 4)

	processor.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumer_ProcessingFailureIsCommitted(t *testing.T) {
	processor := &mockProcessor{}
	processor.On("Handle", mock.Anything, mock.Anything, mock.Anything).
		Return(contract.Report{}, apperrors.New(apperrors.CredentialFailed, "invalid_grant")).Once()
	processor.On("Handle", mock.Anything, mock.Anything, mock.Anything).
		Return(contract.Report{}, apperrors.New(apperrors.InvalidInput, "발송 대상은 토픽과 토큰 중 하나만 지정할 수 있습니다")).Once()

	reader := newFakeReader(
		message(`{"type":"INSERT","table":"books","record":{"id":"b1"}}`),
		message(`{"type":"INSERT","table":"books","record":{"id":"b2"},"topic":"news","tokens":["t1"]}`),
	)
	c := newWithReader(reader, processor, "catalog-changes", "push-server")

	runUntilCommitted(t, c, reader, 2)

	processor.AssertExpectations(t)
}

func TestConsumer_FetchErrorRetries(t *testing.T) {
	processor := &mockProcessor{}
	processor.On("Handle", mock.Anything, mock.Anything, mock.Anything).Return(contract.Report{Total: 1, SuccessCount: 1}, nil).Once()

	reader := newFakeReader(message(`{"type":"INSERT","table":"books","record":{"id":"b1"}}`))
	reader.fetchErr <- errors.New("broker not available")
	c := newWithReader(reader, processor, "catalog-changes", "push-server")

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, c.Start(ctx, wg))

	require.Eventually(t, func() bool {
		return len(reader.Committed()) == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	wg.Wait()
	processor.AssertExpectations(t)
}

func TestConsumer_StartTwice(t *testing.T) {
	reader := newFakeReader()
	c := newWithReader(reader, &mockProcessor{}, "catalog-changes", "push-server")

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(2)
	require.NoError(t, c.Start(ctx, wg))
	require.NoError(t, c.Start(ctx, wg))

	cancel()
	wg.Wait()
	assert.True(t, reader.Closed())
}

// =============================================================================
// decode
// =============================================================================

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantTarget contract.Target
		wantType   apperrors.ErrorType
	}{
		{"토픽 지정", `{"type":"insert","table":"books","record":{},"topic":"news"}`, contract.Target{Topic: "news"}, apperrors.Unknown},
		{"대상 미지정", `{"type":"UPDATE","table":"books","record":{},"old_record":{}}`, contract.Target{}, apperrors.Unknown},
		{"JSON 오류", `{`, contract.Target{}, apperrors.ParsingFailed},
		{"지원하지 않는 종류", `{"type":"DELETE","table":"books","record":{}}`, contract.Target{}, apperrors.InvalidInput},
		{"record 누락", `{"type":"UPDATE","table":"books"}`, contract.Target{}, apperrors.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, target, err := decode([]byte(tt.value))
			if tt.wantType != apperrors.Unknown {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tt.wantType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}

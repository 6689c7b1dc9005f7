// Package chat 提供聊天转发服务单元测试
package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"gorm.io/gorm"

	"github.com/lucianodboretti/agentic-factory-backend/internal/errs"
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	appmodel "github.com/lucianodboretti/agentic-factory-backend/internal/model"
)

// mockAssistantStore 内存助手仓库
type mockAssistantStore struct {
	assistants map[string]*appmodel.AssistantPrompt
}

func (m *mockAssistantStore) GetByID(id string) (*appmodel.AssistantPrompt, error) {
	if a, ok := m.assistants[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// mockMessageStore 内存消息仓库
type mockMessageStore struct {
	messages  []*appmodel.Message
	createErr error
}

func (m *mockMessageStore) Create(msg *appmodel.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageStore) ListByThread(threadID string) ([]*appmodel.Message, error) {
	result := make([]*appmodel.Message, 0)
	for _, msg := range m.messages {
		if msg.ThreadID == threadID {
			result = append(result, msg)
		}
	}
	return result, nil
}

// fakeChatModel 按脚本返回 token 流
type fakeChatModel struct {
	chunks    []string
	openErr   error  // Stream 打开时返回的错误
	midErr    error  // 最后一个 chunk 之后注入的流错误
	called    bool   // 是否调用过 Stream
	gotPrompt string // 收到的系统提示
	gotInput  []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.called = true
	f.gotInput = input
	if len(input) > 0 && input[0].Role == schema.System {
		f.gotPrompt = input[0].Content
	}

	if f.openErr != nil {
		return nil, f.openErr
	}

	sr, sw := schema.Pipe[*schema.Message](len(f.chunks) + 1)
	go func() {
		defer sw.Close()
		for _, chunk := range f.chunks {
			if sw.Send(schema.AssistantMessage(chunk, nil), nil) {
				return
			}
		}
		if f.midErr != nil {
			sw.Send(nil, f.midErr)
		}
	}()
	return sr, nil
}

// recordSink 记录收到的 token
type recordSink struct {
	tokens   []string
	done     bool
	tokenErr error              // Token 返回的错误，模拟客户端断开
	failAt   int                // 第 N 个 token 开始失败（从 1 计）
	onToken  func(token string) // 每个 token 的回调，用于注入取消
}

func (s *recordSink) Token(token string) error {
	if s.onToken != nil {
		s.onToken(token)
	}
	if s.tokenErr != nil && len(s.tokens)+1 >= s.failAt {
		return s.tokenErr
	}
	s.tokens = append(s.tokens, token)
	return nil
}

func (s *recordSink) Done() error {
	s.done = true
	return nil
}

func newTestService(assistants *mockAssistantStore, messages *mockMessageStore, cm model.BaseChatModel) *Service {
	return &Service{
		assistants: assistants,
		messages:   messages,
		model:      cm,
		log:        logger.New(logger.Config{Level: "silent"}).Service("chat"),
	}
}

func testAssistants() *mockAssistantStore {
	return &mockAssistantStore{assistants: map[string]*appmodel.AssistantPrompt{
		"helper": {ID: "helper", Name: "Helper", Role: "You are a helper."},
	}}
}

func validRequest() *StreamRequest {
	return &StreamRequest{
		Message:     "hi",
		ThreadID:    "t1",
		AssistantID: "helper",
	}
}

func TestStreamRelaysTokensInOrder(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{chunks: []string{"Hel", "lo", " world"}}
	svc := newTestService(testAssistants(), messages, cm)
	sink := &recordSink{}

	if err := svc.Stream(context.Background(), validRequest(), sink); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	want := []string{"Hel", "lo", " world"}
	if len(sink.tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(sink.tokens), len(want), sink.tokens)
	}
	for i, tok := range want {
		if sink.tokens[i] != tok {
			t.Errorf("token[%d] = %q, want %q", i, sink.tokens[i], tok)
		}
	}
	if !sink.done {
		t.Error("sink.Done() not called")
	}

	if len(messages.messages) != 2 {
		t.Fatalf("got %d persisted messages, want 2", len(messages.messages))
	}
	user, reply := messages.messages[0], messages.messages[1]
	if user.Role != appmodel.RoleUser || user.Name != "User" || user.Content != "hi" {
		t.Errorf("unexpected user message: %+v", user)
	}
	if reply.Role != appmodel.RoleAssistant || reply.Name != "Helper" {
		t.Errorf("unexpected assistant message: %+v", reply)
	}
	if reply.Content != "Hello world" {
		t.Errorf("assistant content = %q, want %q", reply.Content, "Hello world")
	}
}

func TestStreamValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *StreamRequest
	}{
		{"缺少 message", &StreamRequest{ThreadID: "t1", AssistantID: "helper"}},
		{"缺少 threadId", &StreamRequest{Message: "hi", AssistantID: "helper"}},
		{"缺少 assistantId", &StreamRequest{Message: "hi", ThreadID: "t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &mockMessageStore{}
			cm := &fakeChatModel{chunks: []string{"x"}}
			svc := newTestService(testAssistants(), messages, cm)

			err := svc.Stream(context.Background(), tt.req, &recordSink{})
			if !errs.IsValidation(err) {
				t.Fatalf("Stream() error = %v, want validation error", err)
			}
			if len(messages.messages) != 0 {
				t.Error("validation failure must not persist messages")
			}
			if cm.called {
				t.Error("validation failure must not call upstream")
			}
		})
	}
}

func TestStreamAssistantNotFound(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{chunks: []string{"x"}}
	svc := newTestService(testAssistants(), messages, cm)

	req := validRequest()
	req.AssistantID = "ghost"

	err := svc.Stream(context.Background(), req, &recordSink{})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Stream() error = %v, want ErrNotFound", err)
	}
	if len(messages.messages) != 0 {
		t.Error("unknown assistant must not persist messages")
	}
	if cm.called {
		t.Error("unknown assistant must not call upstream")
	}
}

// 上游打开失败时用户消息必须已落库
func TestStreamUpstreamOpenFailure(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{openErr: errors.New("provider down")}
	svc := newTestService(testAssistants(), messages, cm)
	sink := &recordSink{}

	err := svc.Stream(context.Background(), validRequest(), sink)
	if err == nil {
		t.Fatal("Stream() expected error")
	}
	if len(sink.tokens) != 0 || sink.done {
		t.Error("no tokens should be relayed when upstream open fails")
	}
	if len(messages.messages) != 1 || messages.messages[0].Role != appmodel.RoleUser {
		t.Fatalf("user message must survive upstream failure, got %+v", messages.messages)
	}
}

// 流中途失败时不持久化部分输出
func TestStreamMidStreamErrorDropsPartialOutput(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{chunks: []string{"par", "tial"}, midErr: errors.New("stream broke")}
	svc := newTestService(testAssistants(), messages, cm)
	sink := &recordSink{}

	err := svc.Stream(context.Background(), validRequest(), sink)
	if err == nil {
		t.Fatal("Stream() expected error")
	}
	if sink.done {
		t.Error("Done() must not be called on mid-stream failure")
	}
	if len(messages.messages) != 1 {
		t.Fatalf("partial output must not be persisted, got %d messages", len(messages.messages))
	}
}

// 客户端断开（写失败）后跳过持久化
func TestStreamSinkErrorSkipsPersistence(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{chunks: []string{"Hel", "lo"}}
	svc := newTestService(testAssistants(), messages, cm)
	sink := &recordSink{tokenErr: errors.New("connection reset"), failAt: 2}

	err := svc.Stream(context.Background(), validRequest(), sink)
	if err == nil {
		t.Fatal("Stream() expected error")
	}
	if sink.done {
		t.Error("Done() must not be called after client disconnect")
	}
	if len(messages.messages) != 1 {
		t.Fatalf("assistant message must not be persisted after disconnect, got %d messages", len(messages.messages))
	}
}

// 取消信号中止转发并跳过持久化
func TestStreamContextCancelled(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{chunks: []string{"a", "b", "c"}}
	svc := newTestService(testAssistants(), messages, cm)

	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordSink{onToken: func(string) { cancel() }}

	err := svc.Stream(ctx, validRequest(), sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Stream() error = %v, want context.Canceled", err)
	}
	if sink.done {
		t.Error("Done() must not be called after cancellation")
	}
	if len(messages.messages) != 1 {
		t.Fatalf("assistant message must not be persisted after cancellation, got %d messages", len(messages.messages))
	}
}

// 用户消息落库失败时不得调用上游
func TestStreamUserMessagePersistFailure(t *testing.T) {
	messages := &mockMessageStore{createErr: errors.New("db down")}
	cm := &fakeChatModel{chunks: []string{"x"}}
	svc := newTestService(testAssistants(), messages, cm)

	err := svc.Stream(context.Background(), validRequest(), &recordSink{})
	if err == nil {
		t.Fatal("Stream() expected error")
	}
	if cm.called {
		t.Error("upstream must not be called when user message write fails")
	}
}

func TestStreamSkipsEmptyChunks(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{chunks: []string{"", "a", "", "b"}}
	svc := newTestService(testAssistants(), messages, cm)
	sink := &recordSink{}

	if err := svc.Stream(context.Background(), validRequest(), sink); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if len(sink.tokens) != 2 || sink.tokens[0] != "a" || sink.tokens[1] != "b" {
		t.Errorf("empty chunks must be skipped, got %v", sink.tokens)
	}
	if messages.messages[1].Content != "ab" {
		t.Errorf("assistant content = %q, want %q", messages.messages[1].Content, "ab")
	}
}

func TestStreamAssistantNameFallback(t *testing.T) {
	assistants := &mockAssistantStore{assistants: map[string]*appmodel.AssistantPrompt{
		"anon": {ID: "anon"},
	}}
	messages := &mockMessageStore{}
	svc := newTestService(assistants, messages, &fakeChatModel{chunks: []string{"ok"}})

	req := validRequest()
	req.AssistantID = "anon"

	if err := svc.Stream(context.Background(), req, &recordSink{}); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if got := messages.messages[1].Name; got != "Agent" {
		t.Errorf("assistant message name = %q, want %q", got, "Agent")
	}
}

// 上游收到的消息序列：系统提示、历史、新用户消息
func TestStreamBuildsMessageSequence(t *testing.T) {
	messages := &mockMessageStore{}
	cm := &fakeChatModel{chunks: []string{"ok"}}
	svc := newTestService(testAssistants(), messages, cm)

	req := validRequest()
	req.History = []HistoryMessage{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	if err := svc.Stream(context.Background(), req, &recordSink{}); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if len(cm.gotInput) != 4 {
		t.Fatalf("got %d upstream messages, want 4", len(cm.gotInput))
	}
	if cm.gotInput[0].Role != schema.System || cm.gotPrompt != "You are a helper." {
		t.Errorf("first message must be the system prompt, got %+v", cm.gotInput[0])
	}
	if cm.gotInput[1].Role != schema.User || cm.gotInput[1].Content != "earlier question" {
		t.Errorf("history not passed verbatim: %+v", cm.gotInput[1])
	}
	if cm.gotInput[2].Role != schema.Assistant || cm.gotInput[2].Content != "earlier answer" {
		t.Errorf("history not passed verbatim: %+v", cm.gotInput[2])
	}
	if cm.gotInput[3].Role != schema.User || cm.gotInput[3].Content != "hi" {
		t.Errorf("last message must be the new user message: %+v", cm.gotInput[3])
	}
}

func TestListMessagesUnknownThread(t *testing.T) {
	svc := newTestService(testAssistants(), &mockMessageStore{}, &fakeChatModel{})

	messages, err := svc.ListMessages(context.Background(), "missing")
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if messages == nil || len(messages) != 0 {
		t.Errorf("unknown thread must yield empty list, got %v", messages)
	}
}

package resultqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs   chan kafka.Message
	closed chan struct{}
	once   sync.Once
}

func newFakeReader(values ...string) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(values)), closed: make(chan struct{})}
	for i, v := range values {
		r.msgs <- kafka.Message{Topic: "results", Offset: int64(i), Value: []byte(v)}
	}
	return r
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.msgs:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}

type fakeProcessor struct {
	mu     sync.Mutex
	builds []*core.BuildResults
}

func (p *fakeProcessor) Process(ctx context.Context, build *core.BuildResults) *core.Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.builds = append(p.builds, build)
	return &core.Report{ID: "r", Job: build.Job, ConfigJob: build.ConfigJob(), BuildNumber: build.BuildNumber}
}

func (p *fakeProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.builds)
}

type fakeProducer struct {
	mu      sync.Mutex
	reports []*core.Report
}

func (p *fakeProducer) Enqueue(ctx context.Context, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, payload.(*core.Report))
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reports)
}

func TestRunProcessesValidMessages(t *testing.T) {
	r := newFakeReader(
		`{"job":"acme","parent_job":"acme-matrix","build_number":3,"results":[{"name":"t","status":"failed"}]}`,
		`not json`,
		`{"build_number":4}`,
	)
	processor := &fakeProcessor{}
	reports := &fakeProducer{}
	c := newConsumer("results", r, processor, reports, lumber.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return reports.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}

	assert.Equal(t, 1, processor.count())
	assert.Equal(t, "acme", processor.builds[0].Job)
	assert.Equal(t, "acme-matrix", reports.reports[0].ConfigJob)
	select {
	case <-r.closed:
	default:
		t.Fatal("reader not closed")
	}
}

func TestHandleWithoutReportProducer(t *testing.T) {
	processor := &fakeProcessor{}
	c := newConsumer("results", newFakeReader(), processor, nil, lumber.NewNopLogger())

	c.handle(context.Background(), kafka.Message{Value: []byte(`{"job":"acme","build_number":1}`)})

	assert.Equal(t, 1, processor.count())
}

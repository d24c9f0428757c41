package resultqueue

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// reader is the subset of kafka.Reader the consumer needs.
type reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type consumer struct {
	topicName string
	reader    reader
	processor core.BuildProcessor
	reports   core.QueueProducer
	logger    lumber.Logger
	wg        sync.WaitGroup
}

// New returns a kafka consumer feeding build results to the processor. reports may be nil,
// in which case reports are only logged.
func New(cfg *config.Config, processor core.BuildProcessor, reports core.QueueProducer, logger lumber.Logger) core.QueueConsumer {
	// configure group balancer to RR
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:               strings.Split(cfg.Kafka.Brokers, ","),
		Topic:                 cfg.Kafka.ResultsConfig.Topic,
		ErrorLogger:           kafka.LoggerFunc(logger.Errorf),
		GroupID:               cfg.Kafka.ResultsConfig.ConsumerGroup,
		MaxBytes:              25e6, // 25MB
		WatchPartitionChanges: true,
		GroupBalancers:        []kafka.GroupBalancer{kafka.RoundRobinGroupBalancer{}}})
	logger.Infof("Kafka Consumer Group %s created successfully", cfg.Kafka.ResultsConfig.ConsumerGroup)
	return newConsumer(cfg.Kafka.ResultsConfig.Topic, r, processor, reports, logger)
}

func newConsumer(topic string, r reader, processor core.BuildProcessor, reports core.QueueProducer, logger lumber.Logger) *consumer {
	return &consumer{
		topicName: topic,
		reader:    r,
		processor: processor,
		reports:   reports,
		logger:    logger,
	}
}

// Run reads messages until ctx is cancelled, handling each one in its own goroutine.
// It waits for in-flight builds before closing the reader.
func (c *consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				break
			}
			c.logger.Errorf("Kafka ReadMessage of topic: %v failed: %v", c.topicName, err)
			continue
		}
		c.logger.Debugf("Kafka: Message received on partition: %d, offset: %d, topic: %s", msg.Partition, msg.Offset, msg.Topic)
		c.wg.Add(1)
		go func(msg kafka.Message) {
			defer c.wg.Done()
			c.handle(ctx, msg)
		}(msg)
	}

	c.wg.Wait()
	if err := c.Close(); err != nil {
		c.logger.Errorf("failed to close Kafka reader, error: %v", err)
	}
}

func (c *consumer) handle(ctx context.Context, msg kafka.Message) {
	build := new(core.BuildResults)
	if err := json.Unmarshal(msg.Value, build); err != nil {
		metrics.ConsumedMessages.WithLabelValues("invalid").Inc()
		c.logger.Errorf("Kafka: invalid build results on topic: %s, partition: %d, offset: %d, error: %v",
			msg.Topic, msg.Partition, msg.Offset, err)
		return
	}
	if build.Job == "" {
		metrics.ConsumedMessages.WithLabelValues("invalid").Inc()
		c.logger.Errorf("Kafka: build results without job on topic: %s, partition: %d, offset: %d", msg.Topic, msg.Partition, msg.Offset)
		return
	}
	metrics.ConsumedMessages.WithLabelValues("processed").Inc()

	report := c.processor.Process(ctx, build)
	c.logger.Infof("processed build %d of job %s: %d outcomes, %d created, %d resolved",
		report.BuildNumber, report.Job, len(report.Outcomes),
		report.Count(core.OutcomeCreated), report.Count(core.OutcomeResolved))
	if c.reports == nil {
		return
	}
	// publish even when the build was interrupted by shutdown
	if err := c.reports.Enqueue(context.WithoutCancel(ctx), report); err != nil {
		c.logger.Errorf("failed to publish report %s of job %s, error: %v", report.ID, report.Job, err)
	}
}

func (c *consumer) Close() error {
	return c.reader.Close()
}

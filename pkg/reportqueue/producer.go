package reportqueue

import (
	"context"
	"strings"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writer is the subset of kafka.Writer the producer needs.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type producer struct {
	topicName string
	writer    writer
	logger    lumber.Logger
}

// NewProducer returns a producer publishing lifecycle reports.
func NewProducer(cfg *config.Config, logger lumber.Logger) core.QueueProducer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:          strings.Split(cfg.Kafka.Brokers, ","),
		Topic:            cfg.Kafka.ReportTopic,
		ErrorLogger:      kafka.LoggerFunc(logger.Errorf),
		Balancer:         &kafka.Hash{}, // reports of one job stay ordered on one partition
		CompressionCodec: kafka.Snappy.Codec(),
		RequiredAcks:     int(kafka.RequireOne), // will wait for acknowledgement from only master.
	})
	logger.Infof("Kafka Producer connection created successfully for topic %s", w.Topic)
	return &producer{topicName: w.Topic, writer: w, logger: logger}
}

func (p *producer) Enqueue(ctx context.Context, item interface{}) error {
	report, ok := item.(*core.Report)
	if !ok {
		p.logger.Errorf("Invalid report queue payload %v", item)
		return errs.ErrInvalidQueuePayload
	}
	rawMessage, err := json.Marshal(report)
	if err != nil {
		p.logger.Errorf("failed to marshal report %s of job %s, error: %v", report.ID, report.Job, err)
		return err
	}
	msg := kafka.Message{Key: []byte(report.ConfigJob), Value: rawMessage}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Errorf("failed to write message in kafka topic %s, report %s, error: %v", p.topicName, report.ID, err)
		return err
	}
	return nil
}

func (p *producer) Close() error {
	return p.writer.Close()
}

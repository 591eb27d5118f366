package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gschone-data/pySurf/internal/config"
	"github.com/gschone-data/pySurf/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the part of kafkago.Writer the adapter uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes consolidated slots to a Kafka topic, one message per slot.
// It implements pipeline.ReportSink.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured slot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// SlotMessage is the JSON value of a published slot.
type SlotMessage struct {
	Region      string    `json:"region"`
	SlotTime    time.Time `json:"slot_time"`
	Date        string    `json:"date"`
	TimeOfDay   string    `json:"time_of_day"`
	BestRating  int       `json:"best_rating"`
	Spots       []string  `json:"spots"`
	WaveHeight  float64   `json:"wave_height"`
	WaveDir     string    `json:"wave_dir,omitempty"`
	Period      int       `json:"period"`
	WindSpeed   int       `json:"wind_speed"`
	WindDir     string    `json:"wind_dir,omitempty"`
	WindState   string    `json:"wind_state,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publish serializes every slot of the report and writes them in a single
// WriteMessages call. Keys are region and slot so a compacted topic keeps
// the latest forecast of each slot.
func (w *Writer) Publish(ctx context.Context, report domain.Report) error {
	if len(report.Slots) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(report.Slots))
	for i := range report.Slots {
		msg, err := serializeSlot(report, report.Slots[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d slot messages: %w", len(msgs), err)
	}
	w.logger.Debug("slots published", "region", report.Region.Slug, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeSlot marshals one consolidated slot into a Kafka message.
func serializeSlot(report domain.Report, slot domain.ConsolidatedSlot) (kafkago.Message, error) {
	data, err := json.Marshal(SlotMessage{
		Region:      report.Region.Slug,
		SlotTime:    slot.Key.Time(),
		Date:        slot.Key.Date.Format(time.DateOnly),
		TimeOfDay:   slot.TimeOfDay,
		BestRating:  slot.BestRating,
		Spots:       slot.Spots,
		WaveHeight:  slot.WaveHeight,
		WaveDir:     slot.WaveDir,
		Period:      slot.Period,
		WindSpeed:   slot.WindSpeed,
		WindDir:     slot.WindDir,
		WindState:   slot.WindState,
		GeneratedAt: report.GeneratedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize slot %s: %w", slot.Key, err)
	}
	return kafkago.Message{
		Key:   []byte(report.Region.Slug + "|" + slot.Key.String()),
		Value: data,
		Time:  report.GeneratedAt,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(report.Region.Slug)},
			{Key: "generated_at", Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}

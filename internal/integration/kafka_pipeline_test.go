//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gschone-data/pySurf/internal/adapter/kafka"
	"github.com/gschone-data/pySurf/internal/config"
	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/gschone-data/pySurf/internal/observability"
	"github.com/gschone-data/pySurf/internal/pipeline"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-surf-slots"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// fixedExtractor serves canned tables keyed by spot.
type fixedExtractor struct {
	mu     sync.Mutex
	tables map[string]domain.RawSpotTable
}

func (f *fixedExtractor) ExtractSpot(_ context.Context, spot string) (domain.RawSpotTable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[spot]
	if !ok {
		return domain.RawSpotTable{}, fmt.Errorf("no page for %s", spot)
	}
	return table, nil
}

type slotRecord struct {
	Slot    kafka.SlotMessage
	Key     string
	Headers map[string]string
}

func readSlot(ctx context.Context, t *testing.T, consumer *kafkago.Reader) slotRecord {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from slot topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var slot kafka.SlotMessage
	require.NoError(t, json.Unmarshal(msg.Value, &slot), "unmarshal slot message")

	return slotRecord{Slot: slot, Key: string(msg.Key), Headers: headers}
}

// TestRegionRunPublishesSlots runs a full region pass with the Kafka writer
// as sink and checks the consolidated slots read back from the topic.
func TestRegionRunPublishesSlots(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	extractor := &fixedExtractor{tables: map[string]domain.RawSpotTable{
		"La-Sauzaie": {
			Spot:    "La-Sauzaie",
			Days:    []string{"Sam_18", "Sam_18", "Dim_19"},
			Times:   []string{"matin", "après-midi", "matin"},
			Ratings: []string{"2", "4", "!"},
			Waves:   []string{"1.2WNW", "1.8W", "3.5W"},
			Periods: []string{"10", "12", "15"},
		},
		"Sion": {
			Spot:    "Sion",
			Days:    []string{"Sam_18", "Sam_18", "Dim_19"},
			Times:   []string{"matin", "après-midi", "matin"},
			Ratings: []string{"3", "4", "1"},
			Waves:   []string{"1.4W", "2.0W", "3.0W"},
			Periods: []string{"11", "13", "14"},
		},
	}}

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 18, 6, 0, 0, 0, time.UTC))
	p := pipeline.New(extractor, discardLogger(), observability.NewMetricsForTesting(),
		pipeline.WithClock(clock),
		pipeline.WithSink("kafka", writer),
	)

	region := domain.Region{Slug: "vendee", Name: "Vendee", Spots: []string{"La-Sauzaie", "Sion"}}
	report, err := p.RunRegion(ctx, region)
	require.NoError(t, err)
	require.Len(t, report.Slots, 3)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]slotRecord, len(report.Slots))
	for len(received) < len(report.Slots) {
		rec := readSlot(ctx, t, consumer)
		received[rec.Key] = rec
	}

	morning, ok := received["vendee|2024-05-18 09:00"]
	require.True(t, ok, "missing saturday morning slot")
	assert.Equal(t, 3, morning.Slot.BestRating)
	assert.Equal(t, []string{"Sion"}, morning.Slot.Spots)
	assert.Equal(t, "vendee", morning.Headers["region"])
	_, err = time.Parse(time.RFC3339, morning.Headers["generated_at"])
	assert.NoError(t, err, "generated_at should be valid RFC3339")

	afternoon, ok := received["vendee|2024-05-18 15:00"]
	require.True(t, ok, "missing saturday afternoon slot")
	assert.Equal(t, 4, afternoon.Slot.BestRating)
	assert.Equal(t, []string{"La-Sauzaie", "Sion"}, afternoon.Slot.Spots)
	assert.Equal(t, 2.0, afternoon.Slot.WaveHeight)
	assert.Equal(t, 13, afternoon.Slot.Period)
	assert.Equal(t, time.Date(2024, 5, 18, 15, 0, 0, 0, time.UTC), afternoon.Slot.SlotTime.UTC())

	sunday, ok := received["vendee|2024-05-19 09:00"]
	require.True(t, ok, "missing sunday morning slot")
	assert.Equal(t, 1, sunday.Slot.BestRating)
	assert.Equal(t, []string{"Sion"}, sunday.Slot.Spots)
}

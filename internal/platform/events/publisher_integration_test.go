//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"courier/internal/platform/events"
	"courier/pkg/testutil/containers"
)

const testTopic = "subscription-events"

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda  *containers.RedpandaContainer
	publisher *events.KafkaPublisher
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())

	admin, err := kgo.NewClient(kgo.SeedBrokers(s.redpanda.Brokers...))
	s.Require().NoError(err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopic(context.Background(), 1, 1, nil, testTopic)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.publisher, err = events.NewKafkaPublisher(s.redpanda.Brokers, testTopic, logger)
	s.Require().NoError(err)
	s.T().Cleanup(s.publisher.Close)
}

func (s *KafkaPublisherSuite) TestPublishedEventIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subscriberID := uuid.Must(uuid.NewV7())
	occurred := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	event := events.Event{
		Type:         events.TypeSubscriptionCreated,
		SubscriberID: subscriberID,
		OccurredAt:   occurred,
	}
	s.Require().NoError(s.publisher.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(testTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().NotEmpty(records)

	record := records[0]
	s.Equal(subscriberID.String(), string(record.Key))

	var decoded events.Event
	s.Require().NoError(json.Unmarshal(record.Value, &decoded))
	s.Equal(events.TypeSubscriptionCreated, decoded.Type)
	s.Equal(subscriberID, decoded.SubscriberID)
	s.True(decoded.OccurredAt.Equal(occurred))
}

func (s *KafkaPublisherSuite) TestDisabledWhenNoBrokers() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, err := events.NewKafkaPublisher(nil, testTopic, logger)
	s.Require().NoError(err)
	s.Nil(publisher)
}

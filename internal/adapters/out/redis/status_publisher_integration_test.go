package redis_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	redisadapter "medmarket/internal/adapters/out/redis"
	"medmarket/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const channel = "medmarket.status-changed"

type StatusPublisherIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *goredis.Client
	publisher *redisadapter.StatusPublisher
}

func (suite *StatusPublisherIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "6379")
	suite.Require().NoError(err)

	client, err := redisadapter.NewClient(ctx, redisadapter.Config{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	suite.Require().NoError(err)
	suite.client = client
	suite.publisher = redisadapter.NewStatusPublisher(client, channel)
}

func (suite *StatusPublisherIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *StatusPublisherIntegrationTestSuite) TestPublish_DeliversEventsInOrder() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub := suite.client.Subscribe(ctx, channel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	suite.Require().NoError(err)

	id := kernel.NewUUID()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	err = suite.publisher.Publish(ctx,
		kernel.StatusChanged{AggregateID: id, AggregateKind: "lab order", From: "PendingPayment", To: "PaidPendingLabConfirmation", OccurredAt: at},
		kernel.StatusChanged{AggregateID: id, AggregateKind: "lab order", From: "PaidPendingLabConfirmation", To: "ConfirmedByLab", OccurredAt: at},
	)
	suite.Require().NoError(err)

	var got []redisadapter.StatusChangedMessage
	for range 2 {
		msg, err := sub.ReceiveMessage(ctx)
		suite.Require().NoError(err)

		var m redisadapter.StatusChangedMessage
		suite.Require().NoError(json.Unmarshal([]byte(msg.Payload), &m))
		got = append(got, m)
	}

	suite.Equal(id.String(), got[0].AggregateID)
	suite.Equal("PaidPendingLabConfirmation", got[0].To)
	suite.Equal("ConfirmedByLab", got[1].To)
	suite.True(at.Equal(got[1].OccurredAt))
}

func (suite *StatusPublisherIntegrationTestSuite) TestPublish_NoEvents() {
	suite.Require().NoError(suite.publisher.Publish(context.Background()))
}

func TestStatusPublisherIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StatusPublisherIntegrationTestSuite))
}

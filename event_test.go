package kitchen

import (
	"encoding/json"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/kitchen/driver"
	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

func TestEventManagerDisabledWithoutConnection(t *testing.T) {
	em := NewEventManager(nil, "line-1", zap.NewNop())
	assert.NoError(t, em.Publish(models.NewEvent(enum.ActionConfirm, 2, "line-1")))
	assert.NoError(t, em.SubscribeToEvents(nil))
	assert.NoError(t, em.Close())

	var nilManager *EventManager
	assert.NoError(t, nilManager.Publish(models.NewEvent(enum.ActionConfirm, 2, "line-1")))
	assert.NoError(t, nilManager.Close())
}

func TestEventHandlerRefreshesForOtherTerminals(t *testing.T) {
	var n int32
	wp := NewWorkerPool(1, countingRefresher(&n), time.Second, zap.NewNop())
	em := NewEventManager(nil, "line-1", zap.NewNop())
	handle := em.handler(wp)

	own, err := json.Marshal(models.NewEvent(enum.ActionConfirm, 2, "line-1"))
	require.NoError(t, err)
	other, err := json.Marshal(models.NewEvent(enum.ActionSoftDelete, 3, "line-2"))
	require.NoError(t, err)

	handle(&nats.Msg{Subject: "kitchen.order.confirm", Data: own})
	handle(&nats.Msg{Subject: "kitchen.order.softDelete", Data: other})
	handle(&nats.Msg{Subject: "kitchen.order.restore", Data: []byte("{not json")})
	wp.Shutdown()

	assert.Equal(t, int32(1), atomic.LoadInt32(&n))
}

func TestEventManagerOverNATS(t *testing.T) {
	url := os.Getenv("KITCHEN_TEST_NATS_URL")
	if url == "" {
		t.Skip("KITCHEN_TEST_NATS_URL not set")
	}

	logger := zap.NewNop()
	pub, err := driver.ConnectNATS(url, "line-1", logger)
	require.NoError(t, err)
	defer pub.Close()
	sub, err := driver.ConnectNATS(url, "line-2", logger)
	require.NoError(t, err)
	defer sub.Close()

	var n int32
	wp := NewWorkerPool(1, countingRefresher(&n), time.Second, logger)
	defer wp.Shutdown()

	listener := NewEventManager(sub, "line-2", logger)
	require.NoError(t, listener.SubscribeToEvents(wp))
	defer listener.Close()
	require.NoError(t, sub.Flush())

	require.NoError(t, NewEventManager(pub, "line-1", logger).Publish(models.NewEvent(enum.ActionConfirm, 2, "line-1")))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&n) == 1 }, 2*time.Second, 10*time.Millisecond)
}

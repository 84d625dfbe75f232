package roomba_service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
)

// fakeLink отдает заранее подготовленные результаты подключений
type fakeLink struct {
	mu        sync.Mutex
	results   []error
	connected bool
	attempts  int
}

func (f *fakeLink) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if f.attempts < len(f.results) {
		err = f.results[f.attempts]
	}
	f.attempts++
	f.connected = err == nil
	return err
}

func (f *fakeLink) Disconnect() {
	f.mu.Lock()
	f.connected = false
	f.mu.Unlock()
}

func (f *fakeLink) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func newTestConnectionManager(link robotLink, continuous bool) *ConnectionManager {
	cfg := &config.RobotConfig{
		Address:    "127.0.0.1",
		Blid:       "testblid",
		Name:       "TestBot",
		Continuous: continuous,
		DelayMs:    5,
	}
	logger := logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
	return NewConnectionManager(cfg, link, logger)
}

func TestConnectRejectsSecondCall(t *testing.T) {
	link := &fakeLink{}
	cm := newTestConnectionManager(link, true)

	require.NoError(t, cm.Connect())
	assert.True(t, cm.IsConnected())

	err := cm.Connect()
	assert.Error(t, err, "повторное подключение должно отклоняться")
}

func TestPeriodicReconnectFailureReportsLoss(t *testing.T) {
	// первое подключение успешно, переподключение в цикле падает
	link := &fakeLink{results: []error{nil, errors.New("dial timeout")}}
	cm := newTestConnectionManager(link, false)

	require.NoError(t, cm.Connect())
	require.True(t, cm.IsConnected())

	// цикл отпускает подключение не сам: имитируем обрыв со стороны робота
	link.Disconnect()

	deadline := time.Now().Add(2 * time.Second)
	for cm.IsConnected() || cm.loopActive() {
		if time.Now().After(deadline) {
			t.Fatal("цикл должен остановиться после неудачного переподключения")
		}
		time.Sleep(time.Millisecond)
	}

	assert.False(t, cm.IsConnected())

	// состояние полностью отпущено, новое подключение разрешено
	link.mu.Lock()
	link.results = []error{nil}
	link.attempts = 0
	link.mu.Unlock()
	assert.NoError(t, cm.Connect())
}

func TestDisconnectStopsPeriodicLoop(t *testing.T) {
	link := &fakeLink{}
	cm := newTestConnectionManager(link, false)

	require.NoError(t, cm.Connect())
	require.NoError(t, cm.Disconnect())

	deadline := time.Now().Add(2 * time.Second)
	for cm.loopActive() {
		if time.Now().After(deadline) {
			t.Fatal("цикл должен остановиться после Disconnect")
		}
		time.Sleep(time.Millisecond)
	}
	assert.False(t, cm.IsConnected())
}

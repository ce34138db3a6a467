package publish

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/i474232898/nws-weather/internal/weather"
)

type fakeToken struct {
	mqtt.Token
	done bool
	err  error
}

func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mqtt.Client
	calls        []publishCall
	token        *fakeToken
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.calls = append(c.calls, publishCall{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestPublishState(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: true}}
	p := newPublisher(client, MQTTConfig{Topic: DefaultTopic("KBOS"), QoS: 1, Retained: true}, zap.NewNop().Sugar())

	state := weather.State{Station: "KBOS", Condition: weather.ConditionCloudy}
	p.Listener()(state)

	if len(client.calls) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(client.calls))
	}
	call := client.calls[0]
	if call.topic != "nws/kbos/state" || call.qos != 1 || !call.retained {
		t.Fatalf("unexpected publish %+v", call)
	}

	var got weather.State
	if err := json.Unmarshal(call.payload, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.Station != "KBOS" || got.Condition != weather.ConditionCloudy {
		t.Fatalf("unexpected payload %+v", got)
	}

	p.Close()
	if !client.disconnected {
		t.Fatalf("expected Close to disconnect")
	}
}

func TestPublishErrors(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: false}}
	p := newPublisher(client, MQTTConfig{Topic: "t", Timeout: time.Millisecond}, zap.NewNop().Sugar())
	if err := p.Publish(weather.State{}); !errors.Is(err, errPublishTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}

	brokerErr := errors.New("not authorized")
	client.token = &fakeToken{done: true, err: brokerErr}
	if err := p.Publish(weather.State{}); !errors.Is(err, brokerErr) {
		t.Fatalf("expected broker error, got %v", err)
	}
}

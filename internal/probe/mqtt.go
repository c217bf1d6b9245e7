package probe

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTResult summarizes a direct broker connection attempt.
type MQTTResult struct {
	Connected bool
	Detail    string
}

// MQTT connects straight to the broker with a bounded timeout and
// disconnects immediately. It only verifies reachability and credentials,
// nothing about topics.
func MQTT(broker string, port int, username, password string, timeout time.Duration) MQTTResult {
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port)).
		SetClientID(fmt.Sprintf("iaction-cli-probe-%d", time.Now().UnixNano())).
		SetConnectTimeout(timeout).
		SetConnectRetry(false)
	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(timeout) {
		return MQTTResult{Detail: fmt.Sprintf("no answer from %s:%d within %s", broker, port, timeout)}
	}
	if err := token.Error(); err != nil {
		return MQTTResult{Detail: fmt.Sprintf("connect failed: %v", err)}
	}
	defer c.Disconnect(250)

	return MQTTResult{
		Connected: true,
		Detail:    fmt.Sprintf("connected to %s:%d", broker, port),
	}
}

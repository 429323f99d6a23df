package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilBus(t *testing.T) {
	var b *Bus
	assert.False(t, b.Connected())
	assert.Error(t, b.Publish(context.Background(), SubjectCreated, map[string]string{"code": "ABC123"}))
	assert.NotPanics(t, func() {
		b.Emit(context.Background(), SubjectCreated, nil)
		b.Close()
	})
}

func TestNew_Unreachable(t *testing.T) {
	_, err := New("nats://127.0.0.1:1")
	assert.Error(t, err)
}

package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualify(t *testing.T) {
	assert.Equal(t, "listing.created", qualify("", "listing.created"))
	assert.Equal(t, "cleanout.listing.created", qualify("cleanout", "listing.created"))
}

func TestNewNATSPublisher_NilConnection(t *testing.T) {
	_, err := NewNATSPublisher(nil, "cleanout")
	require.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.Publish(context.Background(), "listing.created", map[string]string{"id": "1"}))
	assert.NoError(t, p.PublishRaw(context.Background(), "listing.created", []byte("{}")))
}
